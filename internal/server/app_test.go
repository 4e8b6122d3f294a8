package server

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/gatekeeper/internal/common"
	"github.com/dmitrijs2005/gatekeeper/internal/server/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(addr string) *config.Config {
	c := &config.Config{}
	c.LoadDefaults()
	c.Addr = addr
	c.LogLevel = "error"
	return c
}

func TestNewApp_SeedsAdmin(t *testing.T) {
	app, err := NewApp(testConfig("127.0.0.1:0"))
	require.NoError(t, err)
	defer app.repos.Close()

	ts := httptest.NewServer(app.server.Handler)
	defer ts.Close()

	resp, err := http.Post(ts.URL+common.LoginPath, "application/json",
		strings.NewReader(`{"email":"admin@example.com","password":"admin123"}`))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestNewApp_BadDSN(t *testing.T) {
	c := testConfig("127.0.0.1:0")
	c.DatabaseDSN = "postgres://u:p@127.0.0.1:1/none?sslmode=disable&connect_timeout=1"

	_, err := NewApp(c)
	require.Error(t, err)
}

func TestRun_StopsOnCancel(t *testing.T) {
	app, err := NewApp(testConfig("127.0.0.1:0"))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()

	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestRun_ListenError(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	app, err := NewApp(testConfig(ln.Addr().String()))
	require.NoError(t, err)

	err = app.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "listen")
}
