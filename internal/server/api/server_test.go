package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/gatekeeper/internal/common"
	"github.com/dmitrijs2005/gatekeeper/internal/identity"
	"github.com/dmitrijs2005/gatekeeper/internal/logging"
	"github.com/dmitrijs2005/gatekeeper/internal/server/auth"
	"github.com/dmitrijs2005/gatekeeper/internal/server/users"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

type failingRepo struct {
	err error
}

func (f failingRepo) Create(context.Context, *users.User) (*users.User, error) { return nil, f.err }
func (f failingRepo) GetByEmail(context.Context, string) (*users.User, error)  { return nil, f.err }
func (f failingRepo) GetByID(context.Context, string) (*users.User, error)     { return nil, f.err }

// testServer returns a server with one active developer account.
func testServer(t *testing.T, production bool) (*Server, *users.User) {
	t.Helper()

	svc := users.NewService(users.NewMemoryRepository(), testSecret, time.Hour)
	u, err := svc.Register(context.Background(), "dev@example.com", "Dev", "secret1", identity.RoleDeveloper)
	require.NoError(t, err)

	return New(svc, logging.Nop(), production, "test"), u
}

func doRequest(t *testing.T, h http.Handler, method, path, body string, header http.Header) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	for k, v := range header {
		req.Header[k] = v
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func authCookieHeader(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	for _, v := range rec.Header().Values("Set-Cookie") {
		if strings.HasPrefix(v, common.AuthCookieName+"=") {
			return v
		}
	}
	t.Fatalf("no %s cookie in response", common.AuthCookieName)
	return ""
}

func TestHealth(t *testing.T) {
	srv, _ := testServer(t, false)

	rec := doRequest(t, srv.Handler(), http.MethodGet, common.HealthPath, "", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","version":"test"}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestRequestID_KeepsCallerValue(t *testing.T) {
	srv, _ := testServer(t, false)

	rec := doRequest(t, srv.Handler(), http.MethodGet, common.HealthPath, "", http.Header{"X-Request-Id": {"abc-123"}})

	assert.Equal(t, "abc-123", rec.Header().Get("X-Request-ID"))
}

func TestLogin_Success(t *testing.T) {
	srv, u := testServer(t, false)

	rec := doRequest(t, srv.Handler(), http.MethodPost, common.LoginPath, `{"email":"dev@example.com","password":"secret1"}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body loginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, u.ID, body.User.ID)
	assert.Equal(t, "dev@example.com", body.User.Email)
	assert.Equal(t, identity.RoleDeveloper, body.User.Role)
	assert.True(t, body.User.IsActive)
	require.NotEmpty(t, body.Token)

	claims, err := auth.ParseToken(body.Token, []byte(testSecret))
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.Identifier())

	cookie := authCookieHeader(t, rec)
	assert.Contains(t, cookie, common.AuthCookieName+"="+body.Token)
	assert.Contains(t, cookie, "Path=/")
	assert.Contains(t, cookie, "Max-Age=3600")
	assert.Contains(t, cookie, "HttpOnly")
	assert.Contains(t, cookie, "SameSite=Lax")
	assert.NotContains(t, cookie, "; Secure")
}

func TestLogin_ProductionCookieIsSecure(t *testing.T) {
	srv, _ := testServer(t, true)

	rec := doRequest(t, srv.Handler(), http.MethodPost, common.LoginPath, `{"email":"dev@example.com","password":"secret1"}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Contains(t, authCookieHeader(t, rec), "; Secure")
}

func TestLogin_Errors(t *testing.T) {
	srv, _ := testServer(t, false)

	tests := []struct {
		name    string
		body    string
		status  int
		message string
	}{
		{name: "bad json", body: `{"email":`, status: http.StatusBadRequest, message: "invalid request body"},
		{name: "missing password", body: `{"email":"dev@example.com"}`, status: http.StatusBadRequest, message: "password is required"},
		{name: "missing email", body: `{"password":"secret1"}`, status: http.StatusBadRequest, message: "email is required"},
		{name: "not an email", body: `{"email":"dev","password":"secret1"}`, status: http.StatusBadRequest, message: "invalid email address"},
		{name: "short password", body: `{"email":"dev@example.com","password":"nope"}`, status: http.StatusBadRequest, message: "password must be at least 6 characters"},
		{name: "wrong password", body: `{"email":"dev@example.com","password":"nope-nope"}`, status: http.StatusUnauthorized, message: users.ErrInvalidCredentials.Error()},
		{name: "unknown user", body: `{"email":"x@example.com","password":"secret1"}`, status: http.StatusUnauthorized, message: users.ErrInvalidCredentials.Error()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(t, srv.Handler(), http.MethodPost, common.LoginPath, tt.body, nil)

			require.Equal(t, tt.status, rec.Code)
			var body messageBody
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.message, body.Message)
			assert.Empty(t, rec.Header().Values("Set-Cookie"))
		})
	}
}

func TestLogin_StorageFailureIs500(t *testing.T) {
	srv := New(users.NewService(failingRepo{err: errors.New("db down")}, testSecret, time.Hour), logging.Nop(), false, "test")

	rec := doRequest(t, srv.Handler(), http.MethodPost, common.LoginPath, `{"email":"dev@example.com","password":"secret1"}`, nil)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestLogout_ExpiresCookie(t *testing.T) {
	srv, _ := testServer(t, false)

	rec := doRequest(t, srv.Handler(), http.MethodPost, common.LogoutPath, "", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true}`, rec.Body.String())

	cookie := authCookieHeader(t, rec)
	assert.Contains(t, cookie, "Max-Age=0")
	assert.Contains(t, cookie, "HttpOnly")
	assert.Contains(t, cookie, "Path=/")
}

func TestVerify(t *testing.T) {
	srv, u := testServer(t, false)
	h := srv.Handler()

	login := doRequest(t, h, http.MethodPost, common.LoginPath, `{"email":"dev@example.com","password":"secret1"}`, nil)
	require.Equal(t, http.StatusOK, login.Code)
	var lr loginResponse
	require.NoError(t, json.Unmarshal(login.Body.Bytes(), &lr))

	wantOK := `{"success":true,"data":{"userId":"` + u.ID + `","email":"dev@example.com","role":"developer","name":"Dev"}}`

	t.Run("bearer", func(t *testing.T) {
		rec := doRequest(t, h, http.MethodGet, common.VerifyPath, "", http.Header{"Authorization": {"Bearer " + lr.Token}})
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, wantOK, rec.Body.String())
	})

	t.Run("cookie", func(t *testing.T) {
		rec := doRequest(t, h, http.MethodGet, common.VerifyPath, "", http.Header{"Cookie": {common.AuthCookieName + "=" + lr.Token}})
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, wantOK, rec.Body.String())
	})

	t.Run("bearer wins over cookie", func(t *testing.T) {
		rec := doRequest(t, h, http.MethodGet, common.VerifyPath, "", http.Header{
			"Authorization": {"Bearer garbage"},
			"Cookie":        {common.AuthCookieName + "=" + lr.Token},
		})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("missing token", func(t *testing.T) {
		rec := doRequest(t, h, http.MethodGet, common.VerifyPath, "", nil)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.JSONEq(t, `{"success":false,"error":"not authenticated"}`, rec.Body.String())
	})

	t.Run("foreign signature", func(t *testing.T) {
		tok, err := auth.GenerateToken(u.Claims(), []byte("other"), time.Hour)
		require.NoError(t, err)

		rec := doRequest(t, h, http.MethodGet, common.VerifyPath, "", http.Header{"Authorization": {"Bearer " + tok}})
		require.Equal(t, http.StatusUnauthorized, rec.Code)

		var body failureBody
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.False(t, body.Success)
		assert.NotEmpty(t, body.Error)
	})

	t.Run("expired", func(t *testing.T) {
		tok, err := auth.GenerateToken(u.Claims(), []byte(testSecret), -time.Minute)
		require.NoError(t, err)

		rec := doRequest(t, h, http.MethodGet, common.VerifyPath, "", http.Header{"Authorization": {"Bearer " + tok}})
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.JSONEq(t, `{"success":false,"error":"token expired"}`, rec.Body.String())
	})
}

func TestVerify_StorageFailureIs500(t *testing.T) {
	srv := New(users.NewService(failingRepo{err: errors.New("db down")}, testSecret, time.Hour), logging.Nop(), false, "test")

	u := &users.User{ID: "u-1", Email: "a@example.com", Role: identity.RoleClient, IsActive: true}
	tok, err := auth.GenerateToken(u.Claims(), []byte(testSecret), time.Hour)
	require.NoError(t, err)

	rec := doRequest(t, srv.Handler(), http.MethodGet, common.VerifyPath, "", http.Header{"Authorization": {"Bearer " + tok}})

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"success":false,"error":"internal server error"}`, rec.Body.String())
}

func TestRecoveryMiddleware(t *testing.T) {
	srv, _ := testServer(t, false)

	h := srv.recoveryMiddleware(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	rec := doRequest(t, h, http.MethodGet, "/", "", nil)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"message":"internal server error"}`, rec.Body.String())
}

func TestRequestToken(t *testing.T) {
	tests := []struct {
		name   string
		header http.Header
		want   string
	}{
		{name: "none", header: http.Header{}, want: ""},
		{name: "bearer", header: http.Header{"Authorization": {"Bearer abc"}}, want: "abc"},
		{name: "lowercase scheme", header: http.Header{"Authorization": {"bearer abc"}}, want: "abc"},
		{name: "basic ignored", header: http.Header{"Authorization": {"Basic abc"}}, want: ""},
		{name: "cookie", header: http.Header{"Cookie": {common.AuthCookieName + "=xyz"}}, want: "xyz"},
		{name: "empty bearer falls back to cookie", header: http.Header{"Authorization": {"Bearer "}, "Cookie": {common.AuthCookieName + "=xyz"}}, want: "xyz"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, common.VerifyPath, nil)
			req.Header = tt.header
			assert.Equal(t, tt.want, requestToken(req))
		})
	}
}
