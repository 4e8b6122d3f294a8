package db

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/gatekeeper/internal/server/users"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRepositoryManager_EmptyDSNUsesMemory(t *testing.T) {
	m, err := NewRepositoryManager(context.Background(), "")
	require.NoError(t, err)

	_, ok := m.(*InMemoryRepositoryManager)
	require.True(t, ok)
	assert.Nil(t, m.Conn())
	assert.NoError(t, m.RunMigrations(context.Background()))
	assert.IsType(t, &users.MemoryRepository{}, m.Users())
	assert.NoError(t, m.Close())
}

func TestInMemoryRepositoryManager_SharesOneRepository(t *testing.T) {
	m := NewInMemoryRepositoryManager()
	ctx := context.Background()

	_, err := m.Users().Create(ctx, &users.User{Email: "a@example.com"})
	require.NoError(t, err)

	_, err = m.Users().GetByEmail(ctx, "a@example.com")
	require.NoError(t, err)
}

func TestPostgresRepositoryManager_WiresHandle(t *testing.T) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)

	m := newPostgresManager(conn)
	assert.Same(t, conn, m.Conn())
	assert.IsType(t, &users.PostgresRepository{}, m.Users())

	mock.ExpectClose()
	require.NoError(t, m.Close())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestNewRepositoryManager_UnreachablePostgres(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	m, err := NewRepositoryManager(ctx, "postgres://u:p@127.0.0.1:1/none?sslmode=disable&connect_timeout=1")
	require.Error(t, err)
	assert.Nil(t, m)
}
