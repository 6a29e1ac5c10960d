//go:build integration

package postgres

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/vadimbarashkov/shortlink/internal/entity"
	"github.com/vadimbarashkov/shortlink/migrations"
	"github.com/vadimbarashkov/shortlink/pkg/database"
)

func setupPostgres(t testing.TB) string {
	t.Helper()

	ctx := context.Background()

	pgCont, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image: "postgres:16-alpine",
			Env: map[string]string{
				"POSTGRES_USER":     "test",
				"POSTGRES_PASSWORD": "test",
				"POSTGRES_DB":       "shortlink",
			},
			ExposedPorts: []string{"5432/tcp"},
			WaitingFor:   wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("Failed to start postgres container: %v", err)
	}
	t.Cleanup(func() {
		if err := pgCont.Terminate(ctx); err != nil {
			t.Errorf("Failed to terminate postgres container: %v", err)
		}
	})

	host, err := pgCont.Host(ctx)
	if err != nil {
		t.Fatalf("Failed to get container host: %v", err)
	}
	port, err := pgCont.MappedPort(ctx, "5432")
	if err != nil {
		t.Fatalf("Failed to get container port: %v", err)
	}

	return fmt.Sprintf("postgres://test:test@%s:%d/shortlink?sslmode=disable", host, port.Int())
}

func setupIntegrationRepository(t testing.TB) *ShortlinkRepository {
	t.Helper()

	dsn := setupPostgres(t)

	if err := database.Migrate(migrations.FS, migrations.PostgresDir, dsn); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	db, err := database.Connect(context.Background(), dsn)
	if err != nil {
		t.Fatalf("Failed to connect to database: %v", err)
	}
	t.Cleanup(func() {
		db.Close()
	})

	return NewShortlinkRepository(db)
}

func TestShortlinkRepository_Integration(t *testing.T) {
	repo := setupIntegrationRepository(t)
	ctx := context.Background()

	link := &entity.Shortlink{
		FullURL:   "https://example.com",
		ShortURL:  "abc123",
		AdminKey:  "0123456789abcdef",
		CreatedAt: 1700000000,
	}

	exists, err := repo.Exists(ctx, link.ShortURL)
	require.NoError(t, err)
	assert.False(t, exists)

	saved, err := repo.Save(ctx, link)
	require.NoError(t, err)
	assert.Equal(t, *link, *saved)

	_, err = repo.Save(ctx, &entity.Shortlink{FullURL: "https://other.com", ShortURL: "abc123", AdminKey: "x"})
	assert.ErrorIs(t, err, entity.ErrShortCodeExists)

	for i := 0; i < 3; i++ {
		fullURL, err := repo.RetrieveAndIncrement(ctx, link.ShortURL)
		require.NoError(t, err)
		assert.Equal(t, link.FullURL, fullURL)
	}

	stats, err := repo.RetrieveByKey(ctx, link.ShortURL, link.AdminKey)
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.AccessCount)

	_, err = repo.RetrieveByKey(ctx, link.ShortURL, "wrong")
	assert.ErrorIs(t, err, entity.ErrShortlinkNotFound)

	require.NoError(t, repo.Remove(ctx, link.ShortURL, link.AdminKey))
	require.NoError(t, repo.Remove(ctx, link.ShortURL, link.AdminKey))

	_, err = repo.RetrieveAndIncrement(ctx, link.ShortURL)
	assert.ErrorIs(t, err, entity.ErrShortlinkNotFound)
}
