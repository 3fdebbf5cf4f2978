//go:build database

// Package integration contains database integration tests for pivot.
// These tests are excluded from normal test runs due to build tags.
// To run these tests: go test -tags database ./integration
package integration

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/annolab/pivot/internal/iostore"
	"github.com/annolab/pivot/schema"
)

// TestResultStoreWithMySQL round-trips annotation data through a MySQL store.
func TestResultStoreWithMySQL(t *testing.T) {
	ctx := context.Background()

	// Start MySQL container
	req := testcontainers.ContainerRequest{
		Image:        "mysql:8",
		ExposedPorts: []string{"3306:3306/tcp"},
		Env: map[string]string{
			"MYSQL_ROOT_PASSWORD": "secret123",
			"MYSQL_DATABASE":      "pivot",
		},
		WaitingFor: wait.ForLog("port: 3306  MySQL Community Server").WithStartupTimeout(30 * time.Second),
	}
	mysqlC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	defer func() { _ = mysqlC.Terminate(ctx) }()

	// Get connection details
	host, err := mysqlC.Host(ctx)
	require.NoError(t, err)
	port, err := mysqlC.MappedPort(ctx, "3306")
	require.NoError(t, err)

	connStr := fmt.Sprintf("root:secret123@tcp(%s:%s)/pivot?parseTime=true", host, port.Port())
	exerciseStore(t, schema.MySQLBackend, connStr)
}

// TestResultStoreWithPostgres round-trips annotation data through a PostgreSQL store.
func TestResultStoreWithPostgres(t *testing.T) {
	ctx := context.Background()

	// Start Postgres container
	req := testcontainers.ContainerRequest{
		Image:        "postgres:18-alpine",
		ExposedPorts: []string{"5432:5432/tcp"},
		Env: map[string]string{
			"POSTGRES_HOST_AUTH_METHOD": "trust",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").WithStartupTimeout(30 * time.Second),
	}
	pgC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	defer func() { _ = pgC.Terminate(ctx) }()
	time.Sleep(5 * time.Second)

	// Get connection details
	host, err := pgC.Host(ctx)
	require.NoError(t, err)
	port, err := pgC.MappedPort(ctx, "5432")
	require.NoError(t, err)

	connStr := fmt.Sprintf("host=%s port=%s user=postgres dbname=postgres", host, port.Port())
	exerciseStore(t, schema.PostgreSQLBackend, connStr)
}

// exerciseStore runs the full save/load/status/clear cycle against one backend.
func exerciseStore(t *testing.T, backend schema.DatabaseBackend, connStr string) {
	t.Helper()

	store, err := iostore.NewResultStore(backend, connStr)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	require.NoError(t, store.SaveSchemas([]schema.AnnotationSchema{
		{ID: 7, Name: "sentiment", OutputContract: map[string]any{
			"properties": map[string]any{
				"sentiment": map[string]any{"type": "string"},
			},
		}},
	}))
	require.NoError(t, store.SaveSources([]schema.Source{{ID: 1, Name: "Newswire"}}))
	require.NoError(t, store.SaveAssets([]schema.Asset{{ID: 10, Title: "Article A", SourceID: 1}}))
	require.NoError(t, store.SaveResults([]schema.AnnotationResult{
		{ID: 1, AssetID: 10, SchemaID: 7, RunID: 1,
			Value:     map[string]any{"sentiment": "Positive"},
			Status:    schema.StatusSuccess,
			Timestamp: time.Date(2024, 3, 5, 12, 0, 0, 0, time.UTC)},
		{ID: 2, AssetID: 10, SchemaID: 7, RunID: 2,
			Value:     map[string]any{"sentiment": "Negative"},
			Status:    schema.StatusSuccess,
			Timestamp: time.Date(2024, 4, 5, 12, 0, 0, 0, time.UTC)},
	}))

	// Saving the same result twice must upsert, not duplicate
	require.NoError(t, store.SaveResults([]schema.AnnotationResult{
		{ID: 1, AssetID: 10, SchemaID: 7, RunID: 1,
			Value:     map[string]any{"sentiment": "Positive"},
			Status:    schema.StatusSuccess,
			Timestamp: time.Date(2024, 3, 5, 12, 0, 0, 0, time.UTC)},
	}))

	all, err := store.LoadResults(0)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Positive", all[0].Value["sentiment"])

	scoped, err := store.LoadResults(2)
	require.NoError(t, err)
	require.Len(t, scoped, 1)
	assert.Equal(t, int64(2), scoped[0].ID)

	schemas, err := store.LoadSchemas()
	require.NoError(t, err)
	require.Len(t, schemas, 1)
	assert.Equal(t, "sentiment", schemas[0].Name)

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, backend, status.Backend)
	assert.Equal(t, int64(2), status.Results)
	assert.True(t, status.Connected)

	require.NoError(t, store.Clear())
	cleared, err := store.LoadResults(0)
	require.NoError(t, err)
	assert.Empty(t, cleared)
}
