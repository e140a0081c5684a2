// Package testutil starts the containers used by integration tests.
package testutil

import (
	"context"
	"fmt"
	"time"

	"github.com/nikolayk812/marketplace/internal/migration"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
	"github.com/testcontainers/testcontainers-go/wait"
)

// StartPostgres runs a postgres container with the schema migrated to the latest version.
func StartPostgres(ctx context.Context) (testcontainers.Container, string, error) {
	container, err := postgres.Run(ctx,
		"postgres:17-alpine",
		postgres.WithDatabase("marketplace"),
		postgres.WithUsername("test_user"),
		postgres.WithPassword("test_password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		return nil, "", fmt.Errorf("postgres.Run: %w", err)
	}

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return container, "", fmt.Errorf("container.ConnectionString: %w", err)
	}

	if err := migration.Up(connStr); err != nil {
		return container, "", fmt.Errorf("migration.Up: %w", err)
	}

	return container, connStr, nil
}

// StartRedis runs a redis container and returns its host:port address.
func StartRedis(ctx context.Context) (testcontainers.Container, string, error) {
	container, err := tcredis.Run(ctx, "redis:7-alpine")
	if err != nil {
		return nil, "", fmt.Errorf("redis.Run: %w", err)
	}

	endpoint, err := container.Endpoint(ctx, "")
	if err != nil {
		return container, "", fmt.Errorf("container.Endpoint: %w", err)
	}

	return container, endpoint, nil
}
