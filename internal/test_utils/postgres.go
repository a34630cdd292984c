package test_utils

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/klokku/eventcal/internal/config"
	"github.com/klokku/eventcal/internal/database"
	log "github.com/sirupsen/logrus"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
)

func preparePostgresContainer(ctx context.Context) (*postgres.PostgresContainer, error) {
	pgContainer, err := postgres.Run(
		ctx, "postgres:18.1-alpine",
		postgres.WithDatabase("eventcal"),
		postgres.WithUsername("test_eventcal"),
		postgres.WithPassword("test_eventcal"),
		postgres.BasicWaitStrategies(),
	)
	if err != nil {
		log.Printf("failed to start container: %s", err)
		return nil, err
	}
	return pgContainer, nil
}

// TestWithDB starts a Postgres instance, provisions the events schema and opens a pool against it.
// It is meant for TestMain; the returned func terminates the pool and the container.
func TestWithDB() (*pgxpool.Pool, string, func()) {
	ctx := context.Background()

	container, err := preparePostgresContainer(ctx)
	if err != nil {
		log.Fatalf("Failed to start postgres container: %v", err)
	}

	connString, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		log.Fatalf("Failed to get connection string: %v", err)
	}
	log.Infof("Postgres container started at %s", connString)

	if err := database.EnsureSchema(ctx, connString); err != nil {
		log.Fatalf("Failed to provision schema: %v", err)
	}

	pool, err := database.Open(ctx, config.Database{Url: connString, MaxConns: 4})
	if err != nil {
		log.Fatalf("Failed to open database connection: %v", err)
	}

	return pool, connString, func() {
		pool.Close()
		if err := testcontainers.TerminateContainer(container); err != nil {
			log.Errorf("failed to terminate postgres container: %v", err)
		}
	}
}

// ResetEvents empties the events table and restarts id generation so tests stay independent.
func ResetEvents(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()
	_, err := pool.Exec(context.Background(), "TRUNCATE TABLE events RESTART IDENTITY")
	if err != nil {
		t.Fatalf("Failed to truncate events: %v", err)
	}
}
