//go:build integration

package containers

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"talentlink/internal/platform/config"
	"talentlink/internal/platform/postgres"
)

// PostgresContainer wraps a testcontainers Postgres instance with the schema applied.
type PostgresContainer struct {
	Container *tcpostgres.PostgresContainer
	DB        *sql.DB
}

func newPostgresContainer(ctx context.Context) (*PostgresContainer, error) {
	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("talentlink"),
		tcpostgres.WithUsername("talentlink"),
		tcpostgres.WithPassword("talentlink"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		return nil, err
	}
	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, err
	}
	db, err := postgres.Open(ctx, config.Postgres{DSN: dsn, MaxOpenConns: 20})
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, err
	}
	if err := postgres.Migrate(ctx, db); err != nil {
		_ = db.Close()
		_ = container.Terminate(ctx)
		return nil, err
	}
	return &PostgresContainer{Container: container, DB: db}, nil
}

// Reset empties every table.
func (p *PostgresContainer) Reset(t *testing.T) {
	t.Helper()
	if err := postgres.Truncate(context.Background(), p.DB); err != nil {
		t.Fatalf("failed to truncate tables: %v", err)
	}
}

// GetPostgresContainer returns the shared Postgres container, starting it on first use.
func GetPostgresContainer(t *testing.T) *PostgresContainer {
	t.Helper()
	pc, err := shared.postgres()
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}
	return pc
}
