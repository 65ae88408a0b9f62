//go:build integration
// +build integration

package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	_ "github.com/lib/pq"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// startPostgres spins up a Postgres container and returns a DSN and terminate func.
func startPostgres(t *testing.T) (dsn string, terminate func()) {
	t.Helper()
	ctx := context.Background()

	req := tc.ContainerRequest{
		Image:        "postgres:15-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_DB":       "fxpulse",
			"POSTGRES_USER":     "postgres",
			"POSTGRES_PASSWORD": "postgres",
		},
		WaitingFor: wait.ForSQL("5432/tcp", "postgres", func(host string, port nat.Port) string {
			return fmt.Sprintf("host=%s port=%s user=postgres password=postgres dbname=fxpulse sslmode=disable", host, port.Port())
		}).WithStartupTimeout(60 * time.Second),
	}

	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{ContainerRequest: req, Started: true})
	if err != nil {
		t.Fatalf("container start: %v", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("host: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("port: %v", err)
	}

	dsn = fmt.Sprintf("postgres://postgres:postgres@%s:%s/fxpulse?sslmode=disable", host, port.Port())
	terminate = func() { _ = container.Terminate(context.Background()) }
	return dsn, terminate
}

func TestPostgresStore_Integration_RoundTrip(t *testing.T) {
	dsn, terminate := startPostgres(t)
	defer terminate()

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer func() { _ = db.Close() }()
	if err := db.Ping(); err != nil {
		t.Fatalf("ping: %v", err)
	}
	if err := Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	s := NewPostgresStore(db)
	ctx := context.Background()

	if _, err := s.Load(ctx); !errors.Is(err, ErrNotFound) {
		t.Fatalf("fresh table: want ErrNotFound, got %v", err)
	}

	in := sampleRecords()
	if err := s.Save(ctx, in); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := s.Save(ctx, in); err != nil {
		t.Fatalf("second save: %v", err)
	}
	out, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(out) != len(in) {
		t.Fatalf("save must replace rows: want %d, got %d", len(in), len(out))
	}
	for i := range in {
		if in[i].Asset != out[i].Asset || !in[i].Price.Equal(out[i].Price) || in[i].Trend != out[i].Trend || in[i].ChangePct != out[i].ChangePct {
			t.Fatalf("row %d: saved %+v, loaded %+v", i, in[i], out[i])
		}
	}
}
