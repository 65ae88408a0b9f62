package app

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/guttosm/fxpulse/config"
)

var pgConfig = config.Config{Postgres: config.PostgresConfig{User: "u", Password: "p", Host: "h", Port: 5432, DBName: "d", SSLMode: "disable"}}

func TestInitPostgres_OpenError(t *testing.T) {
	old := sqlOpener
	sqlOpener = func(driverName, dataSourceName string) (*sql.DB, error) {
		return nil, errors.New("open failed")
	}
	t.Cleanup(func() { sqlOpener = old })

	if _, err := InitPostgres(pgConfig); err == nil {
		t.Fatalf("expected error from InitPostgres when open fails")
	}
}

func TestInitPostgres_PingError(t *testing.T) {
	old := sqlOpener
	sqlOpener = func(driverName, dataSourceName string) (*sql.DB, error) {
		db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
		if err != nil {
			t.Fatalf("sqlmock new: %v", err)
		}
		mock.ExpectPing().WillReturnError(errors.New("ping failed"))
		return db, nil
	}
	t.Cleanup(func() { sqlOpener = old })

	if _, err := InitPostgres(pgConfig); err == nil {
		t.Fatalf("expected ping error from InitPostgres")
	}
}

func TestInitPostgres_BuildsDSN(t *testing.T) {
	var gotDSN string
	old := sqlOpener
	sqlOpener = func(driverName, dataSourceName string) (*sql.DB, error) {
		gotDSN = dataSourceName
		db, _, err := sqlmock.New()
		return db, err
	}
	t.Cleanup(func() { sqlOpener = old })

	db, err := InitPostgres(pgConfig)
	if err != nil {
		t.Fatalf("InitPostgres: %v", err)
	}
	_ = db.Close()
	if gotDSN != "postgres://u:p@h:5432/d?sslmode=disable" {
		t.Fatalf("unexpected dsn %q", gotDSN)
	}
}
