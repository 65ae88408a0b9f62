package storage

import (
	"context"
	"database/sql"
	"fmt"

	pq "github.com/lib/pq"

	"github.com/guttosm/fxpulse/internal/domain/models"
)

// PostgresStore mirrors the workbook as a single table. Save replaces every
// row inside one transaction, which gives the same whole-table rewrite
// semantics as the file backend.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Load returns the rows in insertion order, or ErrNotFound when the table is empty.
func (s *PostgresStore) Load(ctx context.Context) ([]models.Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT captured_time, captured_date, asset, price, change_pct, trend_label, trend_icon
		FROM quote_records
		ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("%w: query: %v", ErrCorrupt, err)
	}
	defer func() { _ = rows.Close() }()

	var out []models.Record
	for rows.Next() {
		var r models.Record
		if err := rows.Scan(&r.Timestamp, &r.Date, &r.Asset, &r.Price, &r.ChangePct, &r.Trend, &r.Icon); err != nil {
			return nil, fmt.Errorf("%w: scan: %v", ErrCorrupt, err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: rows: %v", ErrCorrupt, err)
	}
	if len(out) == 0 {
		return nil, ErrNotFound
	}
	return out, nil
}

// Save replaces the table contents with records in a single transaction.
func (s *PostgresStore) Save(ctx context.Context, records []models.Record) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM quote_records`); err != nil {
		_ = tx.Rollback()
		return err
	}

	stmt, err := tx.PrepareContext(ctx, pq.CopyIn(
		"quote_records",
		"captured_time",
		"captured_date",
		"asset",
		"price",
		"change_pct",
		"trend_label",
		"trend_icon",
	))
	if err != nil {
		_ = tx.Rollback()
		return err
	}

	for _, r := range records {
		if _, err := stmt.ExecContext(ctx,
			r.Timestamp,
			r.Date,
			r.Asset,
			r.Price,
			r.ChangePct,
			r.Trend,
			r.Icon,
		); err != nil {
			_ = stmt.Close()
			_ = tx.Rollback()
			return err
		}
	}

	if _, err := stmt.ExecContext(ctx); err != nil {
		_ = stmt.Close()
		_ = tx.Rollback()
		return err
	}
	if err := stmt.Close(); err != nil {
		_ = tx.Rollback()
		return err
	}

	return tx.Commit()
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
