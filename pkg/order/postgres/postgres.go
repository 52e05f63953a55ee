// Package postgres implements the order archive over PostgreSQL.
package postgres

import (
	"context"
	"database/sql"

	"quickbite/pkg/order"
)

// Archive persists order records in PostgreSQL. The caller must ensure the
// database has an order_records table:
// CREATE TABLE IF NOT EXISTS order_records (order_id INT, customer TEXT, prep_minutes INT, status TEXT, recorded_at TIMESTAMPTZ);
type Archive struct {
	db *sql.DB
}

// New creates a PostgreSQL archive.
func New(db *sql.DB) *Archive {
	return &Archive{db: db}
}

// Create inserts a new record.
func (a *Archive) Create(ctx context.Context, rec order.Record) error {
	_, err := a.db.ExecContext(ctx,
		"INSERT INTO order_records (order_id, customer, prep_minutes, status, recorded_at) VALUES ($1,$2,$3,$4,$5)",
		rec.OrderID, rec.Customer, rec.PrepMinutes, rec.Status, rec.RecordedAt)
	return err
}

// List fetches records with the given status in insertion order. An empty
// status fetches everything.
func (a *Archive) List(ctx context.Context, status order.Status) ([]order.Record, error) {
	query := "SELECT order_id, customer, prep_minutes, status, recorded_at FROM order_records ORDER BY recorded_at"
	args := []any{}
	if status != "" {
		query = "SELECT order_id, customer, prep_minutes, status, recorded_at FROM order_records WHERE status=$1 ORDER BY recorded_at"
		args = append(args, status)
	}
	rows, err := a.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var recs []order.Record
	for rows.Next() {
		var rec order.Record
		if err := rows.Scan(&rec.OrderID, &rec.Customer, &rec.PrepMinutes, &rec.Status, &rec.RecordedAt); err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}
