package repository

import (
	"context"
	"database/sql"
	"fmt"
)

// pgSequenceOwners mirrors sequenceOwners for the SQL backend. Table and
// column names are compile-time constants, never request input.
var pgSequenceOwners = map[string]struct {
	table  string
	column string
}{
	"loadNumber":      {"dispatches", "load_number"},
	"invoiceNumber":   {"dispatches", "invoice_number"},
	"WONumber":        {"dispatches", "wo_number"},
	"referenceNumber": {"trucks", "reference_number"},
}

type PostgresSequenceRepo struct {
	DB *sql.DB
}

func NewPostgresSequenceRepo(db *sql.DB) *PostgresSequenceRepo {
	return &PostgresSequenceRepo{DB: db}
}

// Next relies on the upsert being a single atomic statement; concurrent
// callers serialize on the counter row and each sees a distinct value.
func (r *PostgresSequenceRepo) Next(ctx context.Context, name string) (int64, error) {
	if _, ok := pgSequenceOwners[name]; !ok {
		return 0, fmt.Errorf("unknown sequence %q", name)
	}
	var value int64
	err := r.DB.QueryRowContext(ctx, `
		INSERT INTO sequences (name, value) VALUES ($1, 1)
		ON CONFLICT (name) DO UPDATE SET value = sequences.value + 1
		RETURNING value
	`, name).Scan(&value)
	return value, err
}

func (r *PostgresSequenceRepo) Raise(ctx context.Context, name string, value int64) error {
	if _, ok := pgSequenceOwners[name]; !ok {
		return fmt.Errorf("unknown sequence %q", name)
	}
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO sequences (name, value) VALUES ($1, $2)
		ON CONFLICT (name) DO UPDATE SET value = GREATEST(sequences.value, EXCLUDED.value)
	`, name, value)
	return err
}

func (r *PostgresSequenceRepo) ValueInUse(ctx context.Context, name string, value int64) (bool, error) {
	owner, ok := pgSequenceOwners[name]
	if !ok {
		return false, fmt.Errorf("unknown sequence %q", name)
	}
	var exists bool
	err := r.DB.QueryRowContext(ctx,
		fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE %s = $1)`, owner.table, owner.column),
		value).Scan(&exists)
	return exists, err
}
