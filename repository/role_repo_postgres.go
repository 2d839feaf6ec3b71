package repository

import (
	"context"
	"database/sql"
	"errors"

	"freightbroker/models"

	"github.com/lib/pq"
)

type PostgresRoleRepo struct {
	DB *sql.DB
}

func NewPostgresRoleRepo(db *sql.DB) *PostgresRoleRepo {
	return &PostgresRoleRepo{DB: db}
}

func (r *PostgresRoleRepo) Get(ctx context.Context, name string) (*models.Role, error) {
	role := &models.Role{Name: name}
	err := r.DB.QueryRowContext(ctx,
		`SELECT permissions FROM roles WHERE name = $1`, name).
		Scan(pq.Array(&role.Permissions))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return role, nil
}

func (r *PostgresRoleRepo) Upsert(ctx context.Context, role *models.Role) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO roles (name, permissions) VALUES ($1, $2)
		ON CONFLICT (name) DO UPDATE SET permissions = EXCLUDED.permissions
	`, role.Name, pq.Array(role.Permissions))
	return err
}

func (r *PostgresRoleRepo) Delete(ctx context.Context, name string) (bool, error) {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM roles WHERE name = $1`, name)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n == 1, err
}
