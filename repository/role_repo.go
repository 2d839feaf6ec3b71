package repository

import (
	"context"

	"freightbroker/models"
)

type RoleRepository interface {
	Get(ctx context.Context, name string) (*models.Role, error)
	Upsert(ctx context.Context, role *models.Role) error
	Delete(ctx context.Context, name string) (bool, error)
}
