package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"freightbroker/models"
	"freightbroker/query"

	"github.com/google/uuid"
)

type PostgresTruckRepo struct {
	DB *sql.DB
}

func NewPostgresTruckRepo(db *sql.DB) *PostgresTruckRepo {
	return &PostgresTruckRepo{DB: db}
}

const truckColumns = `id, reference_number, origin_str, origin_lat, origin_lng,
	destination_str, destination_lat, destination_lng,
	available_from, available_until, equipment, weight, length, all_in_rate,
	special_instructions, posted_by, broker_id, age, created_at, updated_at`

func scanTruck(row interface{ Scan(...any) error }) (*models.Truck, error) {
	var t models.Truck
	var destStr sql.NullString
	var destLat, destLng sql.NullFloat64
	err := row.Scan(
		&t.ID, &t.ReferenceNumber, &t.Origin.Str, &t.Origin.Lat, &t.Origin.Lng,
		&destStr, &destLat, &destLng,
		&t.AvailableFrom, &t.AvailableUntil, &t.Equipment, &t.Weight, &t.Length, &t.AllInRate,
		&t.SpecialInstructions, &t.PostedBy, &t.BrokerID, &t.Age, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if destStr.Valid {
		t.Destination = &models.GeoPoint{Str: destStr.String, Lat: destLat.Float64, Lng: destLng.Float64}
	}
	return &t, nil
}

func (r *PostgresTruckRepo) Create(ctx context.Context, t *models.Truck) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	if t.Age.IsZero() {
		t.Age = now
	}

	var destStr *string
	var destLat, destLng *float64
	if t.Destination != nil {
		destStr = &t.Destination.Str
		destLat = &t.Destination.Lat
		destLng = &t.Destination.Lng
	}

	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO trucks (`+truckColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20)
	`,
		t.ID, t.ReferenceNumber, t.Origin.Str, t.Origin.Lat, t.Origin.Lng,
		destStr, destLat, destLng,
		t.AvailableFrom, t.AvailableUntil, t.Equipment, t.Weight, t.Length, t.AllInRate,
		t.SpecialInstructions, t.PostedBy, t.BrokerID, t.Age, t.CreatedAt, t.UpdatedAt,
	)
	return err
}

func (r *PostgresTruckRepo) GetByID(ctx context.Context, id string) (*models.Truck, error) {
	t, err := scanTruck(r.DB.QueryRowContext(ctx,
		`SELECT `+truckColumns+` FROM trucks WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return t, err
}

func (r *PostgresTruckRepo) List(ctx context.Context, q *query.Query) ([]*models.Truck, int64, error) {
	var args []any
	where := pgWhere(q, &args)

	var total int64
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM trucks`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, q.Limit, q.Skip)
	rows, err := r.DB.QueryContext(ctx,
		`SELECT `+truckColumns+` FROM trucks`+where+pgOrder(q)+
			fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args)),
		args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []*models.Truck
	for rows.Next() {
		t, err := scanTruck(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, t)
	}
	return out, total, rows.Err()
}

func (r *PostgresTruckRepo) Candidates(ctx context.Context, equipment string, boxes []models.GeoBounds) ([]*models.Truck, error) {
	args := []any{equipment}
	conds := []string{"equipment = $1"}
	if box := pgBoxConds("origin_lat", "origin_lng", boxes, &args); box != "" {
		conds = append(conds, box)
	}

	rows, err := r.DB.QueryContext(ctx,
		`SELECT `+truckColumns+` FROM trucks WHERE `+strings.Join(conds, " AND "),
		args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Truck
	for rows.Next() {
		t, err := scanTruck(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *PostgresTruckRepo) RefreshAge(ctx context.Context, id string, t time.Time) (bool, error) {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE trucks SET age = $1, updated_at = $1 WHERE id = $2`, t, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n == 1, err
}

func (r *PostgresTruckRepo) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM trucks WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n == 1, err
}
