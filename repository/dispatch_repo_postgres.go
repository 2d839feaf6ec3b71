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

type PostgresDispatchRepo struct {
	DB *sql.DB
}

func NewPostgresDispatchRepo(db *sql.DB) *PostgresDispatchRepo {
	return &PostgresDispatchRepo{DB: db}
}

const dispatchColumns = `id, load_number, invoice_number, wo_number, status, equipment,
	shipper_str, shipper_lat, shipper_lng, shipper_window_start, shipper_window_end, shipper_weight, shipper_quantity,
	consignee_str, consignee_lat, consignee_lng, consignee_window_start, consignee_window_end, consignee_weight, consignee_quantity,
	length, special_instructions, carrier_fee, other_charges, all_in_rate,
	broker_id, customer_id, carrier_id, posted_by, invoice_date, age, created_at, updated_at`

func scanDispatch(row interface{ Scan(...any) error }) (*models.Dispatch, error) {
	var d models.Dispatch
	err := row.Scan(
		&d.ID, &d.LoadNumber, &d.InvoiceNumber, &d.WONumber, &d.Status, &d.Equipment,
		&d.Shipper.Location.Str, &d.Shipper.Location.Lat, &d.Shipper.Location.Lng,
		&d.Shipper.WindowStart, &d.Shipper.WindowEnd, &d.Shipper.Weight, &d.Shipper.Quantity,
		&d.Consignee.Location.Str, &d.Consignee.Location.Lat, &d.Consignee.Location.Lng,
		&d.Consignee.WindowStart, &d.Consignee.WindowEnd, &d.Consignee.Weight, &d.Consignee.Quantity,
		&d.Length, &d.SpecialInstructions, &d.CarrierFee, &d.OtherCharges, &d.AllInRate,
		&d.BrokerID, &d.CustomerID, &d.CarrierID, &d.PostedBy, &d.InvoiceDate, &d.Age, &d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *PostgresDispatchRepo) Create(ctx context.Context, d *models.Dispatch) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if d.CreatedAt.IsZero() {
		d.CreatedAt = now
	}
	if d.Age.IsZero() {
		d.Age = now
	}

	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO dispatches (`+dispatchColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,
			$21,$22,$23,$24,$25,$26,$27,$28,$29,$30,$31,$32,$33)
	`,
		d.ID, d.LoadNumber, d.InvoiceNumber, d.WONumber, d.Status, d.Equipment,
		d.Shipper.Location.Str, d.Shipper.Location.Lat, d.Shipper.Location.Lng,
		d.Shipper.WindowStart, d.Shipper.WindowEnd, d.Shipper.Weight, d.Shipper.Quantity,
		d.Consignee.Location.Str, d.Consignee.Location.Lat, d.Consignee.Location.Lng,
		d.Consignee.WindowStart, d.Consignee.WindowEnd, d.Consignee.Weight, d.Consignee.Quantity,
		d.Length, d.SpecialInstructions, d.CarrierFee, d.OtherCharges, d.AllInRate,
		d.BrokerID, d.CustomerID, d.CarrierID, d.PostedBy, d.InvoiceDate, d.Age, d.CreatedAt, d.UpdatedAt,
	)
	return err
}

func (r *PostgresDispatchRepo) GetByID(ctx context.Context, id string) (*models.Dispatch, error) {
	d, err := scanDispatch(r.DB.QueryRowContext(ctx,
		`SELECT `+dispatchColumns+` FROM dispatches WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return d, err
}

func (r *PostgresDispatchRepo) List(ctx context.Context, q *query.Query) ([]*models.Dispatch, int64, error) {
	var args []any
	where := pgWhere(q, &args)

	var total int64
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM dispatches`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, q.Limit, q.Skip)
	rows, err := r.DB.QueryContext(ctx,
		`SELECT `+dispatchColumns+` FROM dispatches`+where+pgOrder(q)+
			fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args)),
		args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []*models.Dispatch
	for rows.Next() {
		d, err := scanDispatch(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, d)
	}
	return out, total, rows.Err()
}

// ApplyTransition is a single UPDATE guarded on the previous status, so the
// status change and identifier assignment commit as one statement.
func (r *PostgresDispatchRepo) ApplyTransition(ctx context.Context, id string, from models.LoadStatus, upd TransitionUpdate) (bool, error) {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE dispatches SET
			status = $1,
			updated_at = $2,
			load_number = COALESCE($3, load_number),
			invoice_number = COALESCE($4, invoice_number),
			invoice_date = COALESCE($5, invoice_date)
		WHERE id = $6 AND status = $7
	`, upd.Status, upd.UpdatedAt, upd.LoadNumber, upd.InvoiceNumber, upd.InvoiceDate, id, from)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n == 1, err
}

func (r *PostgresDispatchRepo) Candidates(ctx context.Context, equipment string, boxes []models.GeoBounds) ([]*models.Dispatch, error) {
	args := []any{models.StatusPublished, equipment}
	conds := []string{"status = $1", "equipment = $2"}
	if box := pgBoxConds("shipper_lat", "shipper_lng", boxes, &args); box != "" {
		conds = append(conds, box)
	}

	rows, err := r.DB.QueryContext(ctx,
		`SELECT `+dispatchColumns+` FROM dispatches WHERE `+strings.Join(conds, " AND "),
		args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Dispatch
	for rows.Next() {
		d, err := scanDispatch(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r *PostgresDispatchRepo) RefreshAge(ctx context.Context, id string, t time.Time) (bool, error) {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE dispatches SET age = $1, updated_at = $1 WHERE id = $2`, t, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n == 1, err
}

func (r *PostgresDispatchRepo) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM dispatches WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n == 1, err
}
