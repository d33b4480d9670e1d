package repositories

import (
	"context"
	"database/sql"
	"errors"

	intconfig "resort/internal/config"
	intdb "resort/internal/db"
	"resort/internal/domain"
	"resort/internal/domain/models"
)

const facilityColumns = `id, name, type, capacity, price, status, COALESCE(description, ''), COALESCE(image_url, ''), created_at, updated_at`

type FacilityRepository struct {
	DB *sql.DB
}

func (r FacilityRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

func scanFacility(row interface{ Scan(...any) error }) (models.Facility, error) {
	var (
		f                    models.Facility
		typ, status          string
		createdAt, updatedAt sql.NullTime
	)
	if err := row.Scan(&f.ID, &f.Name, &typ, &f.Capacity, &f.Price, &status, &f.Description, &f.ImageURL, &createdAt, &updatedAt); err != nil {
		return models.Facility{}, err
	}
	f.Type = models.FacilityType(typ)
	f.Status = models.FacilityStatus(status)
	f.CreatedAt = createdAt.Time
	f.UpdatedAt = updatedAt.Time
	return f, nil
}

// List returns every facility, newest first.
func (r FacilityRepository) List(ctx context.Context) ([]models.Facility, error) {
	rows, err := r.db().QueryContext(ctx, `SELECT `+facilityColumns+` FROM facilities ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Facility{}
	for rows.Next() {
		f, err := scanFacility(rows)
		if err != nil {
			return out, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

func (r FacilityRepository) GetByID(ctx context.Context, id int64) (models.Facility, error) {
	return r.get(ctx, r.db(), id, false)
}

// LockByIDTx loads the facility row with FOR UPDATE, serializing bookings
// for the same facility until the transaction ends.
func (r FacilityRepository) LockByIDTx(ctx context.Context, tx *sql.Tx, id int64) (models.Facility, error) {
	return r.get(ctx, tx, id, true)
}

func (r FacilityRepository) get(ctx context.Context, q intdb.Querier, id int64, lock bool) (models.Facility, error) {
	if id <= 0 {
		return models.Facility{}, domain.NotFoundError{Resource: "facility"}
	}
	query := `SELECT ` + facilityColumns + ` FROM facilities WHERE id=? LIMIT 1`
	if lock {
		query += ` FOR UPDATE`
	}
	f, err := scanFacility(q.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Facility{}, domain.NotFoundError{Resource: "facility", Err: err}
	}
	return f, err
}

func (r FacilityRepository) Create(ctx context.Context, f models.Facility) (int64, error) {
	res, err := r.db().ExecContext(ctx, `
		INSERT INTO facilities (name, type, capacity, price, status, description, image_url, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, NOW(), NOW())
	`, f.Name, string(f.Type), f.Capacity, f.Price, string(f.Status), intdb.NullIfEmpty(f.Description), intdb.NullIfEmpty(f.ImageURL))
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r FacilityRepository) Update(ctx context.Context, f models.Facility) error {
	res, err := r.db().ExecContext(ctx, `
		UPDATE facilities
		SET name=?, type=?, capacity=?, price=?, status=?, description=?, image_url=?, updated_at=NOW()
		WHERE id=?
	`, f.Name, string(f.Type), f.Capacity, f.Price, string(f.Status), intdb.NullIfEmpty(f.Description), intdb.NullIfEmpty(f.ImageURL), f.ID)
	if err != nil {
		return err
	}
	// MySQL reports 0 affected rows when nothing changed, so confirm existence separately.
	if n, _ := res.RowsAffected(); n == 0 {
		_, err := r.GetByID(ctx, f.ID)
		return err
	}
	return nil
}

// CountOpenBookingsTx counts pending and confirmed bookings for a facility.
func (r FacilityRepository) CountOpenBookingsTx(ctx context.Context, tx *sql.Tx, id int64) (int, error) {
	var n int
	err := tx.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM bookings WHERE facility_id=? AND status IN ('pending','confirmed')
	`, id).Scan(&n)
	return n, err
}

// DeleteTx removes the facility together with its historical bookings.
func (r FacilityRepository) DeleteTx(ctx context.Context, tx *sql.Tx, id int64) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM bookings WHERE facility_id=?`, id); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM facilities WHERE id=?`, id)
	if err != nil {
		return err
	}
	return requireAffected(res, "facility")
}
