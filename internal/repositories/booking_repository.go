package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	intconfig "resort/internal/config"
	intdb "resort/internal/db"
	"resort/internal/domain"
	"resort/internal/domain/models"
	"resort/internal/utils"
)

const bookingSelect = `
	SELECT
		b.id, b.user_id, b.facility_id, b.check_in, b.check_out, b.guests,
		COALESCE(b.contact_phone, ''), COALESCE(b.notes, ''), b.total, b.status,
		b.created_at, b.updated_at,
		COALESCE(u.first_name, ''), COALESCE(u.last_name, ''), COALESCE(u.email, ''), COALESCE(u.mobile, ''),
		COALESCE(f.name, ''), COALESCE(f.type, ''), COALESCE(f.price, 0)
	FROM bookings b
	LEFT JOIN users u ON u.id = b.user_id
	LEFT JOIN facilities f ON f.id = b.facility_id
`

type BookingRepository struct {
	DB *sql.DB
}

func (r BookingRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

func scanBooking(row interface{ Scan(...any) error }) (models.Booking, error) {
	var (
		b                    models.Booking
		checkIn, checkOut    time.Time
		status               string
		createdAt, updatedAt sql.NullTime
		u                    models.UserSummary
		f                    models.FacilitySummary
		facilityType         string
	)
	if err := row.Scan(
		&b.ID, &b.UserID, &b.FacilityID, &checkIn, &checkOut, &b.Guests,
		&b.ContactPhone, &b.Notes, &b.Total, &status,
		&createdAt, &updatedAt,
		&u.FirstName, &u.LastName, &u.Email, &u.Mobile,
		&f.Name, &facilityType, &f.Price,
	); err != nil {
		return models.Booking{}, err
	}
	b.CheckIn = utils.FormatDate(checkIn)
	b.CheckOut = utils.FormatDate(checkOut)
	b.Status = models.BookingStatus(status)
	b.CreatedAt = createdAt.Time
	b.UpdatedAt = updatedAt.Time
	b.User = &u
	f.ID = b.FacilityID
	f.Type = models.FacilityType(facilityType)
	b.Facility = &f
	return b, nil
}

func (r BookingRepository) list(ctx context.Context, where string, limit int, args ...any) ([]models.Booking, error) {
	query := bookingSelect + where + ` ORDER BY b.created_at DESC, b.id DESC`
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}
	rows, err := r.db().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Booking{}
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return out, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r BookingRepository) GetByID(ctx context.Context, id int64) (models.Booking, error) {
	if id <= 0 {
		return models.Booking{}, domain.NotFoundError{Resource: "booking"}
	}
	b, err := scanBooking(r.db().QueryRowContext(ctx, bookingSelect+` WHERE b.id=? LIMIT 1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Booking{}, domain.NotFoundError{Resource: "booking", Err: err}
	}
	return b, err
}

func (r BookingRepository) ListByUser(ctx context.Context, userID int64) ([]models.Booking, error) {
	return r.list(ctx, ` WHERE b.user_id=?`, 0, userID)
}

func (r BookingRepository) ListAll(ctx context.Context) ([]models.Booking, error) {
	return r.list(ctx, "", 0)
}

// Recent returns the latest bookings by creation time.
func (r BookingRepository) Recent(ctx context.Context, limit int) ([]models.Booking, error) {
	if limit <= 0 {
		limit = 5
	}
	return r.list(ctx, "", limit)
}

// ActiveStaysTx loads pending/confirmed/completed bookings of a facility whose
// occupied range touches [from, to). Stored same-day bookings occupy one night.
func (r BookingRepository) ActiveStaysTx(ctx context.Context, tx *sql.Tx, facilityID int64, from, to time.Time) ([]domain.Stay, error) {
	rows, err := tx.QueryContext(ctx, `
		SELECT check_in, check_out, guests
		FROM bookings
		WHERE facility_id = ?
		  AND status IN ('pending','confirmed','completed')
		  AND check_in < ?
		  AND GREATEST(check_out, DATE_ADD(check_in, INTERVAL 1 DAY)) > ?
	`, facilityID, utils.FormatDate(to), utils.FormatDate(from))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Stay{}
	for rows.Next() {
		var s domain.Stay
		if err := rows.Scan(&s.CheckIn, &s.CheckOut, &s.Guests); err != nil {
			return out, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r BookingRepository) InsertTx(ctx context.Context, tx *sql.Tx, b models.Booking) (int64, error) {
	res, err := tx.ExecContext(ctx, `
		INSERT INTO bookings (user_id, facility_id, check_in, check_out, guests, contact_phone, notes, total, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, NOW(), NOW())
	`, b.UserID, b.FacilityID, b.CheckIn, b.CheckOut, b.Guests,
		intdb.NullIfEmpty(b.ContactPhone), intdb.NullIfEmpty(b.Notes), b.Total, string(b.Status))
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// LockStatusTx reads the current status with a row lock held until the
// transaction ends.
func (r BookingRepository) LockStatusTx(ctx context.Context, tx *sql.Tx, id int64) (models.BookingStatus, error) {
	var status string
	err := tx.QueryRowContext(ctx, `SELECT status FROM bookings WHERE id=? FOR UPDATE`, id).Scan(&status)
	if errors.Is(err, sql.ErrNoRows) {
		return "", domain.NotFoundError{Resource: "booking", Err: err}
	}
	return models.BookingStatus(status), err
}

// UpdateStatusTx is a compare-and-set on the status column.
func (r BookingRepository) UpdateStatusTx(ctx context.Context, tx *sql.Tx, id int64, from, to models.BookingStatus) error {
	res, err := tx.ExecContext(ctx, `UPDATE bookings SET status=?, updated_at=NOW() WHERE id=? AND status=?`,
		string(to), id, string(from))
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ConflictError{Resource: "booking", Msg: "booking status changed concurrently"}
	}
	return nil
}
