package repositories

import (
	"context"
	"database/sql"
	"time"

	intconfig "resort/internal/config"
	"resort/internal/domain/models"
	"resort/internal/utils"
)

// DashboardRepository holds the read-only aggregates of the admin dashboard.
type DashboardRepository struct {
	DB *sql.DB
}

func (r DashboardRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

// Revenue sums confirmed and completed totals with check-in in [from, to).
func (r DashboardRepository) Revenue(ctx context.Context, from, to time.Time) (float64, error) {
	var total sql.NullFloat64
	err := r.db().QueryRowContext(ctx, `
		SELECT COALESCE(SUM(total), 0)
		FROM bookings
		WHERE status IN ('confirmed','completed')
		  AND check_in >= ? AND check_in < ?
	`, utils.FormatDate(from), utils.FormatDate(to)).Scan(&total)
	return total.Float64, err
}

// CountCheckIns counts every booking arriving on day, whatever its status.
func (r DashboardRepository) CountCheckIns(ctx context.Context, day time.Time) (int, error) {
	var n int
	err := r.db().QueryRowContext(ctx, `
		SELECT COUNT(*) FROM bookings WHERE check_in=?
	`, utils.FormatDate(day)).Scan(&n)
	return n, err
}

func (r DashboardRepository) TotalCapacity(ctx context.Context) (int, error) {
	var n sql.NullInt64
	err := r.db().QueryRowContext(ctx, `SELECT COALESCE(SUM(capacity), 0) FROM facilities`).Scan(&n)
	return int(n.Int64), err
}

// GuestsConfirmedOn sums guests of confirmed bookings checking in on day.
func (r DashboardRepository) GuestsConfirmedOn(ctx context.Context, day time.Time) (int, error) {
	var n sql.NullInt64
	err := r.db().QueryRowContext(ctx, `
		SELECT COALESCE(SUM(guests), 0) FROM bookings WHERE check_in=? AND status='confirmed'
	`, utils.FormatDate(day)).Scan(&n)
	return int(n.Int64), err
}

func (r DashboardRepository) CountByStatus(ctx context.Context, status models.BookingStatus) (int, error) {
	var n int
	err := r.db().QueryRowContext(ctx, `SELECT COUNT(*) FROM bookings WHERE status=?`, string(status)).Scan(&n)
	return n, err
}
