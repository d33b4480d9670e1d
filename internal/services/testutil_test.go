package services

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"resort/internal/domain"
	"resort/internal/notify"
)

var (
	guestActor = domain.Actor{UserID: 7, Role: domain.RoleGuest, Email: "ana@example.com", FirstName: "Ana", LastName: "Reyes"}
	adminActor = domain.Actor{UserID: 1, Role: domain.RoleAdmin, Email: "admin@resort.local", FirstName: "Resort", LastName: "Admin"}
)

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func expectationsMet(t *testing.T, mock sqlmock.Sqlmock) {
	t.Helper()
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func userRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "first_name", "last_name", "email", "mobile", "province", "city", "barangay",
		"street", "password_hash", "profile_picture", "role", "created_at", "updated_at",
	})
}

func addUser(rows *sqlmock.Rows, id int64, first, email, hash, role string) *sqlmock.Rows {
	now := time.Now()
	return rows.AddRow(id, first, "Reyes", email, "0917", "Laguna", "Calamba", "Real", "", hash, "", role, now, now)
}

func facilityRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "name", "type", "capacity", "price", "status", "description", "image_url", "created_at", "updated_at",
	})
}

func bookingRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "user_id", "facility_id", "check_in", "check_out", "guests",
		"contact_phone", "notes", "total", "status", "created_at", "updated_at",
		"first_name", "last_name", "email", "mobile",
		"name", "type", "price",
	})
}

func day(s string) time.Time {
	t, err := time.ParseInLocation("2006-01-02", s, time.Local)
	if err != nil {
		panic(err)
	}
	return t
}

type recordingNotifier struct {
	mu      sync.Mutex
	notices []notify.BookingNotice
	err     error
}

func (r *recordingNotifier) BookingCreated(_ context.Context, n notify.BookingNotice) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, n)
	return r.err
}
