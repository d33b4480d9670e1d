package repositories

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"resort/internal/domain"
	"resort/internal/domain/models"
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

func bookingRowColumns() []string {
	return []string{
		"id", "user_id", "facility_id", "check_in", "check_out", "guests",
		"contact_phone", "notes", "total", "status", "created_at", "updated_at",
		"first_name", "last_name", "email", "mobile",
		"name", "type", "price",
	}
}

func TestUserRepositoryGetByEmailNotFound(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery("FROM users WHERE email=").
		WithArgs("nobody@example.com").
		WillReturnError(sql.ErrNoRows)

	_, err := UserRepository{DB: db}.GetByEmail(context.Background(), " nobody@example.com ")
	if !domain.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUserRepositoryGetByIDScansRole(t *testing.T) {
	db, mock := newMock(t)
	now := time.Now()
	mock.ExpectQuery("FROM users WHERE id=").
		WithArgs(int64(4)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "first_name", "last_name", "email", "mobile", "province", "city", "barangay",
			"street", "password_hash", "profile_picture", "role", "created_at", "updated_at",
		}).AddRow(4, "Ana", "Reyes", "ana@example.com", "0917", "Laguna", "Calamba", "Real", "", "hash", "", "admin", now, now))

	u, err := UserRepository{DB: db}.GetByID(context.Background(), 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u.Role != domain.RoleAdmin || u.FullName() != "Ana Reyes" {
		t.Fatalf("unexpected user: %+v", u)
	}
}

func TestFacilityRepositoryLockUsesForUpdate(t *testing.T) {
	db, mock := newMock(t)
	now := time.Now()
	mock.ExpectBegin()
	mock.ExpectQuery("FROM facilities WHERE id=\\? LIMIT 1 FOR UPDATE").
		WithArgs(int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "name", "type", "capacity", "price", "status", "description", "image_url", "created_at", "updated_at",
		}).AddRow(2, "Kubo 1", "Kubo", 8, 300.0, "available", "", "", now, now))
	mock.ExpectRollback()

	tx, err := db.Begin()
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	f, err := FacilityRepository{DB: db}.LockByIDTx(context.Background(), tx, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_ = tx.Rollback()
	if f.Capacity != 8 || f.Type != models.TypeKubo {
		t.Fatalf("unexpected facility: %+v", f)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestFacilityRepositoryUpdateMissing(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectExec("UPDATE facilities").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("FROM facilities WHERE id=").WithArgs(int64(9)).WillReturnError(sql.ErrNoRows)

	err := FacilityRepository{DB: db}.Update(context.Background(), models.Facility{ID: 9, Name: "x", Type: models.TypeRoom, Capacity: 1, Status: models.FacilityAvailable})
	if !domain.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestBookingRepositoryListByUserProjects(t *testing.T) {
	db, mock := newMock(t)
	now := time.Now()
	in := time.Date(2025, 7, 1, 0, 0, 0, 0, time.Local)
	out := time.Date(2025, 7, 3, 0, 0, 0, 0, time.Local)
	mock.ExpectQuery("FROM bookings b\\s+LEFT JOIN users u .* WHERE b.user_id=\\? ORDER BY b.created_at DESC, b.id DESC").
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows(bookingRowColumns()).
			AddRow(11, 7, 2, in, out, 6, "0917", "", 600.0, "confirmed", now, now, "Ana", "Reyes", "ana@example.com", "0917", "Kubo 1", "Kubo", 300.0))

	list, err := BookingRepository{DB: db}.ListByUser(context.Background(), 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected 1 booking, got %d", len(list))
	}
	b := list[0]
	if b.CheckIn != "2025-07-01" || b.CheckOut != "2025-07-03" {
		t.Fatalf("unexpected dates: %s %s", b.CheckIn, b.CheckOut)
	}
	if b.User == nil || b.User.Email != "ana@example.com" || b.Facility == nil || b.Facility.ID != 2 {
		t.Fatalf("missing projections: %+v", b)
	}
}

func TestBookingRepositoryRecentDefaultsToFive(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery("ORDER BY b.created_at DESC, b.id DESC LIMIT 5").
		WillReturnRows(sqlmock.NewRows(bookingRowColumns()))

	list, err := BookingRepository{DB: db}.Recent(context.Background(), 0)
	if err != nil || len(list) != 0 {
		t.Fatalf("unexpected result: %v %v", list, err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestBookingRepositoryActiveStaysArgs(t *testing.T) {
	db, mock := newMock(t)
	from := time.Date(2025, 7, 2, 0, 0, 0, 0, time.Local)
	to := time.Date(2025, 7, 4, 0, 0, 0, 0, time.Local)
	mock.ExpectBegin()
	mock.ExpectQuery("status IN \\('pending','confirmed','completed'\\)").
		WithArgs(int64(2), "2025-07-04", "2025-07-02").
		WillReturnRows(sqlmock.NewRows([]string{"check_in", "check_out", "guests"}).
			AddRow(time.Date(2025, 7, 1, 0, 0, 0, 0, time.Local), time.Date(2025, 7, 3, 0, 0, 0, 0, time.Local), 6))
	mock.ExpectRollback()

	tx, _ := db.Begin()
	stays, err := BookingRepository{DB: db}.ActiveStaysTx(context.Background(), tx, 2, from, to)
	_ = tx.Rollback()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(stays) != 1 || stays[0].Guests != 6 {
		t.Fatalf("unexpected stays: %+v", stays)
	}
}

func TestBookingRepositoryUpdateStatusConflict(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE bookings SET status=\\?").
		WithArgs("confirmed", int64(3), "pending").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	tx, _ := db.Begin()
	err := BookingRepository{DB: db}.UpdateStatusTx(context.Background(), tx, 3, models.StatusPending, models.StatusConfirmed)
	_ = tx.Rollback()
	if !domain.IsConflict(err) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestMessageRepositoryMarkReadIdempotent(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectExec("UPDATE messages SET is_read=1").
		WithArgs(int64(5), int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec("UPDATE messages SET is_read=1").
		WithArgs(int64(5), int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := MessageRepository{DB: db}
	first, err := repo.MarkRead(context.Background(), 5, 1)
	if err != nil || first != 3 {
		t.Fatalf("first mark: %d %v", first, err)
	}
	second, err := repo.MarkRead(context.Background(), 5, 1)
	if err != nil || second != 0 {
		t.Fatalf("second mark: %d %v", second, err)
	}
}

func TestMessageRepositoryLastBetweenEmpty(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery("ORDER BY created_at DESC, id DESC").
		WithArgs(int64(1), int64(2), int64(2), int64(1)).
		WillReturnError(sql.ErrNoRows)

	_, ok, err := MessageRepository{DB: db}.LastBetween(context.Background(), 1, 2)
	if err != nil || ok {
		t.Fatalf("expected no message, got ok=%v err=%v", ok, err)
	}
}

func TestDashboardRepositoryRevenueRange(t *testing.T) {
	db, mock := newMock(t)
	from := time.Date(2025, 7, 1, 0, 0, 0, 0, time.Local)
	to := from.AddDate(0, 1, 0)
	mock.ExpectQuery("SUM\\(total\\)").
		WithArgs("2025-07-01", "2025-08-01").
		WillReturnRows(sqlmock.NewRows([]string{"sum"}).AddRow(1600.0))

	got, err := DashboardRepository{DB: db}.Revenue(context.Background(), from, to)
	if err != nil || got != 1600 {
		t.Fatalf("revenue = %v, %v", got, err)
	}
}
