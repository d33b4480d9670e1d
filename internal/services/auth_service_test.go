package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"golang.org/x/crypto/bcrypt"

	"resort/internal/domain"
	"resort/internal/repositories"
	"resort/internal/session"
)

func newAuthService(t *testing.T) (AuthService, sqlmock.Sqlmock, *session.MemoryStore) {
	db, mock := newMock(t)
	store := session.NewMemoryStore(time.Hour)
	return AuthService{Users: repositories.UserRepository{DB: db}, Sessions: store}, mock, store
}

func testHash(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	return string(h)
}

func TestAuthenticateGenericFailure(t *testing.T) {
	svc, mock, _ := newAuthService(t)
	hash := testHash(t, "secret123")

	mock.ExpectQuery("FROM users WHERE email=").WithArgs("ghost@example.com").WillReturnRows(userRows())
	mock.ExpectQuery("FROM users WHERE email=").WithArgs("ana@example.com").
		WillReturnRows(addUser(userRows(), 7, "Ana", "ana@example.com", hash, "guest"))

	_, errUnknown := svc.Authenticate(context.Background(), "ghost@example.com", "secret123")
	_, errWrong := svc.Authenticate(context.Background(), "ana@example.com", "wrong-pass")
	if !domain.IsAuthentication(errUnknown) || !domain.IsAuthentication(errWrong) {
		t.Fatalf("expected authentication errors, got %v / %v", errUnknown, errWrong)
	}
	if errUnknown.Error() != errWrong.Error() {
		t.Fatalf("failure messages differ: %q vs %q", errUnknown, errWrong)
	}
	expectationsMet(t, mock)
}

func TestLoginThenCurrentActorReadsRoleFromStore(t *testing.T) {
	svc, mock, _ := newAuthService(t)
	hash := testHash(t, "secret123")

	mock.ExpectQuery("FROM users WHERE email=").WithArgs("ana@example.com").
		WillReturnRows(addUser(userRows(), 7, "Ana", "ana@example.com", hash, "guest"))
	// promoted between requests
	mock.ExpectQuery("FROM users WHERE id=").WithArgs(int64(7)).
		WillReturnRows(addUser(userRows(), 7, "Ana", "ana@example.com", hash, "admin"))

	token, u, err := svc.Login(context.Background(), " Ana@Example.com ", "secret123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if token == "" || u.ID != 7 {
		t.Fatalf("unexpected login result %q %+v", token, u)
	}

	actor, err := svc.CurrentActor(context.Background(), token)
	if err != nil {
		t.Fatalf("current actor: %v", err)
	}
	if !actor.IsAdmin() {
		t.Fatalf("expected role to be re-read from the users table, got %+v", actor)
	}
	expectationsMet(t, mock)
}

func TestCurrentActorUnknownToken(t *testing.T) {
	svc, _, _ := newAuthService(t)
	if _, err := svc.CurrentActor(context.Background(), "nope"); !domain.IsAuthentication(err) {
		t.Fatalf("expected authentication error, got %v", err)
	}
	if _, err := svc.CurrentActor(context.Background(), ""); !domain.IsAuthentication(err) {
		t.Fatalf("expected authentication error, got %v", err)
	}
}

func TestLogoutIsAlwaysSuccessful(t *testing.T) {
	svc, _, store := newAuthService(t)
	ctx := context.Background()
	_ = store.Save(ctx, "tok", session.Data{UserID: 7})

	if err := svc.Logout(ctx, "tok"); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if err := svc.Logout(ctx, "tok"); err != nil {
		t.Fatalf("second logout: %v", err)
	}
	if err := svc.Logout(ctx, ""); err != nil {
		t.Fatalf("logout without session: %v", err)
	}
	if _, err := store.Get(ctx, "tok"); err == nil {
		t.Fatalf("session should be gone")
	}
}

func validRegistration() RegisterInput {
	return RegisterInput{
		FirstName: "Ana", LastName: "Reyes", Email: "ana@example.com", Mobile: "0917",
		Province: "Laguna", City: "Calamba", Barangay: "Real", Password: "secret123",
		SecQuestion1: "pet", SecAnswer1: "dog", SecQuestion2: "city", SecAnswer2: "calamba",
	}
}

func TestRegisterValidation(t *testing.T) {
	svc, mock, _ := newAuthService(t)

	in := validRegistration()
	in.Email = "not-an-email"
	if _, err := svc.Register(context.Background(), in); !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}

	in = validRegistration()
	in.SecAnswer2 = ""
	_, err := svc.Register(context.Background(), in)
	var verr domain.ValidationError
	if !errors.As(err, &verr) || verr.Field != "sec_answer_2" {
		t.Fatalf("expected sec_answer_2 validation error, got %v", err)
	}
	expectationsMet(t, mock)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, mock, _ := newAuthService(t)
	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM users WHERE email=").
		WithArgs("ana@example.com", int64(0)).
		WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(1))

	if _, err := svc.Register(context.Background(), validRegistration()); !domain.IsConflict(err) {
		t.Fatalf("expected conflict, got %v", err)
	}
	expectationsMet(t, mock)
}

func TestRegisterCreatesGuest(t *testing.T) {
	svc, mock, _ := newAuthService(t)
	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM users WHERE email=").
		WithArgs("ana@example.com", int64(0)).
		WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(0))
	mock.ExpectExec("INSERT INTO users").WillReturnResult(sqlmock.NewResult(21, 1))

	u, err := svc.Register(context.Background(), validRegistration())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u.ID != 21 || u.Role != domain.RoleGuest {
		t.Fatalf("unexpected user: %+v", u)
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("secret123")) != nil {
		t.Fatalf("password hash does not match")
	}
	if cost, _ := bcrypt.Cost([]byte(u.PasswordHash)); cost < 10 {
		t.Fatalf("bcrypt cost %d below 10", cost)
	}
	expectationsMet(t, mock)
}
