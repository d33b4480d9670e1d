package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"

	"resort/internal/domain"
	"resort/internal/http/middleware"
	"resort/internal/services"
	"resort/internal/session"
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

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
	return out
}

func TestRespondDomainErrorMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"validation", domain.ValidationError{Field: "guests", Msg: "must be at least 1"}, http.StatusBadRequest, "validation_error"},
		{"authentication", domain.AuthenticationError{}, http.StatusUnauthorized, "unauthenticated"},
		{"authorization", domain.AuthorizationError{}, http.StatusForbidden, "forbidden"},
		{"not found", domain.NotFoundError{Resource: "facility"}, http.StatusNotFound, "not_found"},
		{"capacity", domain.CapacityExceededError{FacilityID: 2, Capacity: 8, Existing: 6, Requested: 4}, http.StatusConflict, "capacity_exceeded"},
		{"transition", domain.InvalidTransitionError{From: "cancelled", To: "confirmed"}, http.StatusConflict, "invalid_transition"},
		{"conflict", domain.ConflictError{Resource: "user", Msg: "email already registered"}, http.StatusConflict, "conflict"},
		{"internal", errors.New("boom"), http.StatusInternalServerError, "internal_error"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
			RespondDomainError(c, tc.err)
			if w.Code != tc.status {
				t.Fatalf("status = %d, want %d", w.Code, tc.status)
			}
			if got := decode(t, w)["code"]; got != tc.code {
				t.Fatalf("code = %v, want %s", got, tc.code)
			}
		})
	}
}

func TestCapacityDetails(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", nil)
	RespondDomainError(c, domain.CapacityExceededError{Capacity: 8, Existing: 6, Requested: 4})

	details, ok := decode(t, w)["details"].(map[string]any)
	if !ok {
		t.Fatalf("missing details: %s", w.Body.String())
	}
	if details["capacity"] != float64(8) || details["existing"] != float64(6) || details["requested"] != float64(4) {
		t.Fatalf("unexpected details: %v", details)
	}
}

func TestHideInternalDetails(t *testing.T) {
	gin.SetMode(gin.TestMode)
	HideInternalDetails(true)
	t.Cleanup(func() { HideInternalDetails(false) })

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	RespondDomainError(c, errors.New("dial tcp 10.0.0.5:3306: refused"))

	if strings.Contains(w.Body.String(), "10.0.0.5") {
		t.Fatalf("internal detail leaked: %s", w.Body.String())
	}
}

func TestBookingPayloadInput(t *testing.T) {
	var p bookingPayload
	body := `{"facilityId": 3, "checkIn": "2026-11-01", "checkOut": "2026-11-03", "guests": "4", "contactPhone": "0917"}`
	if err := json.Unmarshal([]byte(body), &p); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	in, err := p.input()
	if err != nil {
		t.Fatalf("input: %v", err)
	}
	if in.FacilityID != 3 || in.Guests != 4 || in.CheckIn != "2026-11-01" || in.ContactPhone != "0917" {
		t.Fatalf("unexpected input: %+v", in)
	}
	if in.OnBehalfOf != nil {
		t.Fatalf("self booking should not carry a guest")
	}

	p = bookingPayload{FacilityID: "3", GuestName: "Juan Cruz", Email: "juan@example.com", Phone: "0918"}
	in, err = p.input()
	if err != nil {
		t.Fatalf("input: %v", err)
	}
	if in.OnBehalfOf == nil || in.OnBehalfOf.Email != "juan@example.com" || in.ContactPhone != "0918" {
		t.Fatalf("walk-in guest not mapped: %+v", in)
	}

	p = bookingPayload{FacilityID: "abc"}
	if _, err := p.input(); !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, err := (bookingPayload{}).input(); !domain.IsValidation(err) {
		t.Fatalf("expected validation error for missing facility, got %v", err)
	}
}

func TestListFacilitiesHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db, mock := newMock(t)
	now := time.Now()
	mock.ExpectQuery(`SELECT .* FROM facilities ORDER BY created_at DESC`).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "name", "type", "capacity", "price", "status", "description", "image_url", "created_at", "updated_at",
		}).AddRow(1, "Cabana", "Cabana", 20, 1600.0, "available", "", "", now, now))

	h := &Handler{DB: db}
	r := gin.New()
	r.Use(middleware.RequestID())
	r.GET("/api/facilities", h.ListFacilities)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/facilities", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", w.Code, w.Body.String())
	}
	var list []map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(list) != 1 || list[0]["name"] != "Cabana" {
		t.Fatalf("unexpected list: %v", list)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreateBookingEmptyBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := &Handler{}
	r := gin.New()
	r.POST("/api/bookings", h.CreateBooking)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/bookings", nil)
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestLoginSetsSessionCookie(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db, mock := newMock(t)
	hash, err := services.HashPassword("secret1")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	now := time.Now()
	mock.ExpectQuery(`SELECT .* FROM users WHERE email=\?`).
		WithArgs("ana@example.com").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "first_name", "last_name", "email", "mobile", "province", "city", "barangay",
			"street", "password_hash", "profile_picture", "role", "created_at", "updated_at",
		}).AddRow(7, "Ana", "Reyes", "ana@example.com", "0917", "Laguna", "Calamba", "Real", "", hash, "", "guest", now, now))

	store := session.NewMemoryStore(time.Hour)
	h := &Handler{DB: db, Sessions: store}
	r := gin.New()
	r.POST("/api/auth/login", h.Login)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login",
		strings.NewReader(`{"email":"Ana@Example.com","password":"secret1"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", w.Code, w.Body.String())
	}
	token, _ := decode(t, w)["token"].(string)
	if token == "" {
		t.Fatalf("missing token: %s", w.Body.String())
	}
	cookie := w.Header().Get("Set-Cookie")
	if !strings.Contains(cookie, "resort_session="+token) || !strings.Contains(cookie, "HttpOnly") {
		t.Fatalf("unexpected cookie: %s", cookie)
	}
	if data, err := store.Get(req.Context(), token); err != nil || data.UserID != 7 {
		t.Fatalf("session not stored: %+v %v", data, err)
	}
}

func TestLogoutWithoutSession(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := &Handler{Sessions: session.NewMemoryStore(time.Hour)}
	r := gin.New()
	r.POST("/api/auth/logout", h.Logout)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
}
