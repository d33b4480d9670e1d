package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	intconfig "resort/internal/config"
	h "resort/internal/http/handlers"
	"resort/internal/session"
)

func TestRouterGuards(t *testing.T) {
	gin.SetMode(gin.TestMode)
	env := intconfig.Env{SessionCookie: "resort_session"}
	r := NewRouter(env, &h.Handler{Env: env, Sessions: session.NewMemoryStore(time.Hour)})

	cases := []struct {
		method string
		path   string
		want   int
	}{
		{http.MethodGet, "/api/health", http.StatusOK},
		{http.MethodGet, "/api/bookings/mine", http.StatusUnauthorized},
		{http.MethodGet, "/api/bookings", http.StatusUnauthorized},
		{http.MethodPost, "/api/facilities", http.StatusUnauthorized},
		{http.MethodGet, "/api/admin/dashboard", http.StatusUnauthorized},
		{http.MethodGet, "/api/messages/unread", http.StatusUnauthorized},
		{http.MethodGet, "/api/nope", http.StatusNotFound},
	}
	for _, tc := range cases {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(tc.method, tc.path, nil))
		if w.Code != tc.want {
			t.Errorf("%s %s = %d, want %d", tc.method, tc.path, w.Code, tc.want)
		}
	}
}

func TestRoutesListing(t *testing.T) {
	gin.SetMode(gin.TestMode)
	env := intconfig.Env{SessionCookie: "resort_session"}
	r := NewRouter(env, &h.Handler{Env: env, Sessions: session.NewMemoryStore(time.Hour)})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/routes", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
}
