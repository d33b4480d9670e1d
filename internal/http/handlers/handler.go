package handlers

import (
	"database/sql"
	"time"

	"github.com/gin-gonic/gin"

	intconfig "resort/internal/config"
	"resort/internal/domain"
	"resort/internal/http/middleware"
	"resort/internal/notify"
	"resort/internal/repositories"
	"resort/internal/services"
	"resort/internal/session"
	"resort/internal/storage"
)

// Handler carries the collaborators every request-scoped service is built from.
type Handler struct {
	Env      intconfig.Env
	DB       *sql.DB
	Sessions session.Store
	Notifier notify.Notifier
	Storage  storage.LocalStore
	Policy   domain.CapacityPolicy
	QRSecret []byte
	Now      func() time.Time
}

func (h *Handler) db() *sql.DB {
	if h.DB != nil {
		return h.DB
	}
	return intconfig.DB
}

// Resolver is used by the session middleware.
func (h *Handler) Resolver() middleware.ActorResolver {
	return services.AuthService{
		Users:    repositories.UserRepository{DB: h.db()},
		Sessions: h.Sessions,
	}
}

func (h *Handler) authService(c *gin.Context) services.AuthService {
	return services.AuthService{
		Users:     repositories.UserRepository{DB: h.db()},
		Sessions:  h.Sessions,
		RequestID: middleware.GetRequestID(c),
	}
}

func (h *Handler) facilityService(c *gin.Context) services.FacilityService {
	return services.FacilityService{
		Facilities: repositories.FacilityRepository{DB: h.db()},
		DB:         h.db(),
		RequestID:  middleware.GetRequestID(c),
	}
}

func (h *Handler) bookingService(c *gin.Context) services.BookingService {
	return services.BookingService{
		Bookings:   repositories.BookingRepository{DB: h.db()},
		Facilities: repositories.FacilityRepository{DB: h.db()},
		Users:      repositories.UserRepository{DB: h.db()},
		Notifier:   h.Notifier,
		Policy:     h.Policy,
		Now:        h.Now,
		DB:         h.db(),
		RequestID:  middleware.GetRequestID(c),
	}
}

func (h *Handler) messageService(c *gin.Context) services.MessageService {
	return services.MessageService{
		Messages:  repositories.MessageRepository{DB: h.db()},
		Users:     repositories.UserRepository{DB: h.db()},
		RequestID: middleware.GetRequestID(c),
	}
}

func (h *Handler) docsService(c *gin.Context) services.DocsService {
	return services.DocsService{
		Bookings:  repositories.BookingRepository{DB: h.db()},
		Secret:    h.QRSecret,
		Now:       h.Now,
		RequestID: middleware.GetRequestID(c),
	}
}

func (h *Handler) profileService(c *gin.Context) services.ProfileService {
	return services.ProfileService{
		Users:     repositories.UserRepository{DB: h.db()},
		Bookings:  repositories.BookingRepository{DB: h.db()},
		Docs:      h.docsService(c),
		RequestID: middleware.GetRequestID(c),
	}
}

func (h *Handler) dashboardService(c *gin.Context) services.DashboardService {
	return services.DashboardService{
		Stats:     repositories.DashboardRepository{DB: h.db()},
		Bookings:  repositories.BookingRepository{DB: h.db()},
		Now:       h.Now,
		RequestID: middleware.GetRequestID(c),
	}
}
