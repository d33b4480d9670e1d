package api

import (
	stdhttp "net/http"

	"github.com/gin-gonic/gin"

	intconfig "resort/internal/config"
	"resort/internal/domain"
	h "resort/internal/http/handlers"
	"resort/internal/http/middleware"
	"resort/internal/utils"
)

func NewRouter(env intconfig.Env, hd *h.Handler) *gin.Engine {
	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.Logger(),
		gin.Recovery(),
		middleware.CORS(env.CORSOrigins),
		middleware.Authenticate(hd.Resolver(), env.SessionCookie),
	)

	if err := r.SetTrustedProxies(nil); err != nil {
		utils.Logger.Warnf("failed to set trusted proxies: %v", err)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(stdhttp.StatusNotFound, gin.H{
			"error":  "route not found",
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		})
	})

	if env.UploadDir != "" {
		r.Static("/uploads", env.UploadDir)
	}

	authed := middleware.RequireAuth()
	admin := middleware.RequireRole(domain.RoleAdmin)

	api := r.Group("/api")
	{
		api.GET("/health", hd.Health)
		api.GET("/db-check", hd.DBCheck)
		api.GET("/routes", hd.Routes)

		// Auth
		auth := api.Group("/auth")
		auth.POST("/register", hd.Register)
		auth.POST("/login", hd.Login)
		auth.POST("/logout", hd.Logout)

		// Facilities
		facilities := api.Group("/facilities")
		facilities.GET("", hd.ListFacilities)
		facilities.GET("/:id", hd.GetFacility)
		facilities.POST("", admin, hd.CreateFacility)
		facilities.PUT("/:id", admin, hd.UpdateFacility)
		facilities.DELETE("/:id", admin, hd.DeleteFacility)

		// Bookings
		bookings := api.Group("/bookings", authed)
		bookings.POST("", hd.CreateBooking)
		bookings.GET("/mine", hd.MyBookings)
		bookings.GET("", admin, hd.ListBookings)
		bookings.POST("/verify-pass", admin, hd.VerifyPass)
		bookings.GET("/:id", hd.GetBooking)
		bookings.PUT("/:id/status", admin, hd.UpdateBookingStatus)
		bookings.GET("/:id/qr", hd.BookingPass)
		bookings.GET("/:id/confirmation", hd.BookingConfirmation)

		// Messages
		messages := api.Group("/messages", authed)
		messages.GET("/conversations", hd.Conversations)
		messages.GET("/conversation/:userId", hd.Conversation)
		messages.PUT("/conversation/:userId/read", hd.MarkConversationRead)
		messages.POST("", hd.SendMessage)
		messages.GET("/unread", hd.UnreadCount)

		// Profile
		profile := api.Group("/profile", authed)
		profile.GET("", hd.Profile)
		profile.PUT("", hd.UpdateProfile)
		profile.POST("/picture", hd.UploadPicture)
		profile.GET("/overview", hd.ProfileOverview)

		// Admin
		adm := api.Group("/admin", admin)
		adm.GET("/dashboard", hd.Dashboard)
		adm.GET("/guests", hd.Guests)
		adm.GET("/guests/:id", hd.GuestProfile)
	}

	h.SetRouter(r)
	return r
}
