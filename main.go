package main

import (
	"context"
	"crypto/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	intconfig "resort/internal/config"
	intdb "resort/internal/db"
	"resort/internal/domain"
	router "resort/internal/http"
	"resort/internal/http/handlers"
	"resort/internal/notify"
	"resort/internal/session"
	"resort/internal/storage"
	"resort/internal/utils"
)

func main() {
	env := intconfig.LoadEnv()
	if env.GinMode != "" {
		gin.SetMode(env.GinMode)
	}
	utils.ConfigureLogger(env.IsProduction())
	handlers.HideInternalDetails(env.IsProduction())

	db := intconfig.ConnectDB(env)
	defer intconfig.CloseDB()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := intdb.EnsureSchema(ctx, db); err != nil {
		cancel()
		utils.Logger.Fatalf("failed to prepare schema: %v", err)
	}
	cancel()

	var sessions session.Store
	if env.RedisAddr != "" {
		sessions = session.RedisStore{Client: session.NewRedisClient(env.RedisAddr, env.RedisPassword), TTL: env.SessionTTL}
		utils.Logger.WithField("addr", env.RedisAddr).Info("using redis session store")
	} else {
		sessions = session.NewMemoryStore(env.SessionTTL)
		utils.Logger.Info("using in-memory session store")
	}

	secret := []byte(env.QRSecret)
	if len(secret) == 0 {
		secret = make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			utils.Logger.Fatalf("failed to generate pass signing key: %v", err)
		}
		utils.Logger.Warn("QR_SECRET not set, booking passes will not survive a restart")
	}

	h := &handlers.Handler{
		Env:      env,
		DB:       db,
		Sessions: sessions,
		Notifier: notify.New(env),
		Storage:  storage.NewLocalStore(env.UploadDir),
		Policy:   domain.ParseCapacityPolicy(env.CapacityPolicy),
		QRSecret: secret,
		Now:      time.Now,
	}

	r := router.NewRouter(env, h)

	srv := &http.Server{
		Addr:              env.AppAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       20 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		utils.Logger.Infof("server listening on %s", env.AppAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			utils.Logger.Fatalf("server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	utils.Logger.Info("shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		utils.Logger.Fatalf("server shutdown failed: %v", err)
	}

	utils.Logger.Info("server stopped")
}
