package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type DBConfig struct {
	User     string
	Password string
	Host     string
	Name     string
}

type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

// Enabled reports whether enough credentials exist to send mail.
func (s SMTPConfig) Enabled() bool {
	return s.User != "" && s.Password != ""
}

type Env struct {
	AppAddr string
	GinMode string
	AppEnv  string

	DB DBConfig

	RedisAddr     string
	RedisPassword string
	SessionTTL    time.Duration
	SessionCookie string

	SMTP          SMTPConfig
	AdminEmail    string
	AdminPassword string
	BaseURL       string

	UploadDir      string
	QRSecret       string
	CapacityPolicy string
	CORSOrigins    []string
}

func (e Env) IsProduction() bool {
	return strings.EqualFold(e.AppEnv, "production")
}

// DSN builds the MySQL connection string with the pool-friendly timeouts.
func (e Env) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?parseTime=true&loc=Local&charset=utf8mb4&timeout=5s&readTimeout=30s&writeTimeout=30s",
		e.DB.User,
		e.DB.Password,
		e.DB.Host,
		e.DB.Name,
	)
}

// LoadEnv reads configuration from the process environment. A .env file in the
// working directory is loaded first when present.
func LoadEnv() Env {
	_ = godotenv.Load()

	return Env{
		AppAddr: getenv("APP_ADDR", ":8080"),
		GinMode: getenv("GIN_MODE", ""),
		AppEnv:  getenv("APP_ENV", "development"),
		DB: DBConfig{
			User:     getenv("DB_USER", "root"),
			Password: getenv("DB_PASSWORD", ""),
			Host:     getenv("DB_HOST", "127.0.0.1:3306"),
			Name:     getenv("DB_NAME", "resort_app"),
		},
		RedisAddr:     getenv("REDIS_ADDR", ""),
		RedisPassword: getenv("REDIS_PASSWORD", ""),
		SessionTTL:    getduration("SESSION_TTL", 24*time.Hour),
		SessionCookie: getenv("SESSION_COOKIE", "resort_session"),
		SMTP: SMTPConfig{
			Host:     getenv("SMTP_HOST", "smtp.gmail.com"),
			Port:     getint("SMTP_PORT", 587),
			User:     getenv("SMTP_USER", ""),
			Password: getenv("SMTP_PASS", ""),
			From:     getenv("SMTP_FROM", ""),
		},
		AdminEmail:     getenv("ADMIN_EMAIL", "admin@resort.local"),
		AdminPassword:  getenv("ADMIN_PASSWORD", ""),
		BaseURL:        getenv("APP_BASE_URL", ""),
		UploadDir:      getenv("UPLOAD_DIR", "public/uploads"),
		QRSecret:       getenv("QR_SECRET", ""),
		CapacityPolicy: getenv("CAPACITY_POLICY", "stay"),
		CORSOrigins:    splitList(os.Getenv("CORS_ALLOWED_ORIGINS")),
	}
}

func getenv(key, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
}

func getint(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func getduration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return def
	}
	return d
}

func splitList(raw string) []string {
	out := []string{}
	for _, p := range strings.Split(raw, ",") {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
