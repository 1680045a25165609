package config

import (
	"os"
	"strconv"
	"strings"
)

type Config struct {
	AppPort         string
	DBDSN           string
	JWTSecret       string
	JWTExpiresMin   int
	RedisAddr       string
	RedisPassword   string
	RedisDB         int
	CORSOrigins     string
	LogLevel        string
	NotifyBuffer    int
	GoogleClientID  string
	GoogleSecret    string
	GoogleRedirect  string
	FrontendBaseURL string
}

func Load() Config {
	expires, _ := strconv.Atoi(get("JWT_EXPIRES_MIN", "10080"))
	redisDB, _ := strconv.Atoi(get("REDIS_DB", "0"))
	buffer, _ := strconv.Atoi(get("NOTIFY_BUFFER", "256"))
	return Config{
		AppPort:         get("APP_PORT", "8080"),
		DBDSN:           must("DB_DSN"),
		JWTSecret:       must("JWT_SECRET"),
		JWTExpiresMin:   expires,
		RedisAddr:       os.Getenv("REDIS_ADDR"),
		RedisPassword:   get("REDIS_PASSWORD", ""),
		RedisDB:         redisDB,
		CORSOrigins:     get("CORS_ORIGINS", "http://localhost:3000"),
		LogLevel:        strings.ToLower(get("LOG_LEVEL", "info")),
		NotifyBuffer:    buffer,
		GoogleClientID:  get("GOOGLE_CLIENT_ID", ""),
		GoogleSecret:    get("GOOGLE_CLIENT_SECRET", ""),
		GoogleRedirect:  get("GOOGLE_REDIRECT_URL", ""),
		FrontendBaseURL: get("FRONTEND_BASE_URL", "http://localhost:3000"),
	}
}

// RedisEnabled reports whether notifications should travel through Redis.
// REDIS_ADDR=off disables it explicitly; unset falls back to localhost.
func (c Config) RedisEnabled() bool {
	return c.RedisAddr != "off"
}

func (c Config) RedisAddress() string {
	if c.RedisAddr == "" {
		return "localhost:6379"
	}
	return c.RedisAddr
}

func get(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}

func must(k string) string {
	v := os.Getenv(k)
	if v == "" {
		panic("missing env: " + k)
	}
	return v
}
