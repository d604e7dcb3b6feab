package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env  string
	Port int

	DBURL string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	JWTSecret           string
	JWTAccessTTLMinutes int

	RateLimitLoginMax       int
	RateLimitLoginWindow    time.Duration
	RateLimitRegisterMax    int
	RateLimitRegisterWindow time.Duration

	CORSOrigins  []string
	MaxBodyBytes int64

	AdminEmail    string
	AdminPassword string
	AdminName     string

	OTLPEndpoint string
}

func Load() Config {
	// .env is optional; deployments set real variables in the environment.
	_ = godotenv.Load()

	return Config{
		Env:   getEnv("APP_ENV", "dev"),
		Port:  getEnvInt("PORT", 8080),
		DBURL: buildDBURL(),

		RedisAddr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		JWTSecret:           getEnv("JWT_SECRET", "change-this-in-production"),
		JWTAccessTTLMinutes: getEnvInt("JWT_ACCESS_TTL_MINUTES", 30),

		RateLimitLoginMax:       getEnvInt("RATE_LIMIT_LOGIN_MAX", 5),
		RateLimitLoginWindow:    time.Duration(getEnvInt("RATE_LIMIT_LOGIN_WINDOW_SECONDS", 60)) * time.Second,
		RateLimitRegisterMax:    getEnvInt("RATE_LIMIT_REGISTER_MAX", 3),
		RateLimitRegisterWindow: time.Duration(getEnvInt("RATE_LIMIT_REGISTER_WINDOW_SECONDS", 300)) * time.Second,

		CORSOrigins:  splitList(getEnv("CORS_ORIGINS", "http://localhost:5173,http://localhost:3000")),
		MaxBodyBytes: int64(getEnvInt("MAX_BODY_BYTES", 1<<20)),

		AdminEmail:    getEnv("ADMIN_EMAIL", ""),
		AdminPassword: getEnv("ADMIN_PASSWORD", ""),
		AdminName:     getEnv("ADMIN_NAME", "Admin"),

		OTLPEndpoint: getEnv("OTLP_ENDPOINT", ""),
	}
}

func (c Config) AccessTTL() time.Duration {
	return time.Duration(c.JWTAccessTTLMinutes) * time.Minute
}

func buildDBURL() string {
	host := getEnv("DB_HOST", "127.0.0.1")
	port := getEnv("DB_PORT", "5432")
	user := getEnv("DB_USER", "jobdeck")
	pass := getEnv("DB_PASSWORD", "jobdeck")
	name := getEnv("DB_NAME", "jobdeck")
	ssl := getEnv("DB_SSLMODE", "disable")

	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=" + ssl
}

func WithTimeout(duration time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), duration)
}

func splitList(v string) []string {
	var out []string

	for _, part := range strings.Split(v, ",") {
		part = strings.TrimSpace(part)

		if part != "" {
			out = append(out, part)
		}
	}

	return out
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		num, err := strconv.Atoi(v)

		if err != nil {
			fmt.Println(err)
		}

		return num
	}
	return fallback
}
