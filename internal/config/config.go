// Package config loads application configuration from environment variables.
package config

import (
	"log"
	"os"
	"strconv"
	"strings"
)

// Config holds all runtime configuration values. Each field corresponds to an
// environment variable. Required values are enforced by must(); everything
// else carries a sensible default so a minimal .env is enough for local runs.
type Config struct {
	Env  string // application environment (e.g. "dev", "prod")
	Port string // HTTP port to listen on

	DBUser string // database username
	DBPass string // database password (optional)
	DBHost string // database host address
	DBPort string // database port number
	DBName string // database name

	JWTSecret     string // secret used to sign auth tokens; no fallback, must be set
	TokenTTLHours int    // lifetime of issued auth tokens in hours (all token classes)
	BcryptCost    int    // bcrypt cost for password hashing
	OTPTTLMin     int    // lifetime of password-reset codes in minutes

	CookieSecure   bool   // Secure attribute on auth cookies
	CookieSameSite string // SameSite attribute: "lax", "strict" or "none"

	CORSOrigins []string // allowed cross-origin request sources

	GoogleClientID string // OAuth client id used to verify Google ID tokens

	SMTPHost string // SMTP relay host for password-reset mail
	SMTPPort int    // SMTP relay port
	SMTPUser string // SMTP username
	SMTPPass string // SMTP password
	MailFrom string // From address on outgoing mail

	AMQPURL string // RabbitMQ connection URL (empty disables event publishing)
}

// Load reads configuration values from environment variables and returns a
// Config. Missing required variables cause the process to exit with a fatal
// log message.
func Load() Config {
	return Config{
		Env:            getenv("APP_ENV", "dev"),
		Port:           must("APP_PORT"),
		DBUser:         must("DB_USER"),
		DBPass:         os.Getenv("DB_PASS"),
		DBHost:         must("DB_HOST"),
		DBPort:         must("DB_PORT"),
		DBName:         must("DB_NAME"),
		JWTSecret:      must("JWT_SECRET"),
		TokenTTLHours:  getenvInt("AUTH_TOKEN_TTL_HOURS", 48),
		BcryptCost:     getenvInt("BCRYPT_COST", 10),
		OTPTTLMin:      getenvInt("OTP_TTL_MIN", 10),
		CookieSecure:   getenvBool("COOKIE_SECURE", true),
		CookieSameSite: getenv("COOKIE_SAMESITE", "none"),
		CORSOrigins:    splitList(getenv("CORS_ORIGINS", "http://localhost:5173,http://localhost:5174")),
		GoogleClientID: os.Getenv("GOOGLE_CLIENT_ID"),
		SMTPHost:       os.Getenv("SMTP_HOST"),
		SMTPPort:       getenvInt("SMTP_PORT", 587),
		SMTPUser:       os.Getenv("SMTP_USER"),
		SMTPPass:       os.Getenv("SMTP_PASS"),
		MailFrom:       getenv("MAIL_FROM", "noreply@example.com"),
		AMQPURL:        os.Getenv("RABBITMQ_URL"),
	}
}

// must retrieves the value of a required environment variable. If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, v)
	}
	return n
}

func getenvBool(key string, def bool) bool {
	switch strings.ToLower(os.Getenv(key)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	}
	return def
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
