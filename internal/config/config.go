package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
)

type SMTP struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromEmail string
	FromName  string
	TLSMode   string
}

type Config struct {
	Env       string
	Addr      string
	PublicURL *url.URL
	DBDSN     string
	LogLevel  string

	SMTP SMTP

	GoogleClientID string
	GeminiAPIKey   string
	GeminiModel    string
}

func Load() (Config, error) {
	return LoadFromEnv(os.Getenv)
}

func LoadFromEnv(getenv func(string) string) (Config, error) {
	cfg := Config{
		Env:            getenv("APP_ENV"),
		Addr:           getenv("APP_ADDR"),
		DBDSN:          getenv("APP_DB_DSN"),
		LogLevel:       getenv("APP_LOG_LEVEL"),
		GoogleClientID: strings.TrimSpace(getenv("GOOGLE_CLIENT_ID")),
		GeminiAPIKey:   strings.TrimSpace(getenv("GEMINI_API_KEY")),
		GeminiModel:    strings.TrimSpace(getenv("GEMINI_MODEL")),
	}

	if cfg.Env == "" {
		cfg.Env = "dev"
	}
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:8080"
	}
	if cfg.GeminiModel == "" {
		cfg.GeminiModel = "gemini-pro"
	}

	publicURLRaw := getenv("APP_PUBLIC_URL")
	if publicURLRaw != "" {
		parsed, err := url.Parse(publicURLRaw)
		if err != nil {
			return Config{}, fmt.Errorf("APP_PUBLIC_URL: %w", err)
		}
		if !parsed.IsAbs() || parsed.Host == "" {
			return Config{}, errors.New("APP_PUBLIC_URL: must be an absolute URL")
		}
		switch parsed.Scheme {
		case "http", "https":
		default:
			return Config{}, errors.New("APP_PUBLIC_URL: scheme must be http or https")
		}
		cfg.PublicURL = parsed
	}

	switch cfg.Env {
	case "dev", "prod", "test":
	default:
		return Config{}, errors.New("APP_ENV: must be one of dev, test, prod")
	}

	smtp, err := loadSMTP(getenv)
	if err != nil {
		return Config{}, err
	}
	cfg.SMTP = smtp

	if cfg.IsProd() {
		if cfg.PublicURL == nil {
			return Config{}, errors.New("APP_PUBLIC_URL: required in prod")
		}
		if cfg.DBDSN == "" {
			return Config{}, errors.New("APP_DB_DSN: required in prod")
		}
	}

	return cfg, nil
}

func loadSMTP(getenv func(string) string) (SMTP, error) {
	smtp := SMTP{
		Host:      strings.TrimSpace(getenv("SMTP_HOST")),
		Username:  getenv("SMTP_USERNAME"),
		Password:  getenv("SMTP_PASSWORD"),
		FromEmail: strings.TrimSpace(strings.ToLower(getenv("SMTP_FROM_EMAIL"))),
		FromName:  strings.TrimSpace(getenv("SMTP_FROM_NAME")),
		TLSMode:   strings.TrimSpace(getenv("SMTP_TLS_MODE")),
	}

	portRaw := strings.TrimSpace(getenv("SMTP_PORT"))
	if portRaw == "" {
		smtp.Port = 587
	} else {
		port, err := strconv.Atoi(portRaw)
		if err != nil || port <= 0 || port > 65535 {
			return SMTP{}, errors.New("SMTP_PORT: must be a valid port number")
		}
		smtp.Port = port
	}

	switch smtp.TLSMode {
	case "", "tls", "starttls", "none":
	default:
		return SMTP{}, errors.New("SMTP_TLS_MODE: must be one of tls, starttls, none")
	}

	if smtp.Host != "" && smtp.FromEmail == "" {
		return SMTP{}, errors.New("SMTP_FROM_EMAIL: required when SMTP_HOST is set")
	}

	return smtp, nil
}

func (c Config) IsProd() bool { return c.Env == "prod" }

func (c Config) SMTPEnabled() bool { return c.SMTP.Host != "" }
