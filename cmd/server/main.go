package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"log/slog"

	"campusconnect/internal/config"
	"campusconnect/internal/email"
	"campusconnect/internal/genai"
	"campusconnect/internal/httpapi"
	"campusconnect/internal/service"
	"campusconnect/internal/store/postgres"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		_, _ = os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}

	logger := newLogger(cfg)

	var mailer service.Notifier
	if cfg.SMTPEnabled() {
		mailer = &email.Mailer{Settings: email.Settings{
			Host:      cfg.SMTP.Host,
			Port:      cfg.SMTP.Port,
			Username:  cfg.SMTP.Username,
			Password:  cfg.SMTP.Password,
			FromEmail: cfg.SMTP.FromEmail,
			FromName:  cfg.SMTP.FromName,
			TLSMode:   cfg.SMTP.TLSMode,
		}}
	} else {
		logger.Info("smtp not configured, outbound email disabled")
	}

	var (
		authSvc    *service.AuthService
		resetSvc   *service.PasswordResetService
		profileSvc *service.ProfileService
		dbPing     func(context.Context) error
	)

	if cfg.DBDSN != "" {
		if err := postgres.ApplyMigrations(cfg.DBDSN); err != nil {
			logger.Error("db migrate failed", "err", err)
			os.Exit(1)
		}

		pgPool, err := postgres.Open(context.Background(), cfg.DBDSN)
		if err != nil {
			logger.Error("db open failed", "err", err)
			os.Exit(1)
		}
		defer pgPool.Close()

		users := postgres.NewUsersStore(pgPool)
		tokens := postgres.NewResetTokensStore(pgPool)

		authSvc = &service.AuthService{
			Users:          users,
			Mailer:         mailer,
			Logger:         logger,
			GoogleClientID: cfg.GoogleClientID,
		}
		resetSvc = &service.PasswordResetService{
			Tokens:       tokens,
			Users:        users,
			Mailer:       mailer,
			Logger:       logger,
			ResetBaseURL: resetBaseURL(cfg),
			TokenTTL:     time.Hour,
		}
		profileSvc = &service.ProfileService{Store: users}
		dbPing = pgPool.Ping
	} else {
		logger.Info("database not configured, account routes disabled")
	}

	chat := &genai.Client{
		APIKey: cfg.GeminiAPIKey,
		Model:  cfg.GeminiModel,
	}

	router := httpapi.NewRouter(httpapi.RouterOpts{
		Logger:  logger,
		IsProd:  cfg.IsProd(),
		DBPing:  dbPing,
		Auth:    authSvc,
		Reset:   resetSvc,
		Profile: profileSvc,
		Chat:    chat,
	})

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "env", cfg.Env, "addr", cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "err", err)
			os.Exit(1)
		}
	}
}

func resetBaseURL(cfg config.Config) string {
	if cfg.PublicURL != nil {
		return cfg.PublicURL.String()
	}
	return "http://" + cfg.Addr
}

func newLogger(cfg config.Config) *slog.Logger {
	var level slog.Level
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "info", "":
		level = slog.LevelInfo
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.IsProd() {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
