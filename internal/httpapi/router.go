package httpapi

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"campusconnect/internal/genai"
	"campusconnect/internal/service"
)

type RouterOpts struct {
	Logger *slog.Logger
	IsProd bool

	DBPing func(context.Context) error

	Auth    *service.AuthService
	Reset   *service.PasswordResetService
	Profile *service.ProfileService
	Chat    *genai.Client
}

func NewRouter(opts RouterOpts) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	api := &api{
		logger:        logger,
		isProd:        opts.IsProd,
		dbPing:        opts.DBPing,
		authSvc:       opts.Auth,
		resetSvc:      opts.Reset,
		profileSvc:    opts.Profile,
		chatClient:    opts.Chat,
		forgotLimiter: NewIPRateLimiter(15*time.Minute, 3),
	}

	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", api.handleHealthz)

	if api.authSvc == nil {
		mux.HandleFunc("POST /api/register", handleNotConfigured)
		mux.HandleFunc("POST /api/login", handleNotConfigured)
		mux.HandleFunc("POST /api/google-login", handleNotConfigured)
		mux.HandleFunc("POST /api/change-password", handleNotConfigured)
	} else {
		mux.HandleFunc("POST /api/register", api.handleRegister)
		mux.HandleFunc("POST /api/login", api.handleLogin)
		mux.HandleFunc("POST /api/google-login", api.handleGoogleLogin)
		mux.HandleFunc("POST /api/change-password", api.handleChangePassword)
	}

	if api.resetSvc == nil {
		mux.HandleFunc("POST /api/forgot-password", handleNotConfigured)
		mux.HandleFunc("POST /api/reset-password", handleNotConfigured)
	} else {
		mux.HandleFunc("POST /api/forgot-password", api.handleForgotPassword)
		mux.HandleFunc("POST /api/reset-password", api.handleResetPassword)
	}

	if api.profileSvc == nil {
		mux.HandleFunc("GET /api/user-profile", handleNotConfigured)
		mux.HandleFunc("POST /api/update-username", handleNotConfigured)
		mux.HandleFunc("POST /api/update-profile-pic", handleNotConfigured)
		mux.HandleFunc("POST /api/update-activity", handleNotConfigured)
	} else {
		mux.HandleFunc("GET /api/user-profile", api.handleUserProfile)
		mux.HandleFunc("POST /api/update-username", api.handleUpdateUsername)
		mux.HandleFunc("POST /api/update-profile-pic", api.handleUpdateProfilePic)
		mux.HandleFunc("POST /api/update-activity", api.handleUpdateActivity)
	}

	mux.HandleFunc("POST /api/chat", api.handleChat)

	var h http.Handler = mux
	h = RequestLogger(logger)(h)
	h = RequestID()(h)
	h = Recoverer(logger, opts.IsProd)(h)
	return h
}

func handleNotConfigured(w http.ResponseWriter, _ *http.Request) {
	writeFailure(w, http.StatusServiceUnavailable, "Service unavailable")
}

type api struct {
	logger *slog.Logger
	isProd bool

	dbPing func(context.Context) error

	authSvc    *service.AuthService
	resetSvc   *service.PasswordResetService
	profileSvc *service.ProfileService
	chatClient *genai.Client

	forgotLimiter *IPRateLimiter
}

func (a *api) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")

	if a.dbPing != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 1*time.Second)
		defer cancel()
		if err := a.dbPing(ctx); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("db down"))
			return
		}
	}

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
