package httpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"campusconnect/internal/domain"
	"campusconnect/internal/service"
)

type stubResetTokensStore struct {
	t *testing.T

	createFunc  func(context.Context, domain.ResetToken) error
	claimFunc   func(context.Context, string, time.Time) (domain.ResetToken, error)
	releaseFunc func(context.Context, string) error
}

func (s *stubResetTokensStore) CreateResetToken(ctx context.Context, token domain.ResetToken) error {
	if s.createFunc != nil {
		return s.createFunc(ctx, token)
	}
	s.t.Fatalf("CreateResetToken called unexpectedly")
	return context.Canceled
}

func (s *stubResetTokensStore) ClaimResetToken(ctx context.Context, tokenHash string, now time.Time) (domain.ResetToken, error) {
	if s.claimFunc != nil {
		return s.claimFunc(ctx, tokenHash, now)
	}
	s.t.Fatalf("ClaimResetToken called unexpectedly")
	return domain.ResetToken{}, context.Canceled
}

func (s *stubResetTokensStore) ReleaseResetToken(ctx context.Context, tokenHash string) error {
	if s.releaseFunc != nil {
		return s.releaseFunc(ctx, tokenHash)
	}
	s.t.Fatalf("ReleaseResetToken called unexpectedly")
	return context.Canceled
}

func newForgotRequest(email string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/forgot-password",
		strings.NewReader(`{"email":"`+email+`"}`))
	req.RemoteAddr = "203.0.113.7:4411"
	return req
}

func TestForgotPasswordUnknownEmailSameMessage(t *testing.T) {
	store := &stubUsersStore{
		t: t,
		getUserByEmailFunc: func(_ context.Context, _ string) (domain.UserWithPassword, error) {
			return domain.UserWithPassword{}, domain.ErrNotFound
		},
	}

	api := &api{
		logger: testLogger(),
		resetSvc: &service.PasswordResetService{
			Tokens: &stubResetTokensStore{t: t},
			Users:  store,
			Logger: testLogger(),
		},
		forgotLimiter: NewIPRateLimiter(15*time.Minute, 3),
	}

	rr := httptest.NewRecorder()
	api.handleForgotPassword(rr, newForgotRequest("ghost@example.edu"))

	if rr.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rr.Code)
	}
	var got messageResponse
	decodeBody(t, rr, &got)
	if !got.Success || got.Message != forgotPasswordMessage {
		t.Fatalf("unexpected body: %+v", got)
	}
}

func TestForgotPasswordRateLimited(t *testing.T) {
	store := &stubUsersStore{
		t: t,
		getUserByEmailFunc: func(_ context.Context, _ string) (domain.UserWithPassword, error) {
			return domain.UserWithPassword{}, domain.ErrNotFound
		},
	}

	api := &api{
		logger: testLogger(),
		resetSvc: &service.PasswordResetService{
			Tokens: &stubResetTokensStore{t: t},
			Users:  store,
			Logger: testLogger(),
		},
		forgotLimiter: NewIPRateLimiter(15*time.Minute, 3),
	}

	for i := 0; i < 3; i++ {
		rr := httptest.NewRecorder()
		api.handleForgotPassword(rr, newForgotRequest("ghost@example.edu"))
		if rr.Code != http.StatusOK {
			t.Fatalf("request %d: unexpected status: %d", i+1, rr.Code)
		}
	}

	rr := httptest.NewRecorder()
	api.handleForgotPassword(rr, newForgotRequest("ghost@example.edu"))
	if rr.Code != http.StatusTooManyRequests {
		t.Fatalf("unexpected status: %d", rr.Code)
	}
}

func TestForgotPasswordLimitIsPerClient(t *testing.T) {
	store := &stubUsersStore{
		t: t,
		getUserByEmailFunc: func(_ context.Context, _ string) (domain.UserWithPassword, error) {
			return domain.UserWithPassword{}, domain.ErrNotFound
		},
	}

	api := &api{
		logger: testLogger(),
		resetSvc: &service.PasswordResetService{
			Tokens: &stubResetTokensStore{t: t},
			Users:  store,
			Logger: testLogger(),
		},
		forgotLimiter: NewIPRateLimiter(15*time.Minute, 3),
	}

	for i := 0; i < 3; i++ {
		rr := httptest.NewRecorder()
		api.handleForgotPassword(rr, newForgotRequest("ghost@example.edu"))
		if rr.Code != http.StatusOK {
			t.Fatalf("request %d: unexpected status: %d", i+1, rr.Code)
		}
	}

	other := newForgotRequest("ghost@example.edu")
	other.RemoteAddr = "198.51.100.9:6021"
	rr := httptest.NewRecorder()
	api.handleForgotPassword(rr, other)
	if rr.Code != http.StatusOK {
		t.Fatalf("unexpected status for second client: %d", rr.Code)
	}
}

func TestResetPasswordInvalidTokenIs400(t *testing.T) {
	tokens := &stubResetTokensStore{
		t: t,
		claimFunc: func(_ context.Context, _ string, _ time.Time) (domain.ResetToken, error) {
			return domain.ResetToken{}, domain.ErrNotFound
		},
	}

	api := &api{
		logger: testLogger(),
		resetSvc: &service.PasswordResetService{
			Tokens: tokens,
			Users:  &stubUsersStore{t: t},
			Logger: testLogger(),
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/api/reset-password",
		strings.NewReader(`{"token":"deadbeef","newPassword":"pw456"}`))
	rr := httptest.NewRecorder()
	api.handleResetPassword(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("unexpected status: %d", rr.Code)
	}
	var got messageResponse
	decodeBody(t, rr, &got)
	if got.Success || got.Message != "Invalid or expired reset token." {
		t.Fatalf("unexpected body: %+v", got)
	}
}

func TestResetPasswordMissingTokenIs400(t *testing.T) {
	api := &api{
		logger: testLogger(),
		resetSvc: &service.PasswordResetService{
			Tokens: &stubResetTokensStore{t: t},
			Users:  &stubUsersStore{t: t},
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/api/reset-password",
		strings.NewReader(`{"newPassword":"pw456"}`))
	rr := httptest.NewRecorder()
	api.handleResetPassword(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("unexpected status: %d", rr.Code)
	}
}
