package httpapi

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"campusconnect/internal/auth"
	"campusconnect/internal/domain"
	"campusconnect/internal/service"
)

type stubUsersStore struct {
	t *testing.T

	createUserFunc      func(context.Context, string, string, string, string) (domain.User, error)
	getUserByEmailFunc  func(context.Context, string) (domain.UserWithPassword, error)
	setPasswordHashFunc func(context.Context, string, string) error
}

func (s *stubUsersStore) CreateUser(ctx context.Context, email, username, passwordHash, profilePic string) (domain.User, error) {
	if s.createUserFunc != nil {
		return s.createUserFunc(ctx, email, username, passwordHash, profilePic)
	}
	s.t.Fatalf("CreateUser called unexpectedly")
	return domain.User{}, context.Canceled
}

func (s *stubUsersStore) GetUserByEmail(ctx context.Context, email string) (domain.UserWithPassword, error) {
	if s.getUserByEmailFunc != nil {
		return s.getUserByEmailFunc(ctx, email)
	}
	s.t.Fatalf("GetUserByEmail called unexpectedly")
	return domain.UserWithPassword{}, context.Canceled
}

func (s *stubUsersStore) SetPasswordHash(ctx context.Context, userID, passwordHash string) error {
	if s.setPasswordHashFunc != nil {
		return s.setPasswordHashFunc(ctx, userID, passwordHash)
	}
	s.t.Fatalf("SetPasswordHash called unexpectedly")
	return context.Canceled
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder, dst any) {
	t.Helper()
	if err := json.NewDecoder(rr.Body).Decode(dst); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func TestRegisterDuplicateEmailKeeps200(t *testing.T) {
	store := &stubUsersStore{
		t: t,
		createUserFunc: func(_ context.Context, email, _, _, _ string) (domain.User, error) {
			if email != "alice@example.edu" {
				t.Fatalf("unexpected email: %s", email)
			}
			return domain.User{}, domain.ErrEmailTaken
		},
	}

	api := &api{
		logger:  testLogger(),
		authSvc: &service.AuthService{Users: store},
	}

	req := httptest.NewRequest(http.MethodPost, "/api/register",
		strings.NewReader(`{"username":"alice","email":"alice@example.edu","password":"pw123"}`))
	rr := httptest.NewRecorder()
	api.handleRegister(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rr.Code)
	}
	var got messageResponse
	decodeBody(t, rr, &got)
	if got.Success || got.Message != "Email already registered" {
		t.Fatalf("unexpected body: %+v", got)
	}
}

func TestRegisterRejectsMissingFields(t *testing.T) {
	api := &api{
		logger:  testLogger(),
		authSvc: &service.AuthService{Users: &stubUsersStore{t: t}},
	}

	req := httptest.NewRequest(http.MethodPost, "/api/register",
		strings.NewReader(`{"username":"alice","email":"not-an-email","password":"pw123"}`))
	rr := httptest.NewRecorder()
	api.handleRegister(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("unexpected status: %d", rr.Code)
	}
}

func TestLoginSuccessEnvelope(t *testing.T) {
	hash, err := auth.HashPassword("pw123", auth.CostSignup)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}

	store := &stubUsersStore{
		t: t,
		getUserByEmailFunc: func(_ context.Context, email string) (domain.UserWithPassword, error) {
			if email != "alice@example.edu" {
				t.Fatalf("unexpected email: %s", email)
			}
			return domain.UserWithPassword{
				User: domain.User{
					ID:         "user-1",
					Email:      "alice@example.edu",
					Username:   "alice",
					ProfilePic: "https://cdn.example.edu/alice.png",
				},
				PasswordHash: hash,
			}, nil
		},
	}

	api := &api{
		logger:  testLogger(),
		authSvc: &service.AuthService{Users: store},
	}

	req := httptest.NewRequest(http.MethodPost, "/api/login",
		strings.NewReader(`{"email":"Alice@Example.edu","password":"pw123"}`))
	rr := httptest.NewRecorder()
	api.handleLogin(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rr.Code)
	}
	var got loginResponse
	decodeBody(t, rr, &got)
	if !got.Success || got.Message != "Login successful!" {
		t.Fatalf("unexpected body: %+v", got)
	}
	if got.RedirectPath != "/dashboard/index.html" {
		t.Fatalf("unexpected redirect: %s", got.RedirectPath)
	}
	if got.UserData.Username != "alice" || got.UserData.Email != "alice@example.edu" {
		t.Fatalf("unexpected user data: %+v", got.UserData)
	}
}

func TestLoginWrongPasswordKeeps200(t *testing.T) {
	hash, err := auth.HashPassword("pw123", auth.CostSignup)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}

	store := &stubUsersStore{
		t: t,
		getUserByEmailFunc: func(_ context.Context, _ string) (domain.UserWithPassword, error) {
			return domain.UserWithPassword{User: domain.User{ID: "user-1"}, PasswordHash: hash}, nil
		},
	}

	api := &api{
		logger:  testLogger(),
		authSvc: &service.AuthService{Users: store},
	}

	req := httptest.NewRequest(http.MethodPost, "/api/login",
		strings.NewReader(`{"email":"alice@example.edu","password":"nope"}`))
	rr := httptest.NewRecorder()
	api.handleLogin(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rr.Code)
	}
	var got messageResponse
	decodeBody(t, rr, &got)
	if got.Success || got.Message != "Invalid credentials" {
		t.Fatalf("unexpected body: %+v", got)
	}
}

func TestGoogleLoginBadTokenKeeps200(t *testing.T) {
	api := &api{
		logger: testLogger(),
		authSvc: &service.AuthService{
			Users: &stubUsersStore{t: t},
			VerifyGoogleIDToken: func(_ context.Context, _, _ string) (*auth.GoogleClaims, error) {
				return nil, domain.ErrInvalidIDToken
			},
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/api/google-login",
		strings.NewReader(`{"credential":"bad-token"}`))
	rr := httptest.NewRecorder()
	api.handleGoogleLogin(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rr.Code)
	}
	var got messageResponse
	decodeBody(t, rr, &got)
	if got.Success || got.Message != "Google login failed" {
		t.Fatalf("unexpected body: %+v", got)
	}
}

func TestChangePasswordUnknownUserIs404(t *testing.T) {
	store := &stubUsersStore{
		t: t,
		getUserByEmailFunc: func(_ context.Context, _ string) (domain.UserWithPassword, error) {
			return domain.UserWithPassword{}, domain.ErrNotFound
		},
	}

	api := &api{
		logger:  testLogger(),
		authSvc: &service.AuthService{Users: store},
	}

	req := httptest.NewRequest(http.MethodPost, "/api/change-password",
		strings.NewReader(`{"email":"ghost@example.edu","currentPassword":"pw123","newPassword":"pw456"}`))
	rr := httptest.NewRecorder()
	api.handleChangePassword(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("unexpected status: %d", rr.Code)
	}
	var got messageResponse
	decodeBody(t, rr, &got)
	if got.Success || got.Message != "User not found." {
		t.Fatalf("unexpected body: %+v", got)
	}
}

func TestChangePasswordWrongCurrentIs400(t *testing.T) {
	hash, err := auth.HashPassword("pw123", auth.CostSignup)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}

	store := &stubUsersStore{
		t: t,
		getUserByEmailFunc: func(_ context.Context, _ string) (domain.UserWithPassword, error) {
			return domain.UserWithPassword{User: domain.User{ID: "user-1"}, PasswordHash: hash}, nil
		},
	}

	api := &api{
		logger:  testLogger(),
		authSvc: &service.AuthService{Users: store},
	}

	req := httptest.NewRequest(http.MethodPost, "/api/change-password",
		strings.NewReader(`{"email":"alice@example.edu","currentPassword":"wrong","newPassword":"pw456"}`))
	rr := httptest.NewRecorder()
	api.handleChangePassword(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("unexpected status: %d", rr.Code)
	}
	var got messageResponse
	decodeBody(t, rr, &got)
	if got.Success || got.Message != "Current password is incorrect." {
		t.Fatalf("unexpected body: %+v", got)
	}
}
