package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	porthttp "hackathon-portal/internal/http"
	"hackathon-portal/internal/repository"
	"hackathon-portal/internal/service"
)

func newPortal(t *testing.T, accessTTL time.Duration) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := zap.NewNop()
	users := repository.NewMemoryUserRepository()
	activities := repository.NewMemoryActivityRepository()
	jwtSvc := service.NewJWTService("secret", "hackathon-portal", accessTTL, time.Hour, nil)
	authSvc := service.NewAuthService(logger, users, activities, service.NewBcryptHasher(bcrypt.MinCost), jwtSvc, nil, "US")
	profileSvc := service.NewProfileService(logger, users, activities, "US")
	router := porthttp.NewRouter(
		logger,
		jwtSvc,
		porthttp.NewAuthHandler(logger, authSvc, nil, "http://localhost:5173", false),
		porthttp.NewProfileHandler(logger, profileSvc, false),
		nil,
		nil,
		"http://localhost:5173",
	)
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func TestAPI_SessionLifecycle(t *testing.T) {
	srv := newPortal(t, time.Hour)
	store := NewMemoryTokenStore(Tokens{})
	api := New(srv.URL, store, nil)
	ctx := context.Background()

	if _, err := api.Signup(ctx, SignupRequest{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com", Password: "secret123"}); err != nil {
		t.Fatalf("signup: %v", err)
	}
	me, err := api.Me(ctx)
	if err != nil || me.Email != "ada@example.com" {
		t.Fatalf("me: %+v %v", me, err)
	}
	updated, err := api.UpdateMe(ctx, ProfileUpdate{LastName: "King"})
	if err != nil || updated.LastName != "King" || updated.FirstName != "Ada" {
		t.Fatalf("update: %+v %v", updated, err)
	}
	items, err := api.Activity(ctx)
	if err != nil || len(items) == 0 {
		t.Fatalf("activity: %+v %v", items, err)
	}

	if err := api.Logout(ctx); err != nil {
		t.Fatalf("logout: %v", err)
	}
	tokens, _ := store.Load()
	if tokens != (Tokens{}) {
		t.Fatalf("expected cleared tokens, got %+v", tokens)
	}

	_, err = api.Me(ctx)
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusUnauthorized || apiErr.Code != "token_missing" {
		t.Fatalf("expected 401 token_missing, got %v", err)
	}
}

func TestAPI_RenewsExpiredAccessToken(t *testing.T) {
	srv := newPortal(t, 2*time.Second)
	store := NewMemoryTokenStore(Tokens{})
	signedOut := false
	api := New(srv.URL, store, func() { signedOut = true })
	ctx := context.Background()

	if _, err := api.Signup(ctx, SignupRequest{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com", Password: "secret123"}); err != nil {
		t.Fatalf("signup: %v", err)
	}
	before, _ := store.Load()
	time.Sleep(3100 * time.Millisecond)

	if _, err := api.Me(ctx); err != nil {
		t.Fatalf("me after expiry: %v", err)
	}
	after, _ := store.Load()
	if after.AccessToken == before.AccessToken || after.RefreshToken != before.RefreshToken {
		t.Fatalf("expected access renewed and refresh kept")
	}
	if signedOut {
		t.Fatalf("unexpected sign out")
	}
}

func TestAPI_LogoutClearsSessionWhenServerFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"message":"Internal server error"}`))
	}))
	t.Cleanup(srv.Close)
	store := NewMemoryTokenStore(Tokens{AccessToken: "access-1", RefreshToken: "refresh-1"})
	api := New(srv.URL, store, nil)

	err := api.Logout(context.Background())
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusInternalServerError {
		t.Fatalf("expected server error, got %v", err)
	}
	tokens, _ := store.Load()
	if tokens != (Tokens{}) {
		t.Fatalf("expected local session cleared, got %+v", tokens)
	}
}
