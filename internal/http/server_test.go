package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"hackathon-portal/internal/domain"
	"hackathon-portal/internal/metrics"
	"hackathon-portal/internal/repository"
	"hackathon-portal/internal/service"
)

type fakeGitHub struct {
	identity domain.ExternalIdentity
	err      error
}

func (f *fakeGitHub) AuthCodeURL(state string) string {
	return "https://github.test/login/oauth/authorize?state=" + state
}

func (f *fakeGitHub) Identity(context.Context, string) (domain.ExternalIdentity, error) {
	return f.identity, f.err
}

type testServer struct {
	engine     *gin.Engine
	users      *repository.MemoryUserRepository
	activities *repository.MemoryActivityRepository
	jwt        *service.JWTService
	github     *fakeGitHub
	registry   *prometheus.Registry
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := zap.NewNop()

	users := repository.NewMemoryUserRepository()
	activities := repository.NewMemoryActivityRepository()
	jwtSvc := service.NewJWTService("secret", "hackathon-portal", time.Hour, 24*time.Hour, service.NewMemoryRefreshTokenStore())
	gh := &fakeGitHub{}
	authSvc := service.NewAuthService(logger, users, activities, service.NewBcryptHasher(bcrypt.MinCost), jwtSvc, nil, "US").
		WithGitHub(gh)
	profileSvc := service.NewProfileService(logger, users, activities, "US")

	reg := prometheus.NewRegistry()
	rec := metrics.NewCollector(reg)
	authH := NewAuthHandler(logger, authSvc, rec, "http://localhost:5173/", false)
	profileH := NewProfileHandler(logger, profileSvc, false)

	return &testServer{
		engine:     NewRouter(logger, jwtSvc, authH, profileH, rec, reg, "http://localhost:5173"),
		users:      users,
		activities: activities,
		jwt:        jwtSvc,
		github:     gh,
		registry:   reg,
	}
}

func (s *testServer) do(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.engine.ServeHTTP(rec, req)
	return rec
}

type authBody struct {
	Message      string            `json:"message"`
	Token        string            `json:"token"`
	RefreshToken string            `json:"refreshToken"`
	ExpiresIn    int64             `json:"expiresIn"`
	User         domain.PublicUser `json:"user"`
	Error        string            `json:"error"`
}

func decodeAuth(t *testing.T, rec *httptest.ResponseRecorder) authBody {
	t.Helper()
	var body authBody
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body %q: %v", rec.Body.String(), err)
	}
	return body
}

func (s *testServer) signup(t *testing.T, email string) authBody {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/auth/signup", map[string]string{
		"firstName": "Ada",
		"lastName":  "Lovelace",
		"email":     email,
		"password":  "secret123",
	}, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("signup: expected 200, got %d %s", rec.Code, rec.Body.String())
	}
	return decodeAuth(t, rec)
}
