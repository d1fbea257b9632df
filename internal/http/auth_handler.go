package http

import (
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"hackathon-portal/internal/metrics"
	"hackathon-portal/internal/service"
)

const (
	githubStateCookie = "github_oauth_state"
	githubStateMaxAge = 600
)

// AuthHandler atiende /auth/*.
type AuthHandler struct {
	logger       *zap.Logger
	auth         *service.AuthService
	metrics      metrics.Recorder
	frontendURL  string
	secureCookie bool
	errs         errorResponder
}

func NewAuthHandler(logger *zap.Logger, auth *service.AuthService, rec metrics.Recorder, frontendURL string, production bool) *AuthHandler {
	if rec == nil {
		rec = metrics.Nop()
	}
	return &AuthHandler{
		logger:       logger,
		auth:         auth,
		metrics:      rec,
		frontendURL:  strings.TrimRight(frontendURL, "/"),
		secureCookie: production,
		errs:         errorResponder{logger: logger, production: production},
	}
}

type authResponse struct {
	Message      string      `json:"message"`
	Token        string      `json:"token"`
	RefreshToken string      `json:"refreshToken"`
	ExpiresIn    int64       `json:"expiresIn"`
	User         interface{} `json:"user"`
}

func newAuthResponse(message string, res service.AuthResult) authResponse {
	return authResponse{
		Message:      message,
		Token:        res.Tokens.AccessToken,
		RefreshToken: res.Tokens.RefreshToken,
		ExpiresIn:    res.Tokens.ExpiresIn,
		User:         res.User.Public(),
	}
}

// Signup maneja POST /auth/signup.
func (h *AuthHandler) Signup(c *gin.Context) {
	var req struct {
		FirstName   string `json:"firstName"`
		LastName    string `json:"lastName"`
		Email       string `json:"email"`
		Password    string `json:"password"`
		Username    string `json:"username"`
		PhoneNumber string `json:"phoneNumber"`
		Gender      string `json:"gender"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid signup request", zap.Error(err))
		badBody(c)
		return
	}

	res, err := h.auth.Signup(c.Request.Context(), service.SignupInput{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		Password:    req.Password,
		Username:    req.Username,
		PhoneNumber: req.PhoneNumber,
		Gender:      req.Gender,
	})
	if err != nil {
		h.metrics.RecordAuthEvent("signup", h.errs.respond(c, "signup", err))
		return
	}
	h.metrics.RecordAuthEvent("signup", outcomeSuccess)
	c.JSON(http.StatusOK, newAuthResponse("Signup successful", res))
}

// Signin maneja POST /auth/signin.
func (h *AuthHandler) Signin(c *gin.Context) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid signin request", zap.Error(err))
		badBody(c)
		return
	}

	res, err := h.auth.Signin(c.Request.Context(), service.SigninInput{Email: req.Email, Password: req.Password})
	if err != nil {
		h.metrics.RecordAuthEvent("signin", h.errs.respond(c, "signin", err))
		return
	}
	h.metrics.RecordAuthEvent("signin", outcomeSuccess)
	c.JSON(http.StatusOK, newAuthResponse("Sign in successful", res))
}

// GoogleSignin maneja POST /auth/google-signin.
func (h *AuthHandler) GoogleSignin(c *gin.Context) {
	var req struct {
		Email      string `json:"email"`
		FirstName  string `json:"firstName"`
		LastName   string `json:"lastName"`
		GoogleID   string `json:"googleId"`
		Credential string `json:"credential"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid google signin request", zap.Error(err))
		badBody(c)
		return
	}

	res, err := h.auth.GoogleSignin(c.Request.Context(), service.GoogleSigninInput{
		Email:      req.Email,
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		GoogleID:   req.GoogleID,
		Credential: req.Credential,
	})
	if err != nil {
		h.metrics.RecordAuthEvent("oauth_google", h.errs.respond(c, "google signin", err))
		return
	}
	h.metrics.RecordAuthEvent("oauth_google", outcomeSuccess)
	c.JSON(http.StatusOK, newAuthResponse("Google login successful", res))
}

// GitHubStart maneja GET /auth/github: fija el state y redirige al proveedor.
func (h *AuthHandler) GitHubStart(c *gin.Context) {
	state := uuid.NewString()
	target, err := h.auth.GitHubAuthURL(state)
	if err != nil {
		h.errs.respond(c, "github start", err)
		return
	}
	h.setStateCookie(c, state, githubStateMaxAge)
	c.Redirect(http.StatusFound, target)
}

// GitHubCallback maneja GET /auth/github/callback y redirige al dashboard con los tokens.
func (h *AuthHandler) GitHubCallback(c *gin.Context) {
	expected, _ := c.Cookie(githubStateCookie)
	h.setStateCookie(c, "", -1)

	if providerErr := c.Query("error"); providerErr != "" {
		h.logger.Warn("github authorization denied", zap.String("error", providerErr))
		h.metrics.RecordAuthEvent("oauth_github", outcomeRejected)
		c.JSON(http.StatusBadRequest, gin.H{"message": "GitHub authorization was denied"})
		return
	}
	if expected == "" || c.Query("state") != expected {
		h.metrics.RecordAuthEvent("oauth_github", h.errs.respond(c, "github callback", service.ErrOAuthState))
		return
	}

	res, err := h.auth.GitHubLogin(c.Request.Context(), c.Query("code"))
	if err != nil {
		if errors.Is(err, service.ErrProviderUpstream) {
			h.logger.Warn("github callback rejected", zap.Error(err))
			h.metrics.RecordAuthEvent("oauth_github", outcomeRejected)
			c.JSON(http.StatusBadRequest, gin.H{"message": "GitHub authentication failed"})
			return
		}
		h.metrics.RecordAuthEvent("oauth_github", h.errs.respond(c, "github callback", err))
		return
	}
	h.metrics.RecordAuthEvent("oauth_github", outcomeSuccess)

	// El refresh token va en el fragmento: no llega al historial del servidor ni al Referer.
	q := url.Values{}
	q.Set("token", res.Tokens.AccessToken)
	frag := url.Values{}
	frag.Set("refreshToken", res.Tokens.RefreshToken)
	c.Redirect(http.StatusFound, h.frontendURL+"/dashboard?"+q.Encode()+"#"+frag.Encode())
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// Refresh maneja POST /auth/refresh.
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid refresh request", zap.Error(err))
		badBody(c)
		return
	}
	if strings.TrimSpace(req.RefreshToken) == "" {
		h.metrics.RecordAuthEvent("refresh", outcomeRejected)
		unauthorized(c, "No refresh token provided", codeTokenMissing)
		return
	}

	pair, err := h.auth.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		h.metrics.RecordAuthEvent("refresh", h.errs.respond(c, "refresh", err))
		return
	}
	h.metrics.RecordAuthEvent("refresh", outcomeSuccess)
	c.JSON(http.StatusOK, gin.H{"token": pair.AccessToken, "expiresIn": pair.ExpiresIn})
}

// Logout maneja POST /auth/logout. Sin cuerpo o con token desconocido igual responde 204.
func (h *AuthHandler) Logout(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		h.logger.Warn("invalid logout request", zap.Error(err))
		badBody(c)
		return
	}
	if strings.TrimSpace(req.RefreshToken) != "" {
		if err := h.auth.Logout(c.Request.Context(), req.RefreshToken); err != nil {
			h.errs.serverError(c, "logout", err)
			return
		}
	}
	c.Status(http.StatusNoContent)
}

func (h *AuthHandler) setStateCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(githubStateCookie, value, maxAge, "/auth/github", "", h.secureCookie, true)
}
