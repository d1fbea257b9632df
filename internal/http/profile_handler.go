package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"hackathon-portal/internal/service"
)

// ProfileHandler atiende /profile/* para el usuario autenticado.
type ProfileHandler struct {
	logger   *zap.Logger
	profiles *service.ProfileService
	errs     errorResponder
}

func NewProfileHandler(logger *zap.Logger, profiles *service.ProfileService, production bool) *ProfileHandler {
	return &ProfileHandler{
		logger:   logger,
		profiles: profiles,
		errs:     errorResponder{logger: logger, production: production},
	}
}

// GetMe maneja GET /profile/me.
func (h *ProfileHandler) GetMe(c *gin.Context) {
	userID, ok := h.subject(c)
	if !ok {
		return
	}
	user, err := h.profiles.Get(c.Request.Context(), userID)
	if err != nil {
		h.errs.respond(c, "get profile", err)
		return
	}
	c.JSON(http.StatusOK, user.Public())
}

// UpdateMe maneja PUT /profile/me con semantica parcial.
func (h *ProfileHandler) UpdateMe(c *gin.Context) {
	userID, ok := h.subject(c)
	if !ok {
		return
	}
	var req struct {
		FirstName   string `json:"firstName"`
		LastName    string `json:"lastName"`
		Email       string `json:"email"`
		PhoneNumber string `json:"phoneNumber"`
		Gender      string `json:"gender"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid profile update request", zap.Error(err))
		badBody(c)
		return
	}

	user, err := h.profiles.Update(c.Request.Context(), userID, service.ProfileUpdateInput{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		Gender:      req.Gender,
	})
	if err != nil {
		h.errs.respond(c, "update profile", err)
		return
	}
	c.JSON(http.StatusOK, user.Public())
}

// Activity maneja GET /profile/activity.
func (h *ProfileHandler) Activity(c *gin.Context) {
	userID, ok := h.subject(c)
	if !ok {
		return
	}
	items, err := h.profiles.ListActivity(c.Request.Context(), userID)
	if err != nil {
		h.errs.respond(c, "list activity", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"activities": items})
}

func (h *ProfileHandler) subject(c *gin.Context) (string, bool) {
	claims, ok := GetAuthClaims(c)
	if !ok || claims.Subject == "" {
		unauthorized(c, "Invalid token", codeTokenInvalid)
		return "", false
	}
	return claims.Subject, true
}
