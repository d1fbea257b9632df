package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"hackathon-portal/internal/service"
)

// errorResponder traduce errores de servicio a una unica respuesta HTTP.
type errorResponder struct {
	logger     *zap.Logger
	production bool
}

// respond escribe la respuesta para err y devuelve el outcome para metricas.
func (e errorResponder) respond(c *gin.Context, op string, err error) string {
	if verr, ok := service.AsValidationError(err); ok {
		e.logger.Warn(op+" rejected", zap.String("field", verr.Field), zap.String("reason", verr.Message))
		c.JSON(http.StatusBadRequest, gin.H{"message": verr.Message})
		return outcomeRejected
	}

	status, message := http.StatusBadRequest, ""
	switch {
	case errors.Is(err, service.ErrEmailTaken):
		message = "User already exists"
	case errors.Is(err, service.ErrInvalidCredentials):
		message = "Invalid email or password"
	case errors.Is(err, service.ErrEmailInUse):
		message = "Email already in use"
	case errors.Is(err, service.ErrProviderEmailMissing):
		message = "No verified email address is associated with this account"
	case errors.Is(err, service.ErrOAuthState):
		message = "Invalid OAuth state"
	case errors.Is(err, service.ErrOAuthCode):
		message = "Missing authorization code"
	case errors.Is(err, service.ErrOAuthInvalid):
		message = "Invalid OAuth data"
	case errors.Is(err, service.ErrProviderUpstream):
		message = "Authentication with provider failed"
	case errors.Is(err, service.ErrUserNotFound):
		status, message = http.StatusNotFound, "User not found"
	case errors.Is(err, service.ErrProviderDisabled):
		status, message = http.StatusNotFound, "Provider not configured"
	case errors.Is(err, service.ErrJWTExpired):
		unauthorized(c, "Token expired", codeTokenExpired)
		return outcomeRejected
	case errors.Is(err, service.ErrJWTInvalid):
		unauthorized(c, "Invalid token", codeTokenInvalid)
		return outcomeRejected
	}
	if message != "" {
		e.logger.Warn(op+" rejected", zap.Error(err))
		c.JSON(status, gin.H{"message": message})
		return outcomeRejected
	}

	e.serverError(c, op, err)
	return outcomeError
}

func (e errorResponder) serverError(c *gin.Context, op string, err error) {
	e.logger.Error(op+" failed", zap.Error(err))
	body := gin.H{"message": "Server error"}
	if !e.production {
		body["error"] = err.Error()
	}
	c.JSON(http.StatusInternalServerError, body)
}

func badBody(c *gin.Context) {
	c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
}

const (
	outcomeSuccess  = "success"
	outcomeRejected = "rejected"
	outcomeError    = "error"
)
