package service

import "errors"

var (
	ErrUserNotFound         = errors.New("user not found")
	ErrEmailTaken           = errors.New("user already exists")
	ErrEmailInUse           = errors.New("email already in use")
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrOAuthInvalid         = errors.New("oauth data invalid")
	ErrProviderEmailMissing = errors.New("provider returned no verified email")
	ErrProviderUpstream     = errors.New("provider authentication failed")
	ErrProviderDisabled     = errors.New("provider not configured")
	ErrOAuthState           = errors.New("oauth state mismatch")
	ErrOAuthCode            = errors.New("oauth code missing")
)

// ValidationError describe un input rechazado con un mensaje apto para mostrar al usuario.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// AsValidationError extrae un ValidationError de la cadena de errores.
func AsValidationError(err error) (*ValidationError, bool) {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr, true
	}
	return nil, false
}
