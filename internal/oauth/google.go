package oauth

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/api/idtoken"

	"hackathon-portal/internal/domain"
)

type validateFunc func(ctx context.Context, idToken, audience string) (*idtoken.Payload, error)

// GoogleVerifier valida ID tokens de Google Identity Services contra el client id.
type GoogleVerifier struct {
	clientID string
	validate validateFunc
}

func NewGoogleVerifier(clientID string) *GoogleVerifier {
	return &GoogleVerifier{clientID: clientID, validate: idtoken.Validate}
}

func (v *GoogleVerifier) Verify(ctx context.Context, credential string) (domain.ExternalIdentity, error) {
	credential = strings.TrimSpace(credential)
	if credential == "" {
		return domain.ExternalIdentity{}, ErrInvalidCredential
	}
	payload, err := v.validate(ctx, credential, v.clientID)
	if err != nil {
		return domain.ExternalIdentity{}, fmt.Errorf("%w: %v", ErrInvalidCredential, err)
	}
	if payload.Subject == "" {
		return domain.ExternalIdentity{}, ErrInvalidCredential
	}

	email := claimString(payload.Claims, "email")
	verified, _ := payload.Claims["email_verified"].(bool)
	if email == "" || !verified {
		return domain.ExternalIdentity{}, ErrNoVerifiedEmail
	}

	first := claimString(payload.Claims, "given_name")
	last := claimString(payload.Claims, "family_name")
	if first == "" && last == "" {
		first, last = splitName(claimString(payload.Claims, "name"))
	}
	return domain.ExternalIdentity{
		Provider:  domain.ProviderGoogle,
		Subject:   payload.Subject,
		Email:     email,
		FirstName: first,
		LastName:  last,
	}, nil
}

func claimString(claims map[string]interface{}, key string) string {
	v, _ := claims[key].(string)
	return strings.TrimSpace(v)
}
