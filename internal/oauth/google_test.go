package oauth

import (
	"context"
	"errors"
	"testing"

	"google.golang.org/api/idtoken"
)

func TestGoogleVerifier_MapsClaims(t *testing.T) {
	v := &GoogleVerifier{clientID: "client-id", validate: func(_ context.Context, token, audience string) (*idtoken.Payload, error) {
		if token != "id-token" || audience != "client-id" {
			t.Fatalf("unexpected token/audience %q %q", token, audience)
		}
		return &idtoken.Payload{
			Subject: "g-123",
			Claims: map[string]interface{}{
				"email":          "ada@example.com",
				"email_verified": true,
				"given_name":     "Ada",
				"family_name":    "Lovelace",
			},
		}, nil
	}}

	id, err := v.Verify(context.Background(), "id-token")
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if id.Provider != "google" || id.Subject != "g-123" || id.Email != "ada@example.com" || id.FirstName != "Ada" || id.LastName != "Lovelace" {
		t.Fatalf("unexpected identity %+v", id)
	}
}

func TestGoogleVerifier_Rejections(t *testing.T) {
	v := &GoogleVerifier{clientID: "client-id", validate: func(context.Context, string, string) (*idtoken.Payload, error) {
		return nil, errors.New("bad signature")
	}}
	if _, err := v.Verify(context.Background(), "id-token"); !errors.Is(err, ErrInvalidCredential) {
		t.Fatalf("expected ErrInvalidCredential, got %v", err)
	}
	if _, err := v.Verify(context.Background(), " "); !errors.Is(err, ErrInvalidCredential) {
		t.Fatalf("expected ErrInvalidCredential for empty credential, got %v", err)
	}

	v.validate = func(context.Context, string, string) (*idtoken.Payload, error) {
		return &idtoken.Payload{Subject: "g-1", Claims: map[string]interface{}{"email": "ada@example.com", "email_verified": false}}, nil
	}
	if _, err := v.Verify(context.Background(), "id-token"); !errors.Is(err, ErrNoVerifiedEmail) {
		t.Fatalf("expected ErrNoVerifiedEmail, got %v", err)
	}
}
