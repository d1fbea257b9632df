package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"hackathon-portal/internal/domain"
)

// APIError es una respuesta no exitosa del servidor.
type APIError struct {
	Status  int
	Message string
	Code    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("request failed with status %d", e.Status)
	}
	return e.Message
}

// API envuelve la superficie HTTP del portal.
type API struct {
	baseURL string
	http    *http.Client
	store   TokenStore
}

// New arma un API cuyo transporte renueva la sesion automaticamente.
func New(baseURL string, store TokenStore, onSignedOut func()) *API {
	baseURL = strings.TrimRight(baseURL, "/")
	transport := &Transport{
		Base:        http.DefaultTransport,
		Store:       store,
		RefreshURL:  baseURL + "/auth/refresh",
		OnSignedOut: onSignedOut,
	}
	return &API{
		baseURL: baseURL,
		http:    &http.Client{Transport: transport, Timeout: 15 * time.Second},
		store:   store,
	}
}

type SignupRequest struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	Username    string `json:"username,omitempty"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
	Gender      string `json:"gender,omitempty"`
}

// ProfileUpdate lleva solo los campos a cambiar.
type ProfileUpdate struct {
	FirstName   string `json:"firstName,omitempty"`
	LastName    string `json:"lastName,omitempty"`
	Email       string `json:"email,omitempty"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
	Gender      string `json:"gender,omitempty"`
}

type AuthResponse struct {
	Message      string            `json:"message"`
	Token        string            `json:"token"`
	RefreshToken string            `json:"refreshToken"`
	ExpiresIn    int64             `json:"expiresIn"`
	User         domain.PublicUser `json:"user"`
}

func (a *API) Signup(ctx context.Context, req SignupRequest) (AuthResponse, error) {
	return a.authenticate(ctx, "/auth/signup", req)
}

func (a *API) Signin(ctx context.Context, email, password string) (AuthResponse, error) {
	return a.authenticate(ctx, "/auth/signin", map[string]string{"email": email, "password": password})
}

func (a *API) Me(ctx context.Context) (domain.PublicUser, error) {
	var user domain.PublicUser
	err := a.do(ctx, http.MethodGet, "/profile/me", nil, &user)
	return user, err
}

func (a *API) UpdateMe(ctx context.Context, update ProfileUpdate) (domain.PublicUser, error) {
	var user domain.PublicUser
	err := a.do(ctx, http.MethodPut, "/profile/me", update, &user)
	return user, err
}

func (a *API) Activity(ctx context.Context) ([]domain.Activity, error) {
	var body struct {
		Activities []domain.Activity `json:"activities"`
	}
	err := a.do(ctx, http.MethodGet, "/profile/activity", nil, &body)
	return body.Activities, err
}

// Logout revoca el refresh token en el servidor y borra la sesion local.
// La sesion local se borra aunque el servidor falle.
func (a *API) Logout(ctx context.Context) error {
	tokens, err := a.store.Load()
	if err == nil && tokens.RefreshToken != "" {
		err = a.do(ctx, http.MethodPost, "/auth/logout", map[string]string{"refreshToken": tokens.RefreshToken}, nil)
	}
	if clearErr := a.store.Clear(); clearErr != nil {
		return errors.Join(err, clearErr)
	}
	return err
}

func (a *API) authenticate(ctx context.Context, path string, payload any) (AuthResponse, error) {
	var res AuthResponse
	if err := a.do(ctx, http.MethodPost, path, payload, &res); err != nil {
		return AuthResponse{}, err
	}
	if err := a.store.Save(Tokens{AccessToken: res.Token, RefreshToken: res.RefreshToken}); err != nil {
		return AuthResponse{}, err
	}
	return res, nil
}

func (a *API) do(ctx context.Context, method, path string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, a.baseURL+path, body)
	if err != nil {
		return err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := a.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode}
		_ = json.NewDecoder(io.LimitReader(resp.Body, maxErrorBody)).Decode(apiErr)
		return apiErr
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
