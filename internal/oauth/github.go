package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"

	"hackathon-portal/internal/domain"
)

const defaultGitHubAPIBase = "https://api.github.com"

// GitHubConfig configura el flujo authorization-code de GitHub.
type GitHubConfig struct {
	ClientID     string
	ClientSecret string
	CallbackURL  string
	Scopes       []string

	// Overrides para tests o GitHub Enterprise.
	AuthURL    string
	TokenURL   string
	APIBaseURL string

	HTTPClient *http.Client
}

// GitHubProvider intercambia codigos de autorizacion y resuelve la identidad del usuario.
type GitHubProvider struct {
	oauth      *oauth2.Config
	apiBase    string
	httpClient *http.Client
}

func NewGitHubProvider(cfg GitHubConfig) *GitHubProvider {
	endpoint := github.Endpoint
	if cfg.AuthURL != "" {
		endpoint.AuthURL = cfg.AuthURL
	}
	if cfg.TokenURL != "" {
		endpoint.TokenURL = cfg.TokenURL
	}
	scopes := cfg.Scopes
	if len(scopes) == 0 {
		scopes = []string{"read:user", "user:email"}
	}
	apiBase := strings.TrimRight(cfg.APIBaseURL, "/")
	if apiBase == "" {
		apiBase = defaultGitHubAPIBase
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &GitHubProvider{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.CallbackURL,
			Scopes:       scopes,
			Endpoint:     endpoint,
		},
		apiBase:    apiBase,
		httpClient: client,
	}
}

// AuthCodeURL construye la URL de autorizacion con el state anti-CSRF.
func (p *GitHubProvider) AuthCodeURL(state string) string {
	return p.oauth.AuthCodeURL(state)
}

// Identity intercambia el codigo, lee el perfil y resuelve un email verificado.
func (p *GitHubProvider) Identity(ctx context.Context, code string) (domain.ExternalIdentity, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, p.httpClient)
	token, err := p.oauth.Exchange(ctx, code)
	if err != nil {
		return domain.ExternalIdentity{}, fmt.Errorf("%w: exchange: %v", ErrUpstream, err)
	}

	var user githubUser
	if err := p.getJSON(ctx, token.AccessToken, "/user", &user); err != nil {
		return domain.ExternalIdentity{}, err
	}
	if user.ID == 0 {
		return domain.ExternalIdentity{}, fmt.Errorf("%w: user response without id", ErrUpstream)
	}

	email := strings.TrimSpace(user.Email)
	if email == "" {
		email, err = p.primaryEmail(ctx, token.AccessToken)
		if err != nil {
			return domain.ExternalIdentity{}, err
		}
	}

	first, last := splitName(user.Name)
	if first == "" {
		first = user.Login
	}
	return domain.ExternalIdentity{
		Provider:  domain.ProviderGitHub,
		Subject:   strconv.FormatInt(user.ID, 10),
		Email:     email,
		FirstName: first,
		LastName:  last,
		Username:  user.Login,
	}, nil
}

func (p *GitHubProvider) primaryEmail(ctx context.Context, accessToken string) (string, error) {
	var emails []githubEmail
	if err := p.getJSON(ctx, accessToken, "/user/emails", &emails); err != nil {
		return "", err
	}
	for _, e := range emails {
		if e.Primary && e.Verified {
			return e.Email, nil
		}
	}
	return "", ErrNoVerifiedEmail
}

func (p *GitHubProvider) getJSON(ctx context.Context, accessToken, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.apiBase+path, nil)
	if err != nil {
		return fmt.Errorf("%w: create request: %v", ErrUpstream, err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrUpstream, path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("%w: read %s: %v", ErrUpstream, path, err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: %s status=%d", ErrUpstream, path, resp.StatusCode)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: decode %s: %v", ErrUpstream, path, err)
	}
	return nil
}

type githubUser struct {
	ID    int64  `json:"id"`
	Login string `json:"login"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type githubEmail struct {
	Email    string `json:"email"`
	Primary  bool   `json:"primary"`
	Verified bool   `json:"verified"`
}
