package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"hackathon-portal/internal/domain"
	"hackathon-portal/internal/email"
	"hackathon-portal/internal/oauth"
	"hackathon-portal/internal/repository"
)

// GitHubIdentityProvider resuelve el flujo authorization-code de GitHub.
type GitHubIdentityProvider interface {
	AuthCodeURL(state string) string
	Identity(ctx context.Context, code string) (domain.ExternalIdentity, error)
}

// GoogleCredentialVerifier valida el ID token emitido por Google Identity Services.
type GoogleCredentialVerifier interface {
	Verify(ctx context.Context, credential string) (domain.ExternalIdentity, error)
}

// AuthService coordina signup, signin y logins externos.
type AuthService struct {
	logger      *zap.Logger
	users       repository.UserRepository
	activities  repository.ActivityRepository
	hasher      PasswordHasher
	tokens      *JWTService
	mailer      email.Sender
	github      GitHubIdentityProvider
	google      GoogleCredentialVerifier
	phoneRegion string
	now         func() time.Time
}

func NewAuthService(
	logger *zap.Logger,
	users repository.UserRepository,
	activities repository.ActivityRepository,
	hasher PasswordHasher,
	tokens *JWTService,
	mailer email.Sender,
	phoneRegion string,
) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if mailer == nil {
		mailer = email.NewDisabledSender()
	}
	return &AuthService{
		logger:      logger,
		users:       users,
		activities:  activities,
		hasher:      hasher,
		tokens:      tokens,
		mailer:      mailer,
		phoneRegion: phoneRegion,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// WithGitHub habilita el login con GitHub.
func (s *AuthService) WithGitHub(p GitHubIdentityProvider) *AuthService {
	s.github = p
	return s
}

// WithGoogle exige y valida el credential de Google en GoogleSignin.
func (s *AuthService) WithGoogle(v GoogleCredentialVerifier) *AuthService {
	s.google = v
	return s
}

// AuthResult es la respuesta de todo login exitoso.
type AuthResult struct {
	User   domain.User
	Tokens TokenPair
}

// GoogleSigninInput es el esquema de POST /auth/google-signin.
type GoogleSigninInput struct {
	Email      string
	FirstName  string
	LastName   string
	GoogleID   string
	Credential string
}

func (s *AuthService) Signup(ctx context.Context, input SignupInput) (AuthResult, error) {
	in, err := input.validate(s.phoneRegion)
	if err != nil {
		return AuthResult{}, err
	}

	if _, err := s.users.GetByEmail(ctx, in.Email); err == nil {
		return AuthResult{}, ErrEmailTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		return AuthResult{}, fmt.Errorf("lookup user: %w", err)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return AuthResult{}, fmt.Errorf("hash password: %w", err)
	}

	now := s.now()
	user := domain.User{
		ID:           uuid.NewString(),
		Email:        in.Email,
		Username:     in.Username,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		PhoneNumber:  in.PhoneNumber,
		Gender:       domain.Gender(in.Gender),
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return AuthResult{}, ErrEmailTaken
		}
		return AuthResult{}, fmt.Errorf("create user: %w", err)
	}
	s.logger.Info("user signed up", zap.String("user_id", user.ID))

	s.recordBestEffort(ctx, user.ID, domain.ActivitySignup, "Account created")
	if err := s.mailer.SendWelcome(ctx, user.Email, user.FirstName); err != nil && !errors.Is(err, email.ErrDisabled) {
		s.logger.Warn("welcome email failed", zap.String("user_id", user.ID), zap.Error(err))
	}

	return s.issue(ctx, user)
}

// Signin responde ErrInvalidCredentials tanto si el email no existe como si el password no coincide.
func (s *AuthService) Signin(ctx context.Context, input SigninInput) (AuthResult, error) {
	in, err := input.validate()
	if err != nil {
		return AuthResult{}, err
	}

	user, err := s.users.GetByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return AuthResult{}, ErrInvalidCredentials
		}
		return AuthResult{}, fmt.Errorf("lookup user: %w", err)
	}
	if !s.hasher.Verify(in.Password, user.PasswordHash) {
		return AuthResult{}, ErrInvalidCredentials
	}

	if err := s.recordLogin(ctx, &user, "User logged in"); err != nil {
		return AuthResult{}, err
	}
	return s.issue(ctx, user)
}

// GitHubAuthURL devuelve la URL de autorizacion de GitHub para state.
func (s *AuthService) GitHubAuthURL(state string) (string, error) {
	if s.github == nil {
		return "", ErrProviderDisabled
	}
	return s.github.AuthCodeURL(state), nil
}

func (s *AuthService) GitHubLogin(ctx context.Context, code string) (AuthResult, error) {
	if s.github == nil {
		return AuthResult{}, ErrProviderDisabled
	}
	code = strings.TrimSpace(code)
	if code == "" {
		return AuthResult{}, ErrOAuthCode
	}
	identity, err := s.github.Identity(ctx, code)
	if err != nil {
		return AuthResult{}, mapProviderError(err)
	}
	return s.externalLogin(ctx, identity)
}

// GoogleSignin usa los claims verificados del credential cuando hay verificador;
// si no, confia en los datos enviados por el frontend.
func (s *AuthService) GoogleSignin(ctx context.Context, input GoogleSigninInput) (AuthResult, error) {
	var identity domain.ExternalIdentity
	if s.google != nil {
		if strings.TrimSpace(input.Credential) == "" {
			return AuthResult{}, invalid("credential", "Google credential is required")
		}
		verified, err := s.google.Verify(ctx, input.Credential)
		if err != nil {
			return AuthResult{}, mapProviderError(err)
		}
		identity = verified
	} else {
		identity = domain.ExternalIdentity{
			Provider:  domain.ProviderGoogle,
			Subject:   strings.TrimSpace(input.GoogleID),
			Email:     strings.TrimSpace(input.Email),
			FirstName: strings.TrimSpace(input.FirstName),
			LastName:  strings.TrimSpace(input.LastName),
		}
		if identity.Email == "" || identity.Subject == "" {
			return AuthResult{}, invalid("email", "Email and Google ID are required")
		}
	}
	return s.externalLogin(ctx, identity)
}

// Refresh emite un access token nuevo; el refresh token sigue vigente.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (TokenPair, error) {
	return s.tokens.RefreshAccess(ctx, refreshToken)
}

// Logout revoca el refresh token. Un token ya invalido o vencido no es error.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	err := s.tokens.RevokeRefresh(ctx, refreshToken)
	if errors.Is(err, ErrJWTInvalid) || errors.Is(err, ErrJWTExpired) {
		return nil
	}
	return err
}

func (s *AuthService) externalLogin(ctx context.Context, identity domain.ExternalIdentity) (AuthResult, error) {
	user, err := s.upsertExternal(ctx, identity)
	if err != nil {
		return AuthResult{}, err
	}
	if err := s.recordLogin(ctx, &user, "User logged in via "+domain.ProviderLabel(identity.Provider)); err != nil {
		return AuthResult{}, err
	}
	return s.issue(ctx, user)
}

// upsertExternal busca por email y vincula el proveedor, o crea la cuenta sin password.
func (s *AuthService) upsertExternal(ctx context.Context, identity domain.ExternalIdentity) (domain.User, error) {
	emailAddr := strings.TrimSpace(identity.Email)
	if emailAddr == "" {
		return domain.User{}, ErrProviderEmailMissing
	}
	if identity.Provider == "" || strings.TrimSpace(identity.Subject) == "" {
		return domain.User{}, ErrOAuthInvalid
	}

	user, err := s.users.GetByEmail(ctx, emailAddr)
	if err == nil {
		return s.link(ctx, user, identity)
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return domain.User{}, fmt.Errorf("lookup user: %w", err)
	}

	now := s.now()
	user = domain.User{
		ID:        uuid.NewString(),
		Email:     emailAddr,
		Username:  identity.Username,
		FirstName: identity.FirstName,
		LastName:  identity.LastName,
		CreatedAt: now,
		UpdatedAt: now,
	}
	setProviderID(&user, identity.Provider, identity.Subject)

	if err := s.users.Create(ctx, user); err != nil {
		if !errors.Is(err, repository.ErrDuplicateEmail) {
			return domain.User{}, fmt.Errorf("create user: %w", err)
		}
		// Otro request creo la cuenta entre el lookup y el insert.
		existing, getErr := s.users.GetByEmail(ctx, emailAddr)
		if getErr != nil {
			return domain.User{}, fmt.Errorf("lookup user: %w", getErr)
		}
		return s.link(ctx, existing, identity)
	}
	s.logger.Info("user created from provider",
		zap.String("user_id", user.ID),
		zap.String("provider", identity.Provider),
	)
	s.recordBestEffort(ctx, user.ID, domain.ActivitySignup, "Account created via "+domain.ProviderLabel(identity.Provider))
	return user, nil
}

func (s *AuthService) link(ctx context.Context, user domain.User, identity domain.ExternalIdentity) (domain.User, error) {
	if providerID(user, identity.Provider) == identity.Subject {
		return user, nil
	}
	if err := s.users.LinkProvider(ctx, user.ID, identity.Provider, identity.Subject); err != nil {
		return domain.User{}, fmt.Errorf("link provider: %w", err)
	}
	setProviderID(&user, identity.Provider, identity.Subject)
	return user, nil
}

// recordLogin escribe la actividad de login (obligatoria) y actualiza lastLoginAt.
func (s *AuthService) recordLogin(ctx context.Context, user *domain.User, description string) error {
	now := s.now()
	activity := domain.Activity{
		ID:          uuid.NewString(),
		UserID:      user.ID,
		Type:        domain.ActivityLogin,
		Description: description,
		CreatedAt:   now,
	}
	if err := s.activities.Create(ctx, activity); err != nil {
		return fmt.Errorf("record login activity: %w", err)
	}
	if err := s.users.TouchLastLogin(ctx, user.ID, now); err != nil {
		s.logger.Warn("touch last login failed", zap.String("user_id", user.ID), zap.Error(err))
	} else {
		user.LastLoginAt = &now
	}
	return nil
}

func (s *AuthService) recordBestEffort(ctx context.Context, userID string, kind domain.ActivityType, description string) {
	activity := domain.Activity{
		ID:          uuid.NewString(),
		UserID:      userID,
		Type:        kind,
		Description: description,
		CreatedAt:   s.now(),
	}
	if err := s.activities.Create(ctx, activity); err != nil {
		s.logger.Warn("record activity failed",
			zap.String("user_id", userID),
			zap.String("type", string(kind)),
			zap.Error(err),
		)
	}
}

func (s *AuthService) issue(ctx context.Context, user domain.User) (AuthResult, error) {
	pair, err := s.tokens.GeneratePair(ctx, user.ID)
	if err != nil {
		return AuthResult{}, fmt.Errorf("issue tokens: %w", err)
	}
	return AuthResult{User: user, Tokens: pair}, nil
}

func mapProviderError(err error) error {
	switch {
	case errors.Is(err, oauth.ErrNoVerifiedEmail):
		return ErrProviderEmailMissing
	case errors.Is(err, oauth.ErrInvalidCredential):
		return fmt.Errorf("%w: %v", ErrOAuthInvalid, err)
	default:
		return fmt.Errorf("%w: %v", ErrProviderUpstream, err)
	}
}

func providerID(user domain.User, provider string) string {
	switch provider {
	case domain.ProviderGoogle:
		return user.GoogleID
	case domain.ProviderGitHub:
		return user.GithubID
	default:
		return ""
	}
}

func setProviderID(user *domain.User, provider, subject string) {
	switch provider {
	case domain.ProviderGoogle:
		user.GoogleID = subject
	case domain.ProviderGitHub:
		user.GithubID = subject
	}
}
