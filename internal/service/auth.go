package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"

	domainauth "github.com/dreamsdoc/dreamsdoc-web/internal/domain/auth"
	apperrors "github.com/dreamsdoc/dreamsdoc-web/internal/errors"
	"github.com/dreamsdoc/dreamsdoc-web/internal/ports"
)

// AuthRoutes are the navigation targets of the auth flows.
type AuthRoutes struct {
	SignIn string
	Home   string
}

// AuthServiceOptions groups dependencies for AuthService.
type AuthServiceOptions struct {
	Identity ports.IdentityAPI // Required
	Session  *SessionService   // Required
	Config   AuthServiceConfig
}

// AuthServiceConfig holds the optional collaborators of AuthService.
type AuthServiceConfig struct {
	Navigator ports.Navigator
	Routes    AuthRoutes
	Obs       Observability
}

// AuthService runs sign-in, sign-up and sign-out.
type AuthService struct {
	identity ports.IdentityAPI
	session  *SessionService
	nav      ports.Navigator
	routes   AuthRoutes
	obs      Observability
	logger   *slog.Logger
	validate *validator.Validate
	now      func() time.Time
}

// NewAuthService constructs a new AuthService.
func NewAuthService(opts AuthServiceOptions) *AuthService {
	if opts.Identity == nil {
		panic("IdentityAPI is required")
	}
	if opts.Session == nil {
		panic("SessionService is required")
	}
	routes := opts.Config.Routes
	if routes.SignIn == "" {
		routes.SignIn = "/sign-in"
	}
	if routes.Home == "" {
		routes.Home = "/"
	}
	return &AuthService{
		identity: opts.Identity,
		session:  opts.Session,
		nav:      opts.Config.Navigator,
		routes:   routes,
		obs:      opts.Config.Obs,
		logger:   opts.Config.Obs.logger("auth"),
		validate: newValidator(),
		now:      time.Now,
	}
}

// SignIn validates the form, exchanges the credentials for a token, persists
// the credential and resolves the identity. Validation failures never reach
// the backend.
func (s *AuthService) SignIn(ctx context.Context, in domainauth.SignInInput) (domainauth.Identity, error) {
	if err := validateForm(s.validate, in); err != nil {
		return domainauth.Identity{}, err
	}

	start := time.Now()
	token, err := s.identity.Login(ctx, in.Username, in.Password)
	if err != nil {
		s.obs.emit("auth", "sign_in", start, err)
		return domainauth.Identity{}, fmt.Errorf("sign in: %w", err)
	}

	cred := domainauth.NewCredential(token)
	if cred.Expired(s.now()) {
		err = apperrors.Unauthorized("The issued token is already expired.")
		s.obs.emit("auth", "sign_in", start, err)
		return domainauth.Identity{}, err
	}

	id, err := s.session.Establish(ctx, cred)
	s.obs.emit("auth", "sign_in", start, err)
	if err != nil {
		return domainauth.Identity{}, fmt.Errorf("sign in: %w", err)
	}

	s.logger.InfoContext(ctx, "signed in", "user_id", id.UserID, "role", id.Role)
	if s.nav != nil {
		s.nav.Replace(s.routes.Home)
	}
	return id, nil
}

// SignUp validates and submits a registration, then sends the user to sign-in.
func (s *AuthService) SignUp(ctx context.Context, in domainauth.SignUpInput) error {
	if err := validateForm(s.validate, in); err != nil {
		return err
	}
	start := time.Now()
	err := s.identity.Register(ctx, in)
	s.obs.emit("auth", "sign_up", start, err)
	if err != nil {
		return fmt.Errorf("sign up: %w", err)
	}
	s.logger.InfoContext(ctx, "account registered", "username", in.Username, "role", in.Role)
	if s.nav != nil {
		s.nav.Push(s.routes.SignIn)
	}
	return nil
}

// SignOut clears the credential and identity and returns to sign-in.
func (s *AuthService) SignOut(ctx context.Context) error {
	if err := s.session.End(ctx); err != nil {
		return fmt.Errorf("sign out: %w", err)
	}
	if s.nav != nil {
		s.nav.Replace(s.routes.SignIn)
	}
	return nil
}
