package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/dreamsdoc/dreamsdoc-web/internal/domain/user"
	apperrors "github.com/dreamsdoc/dreamsdoc-web/internal/errors"
	"github.com/dreamsdoc/dreamsdoc-web/internal/ports"
)

// AdminServiceOptions groups dependencies for AdminService.
type AdminServiceOptions struct {
	Users ports.UserAPI // Required
	Obs   Observability
}

// AdminService backs the admin panel. Access is gated by the route guard;
// the backend enforces the role on its side.
type AdminService struct {
	users  ports.UserAPI
	obs    Observability
	logger *slog.Logger
}

// NewAdminService constructs an AdminService.
func NewAdminService(opts AdminServiceOptions) *AdminService {
	if opts.Users == nil {
		panic("UserAPI is required")
	}
	return &AdminService{users: opts.Users, obs: opts.Obs, logger: opts.Obs.logger("admin")}
}

// ListUsers returns one page of users.
func (s *AdminService) ListUsers(ctx context.Context, page ports.PageParams) ([]user.Summary, error) {
	start := time.Now()
	users, err := s.users.ListUsers(ctx, page)
	s.obs.emit("admin", "list_users", start, err)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// ToggleActivation flips the activation state of username.
func (s *AdminService) ToggleActivation(ctx context.Context, username string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return apperrors.ValidationField("username", "Username is required.")
	}
	start := time.Now()
	err := s.users.Activate(ctx, username)
	s.obs.emit("admin", "toggle_activation", start, err)
	if err != nil {
		return fmt.Errorf("toggle activation %s: %w", username, err)
	}
	s.logger.InfoContext(ctx, "user activation toggled", "username", username)
	return nil
}
