package auth

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/beautyai/beautyai-api/internal/httperr"
	"github.com/beautyai/beautyai-api/internal/models"
	"github.com/beautyai/beautyai-api/internal/validators"
)

var (
	ErrInvalidCredentials = httperr.ErrUnauthorized("invalid_credentials", "Incorrect email or password")
	ErrUnauthorized       = httperr.ErrUnauthorized("invalid_token", "Could not validate credentials")
	ErrInactiveAccount    = httperr.ErrBadRequest("inactive_account", "Inactive user")
	ErrAdminRequired      = httperr.ErrForbidden("not_enough_permissions", "Not enough permissions")
	ErrSuperadminRequired = httperr.ErrForbidden("superadmin_required", "Superadmin privileges required")
)

type UserStore interface {
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}

type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Service is the authentication gate: login and bearer token resolution.
type Service struct {
	users  UserStore
	tokens *TokenManager
}

func NewService(users UserStore, tokens *TokenManager) *Service {
	return &Service{users: users, tokens: tokens}
}

func (s *Service) IssueToken(ctx context.Context, email, password string) (Token, error) {
	user, err := s.users.GetUserByEmail(ctx, validators.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Token{}, ErrInvalidCredentials
		}
		return Token{}, fmt.Errorf("load user: %w", err)
	}

	if !CheckPassword(user.PasswordHash, password) {
		return Token{}, ErrInvalidCredentials
	}

	signed, _, err := s.tokens.Issue(user.Email)
	if err != nil {
		return Token{}, fmt.Errorf("sign token: %w", err)
	}

	return Token{AccessToken: signed, TokenType: "bearer"}, nil
}

func (s *Service) ResolveCaller(ctx context.Context, token string) (*models.User, error) {
	email, err := s.tokens.Parse(token)
	if err != nil {
		return nil, ErrUnauthorized
	}

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, fmt.Errorf("load caller: %w", err)
	}

	if !user.IsActive {
		return nil, ErrInactiveAccount
	}
	return user, nil
}

// RequireAdmin admits cosmetologists and superadmins.
func RequireAdmin(caller *models.User) error {
	if caller.Role == models.RoleAdmin || caller.Role == models.RoleSuperadmin {
		return nil
	}
	return ErrAdminRequired
}

func RequireSuperadmin(caller *models.User) error {
	if caller.Role == models.RoleSuperadmin {
		return nil
	}
	return ErrSuperadminRequired
}
