package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"blog-backend/internal/domains/user/model"
	"blog-backend/internal/domains/user/repository"
	"blog-backend/internal/shared/apperr"
	"blog-backend/internal/shared/security"
	"blog-backend/internal/shared/validation"
	"blog-backend/pkg/jwt"
)

var (
	errTokenInvalid     = apperr.NotAuthenticated("Token is invalid or expired")
	errTokenBlacklisted = apperr.NotAuthenticated("Token is blacklisted")
)

type authService struct {
	repo      repository.UserRepository
	tokens    *jwt.Manager
	sanitizer *security.Sanitizer
}

func NewAuthService(repo repository.UserRepository, tokens *jwt.Manager, sanitizer *security.Sanitizer) AuthServiceInterface {
	return &authService{
		repo:      repo,
		tokens:    tokens,
		sanitizer: sanitizer,
	}
}

func (s *authService) Login(ctx context.Context, payload map[string]any) (*jwt.TokenPair, error) {
	clean, err := s.sanitizer.Payload(payload, "password")
	if err != nil {
		return nil, err
	}

	var req model.LoginRequest
	if req.Email, err = validation.RequireString(clean, "email"); err != nil {
		return nil, err
	}
	if req.Password, err = validation.RequireString(clean, "password"); err != nil {
		return nil, err
	}

	user, err := s.repo.GetByEmail(ctx, NormalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return nil, model.ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, model.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		zerolog.Ctx(ctx).Info().Str("user_id", user.ID.String()).Msg("login failed: wrong password")
		return nil, model.ErrInvalidCredentials
	}

	return s.tokens.GeneratePair(user.ID.String(), user.Email, user.IsStaff)
}

func (s *authService) Refresh(ctx context.Context, payload map[string]any) (*jwt.TokenPair, error) {
	refresh, err := validation.RequireString(payload, "refresh")
	if err != nil {
		return nil, err
	}

	pair, err := s.tokens.Rotate(ctx, refresh)
	if err != nil {
		return nil, tokenError(err)
	}
	return pair, nil
}

func (s *authService) Verify(ctx context.Context, payload map[string]any) error {
	token, err := validation.RequireString(payload, "token")
	if err != nil {
		return err
	}
	return tokenError(s.tokens.Verify(ctx, token))
}

// tokenError keeps infrastructure failures (e.g. the blacklist store) as 500s.
func tokenError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, jwt.ErrRevoked):
		return errTokenBlacklisted
	case errors.Is(err, jwt.ErrInvalidToken):
		return errTokenInvalid
	default:
		return err
	}
}
