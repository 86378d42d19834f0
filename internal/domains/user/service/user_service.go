package service

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	ozzo "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"blog-backend/internal/config"
	"blog-backend/internal/domains/user/model"
	"blog-backend/internal/domains/user/repository"
	"blog-backend/internal/infrastructure/storage"
	"blog-backend/internal/shared/apperr"
	"blog-backend/internal/shared/pagination"
	"blog-backend/internal/shared/permission"
	"blog-backend/internal/shared/security"
	"blog-backend/internal/shared/validation"
	"blog-backend/pkg/cache"
)

// =====================================================
// SERVICE IMPLEMENTATION
// =====================================================

type userService struct {
	repo       repository.UserRepository
	lists      *cache.ListCache
	sanitizer  *security.Sanitizer
	passwords  validation.PasswordPolicy
	limits     config.UserConfig
	images     *storage.ImageProcessor
	storage    storage.ObjectStorage
	cleanup    AvatarCleanupEnqueuer // nil: prior avatars are removed inline
	bcryptCost int
}

func NewUserService(
	repo repository.UserRepository,
	lists *cache.ListCache,
	sanitizer *security.Sanitizer,
	passwords validation.PasswordPolicy,
	limits config.UserConfig,
	images *storage.ImageProcessor,
	objects storage.ObjectStorage,
	cleanup AvatarCleanupEnqueuer,
) ServiceInterface {
	return &userService{
		repo:       repo,
		lists:      lists,
		sanitizer:  sanitizer,
		passwords:  passwords,
		limits:     limits,
		images:     images,
		storage:    objects,
		cleanup:    cleanup,
		bcryptCost: bcrypt.DefaultCost,
	}
}

// =====================================================
// REGISTER
// =====================================================

func (s *userService) Register(ctx context.Context, payload map[string]any) (*model.RegisterResponse, error) {
	logger := zerolog.Ctx(ctx)

	// ========== STEP 1: Sanitize (password is hashed, never rendered) ==========
	clean, err := s.sanitizer.Payload(payload, "password")
	if err != nil {
		return nil, err
	}

	// ========== STEP 2: Required fields ==========
	var req model.RegisterRequest
	if req.Email, err = validation.RequireString(clean, "email"); err != nil {
		return nil, err
	}
	if req.Password, err = validation.RequireString(clean, "password"); err != nil {
		return nil, err
	}
	if req.FirstName, err = validation.RequireString(clean, "first_name"); err != nil {
		return nil, err
	}
	if req.LastName, err = validation.RequireString(clean, "last_name"); err != nil {
		return nil, err
	}
	logger.Debug().
		Str("email", req.Email).
		Str("first_name", req.FirstName).
		Str("last_name", req.LastName).
		Msg("register request")

	// ========== STEP 3: Email syntax and availability ==========
	if err := s.validateEmail(req.Email); err != nil {
		return nil, err
	}
	email := NormalizeEmail(req.Email)

	taken, err := s.repo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, model.NewUserAlreadyExistsError(email)
	}

	// ========== STEP 4: Names and password strength ==========
	if err := validation.Value(req.FirstName, nameRule("First name", s.limits.FirstNameMaxLength)); err != nil {
		return nil, err
	}
	if err := validation.Value(req.LastName, nameRule("Last name", s.limits.LastNameMaxLength)); err != nil {
		return nil, err
	}
	userInputs := []string{email, req.FirstName, req.LastName}
	if err := s.passwords.CheckPassword(req.Password, userInputs); err != nil {
		return nil, err
	}

	// ========== STEP 5: Persist ==========
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		ID:         uuid.New(),
		Email:      email,
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Password:   string(hash),
		IsActive:   true,
		DateJoined: time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, user); err != nil {
		// lost a race with a concurrent registration
		if errors.Is(err, model.ErrDuplicateEmail) {
			return nil, model.NewUserAlreadyExistsError(email)
		}
		return nil, err
	}

	// ========== STEP 6: Invalidate and respond ==========
	s.lists.InvalidateOrLog(ctx, cache.UserListPrefix)
	logger.Info().Str("user_id", user.ID.String()).Msg("user registered")

	return &model.RegisterResponse{
		ID:        user.ID,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
	}, nil
}

func (s *userService) validateEmail(email string) error {
	return validation.Value(email,
		ozzo.Required.Error(model.ErrInvalidEmail.Message),
		is.EmailFormat.Error(model.ErrInvalidEmail.Message),
		ozzo.RuneLength(0, s.limits.EmailMaxLength).
			Error(fmt.Sprintf("Email must not exceed %d characters", s.limits.EmailMaxLength)),
	)
}

func nameRule(field string, max int) ozzo.Rule {
	return ozzo.RuneLength(0, max).Error(fmt.Sprintf("%s must not exceed %d characters", field, max))
}

// NormalizeEmail lowercases the domain part; the local part is case-sensitive.
func NormalizeEmail(email string) string {
	email = strings.TrimSpace(email)
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return email
	}
	return email[:at] + strings.ToLower(email[at:])
}

// =====================================================
// READ
// =====================================================

func (s *userService) List(ctx context.Context, requestKey string, params pagination.Params) (*model.UserList, error) {
	return cache.Aside(ctx, s.lists, cache.UserListPrefix, requestKey, func(ctx context.Context) (*model.UserList, error) {
		users, total, err := s.repo.List(ctx, params.Limit, params.Offset)
		if err != nil {
			return nil, err
		}

		results := make([]*model.UserResponse, 0, len(users))
		for _, u := range users {
			results = append(results, u.ToResponse())
		}
		return &model.UserList{Count: total, Results: results}, nil
	})
}

func (s *userService) GetByID(ctx context.Context, id uuid.UUID) (*model.UserResponse, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return user.ToResponse(), nil
}

// =====================================================
// UPDATE ME
// =====================================================

func (s *userService) UpdateMe(ctx context.Context, principal *permission.Principal, payload map[string]any) (*model.UserResponse, error) {
	// ========== STEP 1: Authorize ==========
	if err := permission.RequireAuthenticated.Check(principal, uuid.Nil); err != nil {
		return nil, err
	}

	// ========== STEP 2: Sanitize and decode ==========
	clean, err := s.sanitizer.Payload(payload)
	if err != nil {
		return nil, err
	}

	var req model.UpdateMeRequest
	if err := validation.Decode(clean, &req); err != nil {
		return nil, err
	}
	if err := validation.Fields(&req,
		ozzo.Field(&req.FirstName, nameRule("First name", s.limits.FirstNameMaxLength)),
		ozzo.Field(&req.LastName, nameRule("Last name", s.limits.LastNameMaxLength)),
	); err != nil {
		return nil, err
	}

	// ========== STEP 3: Load self ==========
	user, err := s.repo.GetByID(ctx, principal.UserID)
	if err != nil {
		return nil, err
	}

	// ========== STEP 4: Patch and persist ==========
	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if err := s.repo.UpdateProfile(ctx, user); err != nil {
		return nil, err
	}

	s.lists.InvalidateOrLog(ctx, cache.UserListPrefix)
	return user.ToResponse(), nil
}

// =====================================================
// UPDATE AVATAR
// =====================================================

func (s *userService) UpdateAvatar(ctx context.Context, principal *permission.Principal, data []byte) (*model.UserResponse, error) {
	logger := zerolog.Ctx(ctx)

	// ========== STEP 1: Authorize ==========
	if err := permission.RequireAuthenticated.Check(principal, uuid.Nil); err != nil {
		return nil, err
	}

	// ========== STEP 2: Validate the upload ==========
	if len(data) == 0 {
		return nil, apperr.MissingField(model.AvatarField)
	}
	format, err := s.images.ValidateImage(data)
	switch {
	case errors.Is(err, storage.ErrImageTooLarge):
		return nil, model.NewAvatarTooLargeError(s.images.MaxSize)
	case errors.Is(err, storage.ErrImageTooManyPixels):
		return nil, model.NewAvatarDimensionsError(s.images.MaxPixels)
	case errors.Is(err, storage.ErrUnsupportedFormat):
		return nil, model.NewAvatarFormatError(s.images.Formats)
	case err != nil:
		return nil, model.ErrAvatarNotImage
	}

	// ========== STEP 3: Load self ==========
	user, err := s.repo.GetByID(ctx, principal.UserID)
	if err != nil {
		return nil, err
	}
	previous := user.Avatar

	// ========== STEP 4: Store original and thumbnail ==========
	thumb, err := s.images.Thumbnail(data)
	if err != nil {
		return nil, model.ErrAvatarNotImage
	}

	prefix := model.AvatarPrefix(user.ID, uuid.New())
	avatarURL, err := s.storage.Upload(ctx, prefix+"original."+storage.Extension(format), data, storage.ContentType(format))
	if err != nil {
		return nil, err
	}
	if _, err := s.storage.Upload(ctx, prefix+model.ThumbnailName, thumb, storage.ContentType("jpeg")); err != nil {
		return nil, err
	}

	// ========== STEP 5: Persist ==========
	if err := s.repo.UpdateAvatar(ctx, user.ID, &avatarURL); err != nil {
		return nil, err
	}
	user.Avatar = &avatarURL

	// ========== STEP 6: Remove the prior avatar ==========
	if previous != nil {
		s.removeAvatar(ctx, user.ID, *previous)
	}

	s.lists.InvalidateOrLog(ctx, cache.UserListPrefix)
	logger.Info().Str("avatar", avatarURL).Msg("avatar updated")

	return user.ToResponse(), nil
}

// removeAvatar deletes the folder holding a replaced avatar. It prefers the
// background queue and falls back to an inline delete; failures only log.
func (s *userService) removeAvatar(ctx context.Context, userID uuid.UUID, avatarURL string) {
	logger := zerolog.Ctx(ctx)

	key, ok := s.storage.KeyFromURL(avatarURL)
	if !ok {
		logger.Warn().Str("avatar", avatarURL).Msg("previous avatar is not in object storage, skipping cleanup")
		return
	}
	prefix := path.Dir(key) + "/"

	if s.cleanup != nil {
		err := s.cleanup.EnqueueAvatarCleanup(ctx, userID.String(), prefix)
		if err == nil {
			return
		}
		logger.Warn().Err(err).Str("prefix", prefix).Msg("enqueue avatar cleanup failed, deleting inline")
	}

	if err := s.storage.DeleteByPrefix(ctx, prefix); err != nil {
		logger.Error().Err(err).Str("prefix", prefix).Msg("failed to delete previous avatar")
	}
}
