package service

import (
	"context"
	"errors"
	"time"

	ozzo "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"blog-backend/internal/config"
	"blog-backend/internal/domains/post/model"
	"blog-backend/internal/domains/post/repository"
	"blog-backend/internal/shared/pagination"
	"blog-backend/internal/shared/permission"
	"blog-backend/internal/shared/security"
	"blog-backend/internal/shared/validation"
	"blog-backend/pkg/cache"
)

type postService struct {
	repo      repository.PostRepository
	lists     *cache.ListCache
	sanitizer *security.Sanitizer
	limits    config.PostConfig
}

func NewPostService(
	repo repository.PostRepository,
	lists *cache.ListCache,
	sanitizer *security.Sanitizer,
	limits config.PostConfig,
) ServiceInterface {
	return &postService{
		repo:      repo,
		lists:     lists,
		sanitizer: sanitizer,
		limits:    limits,
	}
}

// =====================================================
// READ
// =====================================================

func (s *postService) List(ctx context.Context, requestKey string, params pagination.Params) ([]*model.PostResponse, error) {
	return cache.Aside(ctx, s.lists, cache.PostListPrefix, requestKey, func(ctx context.Context) ([]*model.PostResponse, error) {
		zerolog.Ctx(ctx).Debug().Int("limit", params.Limit).Int("offset", params.Offset).Msg("fetching posts")

		posts, err := s.repo.List(ctx, params.Limit, params.Offset)
		if err != nil {
			return nil, err
		}

		results := make([]*model.PostResponse, 0, len(posts))
		for _, p := range posts {
			results = append(results, p.ToResponse())
		}
		return results, nil
	})
}

func (s *postService) GetBySlug(ctx context.Context, slug string) (*model.PostResponse, error) {
	post, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	return post.ToResponse(), nil
}

// =====================================================
// CREATE
// =====================================================

func (s *postService) Create(ctx context.Context, principal *permission.Principal, payload map[string]any) (*model.PostResponse, error) {
	logger := zerolog.Ctx(ctx)

	// ========== STEP 1: Authorize ==========
	if err := permission.RequireAuthenticated.Check(principal, uuid.Nil); err != nil {
		return nil, err
	}

	// ========== STEP 2: Sanitize ==========
	clean, err := s.sanitizer.Payload(payload)
	if err != nil {
		return nil, err
	}

	// ========== STEP 3: Validate ==========
	if err := validation.RequireFields(clean, "title", "body", "status"); err != nil {
		return nil, err
	}
	var req model.CreatePostRequest
	if err := validation.Decode(clean, &req); err != nil {
		return nil, err
	}
	if err := validation.Fields(&req,
		ozzo.Field(&req.Title, ozzo.Required, ozzo.RuneLength(1, s.limits.TitleMaxLength)),
		ozzo.Field(&req.Body, ozzo.Required, ozzo.RuneLength(1, s.limits.BodyMaxLength)),
		ozzo.Field(&req.Status, ozzo.Required, ozzo.In(model.Statuses...)),
	); err != nil {
		return nil, err
	}

	// ========== STEP 4: Persist ==========
	now := time.Now().UTC()
	post := &model.Post{
		AuthorID:   principal.UserID,
		CategoryID: req.CategoryID,
		Title:      req.Title,
		Body:       req.Body,
		Status:     req.Status,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.repo.Create(ctx, post); err != nil {
		return nil, s.mapCategoryError(err, req.CategoryID)
	}
	logger.Info().Int64("post_id", post.ID).Str("slug", post.Slug).Msg("post created")

	// ========== STEP 5: Invalidate ==========
	s.lists.InvalidateOrLog(ctx, cache.PostListPrefix)

	return post.ToResponse(), nil
}

// =====================================================
// UPDATE
// =====================================================

func (s *postService) Update(ctx context.Context, principal *permission.Principal, slug string, payload map[string]any) (*model.PostResponse, error) {
	logger := zerolog.Ctx(ctx).With().Str("slug", slug).Logger()

	// ========== STEP 1: Authorize ==========
	if err := permission.RequireAuthenticated.Check(principal, uuid.Nil); err != nil {
		return nil, err
	}

	// ========== STEP 2: Sanitize ==========
	clean, err := s.sanitizer.Payload(payload)
	if err != nil {
		return nil, err
	}

	// ========== STEP 3: Validate ==========
	var req model.UpdatePostRequest
	if err := validation.Decode(clean, &req); err != nil {
		return nil, err
	}
	if v, ok := clean["category_id"]; ok && v == nil {
		req.ClearCategory = true
	}
	if err := validation.Fields(&req,
		ozzo.Field(&req.Title, ozzo.NilOrNotEmpty, ozzo.RuneLength(1, s.limits.TitleMaxLength)),
		ozzo.Field(&req.Body, ozzo.NilOrNotEmpty, ozzo.RuneLength(1, s.limits.BodyMaxLength)),
		ozzo.Field(&req.Status, ozzo.NilOrNotEmpty, ozzo.In(model.Statuses...)),
	); err != nil {
		return nil, err
	}

	// ========== STEP 4: Load and check ownership ==========
	post, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if err := permission.CheckOwner(principal, post.AuthorID, model.UpdateDeniedMessage); err != nil {
		logger.Info().Str("user_id", principal.UserID.String()).Msg("post update denied")
		return nil, err
	}

	// ========== STEP 5: Patch and persist ==========
	applyUpdate(post, &req)
	post.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, post); err != nil {
		return nil, s.mapCategoryError(err, req.CategoryID)
	}
	logger.Info().Int64("post_id", post.ID).Msg("post updated")

	// ========== STEP 6: Invalidate ==========
	s.lists.InvalidateOrLog(ctx, cache.PostListPrefix)

	return post.ToResponse(), nil
}

func applyUpdate(post *model.Post, req *model.UpdatePostRequest) {
	if req.Title != nil {
		post.Title = *req.Title
	}
	if req.Body != nil {
		post.Body = *req.Body
	}
	if req.Status != nil {
		post.Status = *req.Status
	}
	switch {
	case req.ClearCategory:
		post.CategoryID = nil
	case req.CategoryID != nil:
		post.CategoryID = req.CategoryID
	}
}

// =====================================================
// DELETE
// =====================================================

func (s *postService) Delete(ctx context.Context, principal *permission.Principal, slug string) error {
	logger := zerolog.Ctx(ctx).With().Str("slug", slug).Logger()

	if err := permission.RequireAuthenticated.Check(principal, uuid.Nil); err != nil {
		return err
	}

	post, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		return err
	}
	if err := permission.CheckOwner(principal, post.AuthorID, model.DeleteDeniedMessage); err != nil {
		logger.Info().Str("user_id", principal.UserID.String()).Msg("post delete denied")
		return err
	}

	if err := s.repo.Delete(ctx, post.ID); err != nil {
		return err
	}
	logger.Info().Int64("post_id", post.ID).Msg("post deleted")

	// comments were cascaded with the post
	s.lists.InvalidateOrLog(ctx, cache.PostListPrefix, cache.CommentListPrefix)
	return nil
}

func (s *postService) mapCategoryError(err error, categoryID *int64) error {
	if errors.Is(err, model.ErrUnknownCategory) && categoryID != nil {
		return model.NewUnknownCategoryError(*categoryID)
	}
	return err
}
