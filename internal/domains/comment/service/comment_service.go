package service

import (
	"context"
	"time"

	ozzo "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"blog-backend/internal/domains/comment/model"
	"blog-backend/internal/domains/comment/repository"
	"blog-backend/internal/infrastructure/pubsub"
	"blog-backend/internal/shared/pagination"
	"blog-backend/internal/shared/permission"
	"blog-backend/internal/shared/security"
	"blog-backend/internal/shared/validation"
	"blog-backend/pkg/cache"
)

type commentService struct {
	repo      repository.CommentRepository
	lists     *cache.ListCache
	sanitizer *security.Sanitizer
	publisher pubsub.Publisher
}

func NewCommentService(
	repo repository.CommentRepository,
	lists *cache.ListCache,
	sanitizer *security.Sanitizer,
	publisher pubsub.Publisher,
) ServiceInterface {
	return &commentService{
		repo:      repo,
		lists:     lists,
		sanitizer: sanitizer,
		publisher: publisher,
	}
}

// =====================================================
// LIST
// =====================================================

func (s *commentService) List(ctx context.Context, postSlug, requestKey string, params pagination.Params) ([]*model.CommentResponse, error) {
	return cache.Aside(ctx, s.lists, cache.CommentListPrefix, requestKey, func(ctx context.Context) ([]*model.CommentResponse, error) {
		zerolog.Ctx(ctx).Debug().Str("post_slug", postSlug).Msg("fetching comments")

		comments, err := s.repo.ListByPostSlug(ctx, postSlug, params.Limit, params.Offset)
		if err != nil {
			return nil, err
		}

		results := make([]*model.CommentResponse, 0, len(comments))
		for _, c := range comments {
			results = append(results, c.ToResponse())
		}
		return results, nil
	})
}

// =====================================================
// CREATE
// =====================================================

func (s *commentService) Create(ctx context.Context, principal *permission.Principal, postSlug string, payload map[string]any) (*model.CommentResponse, error) {
	logger := zerolog.Ctx(ctx).With().Str("post_slug", postSlug).Logger()

	// ========== STEP 1: Authorize ==========
	if err := permission.RequireAuthenticated.Check(principal, uuid.Nil); err != nil {
		return nil, err
	}

	// ========== STEP 2: Extract, sanitize, validate ==========
	body, err := s.body(payload)
	if err != nil {
		return nil, err
	}

	// ========== STEP 3: Persist ==========
	comment := &model.Comment{
		AuthorID:  principal.UserID,
		Body:      body,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, postSlug, comment); err != nil {
		return nil, err
	}
	logger.Info().Int64("comment_id", comment.ID).Msg("comment added")

	// ========== STEP 4: Invalidate ==========
	s.lists.InvalidateOrLog(ctx, cache.CommentListPrefix)

	// ========== STEP 5: Publish (after commit, best effort) ==========
	if err := s.publisher.Publish(ctx, pubsub.CommentsChannel, comment.ToMessage()); err != nil {
		logger.Error().Err(err).Int64("comment_id", comment.ID).Msg("failed to publish comment")
	}

	return comment.ToResponse(), nil
}

// =====================================================
// UPDATE
// =====================================================

func (s *commentService) Update(ctx context.Context, principal *permission.Principal, postSlug string, id int64, payload map[string]any) error {
	logger := zerolog.Ctx(ctx).With().Int64("comment_id", id).Logger()

	if err := permission.RequireAuthenticated.Check(principal, uuid.Nil); err != nil {
		return err
	}

	body, err := s.body(payload)
	if err != nil {
		return err
	}

	if _, err := s.load(ctx, principal, postSlug, id, model.UpdateDeniedMessage(principal.Email)); err != nil {
		return err
	}

	if err := s.repo.UpdateBody(ctx, id, body); err != nil {
		return err
	}
	logger.Info().Msg("comment updated")

	s.lists.InvalidateOrLog(ctx, cache.CommentListPrefix)
	return nil
}

// =====================================================
// DELETE
// =====================================================

func (s *commentService) Delete(ctx context.Context, principal *permission.Principal, postSlug string, id int64) error {
	logger := zerolog.Ctx(ctx).With().Int64("comment_id", id).Logger()

	if err := permission.RequireAuthenticated.Check(principal, uuid.Nil); err != nil {
		return err
	}

	if _, err := s.load(ctx, principal, postSlug, id, model.DeleteDeniedMessage(principal.Email)); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	logger.Info().Msg("comment deleted")

	s.lists.InvalidateOrLog(ctx, cache.CommentListPrefix)
	return nil
}

// =====================================================
// HELPERS
// =====================================================

// body extracts the single accepted field and strips markup from it.
func (s *commentService) body(payload map[string]any) (string, error) {
	raw, err := validation.RequireString(payload, "body")
	if err != nil {
		return "", err
	}

	body := s.sanitizer.String(raw)
	if err := validation.Value(body, ozzo.Required.Error("This field may not be blank.")); err != nil {
		return "", err
	}
	return body, nil
}

// load resolves the composite natural key (post slug, id) and checks ownership.
func (s *commentService) load(ctx context.Context, principal *permission.Principal, postSlug string, id int64, denied string) (*model.Comment, error) {
	comment, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if comment.PostSlug != postSlug {
		zerolog.Ctx(ctx).Warn().Int64("comment_id", id).Str("post_slug", postSlug).Msg("comment doesn't belong to this post")
		return nil, model.ErrNotInPost
	}
	if err := permission.CheckOwner(principal, comment.AuthorID, denied); err != nil {
		return nil, err
	}
	return comment, nil
}
