package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"blog-backend/internal/domains/category/model"
	"blog-backend/internal/domains/category/repository"
	"blog-backend/internal/shared/pagination"
	"blog-backend/internal/shared/permission"
	"blog-backend/internal/shared/security"
	"blog-backend/internal/shared/validation"
	"blog-backend/pkg/cache"
)

// ServiceInterface: reads are public, writes need a staff principal.
type ServiceInterface interface {
	List(ctx context.Context, requestKey string, params pagination.Params) (*model.CategoryList, error)
	GetBySlug(ctx context.Context, slug string) (*model.Category, error)
	Create(ctx context.Context, principal *permission.Principal, payload map[string]any) (*model.Category, error)
	Update(ctx context.Context, principal *permission.Principal, slug string, payload map[string]any) (*model.Category, error)
	Delete(ctx context.Context, principal *permission.Principal, slug string) error
}

type categoryService struct {
	repo      repository.CategoryRepository
	lists     *cache.ListCache
	sanitizer *security.Sanitizer
}

func NewCategoryService(repo repository.CategoryRepository, lists *cache.ListCache, sanitizer *security.Sanitizer) ServiceInterface {
	return &categoryService{
		repo:      repo,
		lists:     lists,
		sanitizer: sanitizer,
	}
}

func (s *categoryService) List(ctx context.Context, requestKey string, params pagination.Params) (*model.CategoryList, error) {
	return cache.Aside(ctx, s.lists, cache.CategoryListPrefix, requestKey, func(ctx context.Context) (*model.CategoryList, error) {
		categories, total, err := s.repo.List(ctx, params.Limit, params.Offset)
		if err != nil {
			return nil, err
		}
		return &model.CategoryList{Count: total, Results: categories}, nil
	})
}

func (s *categoryService) GetBySlug(ctx context.Context, slug string) (*model.Category, error) {
	return s.repo.GetBySlug(ctx, slug)
}

func (s *categoryService) Create(ctx context.Context, principal *permission.Principal, payload map[string]any) (*model.Category, error) {
	if err := permission.RequireStaff.Check(principal, uuid.Nil); err != nil {
		return nil, err
	}

	clean, err := s.sanitizer.Payload(payload)
	if err != nil {
		return nil, err
	}
	if err := validation.RequireFields(clean, "name"); err != nil {
		return nil, err
	}

	var req model.CreateCategoryRequest
	if err := validation.Decode(clean, &req); err != nil {
		return nil, err
	}
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	category := &model.Category{Name: req.Name}
	if err := s.repo.Create(ctx, category); err != nil {
		return nil, err
	}
	zerolog.Ctx(ctx).Info().Int64("category_id", category.ID).Str("slug", category.Slug).Msg("category created")

	s.lists.InvalidateOrLog(ctx, cache.CategoryListPrefix)
	return category, nil
}

func (s *categoryService) Update(ctx context.Context, principal *permission.Principal, slug string, payload map[string]any) (*model.Category, error) {
	if err := permission.RequireStaff.Check(principal, uuid.Nil); err != nil {
		return nil, err
	}

	clean, err := s.sanitizer.Payload(payload)
	if err != nil {
		return nil, err
	}

	var req model.UpdateCategoryRequest
	if err := validation.Decode(clean, &req); err != nil {
		return nil, err
	}
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	category, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if req.Name == nil {
		return category, nil
	}

	category.Name = *req.Name
	if err := s.repo.Update(ctx, category); err != nil {
		return nil, err
	}

	s.lists.InvalidateOrLog(ctx, cache.CategoryListPrefix)
	return category, nil
}

func (s *categoryService) Delete(ctx context.Context, principal *permission.Principal, slug string) error {
	if err := permission.RequireStaff.Check(principal, uuid.Nil); err != nil {
		return err
	}

	category, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, category.ID); err != nil {
		return err
	}
	zerolog.Ctx(ctx).Info().Int64("category_id", category.ID).Msg("category deleted")

	// posts of this category now have category_id = NULL
	s.lists.InvalidateOrLog(ctx, cache.CategoryListPrefix, cache.PostListPrefix)
	return nil
}
