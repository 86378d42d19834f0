package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"blog-backend/internal/domains/category/model"
	"blog-backend/internal/infrastructure/database"
	"blog-backend/internal/shared/utils"
)

const (
	slugConstraint  = "categories_slug_key"
	maxSlugAttempts = 3
)

type postgresCategoryRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresCategoryRepository(pool *pgxpool.Pool) CategoryRepository {
	return &postgresCategoryRepository{pool: pool}
}

func (r *postgresCategoryRepository) Create(ctx context.Context, c *model.Category) error {
	base := utils.GenerateSlug(c.Name)
	for attempt := 1; ; attempt++ {
		slug, err := database.NextSlug(ctx, r.pool, "categories", base, model.SlugFallback, model.SlugMaxLength)
		if err != nil {
			return err
		}
		c.Slug = slug

		err = r.pool.QueryRow(ctx,
			`INSERT INTO categories (name, slug) VALUES ($1, $2) RETURNING id`,
			c.Name, c.Slug,
		).Scan(&c.ID)
		if err == nil {
			return nil
		}
		if constraint, ok := database.IsUniqueViolation(err); ok && constraint == slugConstraint && attempt < maxSlugAttempts {
			continue
		}
		return fmt.Errorf("failed to create category: %w", err)
	}
}

func (r *postgresCategoryRepository) GetBySlug(ctx context.Context, slug string) (*model.Category, error) {
	c := &model.Category{}
	err := r.pool.QueryRow(ctx, `SELECT id, name, slug FROM categories WHERE slug = $1`, slug).
		Scan(&c.ID, &c.Name, &c.Slug)
	if err != nil {
		if database.IsNoRows(err) {
			return nil, model.ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	return c, nil
}

func (r *postgresCategoryRepository) List(ctx context.Context, limit, offset int) ([]*model.Category, int64, error) {
	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM categories`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count categories: %w", err)
	}

	rows, err := r.pool.Query(ctx, `SELECT id, name, slug FROM categories ORDER BY id LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	categories := make([]*model.Category, 0, limit)
	for rows.Next() {
		c := &model.Category{}
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug); err != nil {
			return nil, 0, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate categories: %w", err)
	}
	return categories, total, nil
}

func (r *postgresCategoryRepository) Update(ctx context.Context, c *model.Category) error {
	tag, err := r.pool.Exec(ctx, `UPDATE categories SET name = $2 WHERE id = $1`, c.ID, c.Name)
	if err != nil {
		return fmt.Errorf("failed to update category: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrCategoryNotFound
	}
	return nil
}

func (r *postgresCategoryRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrCategoryNotFound
	}
	return nil
}
