package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"blog-backend/internal/domains/post/model"
	"blog-backend/internal/infrastructure/database"
	"blog-backend/internal/shared/utils"
)

const (
	postColumns     = `id, author_id, category_id, title, slug, body, status, created_at, updated_at`
	slugConstraint  = "posts_slug_key"
	maxSlugAttempts = 3
)

type postgresPostRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresPostRepository(pool *pgxpool.Pool) PostRepository {
	return &postgresPostRepository{pool: pool}
}

func scanPost(row pgx.Row) (*model.Post, error) {
	p := &model.Post{}
	err := row.Scan(
		&p.ID,
		&p.AuthorID,
		&p.CategoryID,
		&p.Title,
		&p.Slug,
		&p.Body,
		&p.Status,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// =====================================================
// CREATE
// =====================================================

func (r *postgresPostRepository) Create(ctx context.Context, p *model.Post) error {
	query := `
		INSERT INTO posts (author_id, category_id, title, slug, body, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`

	base := utils.GenerateSlug(p.Title)
	for attempt := 1; ; attempt++ {
		slug, err := database.NextSlug(ctx, r.pool, "posts", base, model.SlugFallback, model.SlugMaxLength)
		if err != nil {
			return err
		}
		p.Slug = slug

		err = r.pool.QueryRow(ctx, query,
			p.AuthorID,
			p.CategoryID,
			p.Title,
			p.Slug,
			p.Body,
			p.Status,
			p.CreatedAt,
			p.UpdatedAt,
		).Scan(&p.ID)
		if err == nil {
			return nil
		}

		if constraint, ok := database.IsUniqueViolation(err); ok && constraint == slugConstraint && attempt < maxSlugAttempts {
			continue
		}
		if _, ok := database.IsForeignKeyViolation(err); ok {
			return model.ErrUnknownCategory
		}
		return fmt.Errorf("failed to create post: %w", err)
	}
}

// =====================================================
// READ
// =====================================================

func (r *postgresPostRepository) GetBySlug(ctx context.Context, slug string) (*model.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE slug = $1`

	p, err := scanPost(r.pool.QueryRow(ctx, query, slug))
	if err != nil {
		if database.IsNoRows(err) {
			return nil, model.ErrPostNotFound
		}
		return nil, fmt.Errorf("failed to get post: %w", err)
	}
	return p, nil
}

func (r *postgresPostRepository) List(ctx context.Context, limit, offset int) ([]*model.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts ORDER BY id LIMIT $1 OFFSET $2`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	defer rows.Close()

	posts := make([]*model.Post, 0, limit)
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan post: %w", err)
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate posts: %w", err)
	}
	return posts, nil
}

// =====================================================
// UPDATE / DELETE
// =====================================================

func (r *postgresPostRepository) Update(ctx context.Context, p *model.Post) error {
	query := `
		UPDATE posts
		SET title = $2, body = $3, status = $4, category_id = $5, updated_at = $6
		WHERE id = $1
	`

	tag, err := r.pool.Exec(ctx, query, p.ID, p.Title, p.Body, p.Status, p.CategoryID, p.UpdatedAt)
	if err != nil {
		if _, ok := database.IsForeignKeyViolation(err); ok {
			return model.ErrUnknownCategory
		}
		return fmt.Errorf("failed to update post: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrPostNotFound
	}
	return nil
}

func (r *postgresPostRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrPostNotFound
	}
	return nil
}
