package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"blog-backend/internal/domains/comment/model"
	"blog-backend/internal/infrastructure/database"
	pkgdb "blog-backend/pkg/database"
)

type postgresCommentRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresCommentRepository(pool *pgxpool.Pool) CommentRepository {
	return &postgresCommentRepository{pool: pool}
}

func scanComment(row pgx.Row) (*model.Comment, error) {
	c := &model.Comment{}
	if err := row.Scan(&c.ID, &c.PostID, &c.AuthorID, &c.Body, &c.CreatedAt, &c.PostSlug); err != nil {
		return nil, err
	}
	return c, nil
}

// =====================================================
// CREATE
// =====================================================

func (r *postgresCommentRepository) Create(ctx context.Context, postSlug string, c *model.Comment) error {
	id, err := pkgdb.WithTransactionResult(ctx, r.pool, func(tx pgx.Tx) (int64, error) {
		// FOR SHARE blocks a concurrent post delete until the insert commits
		err := tx.QueryRow(ctx, `SELECT id FROM posts WHERE slug = $1 FOR SHARE`, postSlug).Scan(&c.PostID)
		if err != nil {
			if database.IsNoRows(err) {
				return 0, model.ErrPostNotFound
			}
			return 0, fmt.Errorf("failed to lock post: %w", err)
		}

		var id int64
		err = tx.QueryRow(ctx,
			`INSERT INTO comments (post_id, author_id, body, created_at) VALUES ($1, $2, $3, $4) RETURNING id`,
			c.PostID, c.AuthorID, c.Body, c.CreatedAt,
		).Scan(&id)
		if err != nil {
			return 0, fmt.Errorf("failed to create comment: %w", err)
		}
		return id, nil
	})
	if err != nil {
		return err
	}

	c.ID = id
	c.PostSlug = postSlug
	return nil
}

// =====================================================
// READ
// =====================================================

func (r *postgresCommentRepository) GetByID(ctx context.Context, id int64) (*model.Comment, error) {
	query := `
		SELECT c.id, c.post_id, c.author_id, c.body, c.created_at, p.slug
		FROM comments c
		JOIN posts p ON p.id = c.post_id
		WHERE c.id = $1
	`

	c, err := scanComment(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if database.IsNoRows(err) {
			return nil, model.ErrCommentNotFound
		}
		return nil, fmt.Errorf("failed to get comment: %w", err)
	}
	return c, nil
}

func (r *postgresCommentRepository) ListByPostSlug(ctx context.Context, postSlug string, limit, offset int) ([]*model.Comment, error) {
	query := `
		SELECT c.id, c.post_id, c.author_id, c.body, c.created_at, p.slug
		FROM comments c
		JOIN posts p ON p.id = c.post_id
		WHERE p.slug = $1
		ORDER BY c.id
		LIMIT $2 OFFSET $3
	`

	rows, err := r.pool.Query(ctx, query, postSlug, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	defer rows.Close()

	comments := make([]*model.Comment, 0, limit)
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		comments = append(comments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate comments: %w", err)
	}
	return comments, nil
}

// =====================================================
// UPDATE / DELETE
// =====================================================

func (r *postgresCommentRepository) UpdateBody(ctx context.Context, id int64, body string) error {
	tag, err := r.pool.Exec(ctx, `UPDATE comments SET body = $2 WHERE id = $1`, id, body)
	if err != nil {
		return fmt.Errorf("failed to update comment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrCommentNotFound
	}
	return nil
}

func (r *postgresCommentRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrCommentNotFound
	}
	return nil
}
