// Package testutil holds in-memory stand-ins for the Postgres repositories
// and the external services, for service and end-to-end tests.
package testutil

import (
	"context"
	"sync"

	"github.com/google/uuid"

	categoryModel "blog-backend/internal/domains/category/model"
	categoryRepo "blog-backend/internal/domains/category/repository"
	commentModel "blog-backend/internal/domains/comment/model"
	commentRepo "blog-backend/internal/domains/comment/repository"
	postModel "blog-backend/internal/domains/post/model"
	postRepo "blog-backend/internal/domains/post/repository"
	userModel "blog-backend/internal/domains/user/model"
	userRepo "blog-backend/internal/domains/user/repository"
	"blog-backend/internal/shared/utils"
)

// Store keeps every table in memory with the same constraints as the schema:
// unique email and slugs, post->comments cascade, category SET NULL.
type Store struct {
	mu sync.Mutex

	users      []*userModel.User
	categories []*categoryModel.Category
	posts      []*postModel.Post
	comments   []*commentModel.Comment

	nextCategoryID int64
	nextPostID     int64
	nextCommentID  int64
}

func NewStore() *Store {
	return &Store{}
}

func (s *Store) Users() userRepo.UserRepository {
	return &users{s}
}

func (s *Store) Posts() postRepo.PostRepository {
	return &posts{s}
}

func (s *Store) Comments() commentRepo.CommentRepository {
	return &comments{s}
}

func (s *Store) Categories() categoryRepo.CategoryRepository {
	return &categories{s}
}

// CommentCount is the number of stored comments across all posts.
func (s *Store) CommentCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.comments)
}

func window[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return nil
	}
	end := min(offset+limit, len(items))
	return items[offset:end]
}

// =====================================================
// USERS
// =====================================================

type users struct{ *Store }

func (r *users) Create(_ context.Context, u *userModel.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.users {
		if existing.Email == u.Email {
			return userModel.ErrDuplicateEmail
		}
	}
	stored := *u
	r.users = append(r.users, &stored)
	return nil
}

func (r *users) find(match func(*userModel.User) bool) (*userModel.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if match(u) {
			found := *u
			return &found, nil
		}
	}
	return nil, userModel.ErrUserNotFound
}

func (r *users) GetByID(_ context.Context, id uuid.UUID) (*userModel.User, error) {
	return r.find(func(u *userModel.User) bool { return u.ID == id })
}

func (r *users) GetByEmail(_ context.Context, email string) (*userModel.User, error) {
	return r.find(func(u *userModel.User) bool { return u.Email == email })
}

func (r *users) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := r.GetByEmail(ctx, email)
	return err == nil, nil
}

func (r *users) List(_ context.Context, limit, offset int) ([]*userModel.User, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*userModel.User
	for _, u := range window(r.users, limit, offset) {
		c := *u
		out = append(out, &c)
	}
	return out, int64(len(r.users)), nil
}

func (r *users) update(id uuid.UUID, apply func(*userModel.User)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.ID == id {
			apply(u)
			return nil
		}
	}
	return userModel.ErrUserNotFound
}

func (r *users) UpdateProfile(_ context.Context, u *userModel.User) error {
	return r.update(u.ID, func(stored *userModel.User) {
		stored.FirstName = u.FirstName
		stored.LastName = u.LastName
	})
}

func (r *users) UpdateAvatar(_ context.Context, id uuid.UUID, avatar *string) error {
	return r.update(id, func(stored *userModel.User) {
		stored.Avatar = avatar
	})
}

// =====================================================
// CATEGORIES
// =====================================================

type categories struct{ *Store }

func (r *categories) slugTaken(slug string) bool {
	for _, c := range r.categories {
		if c.Slug == slug {
			return true
		}
	}
	return false
}

func (r *categories) Create(_ context.Context, c *categoryModel.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextCategoryID++
	c.ID = r.nextCategoryID
	c.Slug = utils.UniqueSlug(utils.GenerateSlug(c.Name), categoryModel.SlugFallback, categoryModel.SlugMaxLength, r.slugTaken)

	stored := *c
	r.categories = append(r.categories, &stored)
	return nil
}

func (r *categories) GetBySlug(_ context.Context, slug string) (*categoryModel.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, c := range r.categories {
		if c.Slug == slug {
			found := *c
			return &found, nil
		}
	}
	return nil, categoryModel.ErrCategoryNotFound
}

func (r *categories) List(_ context.Context, limit, offset int) ([]*categoryModel.Category, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*categoryModel.Category
	for _, c := range window(r.categories, limit, offset) {
		found := *c
		out = append(out, &found)
	}
	return out, int64(len(r.categories)), nil
}

func (r *categories) Update(_ context.Context, c *categoryModel.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, stored := range r.categories {
		if stored.ID == c.ID {
			stored.Name = c.Name
			return nil
		}
	}
	return categoryModel.ErrCategoryNotFound
}

func (r *categories) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, c := range r.categories {
		if c.ID != id {
			continue
		}
		r.categories = append(r.categories[:i], r.categories[i+1:]...)
		for _, p := range r.posts {
			if p.CategoryID != nil && *p.CategoryID == id {
				p.CategoryID = nil
			}
		}
		return nil
	}
	return categoryModel.ErrCategoryNotFound
}

func (s *Store) categoryExists(id *int64) bool {
	if id == nil {
		return true
	}
	for _, c := range s.categories {
		if c.ID == *id {
			return true
		}
	}
	return false
}

// =====================================================
// POSTS
// =====================================================

type posts struct{ *Store }

func (r *posts) slugTaken(slug string) bool {
	for _, p := range r.posts {
		if p.Slug == slug {
			return true
		}
	}
	return false
}

func (r *posts) Create(_ context.Context, p *postModel.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.categoryExists(p.CategoryID) {
		return postModel.ErrUnknownCategory
	}

	r.nextPostID++
	p.ID = r.nextPostID
	p.Slug = utils.UniqueSlug(utils.GenerateSlug(p.Title), postModel.SlugFallback, postModel.SlugMaxLength, r.slugTaken)

	stored := *p
	r.posts = append(r.posts, &stored)
	return nil
}

func (r *posts) GetBySlug(_ context.Context, slug string) (*postModel.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range r.posts {
		if p.Slug == slug {
			found := *p
			return &found, nil
		}
	}
	return nil, postModel.ErrPostNotFound
}

func (r *posts) List(_ context.Context, limit, offset int) ([]*postModel.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := []*postModel.Post{}
	for _, p := range window(r.posts, limit, offset) {
		found := *p
		out = append(out, &found)
	}
	return out, nil
}

func (r *posts) Update(_ context.Context, p *postModel.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.categoryExists(p.CategoryID) {
		return postModel.ErrUnknownCategory
	}
	for _, stored := range r.posts {
		if stored.ID == p.ID {
			stored.Title = p.Title
			stored.Body = p.Body
			stored.Status = p.Status
			stored.CategoryID = p.CategoryID
			stored.UpdatedAt = p.UpdatedAt
			return nil
		}
	}
	return postModel.ErrPostNotFound
}

func (r *posts) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, p := range r.posts {
		if p.ID != id {
			continue
		}
		r.posts = append(r.posts[:i], r.posts[i+1:]...)

		kept := r.comments[:0]
		for _, c := range r.comments {
			if c.PostID != id {
				kept = append(kept, c)
			}
		}
		r.comments = kept
		return nil
	}
	return postModel.ErrPostNotFound
}

func (s *Store) postByID(id int64) *postModel.Post {
	for _, p := range s.posts {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// =====================================================
// COMMENTS
// =====================================================

type comments struct{ *Store }

func (r *comments) Create(_ context.Context, postSlug string, c *commentModel.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var post *postModel.Post
	for _, p := range r.posts {
		if p.Slug == postSlug {
			post = p
			break
		}
	}
	if post == nil {
		return commentModel.ErrPostNotFound
	}

	r.nextCommentID++
	c.ID = r.nextCommentID
	c.PostID = post.ID
	c.PostSlug = post.Slug

	stored := *c
	r.comments = append(r.comments, &stored)
	return nil
}

func (r *comments) withSlug(c *commentModel.Comment) *commentModel.Comment {
	found := *c
	if p := r.postByID(c.PostID); p != nil {
		found.PostSlug = p.Slug
	}
	return &found
}

func (r *comments) GetByID(_ context.Context, id int64) (*commentModel.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, c := range r.comments {
		if c.ID == id {
			return r.withSlug(c), nil
		}
	}
	return nil, commentModel.ErrCommentNotFound
}

func (r *comments) ListByPostSlug(_ context.Context, postSlug string, limit, offset int) ([]*commentModel.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var matching []*commentModel.Comment
	for _, c := range r.comments {
		if p := r.postByID(c.PostID); p != nil && p.Slug == postSlug {
			matching = append(matching, r.withSlug(c))
		}
	}
	return window(matching, limit, offset), nil
}

func (r *comments) UpdateBody(_ context.Context, id int64, body string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, c := range r.comments {
		if c.ID == id {
			c.Body = body
			return nil
		}
	}
	return commentModel.ErrCommentNotFound
}

func (r *comments) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, c := range r.comments {
		if c.ID == id {
			r.comments = append(r.comments[:i], r.comments[i+1:]...)
			return nil
		}
	}
	return commentModel.ErrCommentNotFound
}
