package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blog-backend/internal/config"
	categoryModel "blog-backend/internal/domains/category/model"
	commentModel "blog-backend/internal/domains/comment/model"
	"blog-backend/internal/domains/post/model"
	"blog-backend/internal/shared/apperr"
	"blog-backend/internal/shared/pagination"
	"blog-backend/internal/shared/permission"
	"blog-backend/internal/shared/security"
	"blog-backend/internal/testutil"
)

func newService(t *testing.T) (ServiceInterface, *testutil.Store) {
	t.Helper()
	store := testutil.NewStore()
	svc := NewPostService(
		store.Posts(),
		testutil.NewListCache(t),
		security.NewSanitizer(10),
		config.PostConfig{TitleMaxLength: 200, BodyMaxLength: 5000},
	)
	return svc, store
}

func author() *permission.Principal {
	return &permission.Principal{UserID: uuid.New(), Email: "author@example.com"}
}

func draft(title string) map[string]any {
	return map[string]any{"title": title, "body": "Body text", "status": model.StatusDraft}
}

func TestCreate(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	me := author()

	post, err := svc.Create(ctx, me, map[string]any{
		"title":  "<script>alert(1)</script>Hello World",
		"body":   "<p>Body</p>",
		"status": "published",
	})
	require.NoError(t, err)
	assert.Equal(t, "Hello World", post.Title)
	assert.Equal(t, "Body", post.Body)
	assert.Equal(t, "hello-world", post.Slug)
	assert.Equal(t, me.UserID, post.AuthorID)
	assert.Nil(t, post.CategoryID)

	again, err := svc.Create(ctx, me, draft("Hello World"))
	require.NoError(t, err)
	assert.Equal(t, "hello-world-2", again.Slug)
}

func TestCreate_KeepsQuotesInText(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	post, err := svc.Create(ctx, author(), map[string]any{
		"title":  "Don't panic",
		"body":   `He said "hi"`,
		"status": "draft",
	})
	require.NoError(t, err)
	assert.Equal(t, "Don't panic", post.Title)
	assert.Equal(t, `He said "hi"`, post.Body)
	assert.Equal(t, "dont-panic", post.Slug)

	quoted, err := svc.Create(ctx, author(), draft(`The "best" editor`))
	require.NoError(t, err)
	assert.Equal(t, `The "best" editor`, quoted.Title)
	assert.Equal(t, "the-best-editor", quoted.Slug)
}

func TestCreate_Failures(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, nil, draft("Anon"))
	assert.Equal(t, apperr.KindNotAuthenticated, apperr.KindOf(err))

	payload := draft("No status")
	delete(payload, "status")
	_, err = svc.Create(ctx, author(), payload)
	assert.EqualError(t, err, "Missing required field: status")

	payload = draft("Bad status")
	payload["status"] = "deleted"
	_, err = svc.Create(ctx, author(), payload)
	assert.Equal(t, apperr.KindValidationFailed, apperr.KindOf(err))

	payload = draft("Unknown category")
	payload["category_id"] = float64(42)
	_, err = svc.Create(ctx, author(), payload)
	assert.EqualError(t, err, `Invalid pk "42" - object does not exist.`)
}

func TestCreate_WithCategory(t *testing.T) {
	svc, store := newService(t)
	ctx := context.Background()

	category := &categoryModel.Category{Name: "Go"}
	require.NoError(t, store.Categories().Create(ctx, category))

	payload := draft("Categorized")
	payload["category_id"] = float64(category.ID)
	post, err := svc.Create(ctx, author(), payload)
	require.NoError(t, err)
	require.NotNil(t, post.CategoryID)
	assert.Equal(t, category.ID, *post.CategoryID)

	payload = draft("Fractional category")
	payload["category_id"] = float64(category.ID) + 0.9
	_, err = svc.Create(ctx, author(), payload)
	assert.Equal(t, apperr.KindValidationFailed, apperr.KindOf(err))
	all, err := store.Posts().List(ctx, 10, 0)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestUpdate_OwnerOnly(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	owner := author()

	post, err := svc.Create(ctx, owner, draft("Mine"))
	require.NoError(t, err)

	_, err = svc.Update(ctx, author(), post.Slug, map[string]any{"title": "Stolen"})
	require.Error(t, err)
	assert.Equal(t, apperr.KindPermissionDenied, apperr.KindOf(err))
	assert.EqualError(t, err, model.UpdateDeniedMessage)

	updated, err := svc.Update(ctx, owner, post.Slug, map[string]any{"title": "Still mine", "status": "published"})
	require.NoError(t, err)
	assert.Equal(t, "Still mine", updated.Title)
	assert.Equal(t, "published", updated.Status)
	assert.Equal(t, post.Slug, updated.Slug, "slug is fixed at creation")
	assert.Equal(t, "Body text", updated.Body)

	_, err = svc.Update(ctx, owner, "missing", map[string]any{"title": "x"})
	assert.ErrorIs(t, err, model.ErrPostNotFound)
}

func TestUpdate_NullCategoryClears(t *testing.T) {
	svc, store := newService(t)
	ctx := context.Background()
	owner := author()

	category := &categoryModel.Category{Name: "Go"}
	require.NoError(t, store.Categories().Create(ctx, category))
	payload := draft("Categorized")
	payload["category_id"] = float64(category.ID)
	post, err := svc.Create(ctx, owner, payload)
	require.NoError(t, err)

	updated, err := svc.Update(ctx, owner, post.Slug, map[string]any{"category_id": nil})
	require.NoError(t, err)
	assert.Nil(t, updated.CategoryID)
}

func TestDelete(t *testing.T) {
	svc, store := newService(t)
	ctx := context.Background()
	owner := author()

	post, err := svc.Create(ctx, owner, draft("Doomed"))
	require.NoError(t, err)
	require.NoError(t, store.Comments().Create(ctx, post.Slug, &commentModel.Comment{AuthorID: owner.UserID, Body: "hi"}))

	err = svc.Delete(ctx, author(), post.Slug)
	assert.EqualError(t, err, model.DeleteDeniedMessage)

	require.NoError(t, svc.Delete(ctx, owner, post.Slug))
	_, err = svc.GetBySlug(ctx, post.Slug)
	assert.ErrorIs(t, err, model.ErrPostNotFound)
	assert.Zero(t, store.CommentCount())
}

func TestList_FreshAfterWrites(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	owner := author()
	params := pagination.Params{Limit: 10}

	empty, err := svc.List(ctx, "/api/posts/", params)
	require.NoError(t, err)
	assert.Empty(t, empty)

	post, err := svc.Create(ctx, owner, draft("First"))
	require.NoError(t, err)
	listed, err := svc.List(ctx, "/api/posts/", params)
	require.NoError(t, err)
	require.Len(t, listed, 1)

	_, err = svc.Update(ctx, owner, post.Slug, map[string]any{"title": "Renamed"})
	require.NoError(t, err)
	listed, err = svc.List(ctx, "/api/posts/", params)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", listed[0].Title)

	require.NoError(t, svc.Delete(ctx, owner, post.Slug))
	listed, err = svc.List(ctx, "/api/posts/", params)
	require.NoError(t, err)
	assert.Empty(t, listed)
}

func TestList_PagesPartitionPosts(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	owner := author()

	for i := 0; i < 7; i++ {
		_, err := svc.Create(ctx, owner, draft(fmt.Sprintf("Post %d", i)))
		require.NoError(t, err)
	}

	seen := map[int64]bool{}
	for offset := 0; offset < 7; offset += 3 {
		page, err := svc.List(ctx, fmt.Sprintf("/api/posts/?limit=3&offset=%d", offset), pagination.Params{Limit: 3, Offset: offset})
		require.NoError(t, err)
		for _, p := range page {
			assert.False(t, seen[p.ID], "post %d listed twice", p.ID)
			seen[p.ID] = true
		}
	}
	assert.Len(t, seen, 7)
}
