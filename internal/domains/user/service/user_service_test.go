package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"blog-backend/internal/config"
	"blog-backend/internal/domains/user/model"
	"blog-backend/internal/infrastructure/storage"
	"blog-backend/internal/shared/apperr"
	"blog-backend/internal/shared/pagination"
	"blog-backend/internal/shared/permission"
	"blog-backend/internal/shared/security"
	"blog-backend/internal/shared/validation"
	"blog-backend/internal/testutil"
)

const strongPassword = "Xq7#vLp2!mRz9@Tw"

type fixture struct {
	svc     ServiceInterface
	store   *testutil.Store
	objects *testutil.ObjectStorage
	queue   *testutil.CleanupQueue
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := testutil.NewStore()
	objects := testutil.NewObjectStorage()
	queue := &testutil.CleanupQueue{}

	limits := config.UserConfig{
		EmailMaxLength:     255,
		FirstNameMaxLength: 50,
		LastNameMaxLength:  50,
		AvatarMaxSize:      1024 * 1024,
		AvatarFormats:      []string{"jpeg", "png", "webp"},
	}
	svc := NewUserService(
		store.Users(),
		testutil.NewListCache(t),
		security.NewSanitizer(10),
		validation.PasswordPolicy{MinLength: 8, MaxLength: 128, MinEntropy: 50},
		limits,
		storage.NewImageProcessor(limits.AvatarMaxSize, limits.AvatarFormats),
		objects,
		queue,
	)
	svc.(*userService).bcryptCost = bcrypt.MinCost

	return &fixture{svc: svc, store: store, objects: objects, queue: queue}
}

func registration(email string) map[string]any {
	return map[string]any{
		"email":      email,
		"password":   strongPassword,
		"first_name": "Jane",
		"last_name":  "Doe",
	}
}

func (f *fixture) register(t *testing.T, email string) *permission.Principal {
	t.Helper()
	resp, err := f.svc.Register(context.Background(), registration(email))
	require.NoError(t, err)
	return &permission.Principal{UserID: resp.ID, Email: resp.Email}
}

func TestRegister(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	resp, err := f.svc.Register(ctx, registration("Jane@Example.COM"))
	require.NoError(t, err)
	assert.Equal(t, "Jane@example.com", resp.Email)
	assert.Equal(t, "Jane", resp.FirstName)
	assert.NotEqual(t, uuid.Nil, resp.ID)

	stored, err := f.store.Users().GetByID(ctx, resp.ID)
	require.NoError(t, err)
	assert.NotEqual(t, strongPassword, stored.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte(strongPassword)))
	assert.True(t, stored.IsActive)
	assert.False(t, stored.IsStaff)
}

func TestRegister_Failures(t *testing.T) {
	f := newFixture(t)
	f.register(t, "taken@example.com")

	tests := []struct {
		name    string
		payload func(map[string]any)
		kind    apperr.Kind
		message string
	}{
		{"missing email", func(p map[string]any) { delete(p, "email") }, apperr.KindMissingField, "Missing required field: email"},
		{"missing last name", func(p map[string]any) { delete(p, "last_name") }, apperr.KindMissingField, "Missing required field: last_name"},
		{"bad email", func(p map[string]any) { p["email"] = "not-an-email" }, apperr.KindValidationFailed, "Enter a valid email address."},
		{"duplicate", func(p map[string]any) { p["email"] = "taken@EXAMPLE.com" }, apperr.KindAlreadyExists, "User with the email 'taken@example.com' already exists"},
		{"long first name", func(p map[string]any) { p["first_name"] = strings.Repeat("a", 51) }, apperr.KindValidationFailed, "First name must not exceed 50 characters"},
		{"short password", func(p map[string]any) { p["password"] = "abc" }, apperr.KindValidationFailed, "Password must be at least 8 characters"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload := registration("new@example.com")
			tt.payload(payload)

			_, err := f.svc.Register(context.Background(), payload)
			require.Error(t, err)
			assert.Equal(t, tt.kind, apperr.KindOf(err))
			assert.Equal(t, tt.message, err.Error())
		})
	}
}

func TestRegister_WeakPassword(t *testing.T) {
	f := newFixture(t)
	payload := registration("jane@example.com")
	payload["password"] = "password123"

	_, err := f.svc.Register(context.Background(), payload)
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "Weak password, password strength is ("))
}

func TestRegister_SanitizesNamesButNotPassword(t *testing.T) {
	f := newFixture(t)
	payload := registration("jane@example.com")
	payload["first_name"] = "<b>Jane</b>"

	resp, err := f.svc.Register(context.Background(), payload)
	require.NoError(t, err)
	assert.Equal(t, "Jane", resp.FirstName)
}

func TestRegister_KeepsApostrophes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	payload := registration("o'neil@example.com")
	payload["last_name"] = "O'Neil"

	resp, err := f.svc.Register(ctx, payload)
	require.NoError(t, err)
	assert.Equal(t, "o'neil@example.com", resp.Email)
	assert.Equal(t, "O'Neil", resp.LastName)

	stored, err := f.store.Users().GetByID(ctx, resp.ID)
	require.NoError(t, err)
	assert.Equal(t, "O'Neil", stored.LastName)
}

func TestList_SeesNewRegistrations(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	params := pagination.Params{Limit: 10}

	f.register(t, "a@example.com")
	first, err := f.svc.List(ctx, "/api/users/", params)
	require.NoError(t, err)
	assert.EqualValues(t, 1, first.Count)

	f.register(t, "b@example.com")
	second, err := f.svc.List(ctx, "/api/users/", params)
	require.NoError(t, err)
	assert.EqualValues(t, 2, second.Count)
	assert.Len(t, second.Results, 2)
}

func TestUpdateMe(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	me := f.register(t, "jane@example.com")

	resp, err := f.svc.UpdateMe(ctx, me, map[string]any{"first_name": "Janet"})
	require.NoError(t, err)
	assert.Equal(t, "Janet", resp.FirstName)
	assert.Equal(t, "Doe", resp.LastName)

	_, err = f.svc.UpdateMe(ctx, nil, map[string]any{"first_name": "X"})
	assert.Equal(t, apperr.KindNotAuthenticated, apperr.KindOf(err))

	_, err = f.svc.UpdateMe(ctx, me, map[string]any{"last_name": strings.Repeat("x", 51)})
	assert.Equal(t, apperr.KindValidationFailed, apperr.KindOf(err))
}

func TestUpdateAvatar_ReplacesPreviousFolder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	me := f.register(t, "jane@example.com")

	first, err := f.svc.UpdateAvatar(ctx, me, testutil.PNG(t, 400, 300))
	require.NoError(t, err)
	require.NotNil(t, first.Avatar)
	require.NotNil(t, first.AvatarThumbnail)
	assert.True(t, strings.HasSuffix(*first.Avatar, "/original.png"))
	assert.True(t, strings.HasSuffix(*first.AvatarThumbnail, "/thumb.jpg"))
	assert.Len(t, f.objects.Keys(), 2)
	assert.Empty(t, f.queue.Prefixes())

	second, err := f.svc.UpdateAvatar(ctx, me, testutil.PNG(t, 64, 64))
	require.NoError(t, err)
	assert.NotEqual(t, *first.Avatar, *second.Avatar)

	oldKey, ok := f.objects.KeyFromURL(*first.Avatar)
	require.True(t, ok)
	prefixes := f.queue.Prefixes()
	require.Len(t, prefixes, 1)
	assert.True(t, strings.HasPrefix(oldKey, prefixes[0]))
	assert.True(t, strings.HasPrefix(prefixes[0], "users/avatars/"+me.UserID.String()+"/"))
}

func TestUpdateAvatar_FallsBackToInlineDelete(t *testing.T) {
	f := newFixture(t)
	f.queue.Err = errors.New("redis down")
	ctx := context.Background()
	me := f.register(t, "jane@example.com")

	_, err := f.svc.UpdateAvatar(ctx, me, testutil.PNG(t, 32, 32))
	require.NoError(t, err)
	second, err := f.svc.UpdateAvatar(ctx, me, testutil.PNG(t, 32, 32))
	require.NoError(t, err)

	newKey, _ := f.objects.KeyFromURL(*second.Avatar)
	for _, key := range f.objects.Keys() {
		assert.True(t, strings.HasPrefix(key, newKey[:strings.LastIndex(newKey, "/")+1]), key)
	}
	assert.Len(t, f.objects.Keys(), 2)
}

func TestUpdateAvatar_Rejections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	me := f.register(t, "jane@example.com")

	_, err := f.svc.UpdateAvatar(ctx, nil, testutil.PNG(t, 8, 8))
	assert.Equal(t, apperr.KindNotAuthenticated, apperr.KindOf(err))

	_, err = f.svc.UpdateAvatar(ctx, me, nil)
	assert.EqualError(t, err, "Missing required field: avatar")

	_, err = f.svc.UpdateAvatar(ctx, me, []byte("definitely not an image"))
	assert.ErrorIs(t, err, model.ErrAvatarNotImage)

	f.svc.(*userService).images.MaxPixels = 100
	_, err = f.svc.UpdateAvatar(ctx, me, testutil.PNG(t, 20, 20))
	assert.Equal(t, apperr.KindValidationFailed, apperr.KindOf(err))
	assert.EqualError(t, err, "Avatar image must not exceed 100 pixels")

	assert.Empty(t, f.objects.Keys())
}
