package validation

import (
	"testing"

	"blog-backend/internal/shared/apperr"

	ozzo "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequireField(t *testing.T) {
	payload := map[string]any{"title": "Hello", "category_id": nil}

	v, err := RequireField(payload, "title")
	require.NoError(t, err)
	assert.Equal(t, "Hello", v)

	v, err = RequireField(payload, "category_id")
	require.NoError(t, err, "null is present")
	assert.Nil(t, v)

	_, err = RequireField(payload, "body")
	require.Error(t, err)
	assert.Equal(t, apperr.KindMissingField, apperr.KindOf(err))
	assert.EqualError(t, err, "Missing required field: body")
}

func TestRequireFields_ReportsFirstMissingInOrder(t *testing.T) {
	err := RequireFields(map[string]any{"email": "x"}, "email", "password", "first_name")
	assert.EqualError(t, err, "Missing required field: password")
}

func TestRequireString(t *testing.T) {
	s, err := RequireString(map[string]any{"n": 12.0}, "n")
	require.NoError(t, err)
	assert.Equal(t, "12", s)
}

type postInput struct {
	Title      string `json:"title"`
	CategoryID *int64 `json:"category_id"`
	Status     string `json:"status"`
}

func (p postInput) Validate() error {
	return ozzo.ValidateStruct(&p,
		ozzo.Field(&p.Title, ozzo.Required, ozzo.RuneLength(1, 5)),
		ozzo.Field(&p.Status, ozzo.In("draft", "published")),
	)
}

func TestDecode(t *testing.T) {
	var in postInput
	err := Decode(map[string]any{"title": "Hi", "category_id": 3.0, "status": "draft", "extra": true}, &in)
	require.NoError(t, err)
	assert.Equal(t, "Hi", in.Title)
	require.NotNil(t, in.CategoryID)
	assert.Equal(t, int64(3), *in.CategoryID)

	err = Decode(map[string]any{"category_id": map[string]any{"id": 1}}, &in)
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidationFailed, apperr.KindOf(err))
}

func TestDecode_RejectsFractionalIntegers(t *testing.T) {
	for _, value := range []any{1.9, -0.5, "1.9"} {
		var in postInput
		err := Decode(map[string]any{"category_id": value}, &in)
		require.Error(t, err, "%v", value)
		assert.Equal(t, apperr.KindValidationFailed, apperr.KindOf(err))
		assert.Contains(t, err.Error(), "category_id")
		assert.Nil(t, in.CategoryID)
	}

	var in postInput
	require.NoError(t, Decode(map[string]any{"category_id": 2.0, "title": "1.5"}, &in))
	assert.Equal(t, int64(2), *in.CategoryID)
	assert.Equal(t, "1.5", in.Title)

	require.NoError(t, Decode(map[string]any{"category_id": nil}, &in))
}

func TestStruct(t *testing.T) {
	assert.NoError(t, Struct(postInput{Title: "Hi", Status: "draft"}))

	err := Struct(postInput{Title: "far too long", Status: "gone"})
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidationFailed, apperr.KindOf(err))
	assert.Contains(t, err.Error(), "status")
	assert.Contains(t, err.Error(), "title")
}

type emailInput struct{ Email string }

func (e emailInput) Validate() error {
	return ozzo.ValidateStruct(&e, ozzo.Field(&e.Email, ozzo.Required, is.EmailFormat))
}

func TestStruct_Email(t *testing.T) {
	assert.NoError(t, Struct(emailInput{Email: "jane@example.com"}))
	assert.Error(t, Struct(emailInput{Email: "not-an-email"}))
}

func TestValue(t *testing.T) {
	assert.NoError(t, Value("jane@example.com", is.EmailFormat))

	err := Value("nope", is.EmailFormat.Error("Enter a valid email address."))
	assert.EqualError(t, err, "Enter a valid email address.")
	assert.Equal(t, apperr.KindValidationFailed, apperr.KindOf(err))
}

func TestFields_RuntimeLimits(t *testing.T) {
	in := emailInput{Email: "jane@example.com"}
	assert.NoError(t, Fields(&in, ozzo.Field(&in.Email, ozzo.RuneLength(0, 255))))

	err := Fields(&in, ozzo.Field(&in.Email, ozzo.RuneLength(0, 4)))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Email")
}

var policy = PasswordPolicy{MinLength: 8, MaxLength: 128, MinEntropy: 50}

func TestCheckPassword_Length(t *testing.T) {
	err := policy.CheckPassword("short", nil)
	assert.EqualError(t, err, "Password must be at least 8 characters")

	long := make([]byte, 129)
	for i := range long {
		long[i] = 'a'
	}
	err = policy.CheckPassword(string(long), nil)
	assert.EqualError(t, err, "Password must not exceed 128 characters")
}

func TestCheckPassword_Weak(t *testing.T) {
	err := policy.CheckPassword("password123", []string{"jane@example.com", "Jane", "Doe"})
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidationFailed, apperr.KindOf(err))
	assert.Contains(t, err.Error(), "Weak password, password strength is (")
	assert.Contains(t, err.Error(), "minimum 50")
}

func TestCheckPassword_Strong(t *testing.T) {
	assert.NoError(t, policy.CheckPassword("Xq7#vLp2!mRz9@Tw", []string{"jane@example.com"}))
}

func TestFeedback(t *testing.T) {
	assert.Equal(t, generalSuggestion, feedback(nil))
	assert.Equal(t,
		"Avoid using your name or email address in the password. "+generalSuggestion,
		feedback([]matchInfo{{pattern: "dictionary", dictionary: "passwords"}, {pattern: "dictionary", dictionary: "user_inputs"}}),
	)
	assert.Equal(t,
		"Straight rows of keys are easy to guess. "+generalSuggestion,
		feedback([]matchInfo{{pattern: "bruteforce"}, {pattern: "spatial"}}),
	)
}
