package security

import (
	"strings"
	"testing"

	"blog-backend/internal/shared/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func nest(depth int) any {
	var v any = "leaf"
	for i := 0; i < depth; i++ {
		v = map[string]any{"k": v}
	}
	return v
}

func TestSanitize_StripsTagsFromNestedLeavesAndKeys(t *testing.T) {
	in := map[string]any{
		"title":      "<b>Hello</b> world",
		"<i>key</i>": "x",
		"tags":       []any{"<script>alert(1)</script>go", 42.0, true, nil},
		"meta":       map[string]any{"note": `<a href="http://evil">click</a>`},
		"count":      3.0,
	}

	out, err := Sanitize(in, DefaultMaxDepth)
	require.NoError(t, err)

	m := out.(map[string]any)
	assert.Equal(t, "Hello world", m["title"])
	assert.Equal(t, "x", m["key"])
	assert.Equal(t, []any{"go", 42.0, true, nil}, m["tags"])
	assert.Equal(t, map[string]any{"note": "click"}, m["meta"])
	assert.Equal(t, 3.0, m["count"])
}

func TestSanitizeString_KeepsQuotes(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"O'Neil", "O'Neil"},
		{"o'neil@example.com", "o'neil@example.com"},
		{`He said "hi"`, `He said "hi"`},
		{`<b>Don't</b> "panic"`, `Don't "panic"`},
		{"fish & chips", "fish &amp; chips"},
		{"&lt;script&gt;", "&lt;script&gt;"},
		{`&#34;<img src=x onerror="alert(1)">&#39;`, `"'`},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SanitizeString(tt.in), tt.in)
	}
}

func TestSanitize_NoTagsSurvive(t *testing.T) {
	inputs := []string{
		"<p>para</p>",
		`<img src=x onerror="alert(1)">`,
		"<div><span>deep</span></div>",
		"plain <em>mixed</em> text",
		"<<b>>broken",
		`&lt;b&gt;"x"&lt;/b&gt;`,
		`<a title="'">'</a>`,
	}
	for _, in := range inputs {
		got := SanitizeString(in)
		assert.NotContains(t, got, "<", in)
		assert.NotContains(t, got, ">", in)
	}
}

func TestSanitize_Idempotent(t *testing.T) {
	inputs := []any{
		"a & b < c",
		"<b>bold</b> \"quoted\" 'single'",
		map[string]any{"x": []any{"<i>1</i>", "2 > 1"}},
	}
	for _, in := range inputs {
		once, err := Sanitize(in, DefaultMaxDepth)
		require.NoError(t, err)
		twice, err := Sanitize(once, DefaultMaxDepth)
		require.NoError(t, err)
		assert.Equal(t, once, twice)
	}
}

func TestSanitize_DepthLimit(t *testing.T) {
	_, err := Sanitize(nest(10), 10)
	assert.NoError(t, err)

	_, err = Sanitize(nest(11), 10)
	require.Error(t, err)
	assert.Equal(t, apperr.KindPayloadTooDeep, apperr.KindOf(err))
	assert.True(t, strings.Contains(err.Error(), "maximum depth of 10"))
}

func TestSanitizer_PayloadKeepsRawKeys(t *testing.T) {
	s := NewSanitizer(0)

	out, err := s.Payload(map[string]any{
		"email":    "<b>a@example.com</b>",
		"password": "p<a>ss</a>word",
	}, "password")
	require.NoError(t, err)

	assert.Equal(t, "a@example.com", out["email"])
	assert.Equal(t, "p<a>ss</a>word", out["password"])
}

func TestSanitizer_NilPayload(t *testing.T) {
	out, err := NewSanitizer(3).Payload(nil)
	require.NoError(t, err)
	assert.Empty(t, out)
}
