package pagination

import (
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		query string
		want  Params
	}{
		{"", Params{Limit: 10, Offset: 0}},
		{"limit=2&offset=2", Params{Limit: 2, Offset: 2}},
		{"limit=abc&offset=-5", Params{Limit: 10, Offset: 0}},
		{"limit=0", Params{Limit: 10, Offset: 0}},
		{"limit=1000", Params{Limit: 100, Offset: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			q, err := url.ParseQuery(tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.want, Parse(q, DefaultLimit, MaxLimit))
		})
	}
}

func TestNewEnvelope_Links(t *testing.T) {
	u, err := url.Parse("http://testserver/api/users/?limit=2&offset=2")
	require.NoError(t, err)

	env := NewEnvelope(u, Params{Limit: 2, Offset: 2}, 5, []string{"c", "d"})

	require.NotNil(t, env.Next)
	assert.Equal(t, "http://testserver/api/users/?limit=2&offset=4", *env.Next)
	require.NotNil(t, env.Previous)
	assert.Equal(t, "http://testserver/api/users/?limit=2", *env.Previous)
	assert.Equal(t, int64(5), env.Count)
}

func TestNewEnvelope_Edges(t *testing.T) {
	u, err := url.Parse("http://testserver/api/users/")
	require.NoError(t, err)

	env := NewEnvelope[string](u, Params{Limit: 10}, 3, nil)
	assert.Nil(t, env.Next)
	assert.Nil(t, env.Previous)
	assert.NotNil(t, env.Results, "results render as [] not null")

	env = NewEnvelope(u, Params{Limit: 2, Offset: 5}, 6, []string{"f"})
	require.NotNil(t, env.Previous)
	assert.Equal(t, "http://testserver/api/users/?limit=2&offset=3", *env.Previous)
	assert.Nil(t, env.Next)
}

func TestAbsoluteURL(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/users/?limit=1", nil)
	r.Host = "blog.local"
	r.Header.Set("X-Forwarded-Proto", "https")

	assert.Equal(t, "https://blog.local/api/users/?limit=1", AbsoluteURL(r).String())
}
