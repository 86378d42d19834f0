package pagination

import (
	"net/http"
	"net/url"
	"strconv"
)

const (
	DefaultLimit = 10
	MaxLimit     = 100
)

// Params is a limit/offset window. Results are always ordered by creation
// (primary key), so consecutive windows neither overlap nor skip rows.
type Params struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// Parse reads limit and offset from a query string. Missing, malformed or
// non-positive limits fall back to defaultLimit; limits above maxLimit are
// clamped; malformed or negative offsets become 0.
func Parse(query url.Values, defaultLimit, maxLimit int) Params {
	if defaultLimit <= 0 {
		defaultLimit = DefaultLimit
	}
	if maxLimit <= 0 {
		maxLimit = MaxLimit
	}

	p := Params{Limit: defaultLimit}

	if raw := query.Get("limit"); raw != "" {
		if limit, err := strconv.Atoi(raw); err == nil && limit > 0 {
			p.Limit = min(limit, maxLimit)
		}
	}
	if raw := query.Get("offset"); raw != "" {
		if offset, err := strconv.Atoi(raw); err == nil && offset > 0 {
			p.Offset = offset
		}
	}
	return p
}

// Envelope is the wrapped list shape: total count, links to the
// neighbouring windows and the current results.
type Envelope[T any] struct {
	Count    int64   `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

// NewEnvelope builds next/previous links from the absolute request URL.
func NewEnvelope[T any](requestURL *url.URL, p Params, count int64, results []T) Envelope[T] {
	if results == nil {
		results = []T{}
	}
	return Envelope[T]{
		Count:    count,
		Next:     nextLink(requestURL, p, count),
		Previous: previousLink(requestURL, p),
		Results:  results,
	}
}

func nextLink(u *url.URL, p Params, count int64) *string {
	if int64(p.Offset+p.Limit) >= count {
		return nil
	}
	return link(u, p.Limit, p.Offset+p.Limit)
}

func previousLink(u *url.URL, p Params) *string {
	if p.Offset <= 0 {
		return nil
	}
	if p.Offset-p.Limit <= 0 {
		return link(u, p.Limit, 0)
	}
	return link(u, p.Limit, p.Offset-p.Limit)
}

// link rewrites limit and offset on a copy of u; offset 0 drops the parameter.
func link(u *url.URL, limit, offset int) *string {
	next := *u
	q := next.Query()
	q.Set("limit", strconv.Itoa(limit))
	if offset > 0 {
		q.Set("offset", strconv.Itoa(offset))
	} else {
		q.Del("offset")
	}
	next.RawQuery = q.Encode()
	s := next.String()
	return &s
}

// AbsoluteURL reconstructs the URL the client called.
func AbsoluteURL(r *http.Request) *url.URL {
	u := *r.URL
	u.Host = r.Host
	u.Scheme = "http"
	if r.TLS != nil {
		u.Scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		u.Scheme = proto
	}
	return &u
}
