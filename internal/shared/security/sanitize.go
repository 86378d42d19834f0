package security

import (
	"fmt"
	"strings"

	"blog-backend/internal/shared/apperr"

	"github.com/microcosm-cc/bluemonday"
)

// DefaultMaxDepth bounds payload nesting.
const DefaultMaxDepth = 10

// strict removes every tag and attribute and keeps the text.
var strict = bluemonday.StrictPolicy()

// quotes undoes the quote escaping bluemonday applies to text nodes. Only
// &, < and > stay escaped, so no markup can come back.
var quotes = strings.NewReplacer("&#39;", "'", "&#34;", `"`)

// SanitizeString strips markup from a single value.
func SanitizeString(s string) string {
	return quotes.Replace(strict.Sanitize(s))
}

// Sanitize returns a copy of value with every string leaf and map key
// stripped of markup. Nesting deeper than maxDepth fails with PayloadTooDeep.
func Sanitize(value any, maxDepth int) (any, error) {
	return walk(value, 0, maxDepth)
}

func walk(value any, depth, maxDepth int) (any, error) {
	if depth > maxDepth {
		return nil, apperr.PayloadTooDeep(maxDepth)
	}

	switch v := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for key, item := range v {
			clean, err := walk(item, depth+1, maxDepth)
			if err != nil {
				return nil, err
			}
			out[SanitizeString(key)] = clean
		}
		return out, nil
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			clean, err := walk(item, depth+1, maxDepth)
			if err != nil {
				return nil, err
			}
			out[i] = clean
		}
		return out, nil
	case string:
		return SanitizeString(v), nil
	default:
		return v, nil
	}
}

// Sanitizer applies Sanitize to request payloads with a configured depth.
type Sanitizer struct {
	maxDepth int
}

// NewSanitizer falls back to DefaultMaxDepth for non-positive depths.
func NewSanitizer(maxDepth int) *Sanitizer {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	return &Sanitizer{maxDepth: maxDepth}
}

// Payload sanitizes a decoded JSON object. Top-level keys listed in raw are
// passed through untouched (secrets that are hashed, never rendered).
func (s *Sanitizer) Payload(payload map[string]any, raw ...string) (map[string]any, error) {
	if payload == nil {
		return map[string]any{}, nil
	}

	kept := make(map[string]any, len(raw))
	for _, key := range raw {
		if v, ok := payload[key]; ok {
			kept[key] = v
		}
	}

	clean, err := Sanitize(payload, s.maxDepth)
	if err != nil {
		return nil, err
	}

	out, ok := clean.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("sanitize: unexpected payload type %T", clean)
	}
	for key, v := range kept {
		out[key] = v
	}
	return out, nil
}

// String strips markup from a single value outside a payload.
func (s *Sanitizer) String(v string) string {
	return SanitizeString(v)
}
