package model

const (
	StatusDraft     = "draft"
	StatusPublished = "published"
	StatusArchived  = "archived"

	SlugMaxLength = 250
	SlugFallback  = "post"
)

// Statuses is every value accepted for Post.Status. Any of them can be set
// at any time; there is no transition check.
var Statuses = []any{StatusDraft, StatusPublished, StatusArchived}
