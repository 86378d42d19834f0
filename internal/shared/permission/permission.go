package permission

import (
	"context"

	"blog-backend/internal/shared/apperr"

	"github.com/google/uuid"
)

const notAuthenticatedMessage = "Authentication credentials were not provided."

// Principal is the authenticated caller. A nil *Principal is anonymous.
type Principal struct {
	UserID  uuid.UUID
	Email   string
	IsStaff bool
}

func (p *Principal) Authenticated() bool {
	return p != nil && p.UserID != uuid.Nil
}

// Rule is the authorization predicate of one operation. owner is the
// resource's owning user, uuid.Nil when the operation has no target yet.
type Rule interface {
	Check(p *Principal, owner uuid.UUID) error
}

type allowAny struct{}

func (allowAny) Check(*Principal, uuid.UUID) error { return nil }

type requireAuthenticated struct{}

func (requireAuthenticated) Check(p *Principal, _ uuid.UUID) error {
	if !p.Authenticated() {
		return apperr.NotAuthenticated(notAuthenticatedMessage)
	}
	return nil
}

type requireStaff struct{}

func (requireStaff) Check(p *Principal, _ uuid.UUID) error {
	if !p.Authenticated() {
		return apperr.NotAuthenticated(notAuthenticatedMessage)
	}
	if !p.IsStaff {
		return apperr.PermissionDenied("You do not have permission to perform this action.")
	}
	return nil
}

var (
	AllowAny             Rule = allowAny{}
	RequireAuthenticated Rule = requireAuthenticated{}
	RequireStaff         Rule = requireStaff{}
)

// RequireOwner passes only when the principal is the owner. Reason is the
// message returned on denial.
type RequireOwner struct {
	Reason string
}

func (r RequireOwner) Check(p *Principal, owner uuid.UUID) error {
	if !p.Authenticated() {
		return apperr.NotAuthenticated(notAuthenticatedMessage)
	}
	if p.UserID != owner {
		return apperr.PermissionDenied(r.Reason)
	}
	return nil
}

// CheckOwner is shorthand for RequireOwner{reason}.Check.
func CheckOwner(p *Principal, owner uuid.UUID, reason string) error {
	return RequireOwner{Reason: reason}.Check(p, owner)
}

type ctxKey struct{}

// WithPrincipal stores p in ctx; the auth middleware calls it per request.
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, ctxKey{}, p)
}

// FromContext returns the request principal or nil for anonymous callers.
func FromContext(ctx context.Context) *Principal {
	p, _ := ctx.Value(ctxKey{}).(*Principal)
	return p
}
