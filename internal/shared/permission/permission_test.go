package permission

import (
	"context"
	"testing"

	"blog-backend/internal/shared/apperr"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestRules(t *testing.T) {
	owner := &Principal{UserID: uuid.New(), Email: "owner@example.com"}
	other := &Principal{UserID: uuid.New(), Email: "other@example.com"}
	staff := &Principal{UserID: uuid.New(), Email: "staff@example.com", IsStaff: true}
	reason := "You don't have enough permissions to delete this post"

	tests := []struct {
		name string
		rule Rule
		p    *Principal
		want apperr.Kind
		ok   bool
	}{
		{"any/anonymous", AllowAny, nil, 0, true},
		{"authenticated/anonymous", RequireAuthenticated, nil, apperr.KindNotAuthenticated, false},
		{"authenticated/user", RequireAuthenticated, other, 0, true},
		{"owner/anonymous", RequireOwner{Reason: reason}, nil, apperr.KindNotAuthenticated, false},
		{"owner/other", RequireOwner{Reason: reason}, other, apperr.KindPermissionDenied, false},
		{"owner/owner", RequireOwner{Reason: reason}, owner, 0, true},
		{"staff/user", RequireStaff, other, apperr.KindPermissionDenied, false},
		{"staff/staff", RequireStaff, staff, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.rule.Check(tt.p, owner.UserID)
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			assert.Equal(t, tt.want, apperr.KindOf(err))
		})
	}
}

func TestCheckOwner_CarriesReason(t *testing.T) {
	err := CheckOwner(&Principal{UserID: uuid.New()}, uuid.New(), "not yours")
	assert.EqualError(t, err, "not yours")
}

func TestPrincipalContext(t *testing.T) {
	assert.Nil(t, FromContext(context.Background()))

	p := &Principal{UserID: uuid.New()}
	assert.Same(t, p, FromContext(WithPrincipal(context.Background(), p)))
}
