package jwt

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	TypeAccess  = "access"
	TypeRefresh = "refresh"
)

var (
	ErrInvalidToken = errors.New("token is invalid or expired")
	ErrRevoked      = errors.New("token is blacklisted")
)

// Claims represents JWT claims structure. RegisteredClaims.ID carries the jti
// used for refresh-token blacklisting.
type Claims struct {
	UserID  string `json:"user_id"`
	Email   string `json:"email"`
	IsStaff bool   `json:"is_staff"`
	Type    string `json:"type"` // "access" or "refresh"
	jwt.RegisteredClaims
}

// TokenPair is the body returned by the token and refresh endpoints.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// Blacklist remembers revoked token ids until they would have expired anyway.
type Blacklist interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// Manager handles JWT operations
type Manager struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	blacklist  Blacklist
	now        func() time.Time
}

// NewManager creates new JWT manager. blacklist may be nil, in which case
// refresh tokens are not rotated out.
func NewManager(secret string, accessTTL, refreshTTL time.Duration, blacklist Blacklist) *Manager {
	return &Manager{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		blacklist:  blacklist,
		now:        time.Now,
	}
}

func (m *Manager) sign(userID, email string, isStaff bool, typ string, ttl time.Duration) (string, error) {
	now := m.now()
	claims := Claims{
		UserID:  userID,
		Email:   email,
		IsStaff: isStaff,
		Type:    typ,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// GenerateAccessToken signs a short-lived access token.
func (m *Manager) GenerateAccessToken(userID, email string, isStaff bool) (string, error) {
	return m.sign(userID, email, isStaff, TypeAccess, m.accessTTL)
}

// GenerateRefreshToken signs a refresh token carrying the same identity.
func (m *Manager) GenerateRefreshToken(userID, email string, isStaff bool) (string, error) {
	return m.sign(userID, email, isStaff, TypeRefresh, m.refreshTTL)
}

// GeneratePair issues a fresh access/refresh pair.
func (m *Manager) GeneratePair(userID, email string, isStaff bool) (*TokenPair, error) {
	access, err := m.GenerateAccessToken(userID, email, isStaff)
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}
	refresh, err := m.GenerateRefreshToken(userID, email, isStaff)
	if err != nil {
		return nil, fmt.Errorf("sign refresh token: %w", err)
	}
	return &TokenPair{Access: access, Refresh: refresh}, nil
}

// ValidateToken validates and parses token
func (m *Manager) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	}, jwt.WithTimeFunc(m.now))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// ValidateAccessToken validates access token specifically
func (m *Manager) ValidateAccessToken(tokenString string) (*Claims, error) {
	return m.validateType(tokenString, TypeAccess)
}

// ValidateRefreshToken validates refresh token specifically
func (m *Manager) ValidateRefreshToken(tokenString string) (*Claims, error) {
	return m.validateType(tokenString, TypeRefresh)
}

func (m *Manager) validateType(tokenString, typ string) (*Claims, error) {
	claims, err := m.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.Type != typ {
		return nil, fmt.Errorf("%w: expected %s token, got %s", ErrInvalidToken, typ, claims.Type)
	}
	return claims, nil
}

// Rotate exchanges a refresh token for a new pair and blacklists the old
// refresh token for the rest of its lifetime.
func (m *Manager) Rotate(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := m.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, err
	}

	if m.blacklist != nil {
		revoked, err := m.blacklist.IsRevoked(ctx, claims.ID)
		if err != nil {
			return nil, fmt.Errorf("check blacklist: %w", err)
		}
		if revoked {
			return nil, ErrRevoked
		}
	}

	pair, err := m.GeneratePair(claims.UserID, claims.Email, claims.IsStaff)
	if err != nil {
		return nil, err
	}

	if m.blacklist != nil {
		remaining := claims.ExpiresAt.Time.Sub(m.now())
		if remaining > 0 {
			if err := m.blacklist.Revoke(ctx, claims.ID, remaining); err != nil {
				return nil, fmt.Errorf("blacklist refresh token: %w", err)
			}
		}
	}

	return pair, nil
}

// Verify checks a token of either type, including the blacklist.
func (m *Manager) Verify(ctx context.Context, tokenString string) error {
	claims, err := m.ValidateToken(tokenString)
	if err != nil {
		return err
	}
	if m.blacklist == nil {
		return nil
	}
	revoked, err := m.blacklist.IsRevoked(ctx, claims.ID)
	if err != nil {
		return fmt.Errorf("check blacklist: %w", err)
	}
	if revoked {
		return ErrRevoked
	}
	return nil
}
