package auth

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/taskvault/apiserver/types"
)

// TokenTTL is the fixed validity window of every issued token.
const TokenTTL = time.Hour

var (
	// ErrInvalidToken covers malformed, badly signed, and expired tokens.
	ErrInvalidToken = errors.New("invalid token")

	// ErrTokenRevoked is returned for blacklisted tokens.
	ErrTokenRevoked = errors.New("token revoked")
)

// Claims is the verified payload of a bearer token: the subject's user id
// and the role it held at issuance. Role changes after issuance are not
// reflected until re-login.
type Claims struct {
	jwt.RegisteredClaims
	Role types.Role `json:"role"`
}

// UserID parses the subject claim into a user id.
func (c Claims) UserID() (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(c.Subject))
	if err != nil || id < 1 {
		return 0, errors.New("invalid subject")
	}
	return id, nil
}

// TokenManager issues and verifies HS256 bearer tokens and tracks the
// logout blacklist.
type TokenManager struct {
	secret    []byte
	ttl       time.Duration
	blacklist *Blacklist
}

func NewTokenManager(secret string, blacklist *Blacklist) *TokenManager {
	return &TokenManager{
		secret:    []byte(secret),
		ttl:       TokenTTL,
		blacklist: blacklist,
	}
}

// Issue signs a token embedding the user's id and role.
func (m *TokenManager) Issue(userID int, role types.Role) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.Itoa(userID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
		Role: role,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Verify checks the signature, expiry, and blacklist, and returns the
// embedded claims. No store lookup is performed: claims are trusted as of
// issuance time.
func (m *TokenManager) Verify(tokenString string) (Claims, error) {
	claims := Claims{}
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return Claims{}, ErrInvalidToken
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return Claims{}, ErrInvalidToken
	}
	if m.blacklist != nil && m.blacklist.Contains(tokenString) {
		return Claims{}, ErrTokenRevoked
	}
	return claims, nil
}

// Revoke blacklists the literal token string until the token's own expiry.
// The token must have passed Verify first. Revoking twice is a no-op.
func (m *TokenManager) Revoke(tokenString string, claims Claims) {
	if m.blacklist == nil {
		return
	}
	expiry := time.Now().Add(m.ttl)
	if claims.ExpiresAt != nil {
		expiry = claims.ExpiresAt.Time
	}
	m.blacklist.Revoke(tokenString, expiry)
}
