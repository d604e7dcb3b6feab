package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var ErrInvalidToken = errors.New("invalid token")

type Claims struct {
	JTI string `json:"jti"`
	jwt.RegisteredClaims
}

// Manager issues and verifies stateless access tokens. There is no
// revocation list: a token stays valid until its embedded expiry,
// regardless of what happens to the account afterwards.
type Manager struct {
	secret    []byte
	accessTTL time.Duration
}

func NewManager(secret string, accessTTL time.Duration) *Manager {
	return &Manager{
		secret:    []byte(secret),
		accessTTL: accessTTL,
	}
}

// IssueToken signs an access token for the given subject with the
// configured TTL.
func (m *Manager) IssueToken(subjectID string) (string, error) {
	return m.IssueTokenWithTTL(subjectID, m.accessTTL)
}

// IssueTokenWithTTL lets callers override the configured expiry.
func (m *Manager) IssueTokenWithTTL(subjectID string, ttl time.Duration) (string, error) {
	now := time.Now().UTC()

	claims := Claims{
		JTI: uuid.NewString(),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			Subject:   subjectID,
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// VerifyToken checks signature and expiry and returns the encoded
// subject. Malformed tokens, bad signatures and expired tokens all
// come back as ErrInvalidToken.
func (m *Manager) VerifyToken(tokenStr string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		// Enforce HS256

		_, ok := t.Method.(*jwt.SigningMethodHMAC)

		if !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.secret, nil
	})

	if err != nil {
		return "", ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)

	if !ok || !token.Valid || claims.Subject == "" {
		return "", ErrInvalidToken
	}

	return claims.Subject, nil
}
