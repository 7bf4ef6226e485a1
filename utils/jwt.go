package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims is the session payload. The lifetime is absolute: it starts at
// IssuedAt and is never extended by activity.
type Claims struct {
	UserID uint   `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// ErrInvalidSession covers bad signatures, expired tokens and malformed payloads.
var ErrInvalidSession = errors.New("invalid session")

// SessionSigner issues and verifies HS256 session tokens.
type SessionSigner struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewSessionSigner(secret string, ttl time.Duration) *SessionSigner {
	return &SessionSigner{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// WithClock swaps the time source used for issuing and validating.
func (s *SessionSigner) WithClock(now func() time.Time) *SessionSigner {
	s.now = now
	return s
}

// TTL is the fixed session lifetime.
func (s *SessionSigner) TTL() time.Duration { return s.ttl }

// Issue signs a new token for the user and returns it with its claims.
func (s *SessionSigner) Issue(userID uint, role string) (string, *Claims, error) {
	issued := s.now()
	claims := &Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(issued),
			ExpiresAt: jwt.NewNumericDate(issued.Add(s.ttl)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", nil, err
	}
	return token, claims, nil
}

// Parse checks signature and expiry and returns the claims.
func (s *SessionSigner) Parse(tokenStr string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, errors.Join(ErrInvalidSession, err)
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || claims.UserID == 0 || claims.ID == "" {
		return nil, ErrInvalidSession
	}
	return claims, nil
}
