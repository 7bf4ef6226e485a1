package auth

import (
	"context"
	"time"

	"github.com/cppla/aiblog/utils"
)

// Sessions issues, verifies and revokes session tokens.
type Sessions struct {
	signer    *utils.SessionSigner
	blacklist *utils.TokenBlacklist
}

func NewSessions(signer *utils.SessionSigner, blacklist *utils.TokenBlacklist) *Sessions {
	return &Sessions{signer: signer, blacklist: blacklist}
}

// TTL is the absolute session lifetime.
func (s *Sessions) TTL() time.Duration { return s.signer.TTL() }

// Issue starts a session for an authenticated identity.
func (s *Sessions) Issue(id *Identity) (string, *utils.Claims, error) {
	return s.signer.Issue(id.ID, id.Role)
}

// Verify re-checks signature, expiry and revocation on every call.
func (s *Sessions) Verify(ctx context.Context, token string) (*utils.Claims, error) {
	claims, err := s.signer.Parse(token)
	if err != nil {
		return nil, err
	}
	if s.blacklist.IsRevoked(ctx, claims.ID) {
		return nil, utils.ErrInvalidSession
	}
	return claims, nil
}

// Revoke ends the session before its natural expiry.
func (s *Sessions) Revoke(ctx context.Context, claims *utils.Claims) error {
	if claims.ExpiresAt == nil {
		return nil
	}
	return s.blacklist.Revoke(ctx, claims.ID, claims.ExpiresAt.Time)
}
