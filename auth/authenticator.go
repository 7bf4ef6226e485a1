// Package auth verifies credentials and manages signed sessions.
package auth

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/cppla/aiblog/models"
	"github.com/cppla/aiblog/utils"
)

// Outcome is the result class of a credential check.
type Outcome int

const (
	OutcomeOK Outcome = iota
	OutcomeInvalidCredentials
	OutcomeBanned
	OutcomeUnavailable
)

func (o Outcome) String() string {
	switch o {
	case OutcomeOK:
		return "ok"
	case OutcomeInvalidCredentials:
		return "invalid_credentials"
	case OutcomeBanned:
		return "banned"
	case OutcomeUnavailable:
		return "unavailable"
	default:
		return "unknown"
	}
}

// Identity is what a successful login exposes about the user.
type Identity struct {
	ID     uint    `json:"id"`
	Email  string  `json:"email"`
	Name   string  `json:"name"`
	Avatar *string `json:"avatar"`
	Role   string  `json:"role"`
}

// Result of Authorize. Identity is set only for OutcomeOK, Err only for OutcomeUnavailable.
type Result struct {
	Outcome  Outcome
	Identity *Identity
	Err      error
}

// UserLookup finds login data by email; nil, nil means no such user.
// PasswordHash reports found false for unknown ids.
type UserLookup interface {
	AuthByEmail(ctx context.Context, email string) (*models.AuthRecord, error)
	PasswordHash(ctx context.Context, id uint) (string, bool, error)
}

// cachedIdentity is what the identity cache holds. The password hash is
// never cached, since the cache may be a shared Redis.
type cachedIdentity struct {
	ID     uint    `json:"id"`
	Email  string  `json:"email"`
	Name   string  `json:"name"`
	Avatar *string `json:"avatar"`
	Role   string  `json:"role"`
	Status string  `json:"status"`
}

// Authenticator checks email/password pairs. Store lookups go through an
// identity cache keyed by normalized email.
type Authenticator struct {
	users UserLookup
	cache utils.Cache
	ttl   time.Duration
}

func NewAuthenticator(users UserLookup, cache utils.Cache, ttl time.Duration) *Authenticator {
	return &Authenticator{users: users, cache: cache, ttl: ttl}
}

// Authorize never returns an error for business outcomes; banned and bad
// credentials are distinct results.
func (a *Authenticator) Authorize(ctx context.Context, email, password string) Result {
	key := cacheKey(email)
	if key == "" || password == "" {
		return Result{Outcome: OutcomeInvalidCredentials}
	}

	rec, err := a.lookup(ctx, key)
	if err != nil {
		utils.L().Error("identity lookup failed", zap.String("email", key), zap.Error(err))
		return Result{Outcome: OutcomeUnavailable, Err: err}
	}
	if rec == nil {
		return Result{Outcome: OutcomeInvalidCredentials}
	}
	if rec.Status == models.StatusBanned {
		return Result{Outcome: OutcomeBanned}
	}
	if rec.Password == "" {
		hash, found, err := a.users.PasswordHash(ctx, rec.ID)
		if err != nil {
			utils.L().Error("password lookup failed", zap.Uint("user_id", rec.ID), zap.Error(err))
			return Result{Outcome: OutcomeUnavailable, Err: err}
		}
		if !found {
			a.Forget(ctx, key)
			return Result{Outcome: OutcomeInvalidCredentials}
		}
		rec.Password = hash
	}
	if !utils.CheckPassword(rec.Password, password) {
		return Result{Outcome: OutcomeInvalidCredentials}
	}

	return Result{
		Outcome: OutcomeOK,
		Identity: &Identity{
			ID:     rec.ID,
			Email:  rec.Email,
			Name:   rec.Name,
			Avatar: rec.Avatar,
			Role:   rec.Role,
		},
	}
}

// lookup returns the record for key. On a cache hit Password is empty and
// must be read from the store.
func (a *Authenticator) lookup(ctx context.Context, key string) (*models.AuthRecord, error) {
	var cached cachedIdentity
	hit, err := a.cache.Get(ctx, key, &cached)
	if err != nil {
		utils.L().Warn("identity cache read failed", zap.String("email", key), zap.Error(err))
	}
	if hit {
		return &models.AuthRecord{
			ID:     cached.ID,
			Email:  cached.Email,
			Name:   cached.Name,
			Avatar: cached.Avatar,
			Role:   cached.Role,
			Status: cached.Status,
		}, nil
	}

	rec, err := a.users.AuthByEmail(ctx, key)
	if err != nil || rec == nil {
		return nil, err
	}
	entry := cachedIdentity{
		ID:     rec.ID,
		Email:  rec.Email,
		Name:   rec.Name,
		Avatar: rec.Avatar,
		Role:   rec.Role,
		Status: rec.Status,
	}
	if err := a.cache.Set(ctx, key, entry, a.ttl); err != nil {
		utils.L().Warn("identity cache write failed", zap.String("email", key), zap.Error(err))
	}
	return rec, nil
}

// Forget drops the cached identity so the next login reads the store.
func (a *Authenticator) Forget(ctx context.Context, email string) {
	if err := a.cache.Delete(ctx, cacheKey(email)); err != nil {
		utils.L().Warn("identity cache delete failed", zap.String("email", email), zap.Error(err))
	}
}

func cacheKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// VerifyPassword is the comparison primitive used for re-authentication.
func (a *Authenticator) VerifyPassword(hash, password string) bool {
	if hash == "" || password == "" {
		return false
	}
	return utils.CheckPassword(hash, password)
}
