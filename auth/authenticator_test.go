package auth

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cppla/aiblog/models"
	"github.com/cppla/aiblog/utils"
)

type fakeUsers struct {
	mu        sync.Mutex
	records   map[string]*models.AuthRecord
	err       error
	hashErr   error
	calls     int
	hashCalls int
}

func (f *fakeUsers) AuthByEmail(_ context.Context, email string) (*models.AuthRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	rec, ok := f.records[email]
	if !ok {
		return nil, nil
	}
	cp := *rec
	return &cp, nil
}

func (f *fakeUsers) PasswordHash(_ context.Context, id uint) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.hashCalls++
	if f.hashErr != nil {
		return "", false, f.hashErr
	}
	for _, rec := range f.records {
		if rec.ID == id {
			return rec.Password, true, nil
		}
	}
	return "", false, nil
}

func (f *fakeUsers) setPassword(t *testing.T, email, password string) {
	t.Helper()
	hash, err := utils.HashPassword(password)
	require.NoError(t, err)
	f.mu.Lock()
	f.records[email].Password = hash
	f.mu.Unlock()
}

func (f *fakeUsers) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func newFakeUsers(t *testing.T) *fakeUsers {
	t.Helper()
	hash, err := utils.HashPassword("secret1")
	require.NoError(t, err)
	return &fakeUsers{records: map[string]*models.AuthRecord{
		"ann@example.com": {ID: 1, Email: "ann@example.com", Name: "Ann", Role: models.RoleAdmin, Status: models.StatusActive, Password: hash},
		"bob@example.com": {ID: 2, Email: "bob@example.com", Name: "Bob", Role: models.RoleUser, Status: models.StatusBanned, Password: hash},
	}}
}

func TestAuthorize_Outcomes(t *testing.T) {
	ctx := context.Background()
	users := newFakeUsers(t)
	a := NewAuthenticator(users, utils.NewMemoryCache(time.Minute), 5*time.Minute)

	res := a.Authorize(ctx, " ANN@example.com ", "secret1")
	require.Equal(t, OutcomeOK, res.Outcome)
	require.NotNil(t, res.Identity)
	assert.Equal(t, uint(1), res.Identity.ID)
	assert.Equal(t, models.RoleAdmin, res.Identity.Role)

	res = a.Authorize(ctx, "ann@example.com", "wrong")
	assert.Equal(t, OutcomeInvalidCredentials, res.Outcome)
	assert.Nil(t, res.Identity)

	res = a.Authorize(ctx, "nobody@example.com", "secret1")
	assert.Equal(t, OutcomeInvalidCredentials, res.Outcome)

	res = a.Authorize(ctx, "", "secret1")
	assert.Equal(t, OutcomeInvalidCredentials, res.Outcome)

	res = a.Authorize(ctx, "ann@example.com", "")
	assert.Equal(t, OutcomeInvalidCredentials, res.Outcome)
}

func TestAuthorize_BannedIsDistinct(t *testing.T) {
	a := NewAuthenticator(newFakeUsers(t), utils.NewMemoryCache(time.Minute), 5*time.Minute)

	// the correct password still reports banned, and so does a wrong one
	assert.Equal(t, OutcomeBanned, a.Authorize(context.Background(), "bob@example.com", "secret1").Outcome)
	assert.Equal(t, OutcomeBanned, a.Authorize(context.Background(), "bob@example.com", "nope").Outcome)
}

func TestAuthorize_IdentityCache(t *testing.T) {
	ctx := context.Background()
	users := newFakeUsers(t)
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	cache := utils.NewMemoryCache(time.Minute).WithClock(func() time.Time { return now })
	a := NewAuthenticator(users, cache, 5*time.Minute)

	require.Equal(t, OutcomeOK, a.Authorize(ctx, "ann@example.com", "secret1").Outcome)
	require.Equal(t, 1, users.callCount())

	now = now.Add(4 * time.Minute)
	require.Equal(t, OutcomeOK, a.Authorize(ctx, "Ann@Example.com", "secret1").Outcome)
	assert.Equal(t, 1, users.callCount(), "served from cache within the ttl")

	now = now.Add(2 * time.Minute)
	require.Equal(t, OutcomeOK, a.Authorize(ctx, "ann@example.com", "secret1").Outcome)
	assert.Equal(t, 2, users.callCount(), "expired entry reads the store again")

	a.Forget(ctx, "ann@example.com")
	require.Equal(t, OutcomeOK, a.Authorize(ctx, "ann@example.com", "secret1").Outcome)
	assert.Equal(t, 3, users.callCount())
}

func TestAuthorize_StoreFailure(t *testing.T) {
	ctx := context.Background()
	users := newFakeUsers(t)
	users.err = errors.New("connection refused")
	cache := utils.NewMemoryCache(time.Minute)
	a := NewAuthenticator(users, cache, 5*time.Minute)

	res := a.Authorize(ctx, "ann@example.com", "secret1")
	assert.Equal(t, OutcomeUnavailable, res.Outcome)
	assert.ErrorContains(t, res.Err, "connection refused")
	assert.Zero(t, cache.Len(), "failures are not cached")

	users.err = nil
	res = a.Authorize(ctx, "ann@example.com", "secret1")
	assert.Equal(t, OutcomeOK, res.Outcome)
}

func TestAuthorize_CacheHoldsNoPasswordHash(t *testing.T) {
	ctx := context.Background()
	users := newFakeUsers(t)
	cache := utils.NewMemoryCache(time.Minute)
	a := NewAuthenticator(users, cache, 5*time.Minute)

	require.Equal(t, OutcomeOK, a.Authorize(ctx, "ann@example.com", "secret1").Outcome)
	assert.Zero(t, users.hashCalls, "a store read already carries the hash")

	var entry map[string]interface{}
	hit, err := cache.Get(ctx, "ann@example.com", &entry)
	require.NoError(t, err)
	require.True(t, hit)
	assert.Equal(t, "ann@example.com", entry["email"])
	for k, v := range entry {
		assert.NotContains(t, k, "password")
		if str, ok := v.(string); ok {
			assert.NotContains(t, str, "$2a$", "field %s", k)
		}
	}

	t.Run("cache hit reads the current hash", func(t *testing.T) {
		users.setPassword(t, "ann@example.com", "rotated1")

		assert.Equal(t, OutcomeInvalidCredentials, a.Authorize(ctx, "ann@example.com", "secret1").Outcome)
		assert.Equal(t, OutcomeOK, a.Authorize(ctx, "ann@example.com", "rotated1").Outcome)
		assert.Equal(t, 1, users.callCount(), "identity still served from cache")
		assert.Equal(t, 2, users.hashCalls)
	})

	t.Run("hash lookup failure", func(t *testing.T) {
		users.hashErr = errors.New("connection reset")
		defer func() { users.hashErr = nil }()

		res := a.Authorize(ctx, "ann@example.com", "rotated1")
		assert.Equal(t, OutcomeUnavailable, res.Outcome)
		assert.ErrorContains(t, res.Err, "connection reset")
	})

	t.Run("banned check needs no hash", func(t *testing.T) {
		require.Equal(t, OutcomeBanned, a.Authorize(ctx, "bob@example.com", "secret1").Outcome)
		before := users.hashCalls
		require.Equal(t, OutcomeBanned, a.Authorize(ctx, "bob@example.com", "secret1").Outcome)
		assert.Equal(t, before, users.hashCalls)
	})
}

func TestVerifyPassword(t *testing.T) {
	a := NewAuthenticator(newFakeUsers(t), utils.NewMemoryCache(time.Minute), time.Minute)
	hash, err := utils.HashPassword("secret1")
	require.NoError(t, err)

	assert.True(t, a.VerifyPassword(hash, "secret1"))
	assert.False(t, a.VerifyPassword(hash, "secret2"))
	assert.False(t, a.VerifyPassword("", "secret1"))
	assert.False(t, a.VerifyPassword(hash, ""))
}

func TestOutcomeString(t *testing.T) {
	assert.Equal(t, "ok", OutcomeOK.String())
	assert.Equal(t, "banned", OutcomeBanned.String())
	assert.Equal(t, "unknown", Outcome(42).String())
}
