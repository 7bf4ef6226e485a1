package repositories

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cppla/aiblog/models"
	"github.com/cppla/aiblog/utils"
)

func TestProfileRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewProfileRepository(newTestDB(t))

	id, err := repo.Create(ctx, UserCreate{Email: " Ann@Example.com ", PasswordHash: "hash-1", Name: "Ann"})
	require.NoError(t, err)

	t.Run("defaults and public view", func(t *testing.T) {
		p, err := repo.Profile(ctx, id)
		require.NoError(t, err)
		require.NotNil(t, p)
		assert.Equal(t, "ann@example.com", p.Email)
		assert.Equal(t, models.RoleUser, p.Role)
		assert.Equal(t, models.StatusActive, p.Status)
		assert.Nil(t, p.Bio)

		missing, err := repo.Profile(ctx, id+100)
		require.NoError(t, err)
		assert.Nil(t, missing)
	})

	t.Run("email lookup ignores case", func(t *testing.T) {
		rec, err := repo.AuthByEmail(ctx, "ANN@example.com")
		require.NoError(t, err)
		require.NotNil(t, rec)
		assert.Equal(t, id, rec.ID)
		assert.Equal(t, "hash-1", rec.Password)

		rec, err = repo.AuthByEmail(ctx, "nobody@example.com")
		require.NoError(t, err)
		assert.Nil(t, rec)
	})

	t.Run("duplicate email", func(t *testing.T) {
		_, err := repo.Create(ctx, UserCreate{Email: "ann@example.com", PasswordHash: "x", Name: "Other"})
		status, _ := utils.Classify(err)
		assert.Equal(t, http.StatusConflict, status)
	})

	t.Run("password", func(t *testing.T) {
		changed, err := repo.UpdatePassword(ctx, id, "hash-2")
		require.NoError(t, err)
		assert.True(t, changed)

		hash, found, err := repo.PasswordHash(ctx, id)
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, "hash-2", hash)

		_, found, err = repo.PasswordHash(ctx, id+100)
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("profile fields", func(t *testing.T) {
		changed, err := repo.UpdateProfile(ctx, id, ProfileUpdate{})
		require.NoError(t, err)
		assert.False(t, changed)

		bio := "writes about Go"
		changed, err = repo.UpdateProfile(ctx, id, ProfileUpdate{Bio: &bio})
		require.NoError(t, err)
		assert.True(t, changed)

		p, err := repo.Profile(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "Ann", p.Name)
		require.NotNil(t, p.Bio)
		assert.Equal(t, bio, *p.Bio)

		n, err := repo.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)
	})
}
