package repositories

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommentRepository(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	posts := NewPostRepository(db)
	repo := NewCommentRepository(db)

	postID := mustCreatePost(t, posts, PostCreate{Title: "A", Slug: "a", Content: "x", Published: true})

	pendingID, err := repo.Create(ctx, CommentCreate{PostID: postID, AuthorName: "guest", AuthorEmail: "g@example.com", Content: "first"})
	require.NoError(t, err)

	t.Run("unapproved comments are hidden from readers", func(t *testing.T) {
		rows, err := repo.ApprovedByPost(ctx, postID)
		require.NoError(t, err)
		assert.NotNil(t, rows)
		assert.Empty(t, rows)

		n, err := repo.PendingCount(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)
	})

	t.Run("approve is idempotent", func(t *testing.T) {
		approved := true
		for i := 0; i < 2; i++ {
			changed, err := repo.Update(ctx, pendingID, CommentUpdate{Approved: &approved})
			require.NoError(t, err)
			assert.True(t, changed, "attempt %d", i+1)
		}

		rows, err := repo.ApprovedByPost(ctx, postID)
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, "first", rows[0].Content)

		n, err := repo.PendingCount(ctx)
		require.NoError(t, err)
		assert.Zero(t, n)
	})

	t.Run("update without fields or row", func(t *testing.T) {
		changed, err := repo.Update(ctx, pendingID, CommentUpdate{})
		require.NoError(t, err)
		assert.False(t, changed)

		approved := true
		changed, err = repo.Update(ctx, pendingID+100, CommentUpdate{Approved: &approved})
		require.NoError(t, err)
		assert.False(t, changed)
	})

	t.Run("moderation list carries the post title", func(t *testing.T) {
		uid := uint(7)
		_, err := repo.Create(ctx, CommentCreate{PostID: postID, UserID: &uid, AuthorName: "member", AuthorEmail: "m@example.com", Content: "second"})
		require.NoError(t, err)

		rows, err := repo.AllWithPostTitle(ctx)
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, "second", rows[0].Content)
		require.NotNil(t, rows[0].UserID)
		assert.Equal(t, uid, *rows[0].UserID)
		require.NotNil(t, rows[1].PostTitle)
		assert.Equal(t, "A", *rows[1].PostTitle)

		n, err := repo.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(2), n)
	})

	t.Run("delete", func(t *testing.T) {
		removed, err := repo.Delete(ctx, pendingID)
		require.NoError(t, err)
		assert.True(t, removed)

		c, err := repo.FindByID(ctx, pendingID)
		require.NoError(t, err)
		assert.Nil(t, c)
	})
}
