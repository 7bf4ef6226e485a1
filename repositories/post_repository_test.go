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

func TestPostRepository_CreateDefaults(t *testing.T) {
	ctx := context.Background()
	repo := NewPostRepository(newTestDB(t))

	id := mustCreatePost(t, repo, PostCreate{Title: "A", Slug: "a", Content: "x"})

	post, err := repo.FindByID(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, post)
	assert.Equal(t, "", post.Excerpt)
	assert.Nil(t, post.CategoryID)
	assert.False(t, post.Published)
	assert.False(t, post.CreatedAt.IsZero())

	missing, err := repo.FindByID(ctx, id+100)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestPostRepository_SlugUniqueness(t *testing.T) {
	ctx := context.Background()
	repo := NewPostRepository(newTestDB(t))

	exists, err := repo.SlugExists(ctx, "hello", 0)
	require.NoError(t, err)
	assert.False(t, exists)

	id := mustCreatePost(t, repo, PostCreate{Title: "Hello", Slug: "hello", Content: "x"})

	exists, err = repo.SlugExists(ctx, "hello", 0)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.SlugExists(ctx, "hello", id)
	require.NoError(t, err)
	assert.False(t, exists, "a post does not collide with itself")

	_, err = repo.Create(ctx, PostCreate{Title: "Again", Slug: "hello", Content: "y"})
	require.Error(t, err)
	status, _ := utils.Classify(err)
	assert.Equal(t, http.StatusConflict, status)

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestPostRepository_Update(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewPostRepository(db)
	cats := NewCategoryRepository(db)

	catID, err := cats.Create(ctx, CategoryCreate{Name: "Go"})
	require.NoError(t, err)
	id := mustCreatePost(t, repo, PostCreate{Title: "A", Slug: "a", Content: "x", Excerpt: "e"})

	t.Run("empty update is a no-op", func(t *testing.T) {
		changed, err := repo.Update(ctx, id, PostUpdate{})
		require.NoError(t, err)
		assert.False(t, changed)

		post, err := repo.FindByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "A", post.Title)
	})

	t.Run("partial update leaves other fields", func(t *testing.T) {
		changed, err := repo.Update(ctx, id, PostUpdate{
			Title:      ptr("B"),
			CategoryID: models.Some(catID),
			Published:  ptr(true),
		})
		require.NoError(t, err)
		assert.True(t, changed)

		post, err := repo.FindByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "B", post.Title)
		assert.Equal(t, "a", post.Slug)
		assert.Equal(t, "e", post.Excerpt)
		require.NotNil(t, post.CategoryID)
		assert.Equal(t, catID, *post.CategoryID)
		assert.True(t, post.Published)
	})

	t.Run("null clears the category", func(t *testing.T) {
		changed, err := repo.Update(ctx, id, PostUpdate{CategoryID: models.Null[uint]()})
		require.NoError(t, err)
		assert.True(t, changed)

		post, err := repo.FindByID(ctx, id)
		require.NoError(t, err)
		assert.Nil(t, post.CategoryID)
	})

	t.Run("missing id", func(t *testing.T) {
		changed, err := repo.Update(ctx, id+100, PostUpdate{Title: ptr("C")})
		require.NoError(t, err)
		assert.False(t, changed)
	})
}

func TestPostRepository_Reads(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewPostRepository(db)
	cats := NewCategoryRepository(db)

	catID, err := cats.Create(ctx, CategoryCreate{Name: "Go"})
	require.NoError(t, err)
	mustCreatePost(t, repo, PostCreate{Title: "Draft", Slug: "draft", Content: "d"})
	first := mustCreatePost(t, repo, PostCreate{Title: "First", Slug: "first", Content: "1", CategoryID: &catID, Published: true})
	second := mustCreatePost(t, repo, PostCreate{Title: "Second", Slug: "second", Content: "2", Published: true})

	summaries, err := repo.PublishedSummaries(ctx)
	require.NoError(t, err)
	require.Len(t, summaries, 2)
	assert.Equal(t, second, summaries[0].ID, "newest first")
	assert.Nil(t, summaries[0].CategoryName)
	assert.Equal(t, first, summaries[1].ID)
	require.NotNil(t, summaries[1].CategoryName)
	assert.Equal(t, "Go", *summaries[1].CategoryName)

	all, err := repo.AllDetails(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	post, err := repo.PublishedBySlug(ctx, "first")
	require.NoError(t, err)
	require.NotNil(t, post)
	assert.Equal(t, "1", post.Content)
	assert.Equal(t, "Go", *post.CategoryName)

	draft, err := repo.PublishedBySlug(ctx, "draft")
	require.NoError(t, err)
	assert.Nil(t, draft, "drafts are not public")

	detail, err := repo.DetailByID(ctx, first)
	require.NoError(t, err)
	require.NotNil(t, detail)
	assert.Equal(t, "first", detail.Slug)

	counts, err := repo.Counts(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.PostCounts{Total: 3, Published: 2}, counts)
}

func TestPostRepository_DeleteCascadesComments(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewPostRepository(db)
	comments := NewCommentRepository(db)

	id := mustCreatePost(t, repo, PostCreate{Title: "A", Slug: "a", Content: "x", Published: true})
	_, err := comments.Create(ctx, CommentCreate{PostID: id, AuthorName: "g", AuthorEmail: "g@example.com", Content: "hi"})
	require.NoError(t, err)

	removed, err := repo.Delete(ctx, id)
	require.NoError(t, err)
	assert.True(t, removed)

	n, err := comments.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	removed, err = repo.Delete(ctx, id)
	require.NoError(t, err)
	assert.False(t, removed)
}
