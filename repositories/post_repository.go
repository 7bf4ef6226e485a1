package repositories

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/cppla/aiblog/models"
)

// PostCreate is the input for a new post. Excerpt defaults to empty, Published to false.
type PostCreate struct {
	Title      string
	Slug       string
	Content    string
	Excerpt    string
	CategoryID *uint
	Published  bool
}

// PostUpdate carries the fields to change; unset fields are left alone.
type PostUpdate struct {
	Title      *string
	Slug       *string
	Content    *string
	Excerpt    *string
	CategoryID models.Optional[uint]
	Published  *bool
}

func (u PostUpdate) columns() map[string]interface{} {
	cols := map[string]interface{}{}
	if u.Title != nil {
		cols["title"] = *u.Title
	}
	if u.Slug != nil {
		cols["slug"] = *u.Slug
	}
	if u.Content != nil {
		cols["content"] = *u.Content
	}
	if u.Excerpt != nil {
		cols["excerpt"] = *u.Excerpt
	}
	if u.CategoryID.Set {
		cols["category_id"] = u.CategoryID.Ptr()
	}
	if u.Published != nil {
		cols["published"] = *u.Published
	}
	return cols
}

const postDetailColumns = "p.id, p.title, p.slug, p.content, p.excerpt, p.category_id, p.published, p.created_at, p.updated_at, c.name AS category_name"

// PostRepository reads and writes posts.
type PostRepository struct {
	table[models.Post]
}

var _ Repository[models.Post, PostCreate, PostUpdate] = (*PostRepository)(nil)

func NewPostRepository(db *gorm.DB) *PostRepository {
	return &PostRepository{table: newTable[models.Post](db, "post", "created_at DESC, id DESC")}
}

func (r *PostRepository) Create(ctx context.Context, in PostCreate) (uint, error) {
	post := models.Post{
		Title:      in.Title,
		Slug:       in.Slug,
		Content:    in.Content,
		Excerpt:    in.Excerpt,
		CategoryID: in.CategoryID,
		Published:  in.Published,
	}
	if err := r.db.WithContext(ctx).Create(&post).Error; err != nil {
		return 0, fmt.Errorf("create post %q: %w", in.Slug, err)
	}
	return post.ID, nil
}

func (r *PostRepository) Update(ctx context.Context, id uint, in PostUpdate) (bool, error) {
	return r.updateColumns(ctx, id, in.columns())
}

// Delete removes the post together with its comments.
func (r *PostRepository) Delete(ctx context.Context, id uint) (bool, error) {
	var removed bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return fmt.Errorf("delete comments of post %d: %w", id, err)
		}
		var err error
		removed, err = r.deleteWith(tx, id)
		return err
	})
	if err != nil {
		return false, err
	}
	return removed, nil
}

func (r *PostRepository) joined(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("posts AS p").
		Joins("LEFT JOIN categories c ON c.id = p.category_id")
}

// PublishedSummaries lists published posts, newest first, with their category name.
func (r *PostRepository) PublishedSummaries(ctx context.Context) ([]models.PostSummary, error) {
	rows := []models.PostSummary{}
	err := r.joined(ctx).
		Select("p.id, p.title, p.slug, p.excerpt, p.category_id, p.published, p.created_at, c.name AS category_name").
		Where("p.published = ?", true).
		Order("p.created_at DESC, p.id DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list published posts: %w", err)
	}
	return rows, nil
}

// AllDetails lists every post regardless of status, newest first.
func (r *PostRepository) AllDetails(ctx context.Context) ([]models.PostDetail, error) {
	rows := []models.PostDetail{}
	err := r.joined(ctx).
		Select(postDetailColumns).
		Order("p.created_at DESC, p.id DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return rows, nil
}

// DetailByID returns any post by id, or nil.
func (r *PostRepository) DetailByID(ctx context.Context, id uint) (*models.PostDetail, error) {
	return r.detail(ctx, "p.id = ?", id)
}

// PublishedBySlug returns the post only when it is published.
func (r *PostRepository) PublishedBySlug(ctx context.Context, slug string) (*models.PostDetail, error) {
	return r.detail(ctx, "p.slug = ? AND p.published = ?", slug, true)
}

func (r *PostRepository) detail(ctx context.Context, query string, args ...interface{}) (*models.PostDetail, error) {
	var rows []models.PostDetail
	err := r.joined(ctx).
		Select(postDetailColumns).
		Where(query, args...).
		Limit(1).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("find post: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

// SlugExists reports whether another post already uses slug. excludeID 0 checks all posts.
func (r *PostRepository) SlugExists(ctx context.Context, slug string, excludeID uint) (bool, error) {
	return r.exists(ctx, "slug", slug, excludeID)
}

// Counts returns total and published post numbers.
func (r *PostRepository) Counts(ctx context.Context) (models.PostCounts, error) {
	var c models.PostCounts
	var err error
	if c.Total, err = r.count(ctx, nil); err != nil {
		return c, err
	}
	if c.Published, err = r.count(ctx, "published = ?", true); err != nil {
		return c, err
	}
	return c, nil
}
