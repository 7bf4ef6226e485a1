package repositories

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/cppla/aiblog/models"
)

// CommentCreate is the input for a new comment. UserID is nil for guests.
type CommentCreate struct {
	PostID       uint
	UserID       *uint
	AuthorName   string
	AuthorEmail  string
	AuthorAvatar *string
	Content      string
	Approved     bool
}

// CommentUpdate only moderates: approval is the sole mutable field.
type CommentUpdate struct {
	Approved *bool
}

// CommentRepository reads and writes comments.
type CommentRepository struct {
	table[models.Comment]
}

var _ Repository[models.Comment, CommentCreate, CommentUpdate] = (*CommentRepository)(nil)

func NewCommentRepository(db *gorm.DB) *CommentRepository {
	return &CommentRepository{table: newTable[models.Comment](db, "comment", "created_at DESC, id DESC")}
}

func (r *CommentRepository) Create(ctx context.Context, in CommentCreate) (uint, error) {
	c := models.Comment{
		PostID:       in.PostID,
		UserID:       in.UserID,
		AuthorName:   in.AuthorName,
		AuthorEmail:  in.AuthorEmail,
		AuthorAvatar: in.AuthorAvatar,
		Content:      in.Content,
		Approved:     in.Approved,
	}
	if err := r.db.WithContext(ctx).Create(&c).Error; err != nil {
		return 0, fmt.Errorf("create comment on post %d: %w", in.PostID, err)
	}
	return c.ID, nil
}

func (r *CommentRepository) Update(ctx context.Context, id uint, in CommentUpdate) (bool, error) {
	cols := map[string]interface{}{}
	if in.Approved != nil {
		cols["approved"] = *in.Approved
	}
	return r.updateColumns(ctx, id, cols)
}

// ApprovedByPost lists the approved comments of a post, newest first.
func (r *CommentRepository) ApprovedByPost(ctx context.Context, postID uint) ([]models.Comment, error) {
	rows := []models.Comment{}
	err := r.db.WithContext(ctx).
		Where("post_id = ? AND approved = ?", postID, true).
		Order("created_at DESC, id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list comments of post %d: %w", postID, err)
	}
	return rows, nil
}

// AllWithPostTitle lists every comment with its post title, for moderation.
func (r *CommentRepository) AllWithPostTitle(ctx context.Context) ([]models.CommentWithPost, error) {
	rows := []models.CommentWithPost{}
	err := r.db.WithContext(ctx).
		Table("comments AS c").
		Select("c.id, c.post_id, c.user_id, c.author_name, c.author_email, c.author_avatar, c.content, c.approved, c.created_at, p.title AS post_title").
		Joins("LEFT JOIN posts p ON p.id = c.post_id").
		Order("c.created_at DESC, c.id DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	return rows, nil
}

// PendingCount counts comments awaiting approval.
func (r *CommentRepository) PendingCount(ctx context.Context) (int64, error) {
	return r.count(ctx, "approved = ?", false)
}

// Count counts all comments.
func (r *CommentRepository) Count(ctx context.Context) (int64, error) {
	return r.count(ctx, nil)
}
