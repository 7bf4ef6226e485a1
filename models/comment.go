package models

import "time"

// Comment is a reader reply on a post. Guest comments have no UserID.
type Comment struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	PostID       uint      `gorm:"index;not null" json:"post_id"`
	UserID       *uint     `gorm:"index" json:"user_id"`
	AuthorName   string    `gorm:"size:100;not null" json:"author_name"`
	AuthorEmail  string    `gorm:"size:255;not null" json:"author_email"`
	AuthorAvatar *string   `gorm:"size:512" json:"author_avatar"`
	Content      string    `gorm:"type:text;not null" json:"content"`
	Approved     bool      `gorm:"not null;default:false;index" json:"approved"`
	CreatedAt    time.Time `gorm:"index" json:"created_at"`
}

// CommentWithPost is a moderation row carrying the parent post title.
type CommentWithPost struct {
	Comment
	PostTitle *string `json:"post_title"`
}
