package models

import "time"

// Post is a blog article. Content holds sanitized HTML.
type Post struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Title      string    `gorm:"size:255;not null" json:"title"`
	Slug       string    `gorm:"size:255;not null;uniqueIndex" json:"slug"`
	Content    string    `gorm:"type:text;not null" json:"content"`
	Excerpt    string    `gorm:"type:text;not null" json:"excerpt"`
	CategoryID *uint     `gorm:"index" json:"category_id"`
	Published  bool      `gorm:"not null;default:false;index" json:"published"`
	CreatedAt  time.Time `gorm:"index" json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// PostSummary is the list row shown on index pages.
type PostSummary struct {
	ID           uint      `json:"id"`
	Title        string    `json:"title"`
	Slug         string    `json:"slug"`
	Excerpt      string    `json:"excerpt"`
	CategoryID   *uint     `json:"category_id"`
	Published    bool      `json:"published"`
	CreatedAt    time.Time `json:"created_at"`
	CategoryName *string   `json:"category_name"`
}

// PostDetail is a full post joined with its category name.
type PostDetail struct {
	Post
	CategoryName *string `json:"category_name"`
}

// PostCounts aggregates numbers for the admin dashboard.
type PostCounts struct {
	Total     int64 `json:"total"`
	Published int64 `json:"published"`
}
