package models

import (
	"time"

	"gorm.io/gorm"
)

// Role values stored in users.role.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Status values stored in users.status.
const (
	StatusActive = "active"
	StatusBanned = "banned"
)

// User represents a blog account. Passwords are stored as bcrypt hashes only.
// Accounts are provisioned out of band; the API never creates users.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Email     string    `gorm:"size:255;not null;uniqueIndex" json:"email"`
	Password  string    `gorm:"size:255;not null" json:"-"`
	Name      string    `gorm:"size:100;not null" json:"name"`
	Avatar    *string   `gorm:"size:512" json:"avatar"`
	Bio       *string   `gorm:"type:text" json:"bio"`
	Role      string    `gorm:"size:16;not null;default:user" json:"role"`
	Status    string    `gorm:"size:16;not null;default:active" json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate fills role and status when the caller left them empty.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.Role == "" {
		u.Role = RoleUser
	}
	if u.Status == "" {
		u.Status = StatusActive
	}
	return nil
}

// IsAdmin reports whether the account carries the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Profile is the public view of a user, without the password hash.
type Profile struct {
	ID        uint      `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Avatar    *string   `json:"avatar"`
	Bio       *string   `json:"bio"`
	Role      string    `json:"role"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AuthRecord carries what the login check needs, including the password hash.
type AuthRecord struct {
	ID       uint
	Email    string
	Name     string
	Avatar   *string
	Role     string
	Status   string
	Password string
}
