package repositories

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/cppla/aiblog/models"
)

// UserCreate provisions an account. Password must already be hashed.
type UserCreate struct {
	Email        string
	PasswordHash string
	Name         string
	Role         string
	Status       string
}

// ProfileUpdate carries the self-editable profile fields.
type ProfileUpdate struct {
	Name   *string
	Bio    *string
	Avatar *string
}

// ProfileRepository serves account data. It never deletes users and never
// returns the password hash outside AuthRecord and PasswordHash.
type ProfileRepository struct {
	users table[models.User]
}

func NewProfileRepository(db *gorm.DB) *ProfileRepository {
	return &ProfileRepository{users: newTable[models.User](db, "user", "created_at DESC, id DESC")}
}

// Create inserts a user; a taken email surfaces as a duplicate key error.
func (r *ProfileRepository) Create(ctx context.Context, in UserCreate) (uint, error) {
	u := models.User{
		Email:    normalizeEmail(in.Email),
		Password: in.PasswordHash,
		Name:     in.Name,
		Role:     in.Role,
		Status:   in.Status,
	}
	if err := r.users.db.WithContext(ctx).Create(&u).Error; err != nil {
		return 0, fmt.Errorf("create user %q: %w", in.Email, err)
	}
	return u.ID, nil
}

// Profile returns the public view of a user, or nil.
func (r *ProfileRepository) Profile(ctx context.Context, id uint) (*models.Profile, error) {
	var rows []models.Profile
	err := r.users.db.WithContext(ctx).
		Model(&models.User{}).
		Select("id, email, name, avatar, bio, role, status, created_at, updated_at").
		Where("id = ?", id).
		Limit(1).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("find profile %d: %w", id, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

// AuthByEmail loads what a login check needs, or nil for unknown emails.
func (r *ProfileRepository) AuthByEmail(ctx context.Context, email string) (*models.AuthRecord, error) {
	var rows []models.AuthRecord
	err := r.users.db.WithContext(ctx).
		Model(&models.User{}).
		Select("id, email, name, avatar, role, status, password").
		Where("email = ?", normalizeEmail(email)).
		Limit(1).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

// PasswordHash returns the stored hash; found is false for unknown ids.
func (r *ProfileRepository) PasswordHash(ctx context.Context, id uint) (hash string, found bool, err error) {
	var hashes []string
	err = r.users.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		Limit(1).
		Pluck("password", &hashes).Error
	if err != nil {
		return "", false, fmt.Errorf("find password of user %d: %w", id, err)
	}
	if len(hashes) == 0 {
		return "", false, nil
	}
	return hashes[0], true, nil
}

// UpdateProfile changes name, bio and avatar. Nothing set means no query and false.
func (r *ProfileRepository) UpdateProfile(ctx context.Context, id uint, in ProfileUpdate) (bool, error) {
	cols := map[string]interface{}{}
	if in.Name != nil {
		cols["name"] = *in.Name
	}
	if in.Bio != nil {
		cols["bio"] = *in.Bio
	}
	if in.Avatar != nil {
		cols["avatar"] = *in.Avatar
	}
	return r.users.updateColumns(ctx, id, cols)
}

// UpdatePassword stores a new hash.
func (r *ProfileRepository) UpdatePassword(ctx context.Context, id uint, hash string) (bool, error) {
	return r.users.updateColumns(ctx, id, map[string]interface{}{"password": hash})
}

// Count counts all users.
func (r *ProfileRepository) Count(ctx context.Context) (int64, error) {
	return r.users.count(ctx, nil)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
