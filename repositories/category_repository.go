package repositories

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/cppla/aiblog/models"
)

// CategoryCreate is the input for a new category.
type CategoryCreate struct {
	Name string
}

// CategoryUpdate renames a category.
type CategoryUpdate struct {
	Name *string
}

// CategoryRepository reads and writes categories. Lists are ordered by name.
type CategoryRepository struct {
	table[models.Category]
}

var _ Repository[models.Category, CategoryCreate, CategoryUpdate] = (*CategoryRepository)(nil)

func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{table: newTable[models.Category](db, "category", "name ASC")}
}

func (r *CategoryRepository) Create(ctx context.Context, in CategoryCreate) (uint, error) {
	c := models.Category{Name: in.Name}
	if err := r.db.WithContext(ctx).Create(&c).Error; err != nil {
		return 0, fmt.Errorf("create category %q: %w", in.Name, err)
	}
	return c.ID, nil
}

func (r *CategoryRepository) Update(ctx context.Context, id uint, in CategoryUpdate) (bool, error) {
	cols := map[string]interface{}{}
	if in.Name != nil {
		cols["name"] = *in.Name
	}
	return r.updateColumns(ctx, id, cols)
}

// Delete detaches the category from its posts, then removes it.
func (r *CategoryRepository) Delete(ctx context.Context, id uint) (bool, error) {
	var removed bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&models.Post{}).
			Where("category_id = ?", id).
			Update("category_id", nil).Error
		if err != nil {
			return fmt.Errorf("detach posts from category %d: %w", id, err)
		}
		removed, err = r.deleteWith(tx, id)
		return err
	})
	if err != nil {
		return false, err
	}
	return removed, nil
}

// NameExists reports whether another category already uses name.
func (r *CategoryRepository) NameExists(ctx context.Context, name string, excludeID uint) (bool, error) {
	return r.exists(ctx, "name", name, excludeID)
}

// Count counts all categories.
func (r *CategoryRepository) Count(ctx context.Context) (int64, error) {
	return r.count(ctx, nil)
}
