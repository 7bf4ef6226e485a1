// Package repositories holds the data access layer. Each entity repository
// composes the generic table core and adds its own typed create/update inputs.
package repositories

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// Repository is the contract every entity repository satisfies.
// C is the create input, U the partial update input.
type Repository[T any, C any, U any] interface {
	FindAll(ctx context.Context) ([]T, error)
	// FindByID returns nil, nil when no row has the id.
	FindByID(ctx context.Context, id uint) (*T, error)
	Create(ctx context.Context, in C) (uint, error)
	// Update reports false without touching the store when in carries no fields.
	Update(ctx context.Context, id uint, in U) (bool, error)
	// Delete reports whether a row was removed.
	Delete(ctx context.Context, id uint) (bool, error)
}

// table implements the entity independent part of Repository.
type table[T any] struct {
	db    *gorm.DB
	name  string
	order string
}

func newTable[T any](db *gorm.DB, name, order string) table[T] {
	return table[T]{db: db, name: name, order: order}
}

func (t table[T]) FindAll(ctx context.Context) ([]T, error) {
	rows := []T{}
	if err := t.db.WithContext(ctx).Order(t.order).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list %s: %w", t.name, err)
	}
	return rows, nil
}

func (t table[T]) FindByID(ctx context.Context, id uint) (*T, error) {
	var row T
	err := t.db.WithContext(ctx).First(&row, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find %s %d: %w", t.name, id, err)
	}
	return &row, nil
}

func (t table[T]) Delete(ctx context.Context, id uint) (bool, error) {
	return t.deleteWith(t.db.WithContext(ctx), id)
}

func (t table[T]) deleteWith(tx *gorm.DB, id uint) (bool, error) {
	res := tx.Delete(new(T), id)
	if res.Error != nil {
		return false, fmt.Errorf("delete %s %d: %w", t.name, id, res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (t table[T]) updateColumns(ctx context.Context, id uint, cols map[string]interface{}) (bool, error) {
	if len(cols) == 0 {
		return false, nil
	}
	res := t.db.WithContext(ctx).Model(new(T)).Where("id = ?", id).Updates(cols)
	if res.Error != nil {
		return false, fmt.Errorf("update %s %d: %w", t.name, id, res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (t table[T]) exists(ctx context.Context, column, value string, excludeID uint) (bool, error) {
	q := t.db.WithContext(ctx).Model(new(T)).Where(column+" = ?", value)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return false, fmt.Errorf("check %s %s: %w", t.name, column, err)
	}
	return n > 0, nil
}

func (t table[T]) count(ctx context.Context, query interface{}, args ...interface{}) (int64, error) {
	q := t.db.WithContext(ctx).Model(new(T))
	if query != nil {
		q = q.Where(query, args...)
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count %s: %w", t.name, err)
	}
	return n, nil
}
