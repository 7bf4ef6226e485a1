package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/cppla/aiblog/repositories"
	"github.com/cppla/aiblog/utils"
)

// CategoryController manages post categories.
type CategoryController struct {
	categories *repositories.CategoryRepository
	// post lists embed category names, so category writes clear them too
	postCache utils.Cache
}

// NewCategoryController creates a new CategoryController instance.
func NewCategoryController(categories *repositories.CategoryRepository, postCache utils.Cache) *CategoryController {
	return &CategoryController{categories: categories, postCache: postCache}
}

type categoryRequest struct {
	Name string `json:"name" binding:"required,notblank,max=100"`
}

// ListCategories returns every category ordered by name.
func (cc *CategoryController) ListCategories(ctx *gin.Context) error {
	rows, err := cc.categories.FindAll(ctx.Request.Context())
	if err != nil {
		return err
	}
	utils.Success(ctx, rows, "")
	return nil
}

// CreateCategory adds a category with a unique name.
func (cc *CategoryController) CreateCategory(ctx *gin.Context) error {
	var req categoryRequest
	if err := utils.BindJSON(ctx, &req); err != nil {
		return err
	}
	name, err := requiredText("name", req.Name)
	if err != nil {
		return err
	}
	c := ctx.Request.Context()

	taken, err := cc.categories.NameExists(c, name, 0)
	if err != nil {
		return err
	}
	if taken {
		return utils.Conflict("category already exists")
	}
	id, err := cc.categories.Create(c, repositories.CategoryCreate{Name: name})
	if err != nil {
		return err
	}
	utils.Created(ctx, gin.H{"id": id, "name": name}, "category created")
	return nil
}

// UpdateCategory renames a category.
func (cc *CategoryController) UpdateCategory(ctx *gin.Context) error {
	id, err := parseID(ctx, "id")
	if err != nil {
		return err
	}
	var req categoryRequest
	if err := utils.BindJSON(ctx, &req); err != nil {
		return err
	}
	name, err := requiredText("name", req.Name)
	if err != nil {
		return err
	}
	c := ctx.Request.Context()

	taken, err := cc.categories.NameExists(c, name, id)
	if err != nil {
		return err
	}
	if taken {
		return utils.Conflict("category already exists")
	}
	changed, err := cc.categories.Update(c, id, repositories.CategoryUpdate{Name: &name})
	if err != nil {
		return err
	}
	if !changed {
		return utils.NotFound("category not found")
	}

	invalidate(c, cc.postCache)
	utils.Updated(ctx, "category updated")
	return nil
}

// DeleteCategory removes a category; its posts become uncategorized.
func (cc *CategoryController) DeleteCategory(ctx *gin.Context) error {
	id, err := parseID(ctx, "id")
	if err != nil {
		return err
	}
	c := ctx.Request.Context()
	removed, err := cc.categories.Delete(c, id)
	if err != nil {
		return err
	}
	if !removed {
		return utils.NotFound("category not found")
	}

	invalidate(c, cc.postCache)
	utils.Deleted(ctx, "category deleted")
	return nil
}
