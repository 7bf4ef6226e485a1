package controllers

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/cppla/aiblog/models"
	"github.com/cppla/aiblog/repositories"
	"github.com/cppla/aiblog/utils"
)

// PostController serves post listing, reading and admin management.
type PostController struct {
	posts      *repositories.PostRepository
	comments   *repositories.CommentRepository
	categories *repositories.CategoryRepository
	listCache  utils.Cache
}

// NewPostController creates a new PostController instance.
func NewPostController(posts *repositories.PostRepository, comments *repositories.CommentRepository, categories *repositories.CategoryRepository, listCache utils.Cache) *PostController {
	return &PostController{posts: posts, comments: comments, categories: categories, listCache: listCache}
}

type createPostRequest struct {
	Title      string `json:"title" binding:"required,notblank,max=255"`
	Slug       string `json:"slug" binding:"required,slug,max=255"`
	Content    string `json:"content" binding:"required,notblank"`
	Excerpt    string `json:"excerpt"`
	CategoryID *uint  `json:"category_id" binding:"omitempty,gt=0"`
	Published  bool   `json:"published"`
}

type updatePostRequest struct {
	Title      *string               `json:"title" binding:"omitempty,notblank,max=255"`
	Slug       *string               `json:"slug" binding:"omitempty,slug,max=255"`
	Content    *string               `json:"content" binding:"omitempty,notblank"`
	Excerpt    *string               `json:"excerpt"`
	CategoryID models.Optional[uint] `json:"category_id"`
	Published  *bool                 `json:"published"`
}

// ListPosts returns published summaries for published=true, otherwise every post.
// Each filter value is cached separately.
func (p *PostController) ListPosts(ctx *gin.Context) error {
	filter := ctx.Query("published")
	key := "posts_" + filter
	c := ctx.Request.Context()

	if filter == "true" {
		rows, err := cached(c, p.listCache, key, p.posts.PublishedSummaries)
		if err != nil {
			return err
		}
		utils.Success(ctx, rows, "")
		return nil
	}

	rows, err := cached(c, p.listCache, key, p.posts.AllDetails)
	if err != nil {
		return err
	}
	utils.Success(ctx, rows, "")
	return nil
}

// GetPost returns any post by id, drafts included.
func (p *PostController) GetPost(ctx *gin.Context) error {
	id, err := parseID(ctx, "id")
	if err != nil {
		return err
	}
	post, err := p.posts.DetailByID(ctx.Request.Context(), id)
	if err != nil {
		return err
	}
	if post == nil {
		return utils.NotFound("post not found")
	}
	utils.Success(ctx, post, "")
	return nil
}

// GetPostBySlug returns a published post with its approved comments.
func (p *PostController) GetPostBySlug(ctx *gin.Context) error {
	c := ctx.Request.Context()
	post, err := p.posts.PublishedBySlug(c, ctx.Param("slug"))
	if err != nil {
		return err
	}
	if post == nil {
		return utils.NotFound("post not found")
	}
	comments, err := p.comments.ApprovedByPost(c, post.ID)
	if err != nil {
		return err
	}
	utils.Success(ctx, gin.H{"post": post, "comments": comments}, "")
	return nil
}

// CreatePost stores a new post. Slug conflicts are reported before the insert.
func (p *PostController) CreatePost(ctx *gin.Context) error {
	var req createPostRequest
	if err := utils.BindJSON(ctx, &req); err != nil {
		return err
	}
	title, err := requiredText("title", req.Title)
	if err != nil {
		return err
	}
	content, err := requiredHTML("content", req.Content)
	if err != nil {
		return err
	}
	c := ctx.Request.Context()

	taken, err := p.posts.SlugExists(c, req.Slug, 0)
	if err != nil {
		return err
	}
	if taken {
		return utils.Conflict("slug already exists")
	}
	if err := p.checkCategory(c, req.CategoryID); err != nil {
		return err
	}

	id, err := p.posts.Create(c, repositories.PostCreate{
		Title:      title,
		Slug:       req.Slug,
		Content:    content,
		Excerpt:    utils.SanitizeText(req.Excerpt),
		CategoryID: req.CategoryID,
		Published:  req.Published,
	})
	if err != nil {
		return err
	}

	invalidate(c, p.listCache)
	utils.Created(ctx, gin.H{"id": id, "slug": req.Slug}, "post created")
	return nil
}

// UpdatePost applies a partial update.
func (p *PostController) UpdatePost(ctx *gin.Context) error {
	id, err := parseID(ctx, "id")
	if err != nil {
		return err
	}
	var req updatePostRequest
	if err := utils.BindJSON(ctx, &req); err != nil {
		return err
	}
	title, err := optionalText("title", req.Title)
	if err != nil {
		return err
	}
	update := repositories.PostUpdate{
		Title:      title,
		Slug:       req.Slug,
		Excerpt:    trimmed(req.Excerpt),
		CategoryID: req.CategoryID,
		Published:  req.Published,
	}
	if req.Content != nil {
		content, err := requiredHTML("content", *req.Content)
		if err != nil {
			return err
		}
		update.Content = &content
	}
	c := ctx.Request.Context()

	existing, err := p.posts.FindByID(c, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return utils.NotFound("post not found")
	}

	if req.Slug != nil && *req.Slug != existing.Slug {
		taken, err := p.posts.SlugExists(c, *req.Slug, id)
		if err != nil {
			return err
		}
		if taken {
			return utils.Conflict("slug already exists")
		}
	}
	if req.CategoryID.Set && !req.CategoryID.Null {
		if err := p.checkCategory(c, &req.CategoryID.Value); err != nil {
			return err
		}
	}

	changed, err := p.posts.Update(c, id, update)
	if err != nil {
		return err
	}
	if !changed {
		utils.Updated(ctx, "nothing to update")
		return nil
	}

	invalidate(c, p.listCache)
	utils.Updated(ctx, "post updated")
	return nil
}

// DeletePost removes a post and its comments.
func (p *PostController) DeletePost(ctx *gin.Context) error {
	id, err := parseID(ctx, "id")
	if err != nil {
		return err
	}
	c := ctx.Request.Context()
	removed, err := p.posts.Delete(c, id)
	if err != nil {
		return err
	}
	if !removed {
		return utils.NotFound("post not found")
	}

	invalidate(c, p.listCache)
	utils.Deleted(ctx, "post deleted")
	return nil
}

func (p *PostController) checkCategory(c context.Context, id *uint) error {
	if id == nil {
		return nil
	}
	cat, err := p.categories.FindByID(c, *id)
	if err != nil {
		return err
	}
	if cat == nil {
		return utils.Validation("", map[string]string{"category_id": "category does not exist"})
	}
	return nil
}
