package controllers

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/cppla/aiblog/middleware"
	"github.com/cppla/aiblog/models"
	"github.com/cppla/aiblog/repositories"
	"github.com/cppla/aiblog/utils"
)

// CommentController serves reader comments and their moderation.
type CommentController struct {
	comments *repositories.CommentRepository
	posts    *repositories.PostRepository
	profiles *repositories.ProfileRepository
}

// NewCommentController creates a new CommentController instance.
func NewCommentController(comments *repositories.CommentRepository, posts *repositories.PostRepository, profiles *repositories.ProfileRepository) *CommentController {
	return &CommentController{comments: comments, posts: posts, profiles: profiles}
}

type createCommentRequest struct {
	PostID      uint   `json:"post_id" binding:"required,gt=0"`
	Content     string `json:"content" binding:"required,notblank,max=5000"`
	AuthorName  string `json:"author_name" binding:"max=100"`
	AuthorEmail string `json:"author_email" binding:"max=255"`
}

type moderateCommentRequest struct {
	Approved *bool `json:"approved" binding:"required"`
}

// ListComments returns the approved comments of ?postId, or every comment
// with its post title for administrators when no post is given.
func (cc *CommentController) ListComments(ctx *gin.Context) error {
	c := ctx.Request.Context()

	if raw := ctx.Query("postId"); raw != "" {
		postID, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || postID == 0 {
			return utils.Validation("", map[string]string{"postId": "must be a positive integer"})
		}
		rows, err := cc.comments.ApprovedByPost(c, uint(postID))
		if err != nil {
			return err
		}
		utils.Success(ctx, rows, "")
		return nil
	}

	claims, err := requireSession(ctx)
	if err != nil {
		return err
	}
	if claims.Role != models.RoleAdmin {
		return utils.Forbidden("admin permission required")
	}
	rows, err := cc.comments.AllWithPostTitle(c)
	if err != nil {
		return err
	}
	utils.Success(ctx, rows, "")
	return nil
}

// CreateComment accepts comments from signed-in users and guests. Comments
// from an admin session are approved immediately; everything else waits for
// moderation.
func (cc *CommentController) CreateComment(ctx *gin.Context) error {
	var req createCommentRequest
	if err := utils.BindJSON(ctx, &req); err != nil {
		return err
	}
	content, err := requiredText("content", req.Content)
	if err != nil {
		return err
	}
	c := ctx.Request.Context()

	in := repositories.CommentCreate{
		PostID:  req.PostID,
		Content: content,
	}

	claims := middleware.CurrentClaims(ctx)
	if claims != nil {
		profile, err := cc.profiles.Profile(c, claims.UserID)
		if err != nil {
			return err
		}
		if profile == nil {
			return utils.Unauthorized("account no longer exists")
		}
		uid := profile.ID
		in.UserID = &uid
		in.AuthorName = profile.Name
		in.AuthorEmail = profile.Email
		in.AuthorAvatar = profile.Avatar
		in.Approved = claims.Role == models.RoleAdmin
	} else {
		name := utils.SanitizeText(req.AuthorName)
		email := strings.TrimSpace(req.AuthorEmail)
		fields := map[string]string{}
		if name == "" {
			fields["author_name"] = "this field is required"
		}
		switch {
		case email == "":
			fields["author_email"] = "this field is required"
		case !utils.IsEmail(email):
			fields["author_email"] = "invalid email format"
		}
		if len(fields) > 0 {
			return utils.Validation("", fields)
		}
		in.AuthorName = name
		in.AuthorEmail = email
	}

	post, err := cc.posts.FindByID(c, req.PostID)
	if err != nil {
		return err
	}
	// drafts take comments from administrators only
	if post == nil || (!post.Published && !in.Approved) {
		return utils.Validation("", map[string]string{"post_id": "post does not exist"})
	}

	id, err := cc.comments.Create(c, in)
	if err != nil {
		return err
	}

	msg := "comment submitted and awaiting moderation"
	if in.Approved {
		msg = "comment published"
	}
	utils.Created(ctx, gin.H{"id": id, "approved": in.Approved}, msg)
	return nil
}

// ModerateComment sets the approval flag. Repeating the same value succeeds.
func (cc *CommentController) ModerateComment(ctx *gin.Context) error {
	if _, err := requireSession(ctx); err != nil {
		return err
	}
	id, err := parseID(ctx, "id")
	if err != nil {
		return err
	}
	var req moderateCommentRequest
	if err := utils.BindJSON(ctx, &req); err != nil {
		return err
	}

	changed, err := cc.comments.Update(ctx.Request.Context(), id, repositories.CommentUpdate{Approved: req.Approved})
	if err != nil {
		return err
	}
	if !changed {
		return utils.NotFound("comment not found")
	}
	utils.Updated(ctx, "comment updated")
	return nil
}

// DeleteComment removes a comment.
func (cc *CommentController) DeleteComment(ctx *gin.Context) error {
	if _, err := requireSession(ctx); err != nil {
		return err
	}
	id, err := parseID(ctx, "id")
	if err != nil {
		return err
	}
	removed, err := cc.comments.Delete(ctx.Request.Context(), id)
	if err != nil {
		return err
	}
	if !removed {
		return utils.NotFound("comment not found")
	}
	utils.Deleted(ctx, "comment deleted")
	return nil
}

// PendingCount returns how many comments await approval.
func (cc *CommentController) PendingCount(ctx *gin.Context) error {
	n, err := cc.comments.PendingCount(ctx.Request.Context())
	if err != nil {
		return err
	}
	utils.Success(ctx, gin.H{"count": n}, "")
	return nil
}
