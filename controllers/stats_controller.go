package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/cppla/aiblog/repositories"
	"github.com/cppla/aiblog/utils"
)

// StatsController provides dashboard counts for administrators.
type StatsController struct {
	posts      *repositories.PostRepository
	comments   *repositories.CommentRepository
	categories *repositories.CategoryRepository
	profiles   *repositories.ProfileRepository
}

// NewStatsController creates a new StatsController instance.
func NewStatsController(posts *repositories.PostRepository, comments *repositories.CommentRepository, categories *repositories.CategoryRepository, profiles *repositories.ProfileRepository) *StatsController {
	return &StatsController{posts: posts, comments: comments, categories: categories, profiles: profiles}
}

// GetStats returns post, comment, category and user counts.
func (s *StatsController) GetStats(ctx *gin.Context) error {
	c := ctx.Request.Context()

	posts, err := s.posts.Counts(c)
	if err != nil {
		return err
	}
	comments, err := s.comments.Count(c)
	if err != nil {
		return err
	}
	pending, err := s.comments.PendingCount(c)
	if err != nil {
		return err
	}
	categories, err := s.categories.Count(c)
	if err != nil {
		return err
	}
	users, err := s.profiles.Count(c)
	if err != nil {
		return err
	}

	utils.Success(ctx, gin.H{
		"posts":            posts.Total,
		"published_posts":  posts.Published,
		"comments":         comments,
		"pending_comments": pending,
		"categories":       categories,
		"users":            users,
	}, "")
	return nil
}
