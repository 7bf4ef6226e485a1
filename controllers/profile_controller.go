package controllers

import (
	"unicode/utf8"

	"github.com/gin-gonic/gin"

	"github.com/cppla/aiblog/auth"
	"github.com/cppla/aiblog/repositories"
	"github.com/cppla/aiblog/utils"
)

// ProfileController lets a signed-in user read and edit their own account.
type ProfileController struct {
	profiles *repositories.ProfileRepository
	authn    *auth.Authenticator
}

// NewProfileController creates a new ProfileController instance.
func NewProfileController(profiles *repositories.ProfileRepository, authn *auth.Authenticator) *ProfileController {
	return &ProfileController{profiles: profiles, authn: authn}
}

type updateProfileRequest struct {
	Name            *string `json:"name" binding:"omitempty,notblank,max=100"`
	Bio             *string `json:"bio" binding:"omitempty,max=2000"`
	Avatar          *string `json:"avatar" binding:"omitempty,max=512"`
	CurrentPassword string  `json:"currentPassword"`
	NewPassword     string  `json:"newPassword"`
}

// GetProfile returns the session owner's profile.
func (p *ProfileController) GetProfile(ctx *gin.Context) error {
	claims, err := requireSession(ctx)
	if err != nil {
		return err
	}
	profile, err := p.profiles.Profile(ctx.Request.Context(), claims.UserID)
	if err != nil {
		return err
	}
	if profile == nil {
		return utils.NotFound("user not found")
	}
	utils.Success(ctx, profile, "")
	return nil
}

// UpdateProfile changes the password first, when asked, then name, bio and avatar.
func (p *ProfileController) UpdateProfile(ctx *gin.Context) error {
	claims, err := requireSession(ctx)
	if err != nil {
		return err
	}
	var req updateProfileRequest
	if err := utils.BindJSON(ctx, &req); err != nil {
		return err
	}
	name, err := optionalText("name", req.Name)
	if err != nil {
		return err
	}
	c := ctx.Request.Context()

	profile, err := p.profiles.Profile(c, claims.UserID)
	if err != nil {
		return err
	}
	if profile == nil {
		return utils.NotFound("user not found")
	}

	if req.NewPassword != "" {
		if req.CurrentPassword == "" {
			return utils.Validation("", map[string]string{"currentPassword": "current password is required"})
		}
		if utf8.RuneCountInString(req.NewPassword) < utils.MinPasswordLength {
			return utils.Validation("", map[string]string{"newPassword": "new password must be at least 6 characters"})
		}
		hash, found, err := p.profiles.PasswordHash(c, claims.UserID)
		if err != nil {
			return err
		}
		if !found {
			return utils.NotFound("user not found")
		}
		if !p.authn.VerifyPassword(hash, req.CurrentPassword) {
			return utils.Validation("", map[string]string{"currentPassword": "current password is incorrect"})
		}
		newHash, err := utils.HashPassword(req.NewPassword)
		if err != nil {
			return err
		}
		if _, err := p.profiles.UpdatePassword(c, claims.UserID, newHash); err != nil {
			return err
		}
	}

	if _, err := p.profiles.UpdateProfile(c, claims.UserID, repositories.ProfileUpdate{
		Name:   name,
		Bio:    trimmed(req.Bio),
		Avatar: trimmed(req.Avatar),
	}); err != nil {
		return err
	}

	p.authn.Forget(c, profile.Email)
	utils.Updated(ctx, "profile updated")
	return nil
}
