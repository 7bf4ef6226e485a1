package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cppla/aiblog/auth"
	"github.com/cppla/aiblog/repositories"
	"github.com/cppla/aiblog/utils"
)

// CookieOptions controls the session cookie.
type CookieOptions struct {
	Name   string
	Secure bool
}

// AuthController handles login, logout and session introspection.
type AuthController struct {
	authn    *auth.Authenticator
	sessions *auth.Sessions
	profiles *repositories.ProfileRepository
	cookie   CookieOptions
}

// NewAuthController creates a new AuthController instance.
func NewAuthController(authn *auth.Authenticator, sessions *auth.Sessions, profiles *repositories.ProfileRepository, cookie CookieOptions) *AuthController {
	return &AuthController{authn: authn, sessions: sessions, profiles: profiles, cookie: cookie}
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,max=255"`
	Password string `json:"password" binding:"required,max=128"`
}

// Login verifies credentials and sets the HTTP-only session cookie.
func (a *AuthController) Login(ctx *gin.Context) error {
	var req loginRequest
	if err := utils.BindJSON(ctx, &req); err != nil {
		return err
	}

	res := a.authn.Authorize(ctx.Request.Context(), req.Email, req.Password)
	switch res.Outcome {
	case auth.OutcomeOK:
	case auth.OutcomeBanned:
		return utils.Forbidden("account is banned")
	case auth.OutcomeUnavailable:
		return utils.Unavailable("authentication temporarily unavailable", res.Err)
	default:
		return utils.ErrInvalidCredentials
	}

	token, claims, err := a.sessions.Issue(res.Identity)
	if err != nil {
		return err
	}
	a.setCookie(ctx, token, int(a.sessions.TTL().Seconds()))

	utils.Success(ctx, gin.H{
		"user":       res.Identity,
		"token":      token,
		"expires_at": claims.ExpiresAt.Time,
	}, "login successful")
	return nil
}

// Logout revokes the current token and clears the cookie.
func (a *AuthController) Logout(ctx *gin.Context) error {
	claims, err := requireSession(ctx)
	if err != nil {
		return err
	}
	if err := a.sessions.Revoke(ctx.Request.Context(), claims); err != nil {
		return err
	}
	a.setCookie(ctx, "", -1)
	utils.Success(ctx, nil, "logged out")
	return nil
}

// Session describes the current session and its owner.
func (a *AuthController) Session(ctx *gin.Context) error {
	claims, err := requireSession(ctx)
	if err != nil {
		return err
	}
	profile, err := a.profiles.Profile(ctx.Request.Context(), claims.UserID)
	if err != nil {
		return err
	}
	if profile == nil {
		return utils.Unauthorized("unauthorized")
	}
	utils.Success(ctx, gin.H{
		"user": auth.Identity{
			ID:     profile.ID,
			Email:  profile.Email,
			Name:   profile.Name,
			Avatar: profile.Avatar,
			Role:   profile.Role,
		},
		"issued_at":  claims.IssuedAt.Time,
		"expires_at": claims.ExpiresAt.Time,
	}, "")
	return nil
}

func (a *AuthController) setCookie(ctx *gin.Context, value string, maxAge int) {
	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie(a.cookie.Name, value, maxAge, "/", "", a.cookie.Secure, true)
}
