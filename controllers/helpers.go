package controllers

import (
	"context"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/cppla/aiblog/middleware"
	"github.com/cppla/aiblog/utils"
)

// parseID reads a positive numeric path parameter.
func parseID(ctx *gin.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(ctx.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, utils.Validation("", map[string]string{name: "must be a positive integer"})
	}
	return uint(id), nil
}

// requireSession returns the request's claims or an unauthorized error.
func requireSession(ctx *gin.Context) (*utils.Claims, error) {
	claims := middleware.CurrentClaims(ctx)
	if claims == nil {
		return nil, utils.Unauthorized("unauthorized")
	}
	return claims, nil
}

// cached serves key from cache, or loads and stores it. Cache failures only cost a reload.
func cached[T any](ctx context.Context, cache utils.Cache, key string, load func(context.Context) (T, error)) (T, error) {
	var out T
	hit, err := cache.Get(ctx, key, &out)
	if err != nil {
		utils.L().Warn("cache read failed", zap.String("key", key), zap.Error(err))
	}
	if hit {
		return out, nil
	}

	out, err = load(ctx)
	if err != nil {
		return out, err
	}
	if err := cache.Set(ctx, key, out, 0); err != nil {
		utils.L().Warn("cache write failed", zap.String("key", key), zap.Error(err))
	}
	return out, nil
}

// invalidate clears a whole cache after a write to the collection it mirrors.
func invalidate(ctx context.Context, cache utils.Cache) {
	if err := cache.Clear(ctx); err != nil {
		utils.L().Warn("cache clear failed", zap.Error(err))
	}
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := utils.SanitizeText(*s)
	return &v
}

// requiredText sanitizes a mandatory plain-text field. Input that was only
// markup ends up empty and is rejected under the field's name.
func requiredText(field, s string) (string, error) {
	v := utils.SanitizeText(s)
	if v == "" {
		return "", utils.Validation("", map[string]string{field: "this field is required"})
	}
	return v, nil
}

// requiredHTML is requiredText for rich content.
func requiredHTML(field, s string) (string, error) {
	v := utils.SanitizeHTML(s)
	if v == "" {
		return "", utils.Validation("", map[string]string{field: "this field is required"})
	}
	return v, nil
}

// optionalText applies requiredText to a field that may be absent.
func optionalText(field string, s *string) (*string, error) {
	if s == nil {
		return nil, nil
	}
	v, err := requiredText(field, *s)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
