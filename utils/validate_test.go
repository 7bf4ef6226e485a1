package utils

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type slugRequest struct {
	Slug  string  `json:"slug" binding:"required,slug"`
	Title *string `json:"title" binding:"omitempty,notblank"`
}

func bindBody(t *testing.T, body string) error {
	t.Helper()
	rec := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(rec)
	ctx.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	ctx.Request.Header.Set("Content-Type", "application/json")
	var req slugRequest
	return BindJSON(ctx, &req)
}

func TestBindJSON_Slug(t *testing.T) {
	for _, slug := range []string{"a", "hello-world", "2024_review", "Go-1_22"} {
		assert.NoError(t, bindBody(t, `{"slug":"`+slug+`"}`), slug)
	}

	for _, slug := range []string{"has space", "a/b", "ünïcode", "a.b"} {
		err := bindBody(t, `{"slug":"`+slug+`"}`)
		var appErr *AppError
		require.True(t, errors.As(err, &appErr), slug)
		assert.Equal(t, KindValidation, appErr.Kind)
		assert.Contains(t, appErr.Fields, "slug", slug)
	}
}

func TestBindJSON_Errors(t *testing.T) {
	var appErr *AppError

	require.True(t, errors.As(bindBody(t, `{}`), &appErr))
	assert.Equal(t, "this field is required", appErr.Fields["slug"])

	require.True(t, errors.As(bindBody(t, `{"slug":"a","title":"   "}`), &appErr))
	assert.Equal(t, "this field is required", appErr.Fields["title"])

	require.True(t, errors.As(bindBody(t, `{"slug":`), &appErr))
	assert.Equal(t, "invalid request body", appErr.Message)

	require.True(t, errors.As(bindBody(t, ``), &appErr))
	assert.Equal(t, "request body is required", appErr.Message)
}

func TestIsEmail(t *testing.T) {
	assert.True(t, IsEmail("g@example.com"))
	assert.False(t, IsEmail("nope"))
	assert.False(t, IsEmail(""))
}
