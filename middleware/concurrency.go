package middleware

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/semaphore"

	"github.com/cppla/aiblog/utils"
)

// ConcurrencyGate admits at most capacity requests at once, sized as the DB
// pool plus its wait queue. Requests beyond that fail fast with 503 instead
// of queueing without bound.
func ConcurrencyGate(capacity int) gin.HandlerFunc {
	sem := semaphore.NewWeighted(int64(max(capacity, 1)))
	return func(ctx *gin.Context) {
		if !sem.TryAcquire(1) {
			utils.WriteError(ctx, utils.Unavailable("server busy, retry later", nil))
			return
		}
		defer sem.Release(1)
		ctx.Next()
	}
}

// RequestTimeout bounds the request context, and with it every store call the handler makes.
func RequestTimeout(d time.Duration) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		c, cancel := context.WithTimeout(ctx.Request.Context(), d)
		defer cancel()
		ctx.Request = ctx.Request.WithContext(c)
		ctx.Next()
	}
}
