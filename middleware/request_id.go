package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/cppla/aiblog/utils"
)

const requestIDHeader = "X-Request-ID"

// RequestID propagates or generates a request id for logs and responses.
func RequestID() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		id := ctx.GetHeader(requestIDHeader)
		if id == "" || len(id) > 64 {
			id = uuid.NewString()
		}
		ctx.Set(utils.ContextRequestIDKey, id)
		ctx.Writer.Header().Set(requestIDHeader, id)
		ctx.Next()
	}
}
