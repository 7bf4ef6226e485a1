package utils

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-sql-driver/mysql"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrorKind classifies failures that handlers report on purpose.
type ErrorKind int

const (
	KindInternal ErrorKind = iota
	KindValidation
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindConflict
	KindUnavailable
	KindTooManyRequests
)

var kindStatus = map[ErrorKind]int{
	KindInternal:        http.StatusInternalServerError,
	KindValidation:      http.StatusBadRequest,
	KindUnauthorized:    http.StatusUnauthorized,
	KindForbidden:       http.StatusForbidden,
	KindNotFound:        http.StatusNotFound,
	KindConflict:        http.StatusConflict,
	KindUnavailable:     http.StatusServiceUnavailable,
	KindTooManyRequests: http.StatusTooManyRequests,
}

// Status returns the HTTP status code for the kind.
func (k ErrorKind) Status() int {
	if s, ok := kindStatus[k]; ok {
		return s
	}
	return http.StatusInternalServerError
}

// AppError is an error carrying its wire classification.
type AppError struct {
	Kind    ErrorKind
	Message string
	Fields  map[string]string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error { return e.Err }

// ErrInvalidCredentials marks a password check that did not match.
var ErrInvalidCredentials = errors.New("invalid email or password")

// Messages used for store-level classifications.
const (
	msgDuplicate   = "resource already exists"
	msgForeignKey  = "referenced resource does not exist"
	msgNotFound    = "resource not found"
	msgUnavailable = "service temporarily unavailable"
	msgValidation  = "validation failed"
)

func Validation(message string, fields map[string]string) *AppError {
	if message == "" {
		message = msgValidation
	}
	return &AppError{Kind: KindValidation, Message: message, Fields: fields}
}

func Unauthorized(message string) *AppError {
	return &AppError{Kind: KindUnauthorized, Message: message}
}

func Forbidden(message string) *AppError {
	return &AppError{Kind: KindForbidden, Message: message}
}

func NotFound(message string) *AppError {
	return &AppError{Kind: KindNotFound, Message: message}
}

func Conflict(message string) *AppError {
	return &AppError{Kind: KindConflict, Message: message}
}

func Unavailable(message string, err error) *AppError {
	return &AppError{Kind: KindUnavailable, Message: message, Err: err}
}

func TooManyRequests(message string) *AppError {
	return &AppError{Kind: KindTooManyRequests, Message: message}
}

// Classify maps any error to a status code and failure envelope.
func Classify(err error) (int, JSONResponse) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind.Status(), JSONResponse{Error: appErr.Message, Errors: appErr.Fields}
	}

	switch {
	case isDuplicate(err):
		return http.StatusConflict, JSONResponse{Error: msgDuplicate}
	case isForeignKey(err):
		return http.StatusBadRequest, JSONResponse{Error: msgForeignKey}
	case errors.Is(err, ErrInvalidCredentials):
		return http.StatusUnauthorized, JSONResponse{Error: ErrInvalidCredentials.Error()}
	case errors.Is(err, gorm.ErrRecordNotFound):
		return http.StatusNotFound, JSONResponse{Error: msgNotFound}
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable, JSONResponse{Error: msgUnavailable}
	}
	return http.StatusInternalServerError, JSONResponse{Error: err.Error()}
}

func isDuplicate(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var me *mysql.MySQLError
	if errors.As(err, &me) && me.Number == 1062 {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "Duplicate entry") || strings.Contains(msg, "UNIQUE constraint failed")
}

func isForeignKey(err error) bool {
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return true
	}
	var me *mysql.MySQLError
	return errors.As(err, &me) && (me.Number == 1451 || me.Number == 1452)
}

// HandlerFunc is a gin handler that reports failure by returning an error.
type HandlerFunc func(*gin.Context) error

// Handle adapts fn into a gin handler. Every error or panic raised by fn is
// classified and written exactly once as a failure envelope.
func Handle(fn HandlerFunc) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if err := run(ctx, fn); err != nil {
			WriteError(ctx, err)
		}
	}
}

func run(ctx *gin.Context, fn HandlerFunc) (err error) {
	defer func() {
		if r := recover(); r != nil {
			L().Error("handler panic",
				zap.String("request_id", ctx.GetString(ContextRequestIDKey)),
				zap.String("path", ctx.Request.URL.Path),
				zap.Any("panic", r),
				zap.Stack("stacktrace"),
			)
			err = fmt.Errorf("internal error: %v", r)
		}
	}()
	return fn(ctx)
}

// WriteError classifies err, logs it and writes the failure envelope.
func WriteError(ctx *gin.Context, err error) {
	status, body := Classify(err)
	body.Success = false

	fields := []zap.Field{
		zap.String("request_id", ctx.GetString(ContextRequestIDKey)),
		zap.String("method", ctx.Request.Method),
		zap.String("path", ctx.Request.URL.Path),
		zap.Int("status", status),
		zap.Error(err),
	}
	if status >= http.StatusInternalServerError {
		L().Error("request failed", fields...)
	} else {
		L().Debug("request rejected", fields...)
	}

	_ = ctx.Error(err)
	ctx.AbortWithStatusJSON(status, body)
}
