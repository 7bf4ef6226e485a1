package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// JSONResponse defines the uniform envelope for API responses.
type JSONResponse struct {
	Success bool              `json:"success"`
	Data    interface{}       `json:"data,omitempty"`
	Message string            `json:"message,omitempty"`
	Error   string            `json:"error,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
}

// Respond writes a JSON envelope with the given status code.
func Respond(ctx *gin.Context, status int, body JSONResponse) {
	ctx.JSON(status, body)
}

// Success returns 200 with data.
func Success(ctx *gin.Context, data interface{}, message string) {
	Respond(ctx, http.StatusOK, JSONResponse{Success: true, Data: data, Message: message})
}

// Created returns 201 with data.
func Created(ctx *gin.Context, data interface{}, message string) {
	Respond(ctx, http.StatusCreated, JSONResponse{Success: true, Data: data, Message: message})
}

// Updated returns 200 without data.
func Updated(ctx *gin.Context, message string) {
	Respond(ctx, http.StatusOK, JSONResponse{Success: true, Message: message})
}

// Deleted returns 200 without data.
func Deleted(ctx *gin.Context, message string) {
	Respond(ctx, http.StatusOK, JSONResponse{Success: true, Message: message})
}

// Fail writes a failure envelope. fields is only set for validation failures.
func Fail(ctx *gin.Context, status int, message string, fields map[string]string) {
	Respond(ctx, status, JSONResponse{Success: false, Error: message, Errors: fields})
}
