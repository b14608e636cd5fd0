package utils

import (
	"time"

	"github.com/gin-gonic/gin"
)

// SuccessBody is the uniform envelope for successful API responses.
type SuccessBody struct {
	Code      int         `json:"code"`
	Message   string      `json:"message"`
	Data      interface{} `json:"data"`
	Timestamp int64       `json:"timestamp"`
}

// ErrorBody is the uniform envelope for error responses.
type ErrorBody struct {
	Code      int         `json:"code"`
	Message   string      `json:"message"`
	Error     string      `json:"error"`
	Timestamp int64       `json:"timestamp"`
	Details   interface{} `json:"details,omitempty"`
}

func nowMillis() int64 {
	return time.Now().UnixMilli()
}

// Respond writes a success envelope with an explicit status and message.
func Respond(ctx *gin.Context, status int, message string, data interface{}) {
	ctx.JSON(status, SuccessBody{
		Code:      status,
		Message:   message,
		Data:      data,
		Timestamp: nowMillis(),
	})
}

// Success returns a standard 200 success response.
func Success(ctx *gin.Context, data interface{}) {
	Respond(ctx, 200, "success", data)
}

// SuccessMessage returns a 200 response carrying only a message.
func SuccessMessage(ctx *gin.Context, message string) {
	Respond(ctx, 200, message, nil)
}

// Created returns a 201 response for newly created resources.
func Created(ctx *gin.Context, message string, data interface{}) {
	Respond(ctx, 201, message, data)
}

// Error returns a standard error response. errType names the error
// category (NotFound, Conflict, ...), message is human readable.
func Error(ctx *gin.Context, status int, errType, message string) {
	ctx.JSON(status, ErrorBody{
		Code:      status,
		Message:   message,
		Error:     errType,
		Timestamp: nowMillis(),
	})
}

// ErrorWithDetails attaches field level details (validation failures).
func ErrorWithDetails(ctx *gin.Context, status int, errType, message string, details interface{}) {
	ctx.JSON(status, ErrorBody{
		Code:      status,
		Message:   message,
		Error:     errType,
		Timestamp: nowMillis(),
		Details:   details,
	})
}
