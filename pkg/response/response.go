package response

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bhudevswayam/service-app/pkg/apperr"
)

type APIResponse[T any] struct {
	Status    int         `json:"status"`
	Timestamp time.Time   `json:"timestamp"`
	RequestID string      `json:"request_id"`
	Success   bool        `json:"success"`
	Message   string      `json:"message"`
	Data      T           `json:"data,omitempty"`
	Meta      interface{} `json:"meta,omitempty"`
	Error     *ErrorBody  `json:"error,omitempty"`
}

// ErrorBody is the failure part of the envelope. Kind is one of apperr's kinds.
type ErrorBody struct {
	Kind    apperr.Kind `json:"kind"`
	Details interface{} `json:"details,omitempty"`
}

// Success writes a success envelope and returns it.
func Success[T any](ctx *gin.Context, status int, data T, message string, meta interface{}) APIResponse[T] {
	if status == 0 {
		status = http.StatusOK
	}
	resp := APIResponse[T]{
		Status:    status,
		Timestamp: time.Now(),
		RequestID: ctx.GetString("request_id"),
		Success:   true,
		Message:   message,
		Data:      data,
		Meta:      meta,
	}
	ctx.JSON(status, resp)
	return resp
}

// Error writes a failure envelope and aborts the handler chain.
func Error[T any](ctx *gin.Context, status int, kind apperr.Kind, message string, details interface{}) APIResponse[T] {
	if status == 0 {
		status = apperr.Status(kind)
	}
	resp := APIResponse[T]{
		Status:    status,
		Timestamp: time.Now(),
		RequestID: ctx.GetString("request_id"),
		Success:   false,
		Message:   message,
		Error:     &ErrorBody{Kind: kind, Details: details},
	}
	ctx.AbortWithStatusJSON(status, resp)
	return resp
}

// Fail writes the envelope for an error produced by the apperr taxonomy.
func Fail(ctx *gin.Context, err error) {
	kind := apperr.KindOf(err)
	Error[any](ctx, apperr.Status(kind), kind, apperr.MessageOf(err), nil)
}
