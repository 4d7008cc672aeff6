package response

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Stable machine-readable error codes. The numbering predates this
// service and is kept for client compatibility.
const (
	CodeLoginGeneric           = 10011
	CodeInvalidEmailOrPassword = 10012
	CodeRegisterGeneric        = 10021
	CodeEmailExists            = 10022
	CodeDisplayNameExists      = 10023
	CodeUnauthenticated        = 10031
	CodePostGeneric            = 20011
	CodePostNotFound           = 20012
)

type APIResponse[T any] struct {
	Status    int         `json:"status"`
	Timestamp time.Time   `json:"timestamp"`
	RequestID string      `json:"request_id"`
	Success   bool        `json:"success"`
	Message   string      `json:"message"`
	Code      int         `json:"code,omitempty"`
	Data      T           `json:"data,omitempty"`
	Meta      interface{} `json:"meta,omitempty"`
	Error     interface{} `json:"error,omitempty"`
}

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

func Error[T any](ctx *gin.Context, status int, code int, message string, err interface{}) APIResponse[T] {
	if status == 0 {
		status = http.StatusBadRequest
	}
	resp := APIResponse[T]{
		Status:    status,
		Timestamp: time.Now(),
		RequestID: ctx.GetString("request_id"),
		Success:   false,
		Message:   message,
		Code:      code,
		Error:     err,
	}
	ctx.JSON(status, resp)
	return resp
}
