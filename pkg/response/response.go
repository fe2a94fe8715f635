package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorBody is the single error shape returned by every endpoint.
type ErrorBody struct {
	Detail    string            `json:"detail"`
	RequestID string            `json:"request_id,omitempty"`
	Errors    map[string]string `json:"errors,omitempty"`
}

type MessageBody struct {
	Message string `json:"message"`
}

// JSON writes a success payload as-is.
func JSON(ctx *gin.Context, status int, data any) {
	if status == 0 {
		status = http.StatusOK
	}
	ctx.JSON(status, data)
}

func Message(ctx *gin.Context, status int, message string) {
	JSON(ctx, status, MessageBody{Message: message})
}

// Error aborts the chain and writes an ErrorBody.
func Error(ctx *gin.Context, status int, detail string, errs map[string]string) ErrorBody {
	if status == 0 {
		status = http.StatusBadRequest
	}
	body := ErrorBody{
		Detail:    detail,
		RequestID: ctx.GetString("request_id"),
		Errors:    errs,
	}
	ctx.AbortWithStatusJSON(status, body)
	return body
}
