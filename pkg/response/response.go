// Package response renders the JSON envelope every endpoint answers with
package response

import (
	"errors"
	"net/http"
	"scholaflow/backend/internal/apperr"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const genericInternalMessage = "Internal server error"

type Envelope struct {
	Message    string `json:"message"`
	Data       any    `json:"data"`
	StatusCode int    `json:"statusCode"`
}

type ErrorEnvelope struct {
	Message    string `json:"message"`
	Error      string `json:"error"`
	StatusCode int    `json:"statusCode"`
}

// StatusOf maps an error kind to its HTTP status.
func StatusOf(k apperr.Kind) int {
	switch k {
	case apperr.KindBadRequest:
		return http.StatusBadRequest
	case apperr.KindUnauthorized:
		return http.StatusUnauthorized
	case apperr.KindForbidden:
		return http.StatusForbidden
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindTooManyRequests:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// OK writes a success envelope. A nil data is rendered as null.
func OK(c *gin.Context, status int, message string, data any) {
	c.JSON(status, Envelope{
		Message:    message,
		Data:       data,
		StatusCode: status,
	})
}

// Fail writes the error envelope for err and aborts the chain. Internal errors
// are logged with their cause, the client only gets the public message.
func Fail(c *gin.Context, err error) {
	status, body := render(err)

	if status == http.StatusInternalServerError {
		zap.L().Error("Request failed",
			zap.Error(err),
			zap.String("requestID", c.GetString("requestID")),
			zap.String("path", c.FullPath()),
		)
	}

	c.AbortWithStatusJSON(status, body)
}

func render(err error) (int, ErrorEnvelope) {
	status := StatusOf(apperr.KindOf(err))

	msg := genericInternalMessage
	var e *apperr.Error
	if errors.As(err, &e) && e.Message != "" {
		msg = e.Message
	}

	return status, ErrorEnvelope{
		Message:    msg,
		Error:      http.StatusText(status),
		StatusCode: status,
	}
}
