package middleware

import (
	"net/http"
	"scholaflow/backend/pkg/response"
	"strings"

	"github.com/gin-gonic/gin"
)

const bodyTooLargeMessage = "Request body size exceeds limit"

// BodySizeLimiter rejects bodies bigger than maxBytes. Requests that lie about
// their content length are cut off by http.MaxBytesReader when read.
func BodySizeLimiter(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Fast reject for legit requests
		if c.Request.ContentLength > maxBytes {
			tooLarge(c)
			return
		}

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()

		if last := c.Errors.Last(); last != nil && !c.Writer.Written() {
			if strings.Contains(last.Error(), "http: request body too large") {
				tooLarge(c)
			}
		}
	}
}

func tooLarge(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, response.ErrorEnvelope{
		Message:    bodyTooLargeMessage,
		Error:      http.StatusText(http.StatusRequestEntityTooLarge),
		StatusCode: http.StatusRequestEntityTooLarge,
	})
}
