package middleware

import (
	"context"
	"scholaflow/backend/pkg/response"

	"github.com/gin-gonic/gin"
)

// Authenticator resolves an Authorization header value to a user ID.
type Authenticator interface {
	Authenticate(ctx context.Context, header string) (string, error)
}

// NewSessionMiddleware rejects requests without a valid session and stores the
// owner as userID for the handlers down the chain.
func NewSessionMiddleware(a Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := a.Authenticate(c.Request.Context(), c.GetHeader("Authorization"))
		if err != nil {
			response.Fail(c, err)
			return
		}

		c.Set("userID", userID)
		c.Next()
	}
}
