package account

import (
	"errors"
	"net/http"
	"scholaflow/backend/internal"
	"scholaflow/backend/internal/apperr"
	"scholaflow/backend/internal/service"
	"scholaflow/backend/pkg/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type deleteBody struct {
	UserID string `json:"userId"`
}

// AccountDelete removes everything the caller owns: chat messages, comments,
// streams, notifications and the uploaded files behind them. The user row
// stays.
func AccountDelete(c *gin.Context, d *internal.Deps) {
	requestID := c.GetString("requestID")

	var body deleteBody
	// A body that doesn't parse is treated like a missing userId
	_ = c.ShouldBindJSON(&body)

	if body.UserID == "" {
		response.Fail(c, apperr.BadRequest("User ID is required"))
		return
	}

	ctx := c.Request.Context()

	callerID, err := d.Sessions.Authenticate(ctx, c.GetHeader("Authorization"))
	if err != nil {
		response.Fail(c, err)
		return
	}

	results, err := d.Deleter.Delete(ctx, callerID, body.UserID)
	if err != nil {
		var stepErr *service.StepError
		if errors.As(err, &stepErr) {
			zap.L().Error("Account deletion stopped midway",
				zap.String("requestID", requestID),
				zap.String("userID", body.UserID),
				zap.String("step", stepErr.Step),
				zap.Strings("completed", stepErr.Completed),
				zap.Error(stepErr.Err),
			)

			response.Fail(c, apperr.Internal("There was an error deleting the user's data.", err))
			return
		}

		response.Fail(c, err)
		return
	}

	zap.L().Info("Account data deleted",
		zap.String("requestID", requestID),
		zap.String("userID", body.UserID),
		zap.Any("steps", results),
	)

	response.OK(c, http.StatusOK, "User's associated data have been successfully deleted", nil)
}
