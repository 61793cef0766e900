package account

import (
	"errors"
	"net/http"
	"scholaflow/backend/internal"
	"scholaflow/backend/internal/apperr"
	"scholaflow/backend/internal/model"
	"scholaflow/backend/pkg/response"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// AccountFetch returns the provider account of a user. Requires a session.
func AccountFetch(c *gin.Context, d *internal.Deps) {
	userID := c.Param("userId")
	if userID == "" {
		response.Fail(c, apperr.BadRequest("User ID is required"))
		return
	}

	var account model.Account

	err := d.DB.
		WithContext(c.Request.Context()).
		Where("user_id = ?", userID).
		First(&account).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.Fail(c, apperr.NotFound("Account not found"))
			return
		}

		response.Fail(c, apperr.Internal("There was an error retrieving the account data.", err))
		return
	}

	response.OK(c, http.StatusOK, "Account found", account)
}
