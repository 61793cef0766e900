package user

import (
	"errors"
	"net/http"
	"scholaflow/backend/internal"
	"scholaflow/backend/internal/apperr"
	"scholaflow/backend/internal/model"
	"scholaflow/backend/pkg/response"
	"scholaflow/backend/validators"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// UserFetchByEmail looks a user up by the email query parameter. It's public,
// the frontend uses it before sign in.
func UserFetchByEmail(c *gin.Context, d *internal.Deps) {
	email := c.Query("email")

	if err := validators.EmailValidator(d.Validate, email); err != nil {
		if errors.Is(err, validators.ErrEmailEmpty) {
			response.Fail(c, apperr.BadRequest("Email parameter is required"))
			return
		}

		response.Fail(c, apperr.BadRequest("Invalid email format"))
		return
	}

	fetchUser(c, d, "email = ?", email)
}

// UserFetch returns a user by ID. Requires a session.
func UserFetch(c *gin.Context, d *internal.Deps) {
	userID := c.Param("userId")
	if userID == "" {
		response.Fail(c, apperr.BadRequest("User ID is required"))
		return
	}

	fetchUser(c, d, "id = ?", userID)
}

func fetchUser(c *gin.Context, d *internal.Deps, query string, arg string) {
	var user model.User

	err := d.DB.
		WithContext(c.Request.Context()).
		Where(query, arg).
		First(&user).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.Fail(c, apperr.NotFound("User not found"))
			return
		}

		response.Fail(c, apperr.Internal("There was an error retrieving the users data.", err))
		return
	}

	response.OK(c, http.StatusOK, "User found", user)
}
