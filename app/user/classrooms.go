package user

import (
	"net/http"
	"scholaflow/backend/internal"
	"scholaflow/backend/internal/apperr"
	"scholaflow/backend/pkg/response"

	"github.com/gin-gonic/gin"
)

const (
	classTypeCreated  = "created"
	classTypeEnrolled = "enrolled"
)

// UserClassrooms lists the classrooms a user teaches (type=created) or is
// enrolled in (type=enrolled). Input is checked before the session so bad
// requests never reach the database.
func UserClassrooms(c *gin.Context, d *internal.Deps) {
	userID := c.Param("userId")
	classType := c.Query("type")

	if userID == "" {
		response.Fail(c, apperr.BadRequest("Id parameter is required"))
		return
	}

	if classType == "" {
		response.Fail(c, apperr.BadRequest("Class type parameter is required"))
		return
	}

	if err := d.Validate.Var(classType, "oneof="+classTypeCreated+" "+classTypeEnrolled); err != nil {
		response.Fail(c, apperr.BadRequest("Invalid class type."))
		return
	}

	ctx := c.Request.Context()

	if _, err := d.Sessions.Authenticate(ctx, c.GetHeader("Authorization")); err != nil {
		response.Fail(c, err)
		return
	}

	switch classType {
	case classTypeCreated:
		classes, err := d.Classrooms.ListCreated(ctx, userID)
		if err != nil {
			response.Fail(c, err)
			return
		}

		if len(classes) == 0 {
			response.OK(c, http.StatusOK, "No classes found", nil)
			return
		}

		response.OK(c, http.StatusOK, "Classes found", classes)
	case classTypeEnrolled:
		classes, err := d.Classrooms.ListEnrolled(ctx, userID)
		if err != nil {
			response.Fail(c, err)
			return
		}

		if len(classes) == 0 {
			response.Fail(c, apperr.NotFound("No classes found"))
			return
		}

		response.OK(c, http.StatusOK, "Classes found", classes)
	}
}
