package classroom

import (
	"net/http"
	"scholaflow/backend/internal"
	"scholaflow/backend/internal/apperr"
	"scholaflow/backend/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func ClassroomFetch(c *gin.Context, d *internal.Deps) {
	classID := c.Param("classId")
	if classID == "" {
		response.Fail(c, apperr.BadRequest("Id parameter is required"))
		return
	}

	if err := uuid.Validate(classID); err != nil {
		response.Fail(c, apperr.BadRequest("Invalid class ID format"))
		return
	}

	ctx := c.Request.Context()

	if _, err := d.Sessions.Authenticate(ctx, c.GetHeader("Authorization")); err != nil {
		response.Fail(c, err)
		return
	}

	class, err := d.Classrooms.Get(ctx, classID)
	if err != nil {
		response.Fail(c, err)
		return
	}

	if class == nil {
		response.OK(c, http.StatusOK, "No class found", nil)
		return
	}

	response.OK(c, http.StatusOK, "Class found", class)
}
