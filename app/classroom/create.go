package classroom

import (
	"errors"
	"io"
	"net/http"
	"scholaflow/backend/internal"
	"scholaflow/backend/internal/apperr"
	"scholaflow/backend/internal/model"
	"scholaflow/backend/pkg/response"
	"scholaflow/backend/validators"

	"github.com/gin-gonic/gin"
)

type createBody struct {
	Name              string  `json:"name" validate:"required,max=100"`
	Subject           *string `json:"subject" validate:"omitempty,max=100"`
	Section           string  `json:"section" validate:"required,max=100"`
	Room              *string `json:"room" validate:"omitempty,max=100"`
	CardBackground    string  `json:"cardBackground" validate:"required"`
	IllustrationIndex *int    `json:"illustrationIndex" validate:"required,gte=0"`
	Code              string  `json:"code" validate:"required"`
	TeacherID         string  `json:"teacherId" validate:"required"`
	TeacherName       string  `json:"teacherName" validate:"required"`
	TeacherImage      string  `json:"teacherImage"`
}

func ClassroomCreate(c *gin.Context, d *internal.Deps) {
	var body createBody

	if err := c.ShouldBindJSON(&body); err != nil {
		if errors.Is(err, io.EOF) {
			response.Fail(c, apperr.BadRequest("Request body is required"))
			return
		}

		response.Fail(c, apperr.BadRequest("Invalid request body"))
		return
	}

	if body == (createBody{}) {
		response.Fail(c, apperr.BadRequest("Request body is required"))
		return
	}

	if err := d.Validate.Struct(body); err != nil {
		response.Fail(c, apperr.BadRequest(validators.Message(err)))
		return
	}

	ctx := c.Request.Context()

	callerID, err := d.Sessions.Authenticate(ctx, c.GetHeader("Authorization"))
	if err != nil {
		response.Fail(c, err)
		return
	}

	class := &model.Classroom{
		Name:              body.Name,
		Subject:           body.Subject,
		Section:           body.Section,
		Room:              body.Room,
		Code:              body.Code,
		CardBackground:    body.CardBackground,
		TeacherID:         body.TeacherID,
		TeacherName:       body.TeacherName,
		TeacherImage:      body.TeacherImage,
		IllustrationIndex: *body.IllustrationIndex,
	}

	if err := d.Classrooms.Create(ctx, callerID, class); err != nil {
		response.Fail(c, err)
		return
	}

	response.OK(c, http.StatusCreated, "Classroom created successfully", "/classroom/class/"+class.ID)
}
