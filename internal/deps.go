package internal

import (
	"scholaflow/backend/internal/service"
	"scholaflow/backend/internal/storage"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

// Deps is everything handlers need, built once at start-up.
type Deps struct {
	DB         *gorm.DB
	Storage    storage.Remover
	Sessions   *service.SessionValidator
	Deleter    *service.AccountDeleter
	Classrooms *service.ClassroomService
	Validate   *validator.Validate
}
