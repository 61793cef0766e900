package service

import (
	"context"
	"errors"
	"fmt"
	"scholaflow/backend/internal/apperr"
	"scholaflow/backend/internal/model"
	"time"

	"gorm.io/gorm"
)

// ClassroomService reads and creates classrooms.
type ClassroomService struct {
	db        *gorm.DB
	maxPerDay int
	now       func() time.Time
}

// NewClassroomService returns a service allowing each teacher to create at
// most maxPerDay classrooms per calendar day.
func NewClassroomService(db *gorm.DB, maxPerDay int) *ClassroomService {
	return &ClassroomService{db: db, maxPerDay: maxPerDay, now: time.Now}
}

// Get returns the classroom with the given ID, or nil if there is none.
func (s *ClassroomService) Get(ctx context.Context, id string) (*model.Classroom, error) {
	var class model.Classroom

	err := s.db.
		WithContext(ctx).
		Where("id = ?", id).
		First(&class).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}

		return nil, apperr.Internal("There was an error retrieving the classroom data.", err)
	}

	return &class, nil
}

// ListCreated returns the classrooms userID teaches, newest first.
func (s *ClassroomService) ListCreated(ctx context.Context, userID string) ([]model.Classroom, error) {
	var classes []model.Classroom

	err := s.db.
		WithContext(ctx).
		Where("teacher_id = ?", userID).
		Order("created_at desc").
		Find(&classes).
		Error
	if err != nil {
		return nil, apperr.Internal("There was an error retrieving the classrooms data.", err)
	}

	return classes, nil
}

// ListEnrolled returns the enrolments of userID, newest first.
func (s *ClassroomService) ListEnrolled(ctx context.Context, userID string) ([]model.EnrolledClass, error) {
	var classes []model.EnrolledClass

	err := s.db.
		WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&classes).
		Error
	if err != nil {
		return nil, apperr.Internal("There was an error retrieving the classrooms data.", err)
	}

	return classes, nil
}

// Create stores class on behalf of callerID, who has to be its teacher. The
// daily limit is checked first, two concurrent requests may both slip under
// it.
func (s *ClassroomService) Create(ctx context.Context, callerID string, class *model.Classroom) error {
	if callerID == "" {
		return apperr.Unauthorized("Invalid or expired token")
	}

	if class.TeacherID != callerID {
		return apperr.Forbidden("You are not authorized to create a classroom for another teacher")
	}

	now := s.now()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	var today int64
	err := s.db.
		WithContext(ctx).
		Model(&model.Classroom{}).
		Where("teacher_id = ? AND created_at >= ? AND created_at < ?", callerID, start, start.AddDate(0, 0, 1)).
		Count(&today).
		Error
	if err != nil {
		return apperr.Internal("Failed to create classroom. Please try again.", err)
	}

	if today >= int64(s.maxPerDay) {
		return apperr.TooManyRequests("Daily classroom creation limit reached")
	}

	class.ID = ""
	class.CreatedAt = now

	if err := s.db.WithContext(ctx).Create(class).Error; err != nil {
		return apperr.Internal("Failed to create classroom. Database operation unsuccessful.", fmt.Errorf("failed to insert classroom, %w", err))
	}

	return nil
}
