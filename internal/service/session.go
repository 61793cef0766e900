package service

import (
	"context"
	"errors"
	"scholaflow/backend/internal/apperr"
	"scholaflow/backend/internal/model"
	"strings"
	"time"

	"gorm.io/gorm"
)

const bearerPrefix = "Bearer "

// SessionValidator checks bearer tokens against the session table. It never
// writes.
type SessionValidator struct {
	db  *gorm.DB
	now func() time.Time
}

func NewSessionValidator(db *gorm.DB) *SessionValidator {
	return &SessionValidator{db: db, now: time.Now}
}

// ParseBearer returns the token of an "Authorization: Bearer <token>" header
// value.
func ParseBearer(header string) (string, error) {
	if header == "" {
		return "", apperr.Unauthorized("No authorization header found")
	}

	token, found := strings.CutPrefix(header, bearerPrefix)
	if !found || strings.TrimSpace(token) == "" {
		return "", apperr.Unauthorized("Invalid authorization header format")
	}

	return token, nil
}

// Validate looks the token up and returns the ID of the user owning the
// session. Unknown and expired tokens are unauthorized, a failing store is an
// internal error.
func (v *SessionValidator) Validate(ctx context.Context, token string) (string, error) {
	var s model.Session

	err := v.db.
		WithContext(ctx).
		Select("user_id", "expires_at").
		Where("token = ?", token).
		First(&s).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", apperr.Unauthorized("Invalid or expired token")
		}

		return "", apperr.Internal("Failed to validate session due to internal error", err)
	}

	if !s.ExpiresAt.After(v.now()) {
		return "", apperr.Unauthorized("Invalid or expired token")
	}

	return s.UserID, nil
}

// Authenticate parses the header and validates the token in one go.
func (v *SessionValidator) Authenticate(ctx context.Context, header string) (string, error) {
	token, err := ParseBearer(header)
	if err != nil {
		return "", err
	}

	return v.Validate(ctx, token)
}
