package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"scholaflow/backend/internal/apperr"
	"scholaflow/backend/internal/model"
	"scholaflow/backend/internal/storage"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Deletion steps, in the order they run. Attachments are always removed from
// storage before the rows pointing at them.
const (
	StepMessages        = "messages"
	StepComments        = "comments"
	StepPrivateComments = "private_comments"
	StepStreams         = "streams"
	StepNotifications   = "notifications"
	StepAvatar          = "avatar"
)

// StepResult describes what a single deletion step removed.
type StepResult struct {
	Step    string `json:"step"`
	Rows    int64  `json:"rows"`
	Objects int    `json:"objects"`
}

// StepError is returned when a step fails. Steps listed in Completed have
// already been committed, there's no rollback. Every step is idempotent so
// running the deletion again picks up where this one stopped.
type StepError struct {
	Step      string
	Completed []string
	Err       error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("account deletion failed at step '%s' (completed: %s), %v", e.Step, strings.Join(e.Completed, ", "), e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

type deletionStep struct {
	name string
	run  func(ctx context.Context, u *model.User) (StepResult, error)
}

// AccountDeleter removes everything a user owns across the classroom tables
// and buckets. The user row itself is left alone, removing it is up to the
// auth provider.
type AccountDeleter struct {
	db              *gorm.DB
	storage         storage.Remover
	oauthAvatarHost string
}

// NewAccountDeleter returns a deleter. Avatars hosted on oauthAvatarHost
// belong to the OAuth provider and are never removed.
func NewAccountDeleter(db *gorm.DB, s storage.Remover, oauthAvatarHost string) *AccountDeleter {
	return &AccountDeleter{
		db:              db,
		storage:         s,
		oauthAvatarHost: oauthAvatarHost,
	}
}

// Delete checks that callerID may delete targetID's data and runs every
// deletion step in order. It stops at the first failing step and returns a
// *StepError.
func (a *AccountDeleter) Delete(ctx context.Context, callerID, targetID string) ([]StepResult, error) {
	if targetID == "" {
		return nil, apperr.BadRequest("User ID is required")
	}

	if callerID == "" {
		return nil, apperr.Unauthorized("Invalid or expired token")
	}

	if callerID != targetID {
		return nil, apperr.Forbidden("You are not authorized to delete another user's data")
	}

	var u model.User
	err := a.db.
		WithContext(ctx).
		Where("id = ?", targetID).
		First(&u).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("User not found")
		}

		return nil, apperr.Internal("There was an error deleting the user's data.", err)
	}

	results := make([]StepResult, 0, 6)
	completed := make([]string, 0, 6)

	for _, step := range a.plan() {
		res, err := step.run(ctx, &u)
		if err != nil {
			return results, &StepError{Step: step.name, Completed: completed, Err: err}
		}

		res.Step = step.name
		results = append(results, res)
		completed = append(completed, step.name)

		zap.L().Debug("Account deletion step done",
			zap.String("userID", u.ID),
			zap.String("step", step.name),
			zap.Int64("rows", res.Rows),
			zap.Int("objects", res.Objects),
		)
	}

	return results, nil
}

func (a *AccountDeleter) plan() []deletionStep {
	return []deletionStep{
		{name: StepMessages, run: a.deleteMessages},
		{name: StepComments, run: a.deleteComments},
		{name: StepPrivateComments, run: a.deletePrivateComments},
		{name: StepStreams, run: a.deleteStreams},
		{name: StepNotifications, run: a.deleteNotifications},
		{name: StepAvatar, run: a.deleteAvatar},
	}
}

func (a *AccountDeleter) deleteMessages(ctx context.Context, u *model.User) (StepResult, error) {
	var chats []model.Chat

	err := a.db.
		WithContext(ctx).
		Where("user_id = ?", u.ID).
		Find(&chats).
		Error
	if err != nil {
		return StepResult{}, fmt.Errorf("failed to fetch chat messages, %w", err)
	}

	var urls []string
	for _, c := range chats {
		urls = append(urls, c.Attachments...)
	}

	n, err := a.removeAttachments(ctx, storage.CategoryMessage, urls)
	if err != nil {
		return StepResult{}, err
	}

	res := a.db.
		WithContext(ctx).
		Where("user_id = ?", u.ID).
		Delete(&model.Chat{})
	if res.Error != nil {
		return StepResult{}, fmt.Errorf("failed to delete chat messages, %w", res.Error)
	}

	return StepResult{Rows: res.RowsAffected, Objects: n}, nil
}

func (a *AccountDeleter) deleteComments(ctx context.Context, u *model.User) (StepResult, error) {
	var comments []model.StreamComment

	err := a.db.
		WithContext(ctx).
		Where("user_id = ?", u.ID).
		Find(&comments).
		Error
	if err != nil {
		return StepResult{}, fmt.Errorf("failed to fetch stream comments, %w", err)
	}

	var urls []string
	for _, c := range comments {
		if c.Attachment != nil && *c.Attachment != "" {
			urls = append(urls, *c.Attachment)
		}
	}

	n, err := a.removeAttachments(ctx, storage.CategoryComment, urls)
	if err != nil {
		return StepResult{}, err
	}

	res := a.db.
		WithContext(ctx).
		Where("user_id = ?", u.ID).
		Delete(&model.StreamComment{})
	if res.Error != nil {
		return StepResult{}, fmt.Errorf("failed to delete stream comments, %w", res.Error)
	}

	return StepResult{Rows: res.RowsAffected, Objects: n}, nil
}

func (a *AccountDeleter) deletePrivateComments(ctx context.Context, u *model.User) (StepResult, error) {
	var comments []model.StreamPrivateComment

	err := a.db.
		WithContext(ctx).
		Where("user_id = ?", u.ID).
		Find(&comments).
		Error
	if err != nil {
		return StepResult{}, fmt.Errorf("failed to fetch private comments, %w", err)
	}

	var urls []string
	for _, c := range comments {
		if c.Attachment != nil && *c.Attachment != "" {
			urls = append(urls, *c.Attachment)
		}
	}

	// Private comment attachments share the comments bucket
	n, err := a.removeAttachments(ctx, storage.CategoryComment, urls)
	if err != nil {
		return StepResult{}, err
	}

	res := a.db.
		WithContext(ctx).
		Where("user_id = ?", u.ID).
		Delete(&model.StreamPrivateComment{})
	if res.Error != nil {
		return StepResult{}, fmt.Errorf("failed to delete private comments, %w", res.Error)
	}

	return StepResult{Rows: res.RowsAffected, Objects: n}, nil
}

// deleteStreams removes every stream the user authored. Streams posted in a
// classroom the user doesn't teach are removed as well. Whether those should
// survive is an open product question, so they are only logged for now.
func (a *AccountDeleter) deleteStreams(ctx context.Context, u *model.User) (StepResult, error) {
	var streams []model.Stream

	err := a.db.
		WithContext(ctx).
		Select("id", "class_id").
		Where("user_id = ?", u.ID).
		Find(&streams).
		Error
	if err != nil {
		return StepResult{}, fmt.Errorf("failed to fetch streams, %w", err)
	}

	for _, s := range streams {
		var class model.Classroom

		err := a.db.
			WithContext(ctx).
			Select("id", "teacher_id").
			Where("id = ?", s.ClassID).
			First(&class).
			Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return StepResult{}, fmt.Errorf("failed to fetch classroom of stream %s, %w", s.ID, err)
		}

		if class.TeacherID != u.ID {
			zap.L().Info("Deleting stream from a classroom the user doesn't teach",
				zap.String("userID", u.ID),
				zap.String("streamID", s.ID),
				zap.String("classID", s.ClassID),
			)
		}
	}

	res := a.db.
		WithContext(ctx).
		Where("user_id = ?", u.ID).
		Delete(&model.Stream{})
	if res.Error != nil {
		return StepResult{}, fmt.Errorf("failed to delete streams, %w", res.Error)
	}

	return StepResult{Rows: res.RowsAffected}, nil
}

func (a *AccountDeleter) deleteNotifications(ctx context.Context, u *model.User) (StepResult, error) {
	res := a.db.
		WithContext(ctx).
		Where("user_id = ?", u.ID).
		Delete(&model.Notification{})
	if res.Error != nil {
		return StepResult{}, fmt.Errorf("failed to delete notifications, %w", res.Error)
	}

	return StepResult{Rows: res.RowsAffected}, nil
}

func (a *AccountDeleter) deleteAvatar(ctx context.Context, u *model.User) (StepResult, error) {
	if u.Image == "" || a.isOAuthAvatar(u.Image) {
		return StepResult{}, nil
	}

	path, err := storage.AvatarPath(u.Image)
	if err != nil {
		return StepResult{}, err
	}

	if err := a.storage.Remove(ctx, string(storage.CategoryAvatar), path); err != nil {
		return StepResult{}, err
	}

	return StepResult{Objects: 1}, nil
}

func (a *AccountDeleter) isOAuthAvatar(raw string) bool {
	if a.oauthAvatarHost == "" {
		return false
	}

	u, err := url.Parse(raw)
	if err != nil {
		return false
	}

	return strings.EqualFold(u.Hostname(), a.oauthAvatarHost)
}

// removeAttachments extracts the storage paths of urls and removes them from
// the category's bucket in one batch. It returns how many objects were removed.
func (a *AccountDeleter) removeAttachments(ctx context.Context, c storage.Category, urls []string) (int, error) {
	if len(urls) == 0 {
		return 0, nil
	}

	paths, err := storage.ExtractPaths(c, urls)
	if err != nil {
		return 0, err
	}

	if err := a.storage.RemoveMany(ctx, string(c), paths); err != nil {
		return 0, err
	}

	return len(paths), nil
}
