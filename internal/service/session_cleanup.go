package service

import (
	"context"
	"fmt"
	"scholaflow/backend/internal/model"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SweepExpired deletes session and verification rows that expired before now.
// It returns how many rows were removed.
func SweepExpired(ctx context.Context, db *gorm.DB, now time.Time) (int64, error) {
	var total int64

	for _, m := range []any{&model.Session{}, &model.Verification{}} {
		res := db.
			WithContext(ctx).
			Where("expires_at < ?", now).
			Delete(m)
		if res.Error != nil {
			return total, fmt.Errorf("failed to delete expired rows, %w", res.Error)
		}

		total += res.RowsAffected
	}

	return total, nil
}

// SessionCleanup periodically sweeps expired sessions and verification tokens
// until ctx is cancelled.
func SessionCleanup(ctx context.Context, t time.Duration, db *gorm.DB) {
	ticker := time.NewTicker(t)

	zap.L().Debug("Session cleanup attached", zap.Duration("tick_every", t))

	go func() {
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				n, err := SweepExpired(ctx, db, now)
				if err != nil {
					zap.L().Error("Failed to clean up expired sessions", zap.Error(err))
					continue
				}

				if n > 0 {
					zap.L().Debug("Cleaned up expired sessions", zap.Int64("rows", n))
				}
			}
		}
	}()
}
