// Package testutil holds helpers shared by tests: an in-memory database with
// the production schema and an in-memory object store
package testutil

import (
	"context"
	"fmt"
	"scholaflow/backend/db"
	"slices"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB opens a private in-memory SQLite database with every table migrated.
// It's closed when the test ends.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := gdb.DB()
	require.NoError(t, err)

	// One connection keeps the shared memory database alive and avoids
	// SQLITE_LOCKED between pooled connections
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.Migrate(gdb))

	t.Cleanup(func() { sqlDB.Close() })
	return gdb
}

// CountQueries counts every statement gorm runs on gdb from now on.
func CountQueries(gdb *gorm.DB) *atomic.Int64 {
	var n atomic.Int64
	inc := func(*gorm.DB) { n.Add(1) }

	gdb.Callback().Query().Before("gorm:query").Register("testutil:count_query", inc)
	gdb.Callback().Delete().Before("gorm:delete").Register("testutil:count_delete", inc)
	gdb.Callback().Create().Before("gorm:create").Register("testutil:count_create", inc)
	gdb.Callback().Update().Before("gorm:update").Register("testutil:count_update", inc)
	gdb.Callback().Raw().Before("gorm:raw").Register("testutil:count_raw", inc)
	gdb.Callback().Row().Before("gorm:row").Register("testutil:count_row", inc)

	return &n
}

// MemStorage is an in-memory storage.Remover. Objects have to be Put before
// they can be removed when Strict is set, mimicking stores that reject
// unknown paths.
type MemStorage struct {
	mu      sync.Mutex
	objects map[string]struct{}
	removed []string

	Strict bool
	// FailBucket makes every call against that bucket return FailErr
	FailBucket string
	FailErr    error
}

func NewMemStorage() *MemStorage {
	return &MemStorage{objects: make(map[string]struct{})}
}

func key(bucket, path string) string {
	return bucket + "/" + path
}

func (m *MemStorage) Put(bucket string, paths ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, p := range paths {
		m.objects[key(bucket, p)] = struct{}{}
	}
}

func (m *MemStorage) Has(bucket, path string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, ok := m.objects[key(bucket, path)]
	return ok
}

// Removed returns every "bucket/path" passed to a successful removal, in order.
func (m *MemStorage) Removed() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	return slices.Clone(m.removed)
}

func (m *MemStorage) Remove(ctx context.Context, bucket, path string) error {
	return m.RemoveMany(ctx, bucket, []string{path})
}

func (m *MemStorage) RemoveMany(_ context.Context, bucket string, paths []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailBucket != "" && m.FailBucket == bucket {
		return fmt.Errorf("failed to remove from bucket '%s', %w", bucket, m.FailErr)
	}

	if m.Strict {
		for _, p := range paths {
			if _, ok := m.objects[key(bucket, p)]; !ok {
				return fmt.Errorf("object %s not found", key(bucket, p))
			}
		}
	}

	for _, p := range paths {
		delete(m.objects, key(bucket, p))
		m.removed = append(m.removed, key(bucket, p))
	}

	return nil
}
