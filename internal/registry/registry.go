// Package registry is the append-only channel attribution log. Writes never
// deduplicate; reads project distinct values.
package registry

import (
	"context"
	"fmt"
	"time"

	"github.com/pcoptima/channels-collector/db"
	"github.com/pcoptima/channels-collector/db/models"
	"gorm.io/gorm"
)

// StorageError wraps any persistence failure. The caller is expected to
// discard the in-flight record and report the failure; there is no retry at
// this layer.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string { return fmt.Sprintf("storage %s: %v", e.Op, e.Err) }
func (e *StorageError) Unwrap() error { return e.Err }

type Registry struct {
	gdb *gorm.DB
	now func() time.Time
}

type Option func(*Registry)

// WithClock overrides the record timestamp source.
func WithClock(now func() time.Time) Option {
	return func(r *Registry) { r.now = now }
}

func New(gdb *gorm.DB, opts ...Option) *Registry {
	r := &Registry{gdb: gdb, now: time.Now}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// EnsureSchema creates the channels table when missing. Idempotent.
func (r *Registry) EnsureSchema() error {
	if err := db.AutoMigrate(r.gdb); err != nil {
		return &StorageError{Op: "migrate", Err: err}
	}
	return nil
}

// Insert appends one attribution record and assigns its id and timestamp.
// Each insert is its own transaction; on error nothing is written.
func (r *Registry) Insert(ctx context.Context, rec *models.Channel) error {
	if rec == nil {
		return &StorageError{Op: "insert", Err: fmt.Errorf("nil record")}
	}
	if rec.ChannelURL == "" {
		return &StorageError{Op: "insert", Err: fmt.Errorf("empty channel_url")}
	}
	if rec.ObservedAt.IsZero() {
		rec.ObservedAt = r.now().UTC()
	}
	if err := r.gdb.WithContext(ctx).Create(rec).Error; err != nil {
		return &StorageError{Op: "insert", Err: err}
	}
	return nil
}

// DistinctURLs returns every distinct channel_url ever inserted.
func (r *Registry) DistinctURLs(ctx context.Context) ([]string, error) {
	return r.distinct(ctx, "channel_url")
}

// DistinctNames returns every distinct channel_name ever inserted.
func (r *Registry) DistinctNames(ctx context.Context) ([]string, error) {
	return r.distinct(ctx, "channel_name")
}

func (r *Registry) distinct(ctx context.Context, column string) ([]string, error) {
	var values []string
	err := r.gdb.WithContext(ctx).
		Model(&models.Channel{}).
		Distinct(column).
		Order(column).
		Pluck(column, &values).Error
	if err != nil {
		return nil, &StorageError{Op: "select distinct " + column, Err: err}
	}
	return values, nil
}
