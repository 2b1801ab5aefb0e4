package kv

import (
	"context"
	"errors"
	"strconv"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Entry is the relational emulation of a key-value pair. Expiry is handled at
// the application level: expired rows are swept whenever their key is touched.
type Entry struct {
	Key       string `gorm:"primaryKey;type:varchar(255)"`
	Value     string `gorm:"type:text;not null"`
	ExpiresAt *time.Time
	UpdatedAt time.Time
}

// TableName maps the model to the kv_entries table.
func (Entry) TableName() string {
	return "kv_entries"
}

// GormStore emulates the Store over a relational table, for deployments
// without a dedicated cache service.
//
// SetNX is a transactional check-then-insert, not a single atomic write; the
// residual race window is narrower than the naive exists+setex pair but wider
// than the Redis primitive. Callers already treat locks as advisory.
type GormStore struct {
	db  *gorm.DB
	now func() time.Time
}

// NewGormStore creates a table-backed store.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db, now: time.Now}
}

// sweep deletes the row if it has expired. Returns the live entry, if any.
func (s *GormStore) sweep(ctx context.Context, key string) (*Entry, error) {
	var e Entry
	if err := s.db.WithContext(ctx).Where("key = ?", key).First(&e).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if e.ExpiresAt != nil && s.now().After(*e.ExpiresAt) {
		if err := s.db.WithContext(ctx).Delete(&Entry{}, "key = ?", key).Error; err != nil {
			return nil, err
		}
		return nil, nil
	}
	return &e, nil
}

func (s *GormStore) Get(ctx context.Context, key string) (string, error) {
	e, err := s.sweep(ctx, key)
	if err != nil {
		return "", err
	}
	if e == nil {
		return "", ErrNotFound
	}
	return e.Value, nil
}

func (s *GormStore) Set(ctx context.Context, key, value string) error {
	return s.upsert(ctx, key, value, nil)
}

func (s *GormStore) SetEx(ctx context.Context, key, value string, ttl time.Duration) error {
	exp := s.now().Add(ttl)
	return s.upsert(ctx, key, value, &exp)
}

func (s *GormStore) upsert(ctx context.Context, key, value string, expiresAt *time.Time) error {
	entry := Entry{Key: key, Value: value, ExpiresAt: expiresAt, UpdatedAt: s.now()}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "expires_at", "updated_at"}),
	}).Create(&entry).Error
}

func (s *GormStore) SetNX(ctx context.Context, key, value string, ttl time.Duration) (bool, error) {
	set := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		inner := &GormStore{db: tx, now: s.now}
		e, err := inner.sweep(ctx, key)
		if err != nil {
			return err
		}
		if e != nil {
			return nil
		}
		exp := s.now().Add(ttl)
		if err := tx.Create(&Entry{Key: key, Value: value, ExpiresAt: &exp, UpdatedAt: s.now()}).Error; err != nil {
			return err
		}
		set = true
		return nil
	})
	return set, err
}

func (s *GormStore) Incr(ctx context.Context, key string) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		inner := &GormStore{db: tx, now: s.now}
		e, err := inner.sweep(ctx, key)
		if err != nil {
			return err
		}
		if e != nil {
			parsed, err := strconv.ParseInt(e.Value, 10, 64)
			if err != nil {
				return err
			}
			n = parsed
		}
		n++
		var expiresAt *time.Time
		if e != nil {
			expiresAt = e.ExpiresAt
		}
		return inner.upsert(ctx, key, strconv.FormatInt(n, 10), expiresAt)
	})
	return n, err
}

func (s *GormStore) Exists(ctx context.Context, key string) (bool, error) {
	e, err := s.sweep(ctx, key)
	if err != nil {
		return false, err
	}
	return e != nil, nil
}

func (s *GormStore) Del(ctx context.Context, key string) error {
	return s.db.WithContext(ctx).Delete(&Entry{}, "key = ?", key).Error
}

func (s *GormStore) Expire(ctx context.Context, key string, ttl time.Duration) error {
	e, err := s.sweep(ctx, key)
	if err != nil {
		return err
	}
	if e == nil {
		return nil
	}
	exp := s.now().Add(ttl)
	return s.db.WithContext(ctx).Model(&Entry{}).Where("key = ?", key).
		Update("expires_at", exp).Error
}
