package db

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// QueryCache is a sqlite-backed store for raw query results.
type QueryCache struct {
	db  *gorm.DB
	now func() time.Time
}

// NewQueryCache wraps an opened database.
func NewQueryCache(gdb *gorm.DB) *QueryCache {
	return &QueryCache{db: gdb, now: time.Now}
}

// Get returns the payload stored under key if it has not expired.
func (c *QueryCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var entry CacheEntry
	err := c.db.WithContext(ctx).
		Where("cache_key = ? AND expires_at > ?", key, c.now().UTC()).
		First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return entry.Payload, true, nil
}

// Set upserts the payload with a fresh expiry.
func (c *QueryCache) Set(ctx context.Context, key, queryName string, payload []byte, ttl time.Duration) error {
	entry := CacheEntry{
		Key:       key,
		QueryName: queryName,
		Payload:   payload,
		ExpiresAt: c.now().UTC().Add(ttl),
	}
	return c.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "cache_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"query_name", "payload", "expires_at", "updated_at"}),
	}).Create(&entry).Error
}

// Purge deletes expired entries and returns how many were removed.
func (c *QueryCache) Purge(ctx context.Context) (int64, error) {
	res := c.db.WithContext(ctx).
		Where("expires_at <= ?", c.now().UTC()).
		Delete(&CacheEntry{})
	return res.RowsAffected, res.Error
}

// Invalidate drops every cached result of the named query, or all entries when name is empty.
func (c *QueryCache) Invalidate(ctx context.Context, queryName string) (int64, error) {
	tx := c.db.WithContext(ctx)
	if queryName == "" {
		tx = tx.Where("1 = 1")
	} else {
		tx = tx.Where("query_name = ?", queryName)
	}
	res := tx.Delete(&CacheEntry{})
	return res.RowsAffected, res.Error
}
