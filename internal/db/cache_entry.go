package db

import "time"

// CacheEntry 存储一次内容查询的原始结果，Key 由查询文本、参数与视角共同决定。
type CacheEntry struct {
	Key       string `gorm:"column:cache_key;primaryKey;size:64"`
	QueryName string `gorm:"size:100;index"`
	Payload   []byte
	ExpiresAt time.Time `gorm:"index"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName 自定义表名以保持命名一致。
func (CacheEntry) TableName() string {
	return "content_cache_entries"
}
