package db

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open 打开本地缓存数据库并执行自动迁移。
// path 为空时返回错误：缓存默认关闭，只有显式配置时才会启用。
func Open(path string) (*gorm.DB, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("cache database path is required")
	}

	if err := ensureParentDir(path); err != nil {
		return nil, err
	}

	gdb, err := gorm.Open(sqlite.Open(withBusyTimeout(path)), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	// 首页并发加载会同时写缓存，sqlite 只允许单写者，统一走一个连接。
	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)

	if err := Migrate(gdb); err != nil {
		return nil, err
	}
	return gdb, nil
}

const busyTimeoutMillis = 5000

func withBusyTimeout(path string) string {
	if strings.Contains(path, "_busy_timeout=") {
		return path
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return fmt.Sprintf("%s%s_busy_timeout=%d", path, sep, busyTimeoutMillis)
}

// Migrate 为缓存模型创建表。
func Migrate(gdb *gorm.DB) error {
	return gdb.AutoMigrate(&CacheEntry{})
}

func ensureParentDir(path string) error {
	if strings.HasPrefix(path, "file:") {
		return nil
	}

	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}

	info, err := os.Stat(dir)
	if err == nil {
		if !info.IsDir() {
			return errors.New("database path parent is not a directory")
		}
		return nil
	}

	if os.IsNotExist(err) {
		return os.MkdirAll(dir, 0o755)
	}

	return err
}
