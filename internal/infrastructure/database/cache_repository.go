package database

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/wolfitem/newsprompt/internal/infrastructure/logger"
)

// CacheEntry 表示一条缓存记录
type CacheEntry struct {
	Key       string    // 缓存键
	Payload   string    // 序列化后的聚合结果
	CreatedAt time.Time // 创建时间
	ExpiresAt time.Time // 过期时间
}

// CacheRepository 定义缓存存储库接口
type CacheRepository interface {
	// SaveEntry 保存缓存记录，键已存在时覆盖
	SaveEntry(key, payload string, expiresAt time.Time) error
	// GetEntry 根据键获取缓存记录，不存在时返回nil
	GetEntry(key string) (*CacheEntry, error)
	// DeleteExpired 删除所有已过期的缓存记录
	DeleteExpired(now time.Time) (int64, error)
	// EntryCount 获取缓存记录总数
	EntryCount() (int64, error)
}

// SQLiteCacheRepository 实现CacheRepository接口的SQLite存储库
type SQLiteCacheRepository struct {
	db Database
}

// NewSQLiteCacheRepository 创建一个新的SQLite缓存存储库
func NewSQLiteCacheRepository(db Database) CacheRepository {
	return &SQLiteCacheRepository{
		db: db,
	}
}

// SaveEntry 保存缓存记录到数据库
func (r *SQLiteCacheRepository) SaveEntry(key, payload string, expiresAt time.Time) error {
	logger.Debug("保存缓存记录", "key", key, "expires_at", expiresAt)

	query := `
	INSERT INTO cache_entries (cache_key, payload, created_at, expires_at)
	VALUES (?, ?, ?, ?)
	ON CONFLICT(cache_key) DO UPDATE SET
		payload = excluded.payload,
		created_at = excluded.created_at,
		expires_at = excluded.expires_at
	`

	_, err := r.db.Exec(query, key, payload, time.Now(), expiresAt)
	if err != nil {
		logger.Error("保存缓存记录失败", "key", key, "error", err)
		return fmt.Errorf("保存缓存记录失败: %w", err)
	}

	return nil
}

// GetEntry 根据键获取缓存记录
func (r *SQLiteCacheRepository) GetEntry(key string) (*CacheEntry, error) {
	logger.Debug("查询缓存记录", "key", key)

	query := "SELECT cache_key, payload, created_at, expires_at FROM cache_entries WHERE cache_key = ?"
	row := r.db.QueryRow(query, key)

	var entry CacheEntry
	err := row.Scan(&entry.Key, &entry.Payload, &entry.CreatedAt, &entry.ExpiresAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		logger.Error("查询缓存记录失败", "key", key, "error", err)
		return nil, fmt.Errorf("查询缓存记录失败: %w", err)
	}

	return &entry, nil
}

// DeleteExpired 删除所有已过期的缓存记录
func (r *SQLiteCacheRepository) DeleteExpired(now time.Time) (int64, error) {
	result, err := r.db.Exec("DELETE FROM cache_entries WHERE expires_at <= ?", now)
	if err != nil {
		logger.Error("删除过期缓存记录失败", "error", err)
		return 0, fmt.Errorf("删除过期缓存记录失败: %w", err)
	}

	count, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("获取删除记录数失败: %w", err)
	}

	logger.Debug("已删除过期缓存记录", "count", count)
	return count, nil
}

// EntryCount 获取缓存记录总数
func (r *SQLiteCacheRepository) EntryCount() (int64, error) {
	var count int64
	err := r.db.QueryRow("SELECT COUNT(*) FROM cache_entries").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("查询缓存记录数失败: %w", err)
	}
	return count, nil
}
