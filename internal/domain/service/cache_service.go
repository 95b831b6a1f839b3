package service

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/wolfitem/newsprompt/internal/domain/model"
	"github.com/wolfitem/newsprompt/internal/infrastructure/database"
	"github.com/wolfitem/newsprompt/internal/infrastructure/logger"
)

// CacheService 定义聚合结果缓存接口
// 缓存以(分类, 数量)为键，仅通过TTL过期失效，不提供手动失效
type CacheService interface {
	// Get 获取缓存的聚合结果，未命中或已过期时返回false
	Get(category string, articleCount int) ([]model.Article, bool)

	// Set 以固定TTL缓存聚合结果
	Set(category string, articleCount int, articles []model.Article)

	// CleanExpired 清理过期缓存项
	CleanExpired() error

	// Stats 获取缓存统计
	Stats() CacheStats
}

// CacheStats 缓存统计信息
type CacheStats struct {
	TotalItems int64
	Hits       int64
	Misses     int64
	HitRate    float64
}

// CacheKey 生成(分类, 数量)的缓存键
func CacheKey(category string, articleCount int) string {
	return fmt.Sprintf("%s:%d", category, articleCount)
}

// memoryCacheService 基于内存map的缓存实现
type memoryCacheService struct {
	mu      sync.RWMutex
	entries map[string]memoryCacheEntry
	ttl     time.Duration

	hits   int64
	misses int64
}

// memoryCacheEntry 单个内存缓存项
type memoryCacheEntry struct {
	articles  []model.Article
	expiresAt time.Time
}

// NewMemoryCacheService 创建基于内存的缓存服务
func NewMemoryCacheService(ttl time.Duration) CacheService {
	return &memoryCacheService{
		entries: make(map[string]memoryCacheEntry),
		ttl:     ttl,
	}
}

// Get 获取缓存的聚合结果
func (c *memoryCacheService) Get(category string, articleCount int) ([]model.Article, bool) {
	key := CacheKey(category, articleCount)

	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		c.misses++
		return nil, false
	}

	// 过期项在读取时惰性删除
	if time.Now().After(entry.expiresAt) {
		delete(c.entries, key)
		c.misses++
		logger.Debug("缓存项已过期", "key", key)
		return nil, false
	}

	c.hits++
	return entry.articles, true
}

// Set 以固定TTL缓存聚合结果
func (c *memoryCacheService) Set(category string, articleCount int, articles []model.Article) {
	key := CacheKey(category, articleCount)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = memoryCacheEntry{
		articles:  articles,
		expiresAt: time.Now().Add(c.ttl),
	}
	logger.Debug("聚合结果已写入缓存", "key", key, "articles_count", len(articles), "ttl", c.ttl)
}

// CleanExpired 清理过期缓存项
func (c *memoryCacheService) CleanExpired() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	cleaned := 0
	for key, entry := range c.entries {
		if now.After(entry.expiresAt) {
			delete(c.entries, key)
			cleaned++
		}
	}

	if cleaned > 0 {
		logger.Info("已清理过期缓存项", "cleaned_count", cleaned)
	}
	return nil
}

// Stats 获取缓存统计
func (c *memoryCacheService) Stats() CacheStats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	stats := CacheStats{
		TotalItems: int64(len(c.entries)),
		Hits:       c.hits,
		Misses:     c.misses,
	}
	if total := c.hits + c.misses; total > 0 {
		stats.HitRate = float64(c.hits) / float64(total) * 100
	}
	return stats
}

// sqliteCacheService 基于SQLite的缓存实现
// 存储层故障只降级为缓存未命中，不影响聚合调用本身
type sqliteCacheService struct {
	repo database.CacheRepository
	ttl  time.Duration

	mu     sync.Mutex
	hits   int64
	misses int64
}

// NewSQLiteCacheService 创建基于SQLite的缓存服务
func NewSQLiteCacheService(db database.Database, ttl time.Duration) CacheService {
	return &sqliteCacheService{
		repo: database.NewSQLiteCacheRepository(db),
		ttl:  ttl,
	}
}

// Get 获取缓存的聚合结果
func (c *sqliteCacheService) Get(category string, articleCount int) ([]model.Article, bool) {
	key := CacheKey(category, articleCount)

	entry, err := c.repo.GetEntry(key)
	if err != nil {
		// 缓存故障降级为未命中，由调用方重新聚合
		logger.Error("读取缓存失败，降级为直接聚合", "key", key, "error", err)
		c.recordMiss()
		return nil, false
	}
	if entry == nil || time.Now().After(entry.ExpiresAt) {
		c.recordMiss()
		return nil, false
	}

	var articles []model.Article
	if err := json.Unmarshal([]byte(entry.Payload), &articles); err != nil {
		logger.Error("反序列化缓存数据失败，降级为直接聚合", "key", key, "error", err)
		c.recordMiss()
		return nil, false
	}

	c.recordHit()
	return articles, true
}

// Set 以固定TTL缓存聚合结果
func (c *sqliteCacheService) Set(category string, articleCount int, articles []model.Article) {
	key := CacheKey(category, articleCount)

	payload, err := json.Marshal(articles)
	if err != nil {
		logger.Error("序列化聚合结果失败，跳过缓存写入", "key", key, "error", err)
		return
	}

	if err := c.repo.SaveEntry(key, string(payload), time.Now().Add(c.ttl)); err != nil {
		// 写入失败不影响本次调用结果
		logger.Error("写入缓存失败", "key", key, "error", err)
		return
	}
	logger.Debug("聚合结果已写入缓存", "key", key, "articles_count", len(articles), "ttl", c.ttl)
}

// CleanExpired 清理过期缓存项
func (c *sqliteCacheService) CleanExpired() error {
	count, err := c.repo.DeleteExpired(time.Now())
	if err != nil {
		return fmt.Errorf("清理过期缓存失败: %w", err)
	}
	if count > 0 {
		logger.Info("已清理过期缓存项", "cleaned_count", count)
	}
	return nil
}

// Stats 获取缓存统计
func (c *sqliteCacheService) Stats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()

	stats := CacheStats{
		Hits:   c.hits,
		Misses: c.misses,
	}
	if count, err := c.repo.EntryCount(); err == nil {
		stats.TotalItems = count
	}
	if total := c.hits + c.misses; total > 0 {
		stats.HitRate = float64(c.hits) / float64(total) * 100
	}
	return stats
}

func (c *sqliteCacheService) recordHit() {
	c.mu.Lock()
	c.hits++
	c.mu.Unlock()
}

func (c *sqliteCacheService) recordMiss() {
	c.mu.Lock()
	c.misses++
	c.mu.Unlock()
}
