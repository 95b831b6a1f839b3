package middleware

import (
	"fmt"
	"sync"
	"time"

	"github.com/wolfitem/newsprompt/internal/infrastructure/logger"
)

// MetricsCollector 收集聚合过程的性能指标
type MetricsCollector struct {
	mu sync.RWMutex

	startTime time.Time

	// RSS抓取统计
	feedFetches    int64
	feedFailures   int64
	fetchDurations []time.Duration

	// 缓存统计
	cacheHits   int64
	cacheMisses int64

	// 内容生成统计
	composes int64
}

// NewMetricsCollector 创建新的性能监控器
func NewMetricsCollector() *MetricsCollector {
	return &MetricsCollector{
		startTime:      time.Now(),
		fetchDurations: make([]time.Duration, 0, 1000),
	}
}

// RecordFeedFetch 记录一次RSS源抓取
func (m *MetricsCollector) RecordFeedFetch(duration time.Duration, success bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.feedFetches++
	if !success {
		m.feedFailures++
	}

	m.fetchDurations = append(m.fetchDurations, duration)
	if len(m.fetchDurations) > 1000 {
		m.fetchDurations = m.fetchDurations[1:]
	}
}

// RecordCacheHit 记录一次缓存命中
func (m *MetricsCollector) RecordCacheHit() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.cacheHits++
}

// RecordCacheMiss 记录一次缓存未命中
func (m *MetricsCollector) RecordCacheMiss() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.cacheMisses++
}

// RecordCompose 记录一次内容生成
func (m *MetricsCollector) RecordCompose() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.composes++
}

// GetReport 获取性能报告
func (m *MetricsCollector) GetReport() Report {
	m.mu.RLock()
	defer m.mu.RUnlock()

	upTime := time.Since(m.startTime)

	return Report{
		RuntimeInfo: RuntimeInfo{
			StartTime:  m.startTime,
			Uptime:     upTime,
			ProcessSec: int64(upTime.Seconds()),
		},
		FetchStats: FetchStats{
			TotalFetches:   m.feedFetches,
			Successful:     m.feedFetches - m.feedFailures,
			Failed:         m.feedFailures,
			SuccessRate:    m.calculateSuccessRate(),
			AverageLatency: m.getAverageFetchDuration().Milliseconds(),
		},
		CacheStats: CacheStats{
			Hits:    m.cacheHits,
			Misses:  m.cacheMisses,
			HitRate: m.calculateHitRate(),
		},
		ComposeStats: ComposeStats{
			TotalComposes: m.composes,
		},
	}
}

// getAverageFetchDuration 获取平均抓取响应时间
func (m *MetricsCollector) getAverageFetchDuration() time.Duration {
	if len(m.fetchDurations) == 0 {
		return 0
	}

	var total time.Duration
	for _, d := range m.fetchDurations {
		total += d
	}
	return total / time.Duration(len(m.fetchDurations))
}

// calculateSuccessRate 计算抓取成功率
func (m *MetricsCollector) calculateSuccessRate() float64 {
	if m.feedFetches == 0 {
		return 100.0
	}
	return float64(m.feedFetches-m.feedFailures) / float64(m.feedFetches) * 100
}

// calculateHitRate 计算缓存命中率
func (m *MetricsCollector) calculateHitRate() float64 {
	total := m.cacheHits + m.cacheMisses
	if total == 0 {
		return 0
	}
	return float64(m.cacheHits) / float64(total) * 100
}

// Report 运行时报告
type Report struct {
	RuntimeInfo  RuntimeInfo  `json:"runtime"`
	FetchStats   FetchStats   `json:"fetch"`
	CacheStats   CacheStats   `json:"cache"`
	ComposeStats ComposeStats `json:"compose"`
}

// RuntimeInfo 运行时信息
type RuntimeInfo struct {
	StartTime  time.Time     `json:"start_time"`
	Uptime     time.Duration `json:"uptime"`
	ProcessSec int64         `json:"process_sec"`
}

// FetchStats RSS抓取统计信息
type FetchStats struct {
	TotalFetches   int64   `json:"total_fetches"`
	Successful     int64   `json:"successful"`
	Failed         int64   `json:"failed"`
	SuccessRate    float64 `json:"success_rate"`
	AverageLatency int64   `json:"average_latency_ms"`
}

// CacheStats 缓存统计
type CacheStats struct {
	Hits    int64   `json:"hits"`
	Misses  int64   `json:"misses"`
	HitRate float64 `json:"hit_rate"`
}

// ComposeStats 内容生成统计
type ComposeStats struct {
	TotalComposes int64 `json:"total_composes"`
}

// LogMetrics 记录指标到日志
func LogMetrics(metrics *MetricsCollector) {
	report := metrics.GetReport()
	logger.Info("📊 性能上报",
		"start_time", report.RuntimeInfo.StartTime,
		"uptime", report.RuntimeInfo.Uptime,
		"feed_fetches", report.FetchStats.TotalFetches,
		"fetch_success_rate", fmt.Sprintf("%.2f%%", report.FetchStats.SuccessRate),
		"fetch_avg_latency", fmt.Sprintf("%dms", report.FetchStats.AverageLatency),
		"cache_hits", report.CacheStats.Hits,
		"cache_misses", report.CacheStats.Misses,
		"cache_hit_rate", fmt.Sprintf("%.2f%%", report.CacheStats.HitRate),
		"composes", report.ComposeStats.TotalComposes,
	)
}
