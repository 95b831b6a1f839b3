package service

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"
	"github.com/wolfitem/newsprompt/internal/domain/model"
	"github.com/wolfitem/newsprompt/internal/infrastructure/logger"
	"github.com/wolfitem/newsprompt/internal/middleware"
)

// 文章字段缺失时的占位符
const (
	DefaultTitle     = "No Title"
	DefaultSummary   = "No Description"
	DefaultPublished = "Unknown Date"
)

// FeedService 定义RSS聚合的领域服务接口
type FeedService interface {
	// FetchCategory 按注册表顺序抓取分类下的RSS源并返回规范化文章
	// 单个RSS源失败不会中断整个批次，分类不存在时返回空结果
	FetchCategory(ctx context.Context, category string, articleCount int) []model.Article
}

// feedService 实现FeedService接口
type feedService struct {
	registry RegistryService
	parser   *gofeed.Parser
	metrics  *middleware.MetricsCollector
}

// NewFeedService 创建一个新的RSS聚合服务实例
func NewFeedService(registry RegistryService, config model.FetchConfig, metrics *middleware.MetricsCollector) FeedService {
	// 设置配置，使用传入的配置或默认值
	timeout := 15
	if config.Timeout > 0 {
		timeout = config.Timeout
	}

	fp := gofeed.NewParser()
	// 设置单个RSS源的抓取超时时间，避免慢速服务器阻塞整个批次
	fp.Client = &http.Client{
		Timeout: time.Duration(timeout) * time.Second,
	}
	if config.UserAgent != "" {
		fp.UserAgent = config.UserAgent
	}

	return &feedService{
		registry: registry,
		parser:   fp,
		metrics:  metrics,
	}
}

// FetchCategory 按注册表顺序抓取分类下的RSS源并返回规范化文章
func (s *feedService) FetchCategory(ctx context.Context, category string, articleCount int) []model.Article {
	logger.Info("开始聚合分类RSS源", "category", category, "article_count", articleCount)
	defer logger.TimeTrack("FetchCategory")()

	feeds, ok := s.registry.Lookup(category)
	if !ok {
		// 未知分类返回空结果，与"全部源失败"在主契约上不作区分
		logger.Warn("未知的新闻分类", "category", category)
		return []model.Article{}
	}

	articles := make([]model.Article, 0, len(feeds)*articleCount)
	failedCount := 0

	// 按注册表顺序依次抓取，单个源失败只记录并跳过
	for _, feedURL := range feeds {
		result := s.fetchFeed(ctx, feedURL, articleCount)
		if result.Err != nil {
			failedCount++
			logger.Error("抓取RSS源失败，跳过该源", "category", category, "url", feedURL, "error", result.Err)
			continue
		}
		articles = append(articles, result.Articles...)
	}

	if failedCount == len(feeds) {
		logger.Warn("分类下所有RSS源均抓取失败", "category", category, "sources_count", len(feeds))
	}

	logger.Info("分类RSS源聚合完成",
		"category", category,
		"articles_count", len(articles),
		"sources_count", len(feeds),
		"failed_count", failedCount)
	return articles
}

// fetchFeed 抓取并解析单个RSS源，返回截断后的规范化文章
func (s *feedService) fetchFeed(ctx context.Context, feedURL string, articleCount int) model.FeedResult {
	start := time.Now()

	// 来源标签按RSS源推导一次，不按文章推导
	source, err := sourceLabel(feedURL)
	if err != nil {
		s.recordFetch(time.Since(start), false)
		return model.FeedResult{FeedURL: feedURL, Err: fmt.Errorf("解析RSS源URL失败: %w", err)}
	}

	logger.Debug("开始抓取RSS源", "url", feedURL, "source", source)

	feed, err := s.parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		s.recordFetch(time.Since(start), false)
		return model.FeedResult{FeedURL: feedURL, Err: fmt.Errorf("抓取或解析Feed失败: %w", err)}
	}
	s.recordFetch(time.Since(start), true)

	// 按Feed文档顺序取前articleCount条，不足时全部保留
	items := feed.Items
	if len(items) > articleCount {
		items = items[:articleCount]
	}

	articles := make([]model.Article, 0, len(items))
	for _, item := range items {
		articles = append(articles, newArticle(item, source))
	}

	logger.Debug("RSS源抓取完成", "url", feedURL, "articles_count", len(articles), "total_items", len(feed.Items))
	return model.FeedResult{FeedURL: feedURL, Articles: articles}
}

// recordFetch 记录单次抓取指标
func (s *feedService) recordFetch(duration time.Duration, success bool) {
	if s.metrics != nil {
		s.metrics.RecordFeedFetch(duration, success)
	}
}

// newArticle 将Feed条目规范化为文章，缺失字段使用占位符
func newArticle(item *gofeed.Item, source string) model.Article {
	article := model.Article{
		Title:     item.Title,
		Summary:   item.Description,
		Link:      item.Link,
		Published: item.Published,
		Source:    source,
	}

	if article.Title == "" {
		article.Title = DefaultTitle
	}
	if article.Summary == "" {
		article.Summary = DefaultSummary
	}
	if article.Published == "" {
		article.Published = DefaultPublished
	}

	return article
}

// sourceLabel 从RSS源URL推导来源标签，仅去掉开头的www.字面前缀
func sourceLabel(feedURL string) (string, error) {
	u, err := url.Parse(feedURL)
	if err != nil {
		return "", err
	}
	if u.Host == "" {
		return "", fmt.Errorf("URL缺少主机名: %s", feedURL)
	}
	return strings.TrimPrefix(u.Host, "www."), nil
}

// StripHTMLTags 去除HTML标签，只保留纯文本
func StripHTMLTags(html string) string {
	// 如果内容为空，直接返回
	if html == "" {
		return ""
	}

	// 使用goquery解析HTML
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		logger.Warn("解析HTML失败，返回原始内容", "error", err)
		return html
	}

	// 获取文本内容，去除HTML标签
	text := doc.Text()

	// 清理文本（去除多余的空白字符）
	text = strings.TrimSpace(text)
	// 将连续的空白字符替换为单个空格
	text = strings.Join(strings.Fields(text), " ")

	return text
}
