package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/wolfitem/newsprompt/internal/domain/model"
	"github.com/wolfitem/newsprompt/internal/domain/service"
	"github.com/wolfitem/newsprompt/internal/infrastructure/logger"
	"github.com/wolfitem/newsprompt/internal/middleware"
)

// NoArticlesMessage 聚合结果为空时的用户可见提示
const NoArticlesMessage = "No articles found."

// AggregatorService 定义聚合器的应用服务接口
type AggregatorService interface {
	// AggregateCached 获取分类下的聚合文章，TTL窗口内返回缓存结果
	AggregateCached(ctx context.Context, category string, articleCount int) []model.Article

	// Compose 聚合文章并与提示词模板拼装为完整的文本块
	Compose(ctx context.Context, category string, articleCount int, promptType string) string
}

// aggregatorService 实现AggregatorService接口
type aggregatorService struct {
	feedService service.FeedService
	cache       service.CacheService
	prompts     service.PromptService
	metrics     *middleware.MetricsCollector
}

// NewAggregatorService 创建一个新的聚合器应用服务实例
// 缓存句柄由调用方注入，不依赖任何全局状态
func NewAggregatorService(feedService service.FeedService, cache service.CacheService, prompts service.PromptService, metrics *middleware.MetricsCollector) AggregatorService {
	return &aggregatorService{
		feedService: feedService,
		cache:       cache,
		prompts:     prompts,
		metrics:     metrics,
	}
}

// AggregateCached 获取分类下的聚合文章，TTL窗口内返回缓存结果
// 该函数是整个聚合流程的入口点，缓存只是性能优化，不改变逻辑结果
func (s *aggregatorService) AggregateCached(ctx context.Context, category string, articleCount int) []model.Article {
	if articles, ok := s.cache.Get(category, articleCount); ok {
		logger.Debug("缓存命中，跳过RSS抓取", "category", category, "article_count", articleCount)
		if s.metrics != nil {
			s.metrics.RecordCacheHit()
		}
		return articles
	}

	if s.metrics != nil {
		s.metrics.RecordCacheMiss()
	}

	articles := s.feedService.FetchCategory(ctx, category, articleCount)

	// 空结果同样缓存，避免TTL窗口内反复抓取失败的源
	s.cache.Set(category, articleCount, articles)

	return articles
}

// Compose 聚合文章并与提示词模板拼装为完整的文本块
func (s *aggregatorService) Compose(ctx context.Context, category string, articleCount int, promptType string) string {
	logger.Info("开始生成内容文本块", "category", category, "article_count", articleCount, "prompt_type", promptType)
	defer logger.TimeTrack("Compose")()

	if s.metrics != nil {
		s.metrics.RecordCompose()
	}

	articles := s.AggregateCached(ctx, category, articleCount)
	if len(articles) == 0 {
		logger.Info("没有找到文章", "category", category)
		return NoArticlesMessage
	}

	prompt := s.prompts.Lookup(promptType)

	// 拼装格式与文章块保持稳定，便于直接粘贴到下游内容生成器
	var blocks []string
	for _, article := range articles {
		block := fmt.Sprintf("**Title:** %s\n**Description:** %s\n**Published:** %s\n**Source:** %s\n**URL:** %s\n",
			service.StripHTMLTags(article.Title),
			service.StripHTMLTags(article.Summary),
			article.Published,
			article.Source,
			article.Link)
		blocks = append(blocks, block)
	}

	content := fmt.Sprintf("%s\n\n%s", strings.TrimSpace(prompt), strings.Join(blocks, "\n"))

	logger.Info("内容文本块生成完成", "category", category, "articles_count", len(articles), "content_length", len(content))
	return content
}
