package service

import (
	"fmt"
	"sort"

	"github.com/gilliek/go-opml/opml"
	"github.com/wolfitem/newsprompt/internal/infrastructure/logger"
)

// RegistryService 定义分类RSS源注册表接口
type RegistryService interface {
	// Lookup 按分类名查找有序的RSS源列表，分类不存在时返回false
	Lookup(category string) ([]string, bool)

	// Categories 返回所有已注册的分类名（按字典序排序）
	Categories() []string
}

// defaultFeeds 内置的分类RSS源注册表
var defaultFeeds = map[string][]string{
	"cybersecurity": {
		"https://news.ycombinator.com/rss",
		"https://www.infosecurity-magazine.com/rss/news/",
		"https://krebsonsecurity.com/feed/",
		"https://nakedsecurity.sophos.com/feed/",
		"https://www.schneier.com/blog/index.rdf",
		"https://threatpost.com/feed/",
	},
	"general": {
		"https://rss.nytimes.com/services/xml/rss/nyt/HomePage.xml",
		"https://feeds.bbci.co.uk/news/rss.xml",
		"https://www.theguardian.com/world/rss",
	},
}

// registryService 实现RegistryService接口
type registryService struct {
	categories map[string][]string
}

// NewRegistryService 创建一个新的注册表实例
// configured中的分类会覆盖内置分类，opmlFiles中的分类从OPML文件加载RSS源
func NewRegistryService(configured map[string][]string, opmlFiles map[string]string) RegistryService {
	categories := make(map[string][]string, len(defaultFeeds))
	for category, urls := range defaultFeeds {
		categories[category] = urls
	}

	validator := NewValidator()

	// 配置中的分类覆盖内置分类
	for category, urls := range configured {
		valid := filterValidURLs(category, urls, validator)
		if len(valid) == 0 {
			// 分类不允许映射到空列表，空分类视为不存在
			logger.Warn("配置的分类没有可用的RSS源，已忽略", "category", category)
			delete(categories, category)
			continue
		}
		categories[category] = valid
	}

	// 从OPML文件加载分类
	for category, opmlFile := range opmlFiles {
		urls, err := loadOpmlFeeds(opmlFile)
		if err != nil {
			logger.Error("加载OPML文件失败，已忽略该分类", "category", category, "file", opmlFile, "error", err)
			continue
		}
		valid := filterValidURLs(category, urls, validator)
		if len(valid) == 0 {
			logger.Warn("OPML文件没有可用的RSS源，已忽略该分类", "category", category, "file", opmlFile)
			continue
		}
		categories[category] = valid
		logger.Info("已从OPML文件加载分类", "category", category, "file", opmlFile, "sources_count", len(valid))
	}

	return &registryService{categories: categories}
}

// Lookup 按分类名查找有序的RSS源列表
func (r *registryService) Lookup(category string) ([]string, bool) {
	urls, ok := r.categories[category]
	return urls, ok
}

// Categories 返回所有已注册的分类名
func (r *registryService) Categories() []string {
	names := make([]string, 0, len(r.categories))
	for category := range r.categories {
		names = append(names, category)
	}
	sort.Strings(names)
	return names
}

// filterValidURLs 过滤掉非法的RSS源URL
func filterValidURLs(category string, urls []string, validator *Validator) []string {
	valid := make([]string, 0, len(urls))
	for _, url := range urls {
		if err := validator.ValidateURL(url); err != nil {
			logger.Warn("RSS源URL非法，已跳过", "category", category, "url", url, "error", err)
			continue
		}
		valid = append(valid, url)
	}
	return valid
}

// loadOpmlFeeds 解析OPML文件并返回其中的RSS源URL列表
func loadOpmlFeeds(opmlFilePath string) ([]string, error) {
	if err := NewValidator().ValidateOpmlPath(opmlFilePath); err != nil {
		return nil, err
	}

	doc, err := opml.NewOPMLFromFile(opmlFilePath)
	if err != nil {
		return nil, fmt.Errorf("解析OPML文件失败: %w", err)
	}

	var urls []string
	for _, outline := range doc.Outlines() {
		urls = append(urls, extractFeedURLs(outline)...)
	}
	return urls, nil
}

// extractFeedURLs 递归提取outline中的RSS源URL
func extractFeedURLs(outline opml.Outline) []string {
	var urls []string

	// 如果当前outline有xmlUrl属性，则它是一个RSS源
	if outline.XMLURL != "" {
		urls = append(urls, outline.XMLURL)
	}

	// 递归处理子outline
	for _, child := range outline.Outlines {
		urls = append(urls, extractFeedURLs(child)...)
	}

	return urls
}
