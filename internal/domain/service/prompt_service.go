package service

import (
	"sort"

	"github.com/wolfitem/newsprompt/internal/infrastructure/logger"
)

// DefaultPromptType 未知模板类型时回退使用的模板
const DefaultPromptType = "serious"

// PromptService 定义提示词模板注册表接口
type PromptService interface {
	// Lookup 按类型查找提示词模板，未知类型回退到默认模板
	Lookup(promptType string) string

	// Types 返回所有可用的模板类型（按字典序排序）
	Types() []string
}

// promptTemplates 内置的提示词模板，用于生成社交媒体内容
var promptTemplates = map[string]string{
	"satirical": `
Create catchy, satirical social media posts using the provided news articles.
For each article, generate a witty and humorous headline that critiques or pokes fun at the subject in a lighthearted way.
Keep the tone entertaining and shareable, while avoiding offensive material. Limit the content to 520 characters or less.
Include the URL for each original article at the end for readers to follow the full story.
`,
	"serious": `
Create punchy, serious news posts for social media from the provided articles.
For each article, craft an engaging headline and a brief summary focusing on the key facts or updates.
Make the content clear, direct, and shareable in 520 characters or less.
Add the URL for each original article to allow readers to explore the full story.
`,
	"breaking_news": `
Create a breaking news-style post for social media using the provided articles.
For each article, write a bold and attention-grabbing headline that highlights the most urgent or shocking aspect of the news.
Summarize the core of the story in a concise, engaging way that can fit within 520 characters.
Include the URL for each original article so readers can follow for more details.
`,
	"trend_summary": `
Create trending topic posts for Instagram or Facebook using the provided articles.
For each article, summarize the key points with a captivating headline and a brief description that will catch the reader's attention in under 520 characters.
Make sure the post is visually engaging and shareable, and include a URL to the original news article for more information.
`,
	"news_essay": `
Create a comprehensive yet social-media-friendly news post using the provided articles.
For each article, generate a quick but insightful headline and a 520 characters description focusing on the main news angles.
Make it suitable for both Twitter and Facebook, linking to the original article for users to read more.
Keep it concise and actionable in 280 characters or less.
`,
}

// promptService 实现PromptService接口
type promptService struct{}

// NewPromptService 创建一个新的提示词模板服务实例
func NewPromptService() PromptService {
	return &promptService{}
}

// Lookup 按类型查找提示词模板
func (s *promptService) Lookup(promptType string) string {
	if template, ok := promptTemplates[promptType]; ok {
		return template
	}

	// 未知类型回退到默认模板
	logger.Warn("未知的提示词模板类型，使用默认模板", "prompt_type", promptType, "default", DefaultPromptType)
	return promptTemplates[DefaultPromptType]
}

// Types 返回所有可用的模板类型
func (s *promptService) Types() []string {
	types := make([]string, 0, len(promptTemplates))
	for promptType := range promptTemplates {
		types = append(types, promptType)
	}
	sort.Strings(types)
	return types
}
