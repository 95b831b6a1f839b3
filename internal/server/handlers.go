package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// handleNews 返回分类下的聚合文章列表
func (s *Server) handleNews(c *gin.Context) {
	category := c.Query("category")
	if category == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "缺少category参数",
		})
		return
	}

	// 非法的文章数量由调用方归一化为默认值，核心层假定输入合法
	count := s.validator.NormalizeArticleCount(c.Query("count"))

	articles := s.aggregator.AggregateCached(c.Request.Context(), category, count)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    articles,
		"count":   len(articles),
	})
}

// handleCompose 返回提示词与聚合文章拼装后的文本块
func (s *Server) handleCompose(c *gin.Context) {
	category := c.Query("category")
	if category == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "缺少category参数",
		})
		return
	}

	count := s.validator.NormalizeArticleCount(c.Query("count"))
	promptType := c.Query("prompt")

	content := s.aggregator.Compose(c.Request.Context(), category, count, promptType)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"content": content,
	})
}

// handleCategories 返回所有可用的新闻分类
func (s *Server) handleCategories(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"categories": s.registry.Categories(),
	})
}

// handlePrompts 返回所有可用的提示词模板类型
func (s *Server) handlePrompts(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"prompts": s.prompts.Types(),
	})
}

// handleMetrics 返回运行时性能报告
func (s *Server) handleMetrics(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"report":  s.metrics.GetReport(),
	})
}
