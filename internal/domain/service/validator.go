package service

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

// DefaultArticleCount 每个RSS源默认抓取的文章数量
const DefaultArticleCount = 3

// Validator 提供输入验证功能
type Validator struct{}

// NewValidator 创建新的验证器实例
func NewValidator() *Validator {
	return &Validator{}
}

// NormalizeArticleCount 将原始的文章数量输入归一化为正整数
// 缺失、非数字或非正数的输入一律替换为默认值
func (v *Validator) NormalizeArticleCount(raw string) int {
	count, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || count <= 0 {
		return DefaultArticleCount
	}
	return count
}

// ValidateOpmlPath 验证OPML文件路径安全性
func (v *Validator) ValidateOpmlPath(filePath string) error {
	// 检查文件路径是否为空
	if strings.TrimSpace(filePath) == "" {
		return errors.New("文件路径不能为空")
	}

	// 使用filepath.Clean清理路径
	cleanPath := filepath.Clean(filePath)

	// 检查路径是否包含目录遍历尝试
	if strings.Contains(cleanPath, "..") || strings.Contains(cleanPath, "~") {
		return fmt.Errorf("路径包含非法字符: %s", cleanPath)
	}

	// 检查文件扩展名
	if !strings.HasSuffix(strings.ToLower(cleanPath), ".opml") {
		return fmt.Errorf("只允许.OPML文件格式: %s", cleanPath)
	}

	// 验证文件是否存在且为普通文件
	info, err := os.Stat(cleanPath)
	if err != nil {
		return fmt.Errorf("文件访问失败: %w", err)
	}

	if info.IsDir() {
		return fmt.Errorf("路径指向目录而非文件: %s", cleanPath)
	}

	// 验证文件大小合理性（最大10MB限制）
	if info.Size() > 10*1024*1024 {
		return fmt.Errorf("文件过大(>10MB): %s", cleanPath)
	}

	return nil
}

// ValidateURL 验证RSS源URL合法性
func (v *Validator) ValidateURL(url string) error {
	if strings.TrimSpace(url) == "" {
		return errors.New("URL不能为空")
	}

	// 基本格式验证
	urlRegex := regexp.MustCompile(`^https?://[a-zA-Z0-9\-\.]+\.[a-zA-Z]{2,}(?:[/\w\.-]*)*/?$`)
	if !urlRegex.MatchString(url) {
		return fmt.Errorf("无效的URL格式: %s", url)
	}

	// 限制协议类型
	lowerURL := strings.ToLower(url)
	if !strings.HasPrefix(lowerURL, "http://") && !strings.HasPrefix(lowerURL, "https://") {
		return fmt.Errorf("只允许HTTP/HTTPS协议: %s", url)
	}

	// 黑名单检查 - 禁止访问内部网络
	blacklistDomains := []string{
		"localhost", "127.0.0.1", "0.0.0.0", "::1",
		"192.168.", "10.0.", "172.16.", "169.254.",
	}

	for _, banned := range blacklistDomains {
		if strings.Contains(lowerURL, banned) {
			return fmt.Errorf("禁止访问内部网络地址: %s", banned)
		}
	}

	return nil
}

// GetConfigValue 安全获取环境变量或默认配置值
func (v *Validator) GetConfigValue(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
