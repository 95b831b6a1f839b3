package service

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNormalizeArticleCount(t *testing.T) {
	v := NewValidator()

	tests := []struct {
		raw  string
		want int
	}{
		{"", DefaultArticleCount},
		{"abc", DefaultArticleCount},
		{"0", DefaultArticleCount},
		{"-2", DefaultArticleCount},
		{"3.5", DefaultArticleCount},
		{"5", 5},
		{" 7 ", 7},
	}

	for _, tt := range tests {
		if got := v.NormalizeArticleCount(tt.raw); got != tt.want {
			t.Errorf("NormalizeArticleCount(%q) = %d, 期望 %d", tt.raw, got, tt.want)
		}
	}
}

func TestValidateURL(t *testing.T) {
	v := NewValidator()

	valid := []string{
		"https://krebsonsecurity.com/feed/",
		"https://www.schneier.com/blog/index.rdf",
		"http://feeds.bbci.co.uk/news/rss.xml",
	}
	for _, url := range valid {
		if err := v.ValidateURL(url); err != nil {
			t.Errorf("ValidateURL(%q) 不应报错: %v", url, err)
		}
	}

	invalid := []string{
		"",
		"not a url",
		"ftp://example.com/feed",
		"https://localhost/feed",
		"http://127.0.0.1:8080/rss",
	}
	for _, url := range invalid {
		if err := v.ValidateURL(url); err == nil {
			t.Errorf("ValidateURL(%q) 应报错", url)
		}
	}
}

func TestValidateOpmlPath(t *testing.T) {
	v := NewValidator()

	opmlFile := filepath.Join(t.TempDir(), "subs.opml")
	if err := os.WriteFile(opmlFile, []byte("<opml/>"), 0644); err != nil {
		t.Fatalf("写入测试文件失败: %v", err)
	}

	if err := v.ValidateOpmlPath(opmlFile); err != nil {
		t.Errorf("合法OPML路径不应报错: %v", err)
	}
	if err := v.ValidateOpmlPath(""); err == nil {
		t.Error("空路径应报错")
	}
	if err := v.ValidateOpmlPath("feeds.txt"); err == nil {
		t.Error("非.opml扩展名应报错")
	}
	if err := v.ValidateOpmlPath("/nonexistent/feeds.opml"); err == nil {
		t.Error("不存在的文件应报错")
	}
}
