package service

import (
	"strings"
	"testing"
)

func TestPromptLookup(t *testing.T) {
	prompts := NewPromptService()

	satirical := prompts.Lookup("satirical")
	if !strings.Contains(satirical, "satirical") {
		t.Errorf("satirical 模板内容异常: %q", satirical)
	}

	breaking := prompts.Lookup("breaking_news")
	if !strings.Contains(breaking, "breaking news") {
		t.Errorf("breaking_news 模板内容异常: %q", breaking)
	}
}

func TestPromptLookupFallback(t *testing.T) {
	prompts := NewPromptService()

	// 未知类型回退到默认模板
	got := prompts.Lookup("unknown_type")
	if got != prompts.Lookup(DefaultPromptType) {
		t.Error("未知模板类型应回退到默认模板")
	}
}

func TestPromptTypes(t *testing.T) {
	prompts := NewPromptService()

	types := prompts.Types()
	want := []string{"breaking_news", "news_essay", "satirical", "serious", "trend_summary"}
	if len(types) != len(want) {
		t.Fatalf("模板类型数量 = %d, 期望 %d", len(types), len(want))
	}
	for i, name := range want {
		if types[i] != name {
			t.Errorf("types[%d] = %q, 期望 %q", i, types[i], name)
		}
	}
}
