package service

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/wolfitem/newsprompt/internal/domain/model"
)

// newTestRegistry 直接构造注册表，绕过URL校验以便使用httptest地址
func newTestRegistry(categories map[string][]string) RegistryService {
	return &registryService{categories: categories}
}

func rssFeed(title string, items ...string) string {
	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0"><channel><title>%s</title>%s</channel></rss>`, title, strings.Join(items, ""))
}

func rssItem(title, link, desc, pubDate string) string {
	var b strings.Builder
	b.WriteString("<item>")
	if title != "" {
		fmt.Fprintf(&b, "<title>%s</title>", title)
	}
	if link != "" {
		fmt.Fprintf(&b, "<link>%s</link>", link)
	}
	if desc != "" {
		fmt.Fprintf(&b, "<description>%s</description>", desc)
	}
	if pubDate != "" {
		fmt.Fprintf(&b, "<pubDate>%s</pubDate>", pubDate)
	}
	b.WriteString("</item>")
	return b.String()
}

func serveXML(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		fmt.Fprint(w, body)
	}
}

func TestFetchCategoryRegistryOrderAndTruncation(t *testing.T) {
	mux := http.NewServeMux()
	mux.Handle("/a", serveXML(rssFeed("Feed A",
		rssItem("A1", "https://example.com/a1", "d1", "Mon, 01 Jan 2024 00:00:00 GMT"),
		rssItem("A2", "https://example.com/a2", "d2", "Tue, 02 Jan 2024 00:00:00 GMT"),
		rssItem("A3", "https://example.com/a3", "d3", "Wed, 03 Jan 2024 00:00:00 GMT"),
	)))
	mux.Handle("/b", serveXML(rssFeed("Feed B",
		rssItem("B1", "https://example.com/b1", "d4", "Thu, 04 Jan 2024 00:00:00 GMT"),
	)))
	ts := httptest.NewServer(mux)
	defer ts.Close()

	registry := newTestRegistry(map[string][]string{
		"tech": {ts.URL + "/a", ts.URL + "/b"},
	})
	svc := NewFeedService(registry, model.FetchConfig{}, nil)

	articles := svc.FetchCategory(context.Background(), "tech", 2)

	// 每个源最多2条，按注册表顺序再按Feed文档顺序
	want := []string{"A1", "A2", "B1"}
	if len(articles) != len(want) {
		t.Fatalf("文章数量 = %d, 期望 %d", len(articles), len(want))
	}
	for i, title := range want {
		if articles[i].Title != title {
			t.Errorf("articles[%d].Title = %q, 期望 %q", i, articles[i].Title, title)
		}
	}
}

func TestFetchCategoryUnknownCategory(t *testing.T) {
	registry := newTestRegistry(map[string][]string{})
	svc := NewFeedService(registry, model.FetchConfig{}, nil)

	articles := svc.FetchCategory(context.Background(), "nonexistent", 3)
	if len(articles) != 0 {
		t.Fatalf("未知分类应返回空结果，实际返回 %d 条", len(articles))
	}
}

func TestFetchCategoryFeedFailureIsolation(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/bad", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "internal error", http.StatusInternalServerError)
	})
	mux.Handle("/broken", serveXML("this is not xml at all"))
	mux.Handle("/good", serveXML(rssFeed("Good Feed",
		rssItem("G1", "https://example.com/g1", "d", ""),
		rssItem("G2", "https://example.com/g2", "d", ""),
	)))
	ts := httptest.NewServer(mux)
	defer ts.Close()

	registry := newTestRegistry(map[string][]string{
		"mixed": {ts.URL + "/bad", ts.URL + "/broken", ts.URL + "/good"},
	})
	svc := NewFeedService(registry, model.FetchConfig{}, nil)

	articles := svc.FetchCategory(context.Background(), "mixed", 5)

	// 失败的源只贡献零条文章，不中断批次
	if len(articles) != 2 {
		t.Fatalf("文章数量 = %d, 期望 2", len(articles))
	}
	if articles[0].Title != "G1" || articles[1].Title != "G2" {
		t.Errorf("文章顺序错误: %q, %q", articles[0].Title, articles[1].Title)
	}
}

func TestFetchCategoryFewerEntriesThanCount(t *testing.T) {
	ts := httptest.NewServer(serveXML(rssFeed("Short Feed",
		rssItem("Only", "https://example.com/only", "d", ""),
	)))
	defer ts.Close()

	registry := newTestRegistry(map[string][]string{"short": {ts.URL}})
	svc := NewFeedService(registry, model.FetchConfig{}, nil)

	// 源只有1条时返回1条，不补齐也不报错
	articles := svc.FetchCategory(context.Background(), "short", 2)
	if len(articles) != 1 {
		t.Fatalf("文章数量 = %d, 期望 1", len(articles))
	}
}

func TestArticleFieldDefaults(t *testing.T) {
	ts := httptest.NewServer(serveXML(rssFeed("Sparse Feed",
		rssItem("", "https://example.com/sparse", "", ""),
	)))
	defer ts.Close()

	registry := newTestRegistry(map[string][]string{"sparse": {ts.URL}})
	svc := NewFeedService(registry, model.FetchConfig{}, nil)

	articles := svc.FetchCategory(context.Background(), "sparse", 1)
	if len(articles) != 1 {
		t.Fatalf("文章数量 = %d, 期望 1", len(articles))
	}

	article := articles[0]
	if article.Title != DefaultTitle {
		t.Errorf("Title = %q, 期望 %q", article.Title, DefaultTitle)
	}
	if article.Summary != DefaultSummary {
		t.Errorf("Summary = %q, 期望 %q", article.Summary, DefaultSummary)
	}
	if article.Published != DefaultPublished {
		t.Errorf("Published = %q, 期望 %q", article.Published, DefaultPublished)
	}
	if article.Link != "https://example.com/sparse" {
		t.Errorf("Link = %q", article.Link)
	}
}

func TestFetchCategoryParsesAtom(t *testing.T) {
	atom := `<?xml version="1.0" encoding="utf-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <title>Atom Feed</title>
  <entry>
    <title>Atom Entry</title>
    <link href="https://example.com/atom1"/>
    <summary>atom summary</summary>
    <published>2024-01-01T00:00:00Z</published>
    <updated>2024-01-01T00:00:00Z</updated>
  </entry>
</feed>`
	ts := httptest.NewServer(serveXML(atom))
	defer ts.Close()

	registry := newTestRegistry(map[string][]string{"atom": {ts.URL}})
	svc := NewFeedService(registry, model.FetchConfig{}, nil)

	articles := svc.FetchCategory(context.Background(), "atom", 3)
	if len(articles) != 1 {
		t.Fatalf("文章数量 = %d, 期望 1", len(articles))
	}
	if articles[0].Title != "Atom Entry" {
		t.Errorf("Title = %q", articles[0].Title)
	}
	if articles[0].Link != "https://example.com/atom1" {
		t.Errorf("Link = %q", articles[0].Link)
	}
}

func TestSourceLabel(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://www.krebsonsecurity.com/feed/", "krebsonsecurity.com"},
		{"https://nakedsecurity.sophos.com/feed/", "nakedsecurity.sophos.com"},
		{"https://news.ycombinator.com/rss", "news.ycombinator.com"},
		{"http://www.example.com/rss.xml", "example.com"},
	}

	for _, tt := range tests {
		got, err := sourceLabel(tt.url)
		if err != nil {
			t.Errorf("sourceLabel(%q) 返回错误: %v", tt.url, err)
			continue
		}
		if got != tt.want {
			t.Errorf("sourceLabel(%q) = %q, 期望 %q", tt.url, got, tt.want)
		}
	}
}

func TestSourceLabelInvalidURL(t *testing.T) {
	if _, err := sourceLabel("not-a-url"); err == nil {
		t.Error("缺少主机名的URL应返回错误")
	}
}

func TestStripHTMLTags(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"<p>hello <b>world</b></p>", "hello world"},
		{"plain text", "plain text"},
		{"", ""},
		{"<div>  multiple   spaces  </div>", "multiple spaces"},
	}

	for _, tt := range tests {
		if got := StripHTMLTags(tt.input); got != tt.want {
			t.Errorf("StripHTMLTags(%q) = %q, 期望 %q", tt.input, got, tt.want)
		}
	}
}
