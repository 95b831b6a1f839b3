package model

// Article 表示一篇规范化后的文章
type Article struct {
	Title     string `json:"title"`     // 文章标题，缺失时为"No Title"
	Summary   string `json:"summary"`   // 文章摘要，缺失时为"No Description"
	Link      string `json:"link"`      // 原文链接
	Published string `json:"published"` // 发布日期原始文本，缺失时为"Unknown Date"
	Source    string `json:"source"`    // 来源域名（去掉www.前缀）
}

// FeedResult 表示单个RSS源的抓取结果
type FeedResult struct {
	FeedURL  string    // RSS源URL
	Articles []Article // 抓取到的文章
	Err      error     // 抓取或解析错误，成功时为nil
}

// ComposeParams 包含一次聚合与内容生成的所有参数
type ComposeParams struct {
	Category     string // 新闻分类
	ArticleCount int    // 每个RSS源的文章数量
	PromptType   string // 提示词模板类型
	OutputFile   string // 输出文件路径
}

// FetchConfig 包含RSS抓取的配置信息
type FetchConfig struct {
	Timeout   int    // 单个RSS源的抓取超时时间（秒）
	UserAgent string // 请求使用的User-Agent
}

// CacheConfig 包含缓存的配置信息
type CacheConfig struct {
	Backend    string // 缓存后端: memory 或 sqlite
	TTLSeconds int    // 缓存过期时间（秒）
	FilePath   string // SQLite数据库文件路径
}

// ServerConfig 包含HTTP服务的配置信息
type ServerConfig struct {
	Port        int   // 监听端口
	RateLimit   int64 // 速率限制窗口内的最大请求数
	RateWindow  int   // 速率限制窗口（秒）
	ReleaseMode bool  // 是否使用release模式
}
