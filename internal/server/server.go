package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	appservice "github.com/wolfitem/newsprompt/internal/application/service"
	"github.com/wolfitem/newsprompt/internal/domain/model"
	"github.com/wolfitem/newsprompt/internal/domain/service"
	"github.com/wolfitem/newsprompt/internal/infrastructure/logger"
	"github.com/wolfitem/newsprompt/internal/middleware"
)

// Server 提供聚合与内容生成的HTTP服务
type Server struct {
	engine     *gin.Engine
	config     model.ServerConfig
	aggregator appservice.AggregatorService
	registry   service.RegistryService
	prompts    service.PromptService
	validator  *service.Validator
	metrics    *middleware.MetricsCollector
	limiter    *middleware.RateLimiter
}

// New 创建一个新的HTTP服务实例
func New(config model.ServerConfig, aggregator appservice.AggregatorService, registry service.RegistryService, prompts service.PromptService, metrics *middleware.MetricsCollector) *Server {
	// 设置配置，使用传入的配置或默认值
	if config.Port <= 0 {
		config.Port = 5000
	}
	if config.RateLimit <= 0 {
		config.RateLimit = 120
	}
	if config.RateWindow <= 0 {
		config.RateWindow = 60
	}

	if config.ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		config:     config,
		aggregator: aggregator,
		registry:   registry,
		prompts:    prompts,
		validator:  service.NewValidator(),
		metrics:    metrics,
		limiter:    middleware.NewRateLimiter(config.RateLimit, time.Duration(config.RateWindow)*time.Second),
	}
	s.engine = s.setupRouter()
	return s
}

// setupRouter 初始化路由
func (s *Server) setupRouter() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	// 配置CORS
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowMethods = []string{"GET", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept"}
	r.Use(cors.New(corsConfig))

	api := r.Group("/api/v1")
	api.Use(s.rateLimitMiddleware())
	{
		api.GET("/news", s.handleNews)
		api.GET("/compose", s.handleCompose)
		api.GET("/categories", s.handleCategories)
		api.GET("/prompts", s.handlePrompts)
		api.GET("/metrics", s.handleMetrics)
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "healthy", "timestamp": time.Now()})
		})
	}

	return r
}

// rateLimitMiddleware 请求限流中间件
func (s *Server) rateLimitMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !s.limiter.Check() {
			err := &middleware.RateLimitError{Status: s.limiter.GetStatus()}
			logger.Warn("请求触发限流", "path", c.Request.URL.Path, "error", err)
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"success": false,
				"error":   err.Error(),
			})
			return
		}
		c.Next()
	}
}

// Engine 返回底层gin引擎
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// Run 启动HTTP服务并阻塞
func (s *Server) Run() error {
	addr := fmt.Sprintf(":%d", s.config.Port)
	logger.Info("启动HTTP服务", "addr", addr)
	if err := s.engine.Run(addr); err != nil {
		return fmt.Errorf("HTTP服务启动失败: %w", err)
	}
	return nil
}
