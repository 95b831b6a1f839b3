package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	appservice "github.com/wolfitem/newsprompt/internal/application/service"
	"github.com/wolfitem/newsprompt/internal/domain/model"
	"github.com/wolfitem/newsprompt/internal/domain/service"
	"github.com/wolfitem/newsprompt/internal/infrastructure/database"
	"github.com/wolfitem/newsprompt/internal/infrastructure/logger"
	"github.com/wolfitem/newsprompt/internal/middleware"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "newsprompt",
	Short: "分类RSS新闻聚合与社交媒体内容提示词生成工具",
	Long: `NewsPrompt是一个基于Go语言的工具，按分类聚合固定的RSS新闻源，
限制每个源的文章数量，并与选定的提示词模板拼装为完整的文本块，
用于粘贴到下游的社交媒体内容生成器。聚合结果按(分类, 数量)缓存固定时长。`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	// 设置信号处理
	setupSignalHandler()

	err := rootCmd.Execute()
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	// 程序退出前同步日志
	defer logger.Sync()
}

func init() {
	cobra.OnInitialize(initConfig)

	// 全局标志
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "配置文件路径 (默认为 ./config.yaml)")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// 使用指定的配置文件
		viper.SetConfigFile(cfgFile)
	} else {
		// 在当前目录中查找配置文件
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	// 读取配置文件
	if err := viper.ReadInConfig(); err == nil {
		fmt.Println("使用配置文件:", viper.ConfigFileUsed())
	} else {
		fmt.Printf("无法读取配置文件，使用内置默认配置: %v\n", err)
	}

	// 初始化日志系统
	initLogger()

	// 读取环境变量
	viper.AutomaticEnv()
}

// initLogger 初始化日志系统
func initLogger() {
	// 从配置文件中读取日志配置
	logConfig := logger.Config{
		Level:      viper.GetString("logger.level"),
		Console:    viper.GetBool("logger.console"),
		FilePath:   viper.GetString("logger.file_path"),
		MaxSize:    viper.GetInt("logger.max_size"),
		MaxBackups: viper.GetInt("logger.max_backups"),
		MaxAge:     viper.GetInt("logger.max_age"),
		Compress:   viper.GetBool("logger.compress"),
	}

	// 初始化日志系统
	if err := logger.Init(logConfig); err != nil {
		fmt.Printf("初始化日志系统失败: %v\n", err)
	}
}

// setupSignalHandler 设置信号处理函数
func setupSignalHandler() {
	c := make(chan os.Signal, 1)
	// 监听 SIGINT (Ctrl+C) 和 SIGTERM 信号
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		fmt.Println("\n接收到中断信号，正在优雅退出...")
		// 执行清理工作
		logger.Info("程序接收到中断信号，正在清理资源")
		// 同步日志
		logger.Sync()
		// 退出程序
		os.Exit(0)
	}()
}

// appDependencies 聚合服务及其周边依赖
type appDependencies struct {
	aggregator appservice.AggregatorService
	registry   service.RegistryService
	prompts    service.PromptService
	metrics    *middleware.MetricsCollector
	cleanup    func()
}

// buildDependencies 根据配置构建聚合服务及其依赖
func buildDependencies() *appDependencies {
	// RSS源注册表：内置分类 + 配置覆盖 + OPML文件
	registry := service.NewRegistryService(
		viper.GetStringMapStringSlice("feeds.categories"),
		viper.GetStringMapString("feeds.opml"),
	)

	metrics := middleware.NewMetricsCollector()

	fetchConfig := model.FetchConfig{
		Timeout:   viper.GetInt("rss.timeout"),
		UserAgent: viper.GetString("rss.user_agent"),
	}
	feedService := service.NewFeedService(registry, fetchConfig, metrics)

	cache, cleanup := buildCache()
	prompts := service.NewPromptService()

	aggregator := appservice.NewAggregatorService(feedService, cache, prompts, metrics)

	return &appDependencies{
		aggregator: aggregator,
		registry:   registry,
		prompts:    prompts,
		metrics:    metrics,
		cleanup:    cleanup,
	}
}

// buildCache 根据配置构建缓存服务
// SQLite后端初始化失败时降级为内存缓存，缓存只是性能优化
func buildCache() (service.CacheService, func()) {
	ttlSeconds := viper.GetInt("cache.ttl_seconds")
	if ttlSeconds <= 0 {
		ttlSeconds = 300
	}
	ttl := time.Duration(ttlSeconds) * time.Second

	backend := viper.GetString("cache.backend")
	if backend == "sqlite" {
		dbPath := viper.GetString("cache.file_path")
		if dbPath == "" {
			dbPath = "data/newsprompt.db"
		}

		db := database.NewSQLiteDatabase(dbPath)
		if err := db.Init(); err != nil {
			logger.Error("初始化SQLite缓存失败，降级为内存缓存", "db_path", dbPath, "error", err)
			return service.NewMemoryCacheService(ttl), func() {}
		}

		logger.Info("使用SQLite缓存后端", "db_path", dbPath, "ttl_seconds", ttlSeconds)
		return service.NewSQLiteCacheService(db, ttl), func() {
			if err := db.Close(); err != nil {
				logger.Warn("关闭数据库连接失败", "error", err)
			}
		}
	}

	logger.Info("使用内存缓存后端", "ttl_seconds", ttlSeconds)
	return service.NewMemoryCacheService(ttl), func() {}
}
