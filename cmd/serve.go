package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/wolfitem/newsprompt/internal/domain/model"
	"github.com/wolfitem/newsprompt/internal/infrastructure/logger"
	"github.com/wolfitem/newsprompt/internal/server"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "启动HTTP服务对外提供聚合与内容生成接口",
	Long: `启动HTTP服务，提供分类新闻聚合、提示词拼装、分类与模板列表
以及健康检查和运行时指标接口。`,
	RunE: func(cmd *cobra.Command, args []string) error {
		deps := buildDependencies()
		defer deps.cleanup()

		// 长期运行的服务周期性记录内存使用情况
		interval := viper.GetInt("logger.memstats_interval")
		if interval <= 0 {
			interval = 300
		}
		monitor := logger.NewMemStatsMonitor(time.Duration(interval) * time.Second)
		monitor.Start()
		defer monitor.Stop()

		serverConfig := model.ServerConfig{
			Port:        viper.GetInt("server.port"),
			RateLimit:   viper.GetInt64("server.rate_limit"),
			RateWindow:  viper.GetInt("server.rate_window"),
			ReleaseMode: viper.GetBool("server.release_mode"),
		}

		srv := server.New(serverConfig, deps.aggregator, deps.registry, deps.prompts, deps.metrics)

		if err := srv.Run(); err != nil {
			logger.Error("HTTP服务异常退出", "error", err)
			return fmt.Errorf("HTTP服务异常退出: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
