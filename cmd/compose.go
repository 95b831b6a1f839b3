package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/wolfitem/newsprompt/internal/domain/service"
	"github.com/wolfitem/newsprompt/internal/infrastructure/logger"
	"github.com/wolfitem/newsprompt/internal/middleware"
)

var (
	composeCategory string
	composeCount    int
	composePrompt   string
	outputFile      string
)

// composeCmd represents the compose command
var composeCmd = &cobra.Command{
	Use:   "compose",
	Short: "聚合分类RSS新闻并生成内容提示词文本块",
	Long: `按分类聚合注册表中的RSS源，每个源截取指定数量的文章，
与选定的提示词模板拼装为完整的文本块并输出到stdout或文件。`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// 记录初始内存使用情况
		logger.LogMemStatsOnce()

		deps := buildDependencies()
		defer deps.cleanup()

		// 非法的文章数量归一化为默认值（核心层假定输入为正整数）
		count := service.NewValidator().NormalizeArticleCount(strconv.Itoa(composeCount))

		content := deps.aggregator.Compose(context.Background(), composeCategory, count, composePrompt)

		// 输出结果
		if outputFile == "" {
			fmt.Println(content)
		} else {
			// 确保输出目录存在
			outputDir := filepath.Dir(outputFile)
			if outputDir != "." {
				if err := os.MkdirAll(outputDir, 0755); err != nil {
					return fmt.Errorf("创建输出目录失败: %w", err)
				}
			}

			// 输出到文件
			if err := os.WriteFile(outputFile, []byte(content), 0644); err != nil {
				return fmt.Errorf("写入输出文件失败: %w", err)
			}
			fmt.Printf("内容已保存到: %s\n", outputFile)
		}

		middleware.LogMetrics(deps.metrics)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(composeCmd)

	// 本地标志
	composeCmd.Flags().StringVarP(&composeCategory, "category", "c", "cybersecurity", "新闻分类")
	composeCmd.Flags().IntVarP(&composeCount, "count", "n", service.DefaultArticleCount, "每个RSS源的文章数量")
	composeCmd.Flags().StringVarP(&composePrompt, "prompt", "p", "news_essay", "提示词模板类型")
	composeCmd.Flags().StringVarP(&outputFile, "output", "f", "", "输出文件路径（可选，默认为stdout）")
}
