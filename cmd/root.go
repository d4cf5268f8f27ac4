package cmd

import (
	"adaptive_edu_backend/internal/config"
	"adaptive_edu_backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "adaptive-edu",
	Short: "Adaptive assessment and learning path backend",
	Long:  "adaptive-edu 基于贝叶斯知识追踪提供自适应测评、练习选题和个性化学习路径。",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd)
	},
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("config", "configs", "Directory containing config.yaml")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
}

// loadConfig 读取 --config 指定目录下的配置并初始化日志
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	dir, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadConfig(dir)
	if err != nil {
		return nil, err
	}
	logger.InitLogger(logger.Options{Debug: cfg.Server.Mode == gin.DebugMode})
	return cfg, nil
}
