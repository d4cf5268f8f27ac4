package cmd

import (
	"context"

	"adaptive_edu_backend/internal/app"
	"adaptive_edu_backend/pkg/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd)
	},
}

func init() {
	serveCmd.Flags().String("seed", "", "Question bank file to import before serving")
}

func runServe(cmd *cobra.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	defer logger.Sync()

	application, err := app.NewApp(cfg)
	if err != nil {
		return err
	}

	// 根命令没有 --seed
	if f := cmd.Flags().Lookup("seed"); f != nil && f.Value.String() != "" {
		summary, err := application.SeedQuestionBank(context.Background(), f.Value.String())
		if err != nil {
			application.Close()
			return err
		}
		logger.Log.Info("Question bank seeded",
			zap.Int("subjects", summary.Subjects),
			zap.Int("questions", summary.Questions))
	}

	return application.Run()
}
