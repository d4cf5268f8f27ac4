package cmd

import (
	"errors"
	"fmt"
	"os"

	"adaptive_edu_backend/internal/repository"
	"adaptive_edu_backend/internal/service"
	"adaptive_edu_backend/pkg/database"
	"adaptive_edu_backend/pkg/logger"

	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Import a question bank YAML file",
	Long:  "Import subjects, skills, questions and learners from a YAML file. Existing records with the same id are updated.",
	RunE: func(cmd *cobra.Command, args []string) error {
		file, _ := cmd.Flags().GetString("file")
		if file == "" {
			return errors.New("--file is required")
		}

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		defer logger.Sync()

		db, err := database.InitDB(&cfg.Database)
		if err != nil {
			return err
		}
		if sqlDB, err := db.DB(); err == nil {
			defer sqlDB.Close()
		}
		if err := database.Migrate(db); err != nil {
			return err
		}

		f, err := os.Open(file)
		if err != nil {
			return err
		}
		defer f.Close()

		users := repository.NewUserRepository(db)
		bank := service.NewQuestionBankService(repository.NewQuestionRepository(db), users)
		summary, err := bank.ImportYAML(cmd.Context(), f)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Imported %d subjects, %d skills, %d questions, %d learners\n",
			summary.Subjects, summary.Skills, summary.Questions, summary.Learners)
		return nil
	},
}

func init() {
	seedCmd.Flags().StringP("file", "f", "configs/question_bank.yaml", "Question bank file")
}
