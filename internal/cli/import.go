package cli

import (
	"fmt"
	"os"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"quiz-session-service/internal/config"
	"quiz-session-service/internal/domain"
	pgloader "quiz-session-service/internal/infra/postgres"
)

// NewImportCmd loads quiz documents from YAML files into Postgres.
func NewImportCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "import-quiz FILE...",
		Short: "Import quizzes from YAML files into Postgres",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			if cfg.Postgres.URL == "" {
				return fmt.Errorf("postgres url not configured")
			}
			logger := newLogger(cfg)

			pool, err := pgxpool.Connect(cmd.Context(), cfg.Postgres.URL)
			if err != nil {
				return err
			}
			defer pool.Close()
			loader := pgloader.NewQuizLoader(pool)

			for _, path := range args {
				quiz, err := readQuizFile(path)
				if err != nil {
					return err
				}
				if err := loader.SaveQuiz(cmd.Context(), quiz); err != nil {
					return err
				}
				logger.Info("quiz imported", "quiz", quiz.ID, "questions", len(quiz.Questions), "file", path)
			}
			return nil
		},
	}
}

// quizFile is the on-disk YAML shape of a quiz.
type quizFile struct {
	ID          string `yaml:"id"`
	OwnerID     string `yaml:"owner"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Questions   []struct {
		ID       string `yaml:"id"`
		Prompt   string `yaml:"question"`
		Duration int    `yaml:"duration"`
		Points   int    `yaml:"points"`
		Answers  []struct {
			ID      string `yaml:"id"`
			Text    string `yaml:"answer"`
			Colour  string `yaml:"colour"`
			Correct bool   `yaml:"correct"`
		} `yaml:"answers"`
	} `yaml:"questions"`
}

func readQuizFile(path string) (domain.Quiz, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Quiz{}, err
	}
	var f quizFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return domain.Quiz{}, fmt.Errorf("parse %s: %w", path, err)
	}
	if f.ID == "" {
		return domain.Quiz{}, fmt.Errorf("%s: quiz id is required", path)
	}

	quiz := domain.Quiz{ID: f.ID, OwnerID: f.OwnerID, Name: f.Name, Description: f.Description}
	for _, q := range f.Questions {
		question := domain.Question{ID: q.ID, Prompt: q.Prompt, Duration: q.Duration, Points: q.Points}
		for _, a := range q.Answers {
			question.Answers = append(question.Answers, domain.Answer{
				ID: a.ID, Text: a.Text, Colour: a.Colour, Correct: a.Correct,
			})
		}
		quiz.Questions = append(quiz.Questions, question)
	}
	return quiz, nil
}
