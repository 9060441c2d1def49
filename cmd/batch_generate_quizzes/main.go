package main

import (
	"context"
	"flag"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"tutorhub/internal/ai"
	"tutorhub/internal/config"
	"tutorhub/internal/database"
	"tutorhub/internal/domain"
	"tutorhub/internal/logger"
	"tutorhub/internal/repository"
	"tutorhub/internal/service"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Pre-generates quizzes for a list of topics so first-time users get an
// instant quiz instead of waiting on the model. Intended to run from cron.
func main() {
	userID := flag.String("user", "", "owner user id for the generated quizzes")
	topicsArg := flag.String("topics", "", "comma separated topics")
	count := flag.Int("count", 5, "questions per quiz")
	difficulty := flag.String("difficulty", domain.DifficultyMedium, "easy, medium or hard")
	concurrency := flag.Int("concurrency", 2, "concurrent generations")
	timeout := flag.Duration("timeout", 10*time.Minute, "overall run ceiling")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		return
	}

	if err := logger.Initialize(cfg.Logger); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		return
	}
	defer logger.Sync()
	appLogger := logger.Get()

	if *userID == "" || *topicsArg == "" {
		appLogger.Fatal("Both -user and -topics are required")
	}
	topics := strings.Split(*topicsArg, ",")

	db, err := database.NewSQLXOracleDB(cfg.GetDSN())
	if err != nil {
		appLogger.Fatal("Failed to connect to Oracle database", zap.Error(err))
	}
	defer db.Close()

	quizRepo := repository.NewSQLXQuizRepository(db)
	generator := ai.NewClient(cfg.AI, appLogger)
	promptBuilder := ai.NewPromptBuilder(cfg.AI.HistoryWindow, cfg.AI.CharBudget)
	quizService := service.NewQuizService(quizRepo, generator, promptBuilder)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(*concurrency)

	appLogger.Info("Batch quiz generation starting",
		zap.Int("topics", len(topics)),
		zap.Int("concurrency", *concurrency))

	var generated atomic.Int64
	for _, raw := range topics {
		topic := strings.TrimSpace(raw)
		if topic == "" {
			continue
		}
		g.Go(func() error {
			quiz, err := quizService.GenerateQuiz(ctx, *userID, domain.QuizSpec{
				Topic:         topic,
				QuestionCount: *count,
				Difficulty:    *difficulty,
			})
			if err != nil {
				// A single failed topic should not sink the whole run.
				appLogger.Warn("Topic skipped", zap.String("topic", topic), zap.Error(err))
				return nil
			}
			appLogger.Info("Quiz generated",
				zap.String("topic", topic),
				zap.String("quizID", quiz.ID),
				zap.Int("questions", len(quiz.Questions)))
			generated.Add(1)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		appLogger.Fatal("Batch run aborted", zap.Error(err))
	}
	appLogger.Info("Batch quiz generation finished", zap.Int64("generated", generated.Load()))
}
