// @title TutorHub API
// @version 1.0
// @description Multi-user learning assistant: tutor chat, quizzes, resources, and roadmaps.
// @host localhost:8080
// @BasePath /api
// @schemes http https
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
// @description Type 'Bearer YOUR_JWT_TOKEN' to authorize.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"tutorhub/internal/adapter"
	"tutorhub/internal/ai"
	"tutorhub/internal/cache"
	"tutorhub/internal/config"
	"tutorhub/internal/database"
	"tutorhub/internal/handler"
	"tutorhub/internal/logger"
	"tutorhub/internal/middleware"
	"tutorhub/internal/repository"
	"tutorhub/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	"go.uber.org/zap"
)

// requestLogger is a middleware that logs HTTP requests
func requestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		path := c.Path()
		method := c.Method()

		err := c.Next()

		duration := time.Since(start)
		status := c.Response().StatusCode()

		logger.Get().Info("HTTP Request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", status),
			zap.Duration("duration", duration),
			zap.String("ip", c.IP()),
			zap.String("user_agent", c.Get("User-Agent")),
		)

		return err
	}
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Initialize(cfg.Logger); err != nil {
		panic(err)
	}
	appLogger := logger.Get()
	defer logger.Sync()

	// Connect to database
	db, err := database.NewSQLXOracleDB(cfg.GetDSN())
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}

	// Initialize repositories
	userRepository := repository.NewSQLXUserRepository(db)
	chatRepository := repository.NewSQLXChatRepository(db)
	quizRepository := repository.NewSQLXQuizRepository(db)
	resourceRepository := repository.NewSQLXResourceRepository(db)
	roadmapRepository := repository.NewSQLXRoadmapRepository(db)

	// Initialize Redis
	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		appLogger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	appLogger.Info("Successfully connected to Redis")
	cacheAdapter := adapter.NewRedisCacheAdapter(redisClient)

	// Initialize the generation pipeline
	generator := ai.NewClient(cfg.AI, appLogger)
	promptBuilder := ai.NewPromptBuilder(cfg.AI.HistoryWindow, cfg.AI.CharBudget)
	appLogger.Info("Generation client initialized", zap.String("endpoint", cfg.AI.Endpoint))

	// Initialize services
	authService, err := service.NewAuthService(userRepository, cfg)
	if err != nil {
		appLogger.Fatal("Failed to create AuthService", zap.Error(err))
	}
	userService := service.NewUserService(userRepository)
	chatService := service.NewChatService(chatRepository, generator, promptBuilder)
	quizService := service.NewQuizService(quizRepository, generator, promptBuilder)
	resourceService := service.NewResourceService(resourceRepository, generator, promptBuilder, cacheAdapter, cfg.CacheTTL.ResourceSearch)
	roadmapService := service.NewRoadmapService(roadmapRepository, generator, promptBuilder, cacheAdapter, cfg.CacheTTL.Roadmap)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService, cfg)
	userHandler := handler.NewUserHandler(userService)
	chatHandler := handler.NewChatHandler(chatService)
	quizHandler := handler.NewQuizHandler(quizService)
	resourceHandler := handler.NewResourceHandler(resourceService)
	roadmapHandler := handler.NewRoadmapHandler(roadmapService)

	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  20 * time.Second,
		BodyLimit:    10 * 1024 * 1024,
		ErrorHandler: middleware.ErrorHandler(),
	})

	app.Use(requestLogger())
	app.Use(cors.New(cors.Config{AllowOrigins: "*", AllowMethods: "GET,POST,PATCH,PUT,DELETE,OPTIONS", AllowHeaders: "Origin,Content-Type,Accept,Authorization", MaxAge: 300}))
	app.Use(recover.New())

	app.Get("/swagger/*", swagger.HandlerDefault)

	apiGroup := app.Group("/api")

	// Auth routes
	authGroup := apiGroup.Group("/auth")
	authGroup.Get("/google/login", authHandler.GoogleLogin)
	authGroup.Get("/google/callback", authHandler.GoogleCallback)
	authGroup.Post("/refresh", authHandler.RefreshToken)
	authGroup.Post("/logout", middleware.Protected(authService), authHandler.Logout)

	// User routes
	userGroup := apiGroup.Group("/users", middleware.Protected(authService))
	userGroup.Get("/me", userHandler.GetMyProfile)

	// Chat routes
	chatGroup := apiGroup.Group("/chats", middleware.Protected(authService))
	chatGroup.Post("/", chatHandler.CreateChat)
	chatGroup.Get("/", chatHandler.ListChats)
	chatGroup.Get("/:id", chatHandler.GetChat)
	chatGroup.Patch("/:id", chatHandler.RenameChat)
	chatGroup.Delete("/:id", chatHandler.DeleteChat)
	chatGroup.Post("/:id/messages", chatHandler.SendMessage)

	// Quiz routes
	quizGroup := apiGroup.Group("/quizzes", middleware.Protected(authService))
	quizGroup.Post("/", quizHandler.GenerateQuiz)
	quizGroup.Get("/", quizHandler.ListQuizzes)
	quizGroup.Get("/:id", quizHandler.GetQuiz)
	quizGroup.Post("/:id/submit", quizHandler.SubmitQuiz)
	quizGroup.Delete("/:id", quizHandler.DeleteQuiz)

	// Resource routes
	resourceGroup := apiGroup.Group("/resources", middleware.Protected(authService))
	resourceGroup.Post("/search", resourceHandler.SearchResources)
	resourceGroup.Post("/", resourceHandler.SaveResource)
	resourceGroup.Get("/", resourceHandler.ListResources)
	resourceGroup.Get("/:id", resourceHandler.GetResource)
	resourceGroup.Delete("/:id", resourceHandler.DeleteResource)

	// Roadmap routes
	roadmapGroup := apiGroup.Group("/roadmaps", middleware.Protected(authService))
	roadmapGroup.Post("/generate", roadmapHandler.GenerateRoadmap)
	roadmapGroup.Post("/", roadmapHandler.SaveRoadmap)
	roadmapGroup.Get("/", roadmapHandler.ListRoadmaps)
	roadmapGroup.Get("/:id", roadmapHandler.GetRoadmap)
	roadmapGroup.Delete("/:id", roadmapHandler.DeleteRoadmap)

	go func() {
		appLogger.Info("Starting server", zap.Int("port", cfg.Server.Port), zap.String("env", os.Getenv("ENV")))
		if err := app.Listen(":" + strconv.Itoa(cfg.Server.Port)); err != nil {
			appLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(ctx); err != nil {
		appLogger.Fatal("Server forced to shutdown", zap.Error(err))
	}
	appLogger.Info("Server exited gracefully")
}
