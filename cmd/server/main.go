package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/Aariyan007/personal-expense-tracker/internal/api"
	"github.com/Aariyan007/personal-expense-tracker/internal/api/controller"
	"github.com/Aariyan007/personal-expense-tracker/internal/config"
	"github.com/Aariyan007/personal-expense-tracker/internal/infrastructure/database"
	"github.com/Aariyan007/personal-expense-tracker/internal/infrastructure/embedding"
	"github.com/Aariyan007/personal-expense-tracker/internal/infrastructure/llm"
	"github.com/Aariyan007/personal-expense-tracker/internal/infrastructure/vectordb"
	"github.com/Aariyan007/personal-expense-tracker/internal/model"
	"github.com/Aariyan007/personal-expense-tracker/internal/ragcontext"
	"github.com/Aariyan007/personal-expense-tracker/internal/repository"
	"github.com/Aariyan007/personal-expense-tracker/internal/service"
	"github.com/gin-gonic/gin"
)

// @title           Personal Expense Tracker API
// @version         1.0
// @description     Expense tracking with LLM-assisted extraction and analysis.

// @host            localhost:8080
// @BasePath        /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		AddSource: true,
		Level:     slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	slog.Info("expense tracker starting")

	conf, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("cannot load config: %v", err)
	}

	// Infrastructure.
	db := database.NewMySQLConnection(conf.Database.DSN)

	var provider llm.Provider
	if conf.LLM.APIKey != "" {
		provider = llm.NewOpenAIClient(conf.LLM.APIKey, conf.LLM.BaseURL, conf.LLM.Model, model.CategoryNames())
	} else {
		slog.Warn("no LLM key configured, pipeline runs on the deterministic fallback")
	}

	var embedder embedding.Provider
	var memoryRepo repository.MemoryRepo
	if conf.Qdrant.Enabled {
		vecClient, err := vectordb.NewQdrantClient(conf.Qdrant.Host, conf.Qdrant.Port, conf.Qdrant.CollectionName)
		if err != nil {
			log.Fatalf("cannot init vector db: %v", err)
		}
		defer vecClient.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := vecClient.InitCollection(ctx); err != nil {
			cancel()
			log.Fatalf("cannot init qdrant collection: %v", err)
		}
		cancel()

		embedder = embedding.NewOpenAIClient(conf.OpenAI.APIKey, conf.OpenAI.BaseURL, conf.OpenAI.Model)
		memoryRepo = vectordb.NewQdrantRepository(vecClient)
	}

	// Repositories.
	expenseRepo := repository.NewExpenseRepo(db)
	aiExpenseRepo := repository.NewAIExpenseRepo(db)
	userRepo := repository.NewUserRepository(db)
	goalRepo := repository.NewGoalRepo(db)

	// Context builder and cache.
	cache := ragcontext.NewCache(
		time.Duration(conf.Context.CacheTTLMinutes)*time.Minute,
		conf.Context.CacheMaxEntries,
	)
	builderCfg := ragcontext.BuilderConfig{
		MaxContextSize:    conf.Context.MaxContextSize,
		IncludeAIExpenses: conf.Context.IncludeAIExpenses,
		TimeRangeMonths:   conf.Context.TimeRangeMonths,
		CategoryBudget:    conf.Context.CategoryBudget,
		AmountBudget:      conf.Context.AmountBudget,
		TemporalBudget:    conf.Context.TemporalBudget,
		AIBudget:          conf.Context.AIBudget,
	}
	scoring := ragcontext.DefaultScoringConfig()
	scoring.MinAIConfidence = conf.Context.SimilarityThreshold
	builder := ragcontext.NewBuilder(expenseRepo, aiExpenseRepo, cache, builderCfg, scoring)

	// Services and controllers.
	expenseSvc := service.NewExpenseService(expenseRepo, aiExpenseRepo, builder, provider, embedder, memoryRepo)
	authSvc := service.NewAuthService(userRepo)
	goalSvc := service.NewGoalService(goalRepo)

	r := gin.Default()
	api.RegisterRoutes(r,
		controller.NewAuthController(authSvc),
		controller.NewExpenseController(expenseSvc),
		controller.NewGoalController(goalSvc),
	)

	slog.Info("server listening", "port", conf.Server.Port)
	if err := r.Run(conf.Server.Port); err != nil {
		slog.Error("server exited", "error", err)
	}
}
