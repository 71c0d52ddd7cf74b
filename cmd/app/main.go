package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"MCQ-Quiz-Generator/internal/api"
	"MCQ-Quiz-Generator/internal/client"
	"MCQ-Quiz-Generator/internal/config"
	"MCQ-Quiz-Generator/internal/logger"
	"MCQ-Quiz-Generator/internal/repository"
	"MCQ-Quiz-Generator/internal/router"
	"MCQ-Quiz-Generator/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	zl, err := logger.New(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = zl.Sync() }()

	if cfg.AIService.APIKey == "" {
		zl.Warn("no API key configured; quiz generation will fail until OPENAI_API_KEY is set")
	}

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cat, err := repository.LoadCatalog(cfg.CatalogPath, zl)
	if err != nil {
		zl.Fatal("failed to load subject catalog", zap.Error(err))
	}

	chatClient := client.NewChatClient(
		cfg.AIService.BaseURL,
		cfg.AIService.APIKey,
		cfg.AIService.TimeoutSeconds,
		zl.Named("ai"),
	)
	questionService := service.NewQuestionService(chatClient, cat, cfg.AIService.Model, cfg.AIService.Temperature, zl.Named("questions"))

	sessions := repository.NewSessionRepository(zl.Named("sessions"))
	go sessions.RunPruner(ctx, cfg.Session.PruneInterval, cfg.Session.MaxIdle)

	quizService := service.NewQuizService(questionService, sessions, zl.Named("quiz"))

	tmpl, err := api.Templates()
	if err != nil {
		zl.Fatal("failed to parse templates", zap.Error(err))
	}
	quizHandler := api.NewQuizHandler(quizService, cat, zl.Named("api"))
	webHandler := api.NewWebHandler(quizService, cat, cfg.Session.CookieSecure, zl.Named("web"))

	r := router.SetupRouter(quizHandler, webHandler, tmpl, cfg.CORS.AllowedOrigins, zl.Named("http"))

	srv := &http.Server{
		Addr:    cfg.Server.Port,
		Handler: r,
	}

	go func() {
		zl.Info("server listening", zap.String("addr", "http://localhost"+cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zl.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zl.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zl.Error("graceful shutdown failed", zap.Error(err))
	}
}
