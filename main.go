package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"github.com/daybook/backend/internal/client"
	"github.com/daybook/backend/internal/config"
	"github.com/daybook/backend/internal/db"
	"github.com/daybook/backend/internal/handler"
	"github.com/daybook/backend/internal/service"
)

// @title Daybook API
// @version 1.0
// @description Personal journaling backend: todos, diary entries and the end-of-day rollup.
func main() {
	// .env 파일은 로컬 개발용, 없어도 무방
	_ = godotenv.Load()

	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := db.RunMigrations(ctx); err != nil {
		log.Fatalf("[Init] migrations failed: %v", err)
	}

	pool, err := db.NewPostgresPool(ctx)
	if err != nil {
		log.Fatalf("[Init] postgres connection failed: %v", err)
	}
	defer pool.Close()
	repo := &db.Postgres{Pool: pool}

	authService, err := service.NewAuthService(repo, cfg.Auth)
	if err != nil {
		log.Fatalf("[Init] auth config invalid: %v", err)
	}
	userService := service.NewUserService(repo)
	todoService := service.NewTodoService(repo)

	var embeddingService *service.EmbeddingService
	if embeddingClient, err := client.NewEmbeddingClient(cfg.AI); err != nil {
		log.Printf("[Init] embeddings disabled: %v", err)
	} else {
		embeddingService = service.NewEmbeddingService(repo, embeddingClient)
	}

	var storage service.ImageStore
	if storageClient, err := client.NewStorageClient(ctx, cfg.Storage); err != nil {
		log.Printf("[Init] image storage disabled: %v", err)
	} else {
		storage = storageClient
	}

	diaryService := service.NewDiaryService(repo, storage, embeddingService)
	eodService := service.NewEODService(repo)

	var oauthHandler *handler.OAuthHandler
	if oidcService, err := service.NewOIDCService(ctx, repo, cfg.OIDC); err != nil {
		log.Printf("[Init] google sign-in disabled: %v", err)
	} else {
		oauthHandler = handler.NewOAuthHandler(oidcService, authService, cfg.Server.ClientURL)
	}

	router := gin.Default()
	router.Use(handler.CORSMiddleware(cfg.Server.AllowedOrigins, true))

	router.GET("/", handler.Root)
	router.GET("/ping", handler.Ping)
	router.GET("/openapi.json", handler.OpenAPIDoc)

	authHandler := handler.NewAuthHandler(authService, userService)
	userHandler := handler.NewUserHandler(userService)
	todoHandler := handler.NewTodoHandler(todoService)
	diaryHandler := handler.NewDiaryHandler(diaryService)
	dashboardHandler := handler.NewDashboardHandler(repo)

	api := router.Group("/api/v1")

	users := api.Group("/users")
	users.POST("/register", authHandler.Register)
	users.POST("/login", authHandler.Login)
	users.POST("/logout", authHandler.Logout)
	users.GET("/token", authHandler.Refresh)
	if oauthHandler != nil {
		users.GET("/google/login", oauthHandler.GoogleLogin)
		users.GET("/google/callback", oauthHandler.GoogleCallback)
	}

	authed := api.Group("")
	authed.Use(handler.AuthMiddleware(authService))
	authed.GET("/users/me", authHandler.Me)
	authed.GET("/users/profile", userHandler.GetProfile)
	authed.PUT("/users/profile", userHandler.UpdateProfile)

	authed.POST("/todos", todoHandler.Create)
	authed.GET("/todos", todoHandler.List)
	authed.GET("/todos/:id", todoHandler.Get)
	authed.PUT("/todos/:id", todoHandler.Update)
	authed.PATCH("/todos/:id/status", todoHandler.ToggleStatus)
	authed.DELETE("/todos/:id", todoHandler.Delete)

	authed.POST("/diary", diaryHandler.Create)
	authed.GET("/diary", diaryHandler.List)
	authed.GET("/diary/:id", diaryHandler.Get)
	authed.PUT("/diary/:id", diaryHandler.Update)
	authed.DELETE("/diary/:id", diaryHandler.Delete)
	authed.GET("/diary/:id/related", diaryHandler.Related)

	authed.GET("/dashboard", dashboardHandler.Stats)

	scheduler := cron.New()
	if _, err := scheduler.AddFunc(cfg.Server.EODSchedule, func() {
		eodService.RunMigrationCycle(ctx)
	}); err != nil {
		log.Fatalf("[Init] invalid EOD_SCHEDULE %q: %v", cfg.Server.EODSchedule, err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	if err := router.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("[Init] server exited: %v", err)
	}
}
