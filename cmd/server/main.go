package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	projectsapp "github.com/flowcraft/backend/internal/application/projects"
	teamsapp "github.com/flowcraft/backend/internal/application/teams"
	workspaceapp "github.com/flowcraft/backend/internal/application/workspace"
	"github.com/flowcraft/backend/internal/domain/identity"
	"github.com/flowcraft/backend/internal/domain/tracker"
	"github.com/flowcraft/backend/internal/infrastructure/config"
	"github.com/flowcraft/backend/internal/infrastructure/keyvalue"
	"github.com/flowcraft/backend/internal/infrastructure/logger"
	"github.com/flowcraft/backend/internal/infrastructure/memstore"
	"github.com/flowcraft/backend/internal/infrastructure/remote"
	"github.com/flowcraft/backend/internal/interfaces/http/handler"
	"github.com/flowcraft/backend/internal/interfaces/http/middleware"
	"github.com/flowcraft/backend/internal/interfaces/http/router"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting FlowCraft Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Wire the backend gateway. The remote driver talks to the hosted
	// document service; the memory driver keeps everything in process
	// for local development and tests.
	var (
		issueRepo   tracker.IssueRepository
		sprintRepo  tracker.SprintRepository
		projectRepo tracker.ProjectRepository
		teamDir     identity.TeamDirectory
	)
	switch cfg.Remote.Driver {
	case "memory":
		store := memstore.New()
		issueRepo = store.Issues()
		sprintRepo = store.Sprints()
		projectRepo = store.Projects()
		teamDir = store.Teams()
		log.Warn("using in-memory backend, data will not survive restarts")
	default:
		client := remote.NewClient(remote.Config{
			Endpoint:   cfg.Remote.Endpoint,
			ProjectID:  cfg.Remote.ProjectID,
			APIKey:     cfg.Remote.APIKey,
			DatabaseID: cfg.Remote.DatabaseID,
			Timeout:    cfg.Remote.Timeout,
		}, nil, logger.Named(log, "remote"))
		issueRepo = remote.NewIssueRepository(client)
		sprintRepo = remote.NewSprintRepository(client)
		projectRepo = remote.NewProjectRepository(client)
		teamDir = remote.NewTeamDirectory(client, logger.Named(log, "remote"))
		log.Info("remote backend configured", zap.String("endpoint", cfg.Remote.Endpoint))
	}

	// The selected-team slot lives in Redis so the workspace survives
	// restarts; without Redis it degrades to process memory.
	slotFactory := keyvalue.NewSlotFactory(keyvalue.RedisConfig{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}, keyvalue.WithLogger(logger.Named(log, "keyvalue")))
	slot, err := slotFactory.Create(keyvalue.SelectedTeamKey)
	if err != nil {
		log.Fatal("Failed to create selected-team slot", zap.Error(err))
	}

	// Application services
	coordinator := workspaceapp.NewCoordinator(issueRepo, sprintRepo, slot, logger.Named(log, "workspace"))
	projectCache := projectsapp.NewCache(projectRepo, coordinator, logger.Named(log, "projects"))
	teamService := teamsapp.NewService(teamDir, logger.Named(log, "teams"))

	// Re-select the team persisted before the last shutdown. A failed
	// restore logs and starts with an empty workspace.
	restoreCtx, cancelRestore := context.WithTimeout(context.Background(), 15*time.Second)
	if err := coordinator.Restore(restoreCtx); err != nil {
		log.Warn("could not restore workspace", zap.Error(err))
	}
	cancelRestore()
	if teamID := coordinator.SelectedTeamID(); teamID != "" {
		projectCache.LoadProjects(context.Background(), teamID, "")
		log.Info("workspace restored", zap.String("team_id", teamID))
	}

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup validation
	middleware.SetupValidator()

	engine := gin.New()

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Middleware stack: request id, panic recovery, request logging,
	// security headers, CORS.
	engine.Use(middleware.RequestID())
	engine.Use(middleware.Timeout(cfg.HTTP.WriteTimeout))
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// API routes
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Register(handler.NewWorkspaceHandler(coordinator, projectCache)).
		Register(handler.NewIssueHandler(coordinator)).
		Register(handler.NewSprintHandler(coordinator)).
		Register(handler.NewProjectHandler(projectCache, projectRepo)).
		Register(handler.NewTeamHandler(teamService)).
		Register(handler.NewAnalyticsHandler(coordinator, teamService, logger.Named(log, "analytics"))).
		Register(handler.NewSystemHandler())
	r.Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
