package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/nmanzi/partsdb/internal/archive"
	"github.com/nmanzi/partsdb/internal/config"
	"github.com/nmanzi/partsdb/internal/entity"
	"github.com/nmanzi/partsdb/internal/handler"
	"github.com/nmanzi/partsdb/internal/middleware"
	"github.com/nmanzi/partsdb/internal/repository"
	"github.com/nmanzi/partsdb/internal/seed"
	"github.com/nmanzi/partsdb/internal/service"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	seedFlag := flag.Bool("seed", false, "load the starter catalog after startup")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	zapLogger, err := initLogger(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer zapLogger.Sync()

	zapLogger.Info("Starting partsdb service",
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
	)

	db, err := initDatabase(cfg.Database)
	if err != nil {
		zapLogger.Fatal("Failed to connect to database", zap.Error(err))
	}

	if err := entity.AutoMigrate(db); err != nil {
		zapLogger.Fatal("Failed to migrate schema", zap.Error(err))
	}

	archiver, err := archive.New(cfg.MinIO, zapLogger)
	if err != nil {
		zapLogger.Fatal("Failed to init archive storage", zap.Error(err))
	}
	if archiver != nil {
		if err := archiver.EnsureBucket(context.Background()); err != nil {
			zapLogger.Warn("Archive bucket unavailable", zap.Error(err))
		}
	}

	repos := repository.NewRepositories(db)
	services := service.NewServices(repos, archiver, cfg, zapLogger)
	handlers := handler.NewHandlers(services, cfg)

	if *seedFlag {
		if err := seed.Load(repos, zapLogger); err != nil {
			zapLogger.Fatal("Failed to load seed data", zap.Error(err))
		}
	}

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger(zapLogger))
	router.Use(middleware.CORS())
	router.Use(middleware.RequestID())
	router.Use(gzip.Gzip(gzip.DefaultCompression))

	registerRoutes(router, handlers)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		zapLogger.Info("Server starting", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLogger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Error("Server forced to shutdown", zap.Error(err))
	}

	zapLogger.Info("Server exited")
}

func registerRoutes(router *gin.Engine, h *handler.Handlers) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "version": Version})
	})

	api := router.Group("/api")
	{
		api.GET("/bins", h.Bin.List)
		api.POST("/bins", h.Bin.Create)
		api.GET("/bins/:id", h.Bin.Get)
		api.PUT("/bins/:id", h.Bin.Update)
		api.DELETE("/bins/:id", h.Bin.Delete)

		api.GET("/categories", h.Category.List)
		api.POST("/categories", h.Category.Create)
		api.GET("/categories/:id", h.Category.Get)
		api.PUT("/categories/:id", h.Category.Update)
		api.DELETE("/categories/:id", h.Category.Delete)

		api.GET("/parts", h.Part.List)
		api.POST("/parts", h.Part.Create)
		// Register static segments before :id so gin does not treat them as ids.
		api.POST("/parts/import", h.Exchange.Import)
		api.GET("/parts/export", h.Exchange.Export)
		api.GET("/parts/:id", h.Part.Get)
		api.PUT("/parts/:id", h.Part.Update)
		api.DELETE("/parts/:id", h.Part.Delete)
	}
}

func initLogger(cfg config.LogConfig) (*zap.Logger, error) {
	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}

	switch cfg.Level {
	case "debug":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	case "warn":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	default:
		zapCfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}

	return zapCfg.Build()
}

func initDatabase(cfg config.DatabaseConfig) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case "sqlite":
		dialector = sqlite.Open(cfg.Path)
	default:
		dialector = postgres.Open(cfg.DSN())
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	return db, nil
}
