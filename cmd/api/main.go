package main

import (
	"context"
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/justsurfingit/careerkit/internal/app"
	"github.com/justsurfingit/careerkit/internal/config"
	"github.com/justsurfingit/careerkit/internal/database"
	"github.com/justsurfingit/careerkit/internal/handlers"
	"github.com/justsurfingit/careerkit/internal/logging"
	"github.com/justsurfingit/careerkit/internal/queue"
	"github.com/justsurfingit/careerkit/internal/services"
)

func main() {
	// 1. Configuration (.env is optional)
	cfg, err := config.Load("")
	if err != nil {
		log.Fatal("Error loading configuration: ", err)
	}
	logger, err := logging.New(false)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	// 2. Database Connection
	db, err := database.Connect(cfg.DatabaseURL, logger)
	if err != nil {
		logger.Fatal("database connection failed", zap.Error(err))
	}

	// 3. Model, storage and pipelines
	a, err := app.New(context.Background(), cfg, logger)
	if err != nil {
		logger.Fatal("pipeline setup failed", zap.Error(err))
	}

	// 4. Run queue (optional)
	var publisher handlers.RunPublisher
	if cfg.RabbitMQURL != "" {
		broker, err := queue.Dial(cfg.RabbitMQURL, logger)
		if err != nil {
			logger.Warn("RabbitMQ unavailable, /runs disabled", zap.Error(err))
		} else {
			defer broker.Close()
			publisher = broker
		}
	}

	// 5. Services and handlers
	analyses := services.NewAnalysisService(db)
	students := services.NewStudentService(db)
	demands := services.NewDemandService(db)
	api := &handlers.API{
		Analysis: handlers.NewAnalysisHandler(a.Suite, analyses, cfg.UploadsDir, a.Bucket, logger),
		Students: handlers.NewStudentHandler(a.Suite, analyses, students),
		Market:   handlers.NewMarketHandler(a.Suite, demands, students),
		Runs:     handlers.NewRunHandler(services.NewRunService(db), publisher, cfg.UploadsDir),
	}

	// 6. Router & CORS
	r := gin.Default()
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", handlers.UserHeader}
	r.Use(cors.New(corsConfig))

	api.Register(r.Group("/api/v1"))

	logger.Info("server starting", zap.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Fatal("server failed to start", zap.Error(err))
	}
}
