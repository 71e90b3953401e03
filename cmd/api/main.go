package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"carbon-track/footprint-backend/internal/activities"
	"carbon-track/footprint-backend/internal/admin"
	"carbon-track/footprint-backend/internal/auth"
	"carbon-track/footprint-backend/internal/carbon"
	"carbon-track/footprint-backend/internal/challenges"
	"carbon-track/footprint-backend/internal/config"
	"carbon-track/footprint-backend/internal/factors"
	"carbon-track/footprint-backend/internal/middleware"
	"carbon-track/footprint-backend/internal/users"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	logger, err := buildLogger(cfg.Logging.Level)
	if err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}
	defer logger.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.Database.URI))
	if err != nil {
		logger.Fatal("Failed to connect to MongoDB", zap.Error(err))
	}
	if err := client.Ping(ctx, nil); err != nil {
		logger.Fatal("Failed to ping MongoDB", zap.Error(err))
	}
	defer client.Disconnect(context.Background())

	db := client.Database(cfg.Database.DBName)
	logger.Info("Connected to MongoDB", zap.String("database", cfg.Database.DBName))

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(logger))

	// ---------------- AUTH ----------------
	userRepo := users.NewRepository(db)
	userService := users.NewService(userRepo)
	authService := auth.NewService(userRepo, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	authHandler := auth.NewHandler(authService, userService)
	authHandler.RegisterRoutes(r.Group("/api/auth"))

	// ---------------- USERS ----------------
	userHandler := users.NewHandler(userService, auth.CurrentUserID)
	userHandler.RegisterRoutes(r.Group("/api/users"), authService.RequireAuth())

	// ---------------- FACTORS / CARBON ----------------
	factorCatalog := factors.NewCatalog(db)
	factorService := factors.NewService(factorCatalog)
	carbonService := carbon.NewService(factorService)
	carbonHandler := carbon.NewHandler(carbonService, factorService, userService, authService)
	carbonHandler.RegisterRoutes(r.Group("/api/carbon"))

	// ---------------- ACTIVITIES ----------------
	activityRepo := activities.NewRepository(db)
	activityService := activities.NewService(activityRepo, carbonService, userService)
	activityHandler := activities.NewHandler(activityService, factorService, authService)
	activityHandler.RegisterRoutes(r.Group("/api/activities"))

	// ---------------- CHALLENGES ----------------
	challengeRepo := challenges.NewRepository(db)
	challengeService := challenges.NewService(challengeRepo, logger)
	challengeHandler := challenges.NewHandler(challengeService, authService)
	challengeHandler.RegisterRoutes(r.Group("/api/challenges"))

	// ---------------- ADMIN ----------------
	adminService := admin.NewService(userRepo, activityRepo, challengeRepo, logger)
	adminHandler := admin.NewHandler(adminService, factorService, authService)
	adminHandler.RegisterRoutes(r.Group("/api/admin"))

	// ---------------- PING ----------------
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "API alive!"})
	})

	addr := cfg.Server.GetServerAddr()
	logger.Info("Server starting", zap.String("addr", addr))
	if err := r.Run(addr); err != nil {
		logger.Fatal("Server error", zap.Error(err))
	}
}

func buildLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}
	return cfg.Build()
}
