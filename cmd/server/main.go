package main // Entry point package

import (
	"log" // Logging library

	"github.com/joho/godotenv" // Loads variables from a .env file
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/stackit/stackit/internal/config"     // Internal config loader
	"github.com/stackit/stackit/internal/database"   // MySQL connection pool
	"github.com/stackit/stackit/internal/handler"    // HTTP handlers
	"github.com/stackit/stackit/internal/middleware" // Cache and rate limit middleware
	"github.com/stackit/stackit/internal/queue"      // RabbitMQ consumer
	"github.com/stackit/stackit/internal/repository" // Data access layer
	"github.com/stackit/stackit/internal/router"     // Route registration
)

func main() {
	// Load a local .env file when present.  Missing files are fine in
	// production where variables come from the environment directly.
	_ = godotenv.Load()

	cfg := config.Load() // Load environment config

	// Open the MySQL pool.  Load already validated the variables, so a
	// failure here means the database itself is unreachable.
	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Redis is optional: NewRedisClient returns nil when the server is
	// unreachable and the cache/rate-limit middleware pass through.
	rdb := config.NewRedisClient()
	cacheCfg := config.LoadCacheConfig()
	rlCfg := config.LoadRateLimitConfig()

	// Repositories share the single pool.
	users := repository.NewUserRepo(db)
	questions := repository.NewQuestionRepo(db)
	answers := repository.NewAnswerRepo(db)
	votes := repository.NewVoteRepo(db)
	tags := repository.NewTagRepo(db)
	notifications := repository.NewNotificationRepo(db)
	stats := repository.NewStatsRepo(db)

	authH := handler.NewAuthHandler(cfg, users)
	questionH := handler.NewQuestionHandler(questions, answers, tags, votes)
	answerH := handler.NewAnswerHandler(questions, answers, notifications, votes)
	notificationH := handler.NewNotificationHandler(notifications)
	tagH := handler.NewTagHandler(tags)
	adminH := handler.NewAdminHandler(users, questions, answers, stats)

	e := echo.New() // Create Echo instance
	e.HideBanner = true

	// Global middleware: request logging, panic recovery and the Redis
	// token bucket.  CORS is enabled only when an origin is configured.
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())
	if cfg.CORSOrigin != "" {
		e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
			AllowOrigins:     []string{cfg.CORSOrigin},
			AllowCredentials: true,
		}))
	}
	e.Use(middleware.NewTokenBucket(rlCfg, rdb))

	cache := middleware.NewRedisCache(cacheCfg, rdb)

	router.RegisterRoutes(e) // Health check
	router.RegisterAuth(e, authH, cfg.JWTSecret)
	router.RegisterContent(e, questionH, answerH, tagH, cfg.JWTSecret, cache)
	router.RegisterNotifications(e, notificationH, cfg.JWTSecret)
	router.RegisterAdmin(e, adminH, cfg.JWTSecret)

	// Consume notification events in the background.  The consumer keeps
	// reconnecting on its own, so a startup failure is only logged.
	go func() {
		if err := queue.StartNotificationConsumer(); err != nil {
			log.Printf("notification consumer: %v", err)
		}
	}()

	addr := ":" + cfg.Port                                // Address string with port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env) // Print startup info

	if err := e.Start(addr); err != nil { // Start HTTP server
		log.Fatal(err) // Log and exit if server fails
	}
}
