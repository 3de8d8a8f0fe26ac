package main // Entry point package

import (
	"log" // Logging library

	"github.com/joho/godotenv"    // .env loader for local development
	"github.com/labstack/echo/v4" // Echo web framework
	emw "github.com/labstack/echo/v4/middleware"

	"github.com/noah51022/schedule-sensei-sync/internal/config"
	"github.com/noah51022/schedule-sensei-sync/internal/database"
	"github.com/noah51022/schedule-sensei-sync/internal/handler"
	"github.com/noah51022/schedule-sensei-sync/internal/interpreter"
	"github.com/noah51022/schedule-sensei-sync/internal/merge"
	"github.com/noah51022/schedule-sensei-sync/internal/middleware"
	"github.com/noah51022/schedule-sensei-sync/internal/queue"
	"github.com/noah51022/schedule-sensei-sync/internal/recommend"
	"github.com/noah51022/schedule-sensei-sync/internal/repository"
	"github.com/noah51022/schedule-sensei-sync/internal/router"
)

func main() {
	// Missing .env is fine in containers; real env vars win either way.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	events := repository.NewEventRepo(db)
	avail := repository.NewAvailabilityRepo(db)

	llm := interpreter.NewClient(interpreter.ClientConfig{
		APIKey:  cfg.AIAPIKey,
		BaseURL: cfg.AIBaseURL,
		Model:   cfg.AIModel,
	})
	interp := interpreter.New(llm)
	engine := merge.New(avail)
	window := recommend.Window{StartHour: cfg.RecWindowStart, EndHour: cfg.RecWindowEnd}

	// Redis is optional: a nil client disables rate limiting, response
	// caching and recommendation warming, and everything else keeps
	// working.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable; rate limiting and caching disabled")
	}

	e := echo.New()
	// Preflight requests are answered here and never reach the model.
	e.Use(emw.CORS())
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	e.Use(middleware.NewRedisCache(config.LoadCacheConfig(), rdb))

	authH := handler.NewAuthHandler(cfg, users, tokens)
	eventH := handler.NewEventHandler(events, avail)
	availH := handler.NewAvailabilityHandler(events, avail, rdb, window)
	chatH := handler.NewChatHandler(events, interp, engine)

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH, cfg.JWTSecret)
	router.RegisterEvents(e, eventH, availH, chatH, cfg.JWTSecret)

	// Recompute recommendations in the background on every availability
	// change.
	consumer := &queue.AvailabilityConsumer{
		Avail:    avail,
		RDB:      rdb,
		Window:   window,
		CacheTTL: config.LoadCacheConfig().TTL,
	}
	go func() {
		if err := consumer.Start(); err != nil {
			log.Printf("availability consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
