package main // Entry point package

import (
	"log" // Logging library
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4" // Echo web framework
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/iliyamo/terminal-portal/internal/auth"
	"github.com/iliyamo/terminal-portal/internal/config" // Internal config loader
	"github.com/iliyamo/terminal-portal/internal/database"
	"github.com/iliyamo/terminal-portal/internal/handler"
	"github.com/iliyamo/terminal-portal/internal/infra"
	"github.com/iliyamo/terminal-portal/internal/queue"
	"github.com/iliyamo/terminal-portal/internal/ratelimit"
	"github.com/iliyamo/terminal-portal/internal/repository"
	"github.com/iliyamo/terminal-portal/internal/router" // Internal router setup
	"github.com/iliyamo/terminal-portal/internal/session"
)

func main() {
	_ = godotenv.Load() // pick up a local .env when present

	cfg := config.Load() // Load environment config
	rlCfg := config.LoadRateLimitConfig()

	// Account storage is mandatory: failing to reach it is fatal for this
	// process.
	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}

	// Redis backs both the session store and the rate limiter.  Sessions
	// cannot exist without it, so an unreachable Redis is fatal too.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Fatal("redis unreachable: the session store requires it")
	}

	sessions := session.NewManager(session.NewRedisStore(rdb), time.Duration(cfg.SessionTTLSec)*time.Second)
	limiter := ratelimit.NewLimiter(ratelimit.NewRedisStore(rdb, rlCfg.Prefix), rlCfg)

	svc := auth.NewService(repository.NewAccountRepo(db), repository.NewSignupRepo(db), cfg.BcryptCost)

	authHandler := handler.NewAuthHandler(svc, sessions, limiter)
	adminHandler := handler.NewAdminHandler(svc)
	signupHandler := handler.NewSignupRequestHandler(svc)
	networkHandler := handler.NewNetworkHandler(
		infra.NewDockerController(cfg.DockerBin, cfg.NetworkName, cfg.ContainerName),
		infra.NewCronToggle(cfg.CronFlagPath),
		limiter,
	)

	// The audit consumer runs for the life of the process and reconnects
	// on its own; it never takes the API down.
	go func() {
		if err := queue.StartAuditConsumer(); err != nil {
			log.Printf("audit consumer stopped: %v", err)
		}
	}()

	e := echo.New() // Create Echo instance
	e.Use(echomw.Recover())
	router.RegisterRoutes(e)
	router.RegisterAuth(e, authHandler, signupHandler, limiter)
	router.RegisterAdmin(e, sessions, adminHandler, signupHandler, networkHandler, limiter)

	addr := ":" + cfg.Port                                // Address string with port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env) // Print startup info

	if err := e.Start(addr); err != nil { // Start HTTP server
		log.Fatal(err) // Log and exit if server fails
	}
}
