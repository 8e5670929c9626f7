package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"club_admin_backend/internal/config"
	"club_admin_backend/internal/database"
	"club_admin_backend/internal/dataset"
	"club_admin_backend/internal/metrics"
	"club_admin_backend/internal/repositories"
	"club_admin_backend/internal/router"
	"club_admin_backend/internal/session"
	"club_admin_backend/internal/session/sqlite"
	"club_admin_backend/internal/store"
	"club_admin_backend/pkg/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

func main() {
	configPath := flag.String("config", "", "path to the YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		// logger is not configured yet
		utils.InitLogger("info", true)
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Initialize Logger
	utils.InitLogger(cfg.Log.Level, cfg.Log.Console)
	gin.SetMode(cfg.Server.Mode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	source, db, err := openSource(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.Dataset.Driver).Msg("Failed to open dataset")
	}
	if db != nil {
		defer db.Close()
	}

	tokens, err := openTokenStore(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.Sessions.Driver).Msg("Failed to open session token store")
	}
	defer tokens.Close()

	issuer, err := utils.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create token issuer")
	}
	creds, err := session.DemoCredentials(dataset.SuperAdminID, dataset.AdminID, cfg.Auth.BcryptCost)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to hash demo credentials")
	}

	rec := metrics.New()
	sessions, err := session.NewManager(session.Config{
		Issuer:      issuer,
		Tokens:      tokens,
		Source:      source,
		Credentials: creds,
		Hooks:       rec.Hooks(),
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create session manager")
	}
	defer sessions.Shutdown()
	go evictExpiredSessions(ctx, sessions, time.Minute)

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(utils.GinLogger())
	engine.Use(rec.GinMiddleware())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.Server.CORSOrigins
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	corsConfig.AllowCredentials = true
	engine.Use(cors.New(corsConfig))

	// Setup all application routes
	router.Setup(engine, sessions, rec)

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		utils.LogInfo("Server starting", map[string]interface{}{
			"port":     cfg.Server.Port,
			"dataset":  cfg.Dataset.Driver,
			"sessions": cfg.Sessions.Driver,
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	<-ctx.Done()
	utils.LogInfo("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		utils.LogError(err, "Server forced to shutdown")
	}
}

// evictExpiredSessions closes sessions whose tokens have expired until ctx ends.
func evictExpiredSessions(ctx context.Context, sessions *session.Manager, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			sessions.EvictExpired(ctx)
		}
	}
}

// openSource builds the dataset behind every session store. db is non-nil only
// for the postgres driver.
func openSource(ctx context.Context, cfg *config.Config) (store.Source, *sql.DB, error) {
	switch cfg.Dataset.Driver {
	case config.DatasetFile:
		ds, err := dataset.LoadFile(cfg.Dataset.Path)
		if err != nil {
			return nil, nil, err
		}
		return dataset.NewSource(ds, cfg.Dataset.Latency), nil, nil
	case config.DatasetPostgres:
		db, err := database.InitDB(ctx, cfg.Database, repositories.Schema)
		if err != nil {
			return nil, nil, err
		}
		repo := repositories.NewDatasetRepository(db)
		if cfg.Dataset.Seed {
			if err := repo.Seed(ctx, dataset.Fixtures(time.Now())); err != nil {
				db.Close()
				return nil, nil, err
			}
			utils.LogInfo("Database seeded with demo fixtures")
		}
		return repo, db, nil
	default:
		return dataset.NewSource(dataset.Fixtures(time.Now()), cfg.Dataset.Latency), nil, nil
	}
}

func openTokenStore(ctx context.Context, cfg *config.Config) (session.TokenStore, error) {
	if cfg.Sessions.Driver != config.SessionsSQLite {
		return session.NewMemoryTokenStore(), nil
	}
	ts, err := sqlite.Open(cfg.Sessions.Path)
	if err != nil {
		return nil, err
	}
	purged, err := ts.Purge(ctx, time.Now().Add(-cfg.Auth.TokenTTL))
	if err != nil {
		utils.LogWarn(err, "Failed to purge expired session tokens")
	} else if purged > 0 {
		utils.LogInfo("Purged expired session tokens", map[string]interface{}{"count": purged})
	}
	return ts, nil
}
