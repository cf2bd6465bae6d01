package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"jwtpizza/auth"
	"jwtpizza/config"
	"jwtpizza/controller"
	"jwtpizza/database"
	"jwtpizza/logger"
	"jwtpizza/repository"
	"jwtpizza/route"
	"jwtpizza/service"
	"jwtpizza/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log, err := logger.NewStructured(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}

	if cfg.App.GinMode == gin.ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	} else {
		log.Info("Running in debug mode", nil)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repo, err := openRepository(cfg, log)
	if err != nil {
		log.WithError(err).Error("Failed to open storage", map[string]interface{}{"driver": cfg.Database.Driver})
		os.Exit(1)
	}

	revoked := openTokenStore(ctx, cfg, log)

	hasher := auth.NewHasher(cfg.Auth.BcryptCost)
	if cfg.Seed.Enabled {
		if err := database.Seed(ctx, repo, hasher); err != nil {
			log.WithError(err).Error("Failed to seed data", nil)
			os.Exit(1)
		}
		log.Info("Seed data loaded", nil)
	}

	tokens := utils.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	svc := service.New(repo, tokens, revoked, hasher, log)
	router := route.NewRouter(controller.New(svc, log), svc, route.Options{
		AllowedOrigins: cfg.App.AllowedOrigins,
		Logger:         log,
	})
	log.Info("Routes configured successfully", map[string]interface{}{"origins": cfg.App.AllowedOrigins})

	srv := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Warn("Shutdown did not complete", nil)
		}
	}()

	log.Info("Starting server", map[string]interface{}{"port": cfg.App.Port})
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.WithError(err).Error("Failed to start server", nil)
		os.Exit(1)
	}
	log.Info("Server stopped", nil)
}

func openRepository(cfg *config.Config, log logger.Logger) (repository.Repository, error) {
	if cfg.Database.Driver != "postgres" {
		log.Info("Using in-memory storage", nil)
		return repository.NewMemory(), nil
	}
	db, err := database.Open(cfg.Database.Postgres)
	if err != nil {
		return nil, err
	}
	log.Info("Database connected", nil)
	return repository.NewGorm(db), nil
}

// openTokenStore prefers redis and falls back to memory when redis is not configured
// or unreachable.
func openTokenStore(ctx context.Context, cfg *config.Config, log logger.Logger) database.TokenStore {
	if cfg.Database.Redis.Address == "" {
		return database.NewMemoryTokenStore()
	}
	store := database.NewRedis(cfg.Database.Redis)
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := store.Ping(pingCtx); err != nil {
		log.WithError(err).Warn("Redis unavailable, keeping revoked tokens in memory", map[string]interface{}{
			"address": cfg.Database.Redis.Address,
		})
		_ = store.Close()
		return database.NewMemoryTokenStore()
	}
	return store
}
