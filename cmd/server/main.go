package main

import (
	"context"
	"log"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/riftforge/draftorch/internal/api"
	"github.com/riftforge/draftorch/internal/champion"
	"github.com/riftforge/draftorch/internal/config"
	"github.com/riftforge/draftorch/internal/draft"
	"github.com/riftforge/draftorch/internal/identity"
	"github.com/riftforge/draftorch/internal/lcu"
	"github.com/riftforge/draftorch/internal/match"
	"github.com/riftforge/draftorch/internal/matchstore/postgres"
	"github.com/riftforge/draftorch/internal/queue"
	"github.com/riftforge/draftorch/internal/restore"
	"github.com/riftforge/draftorch/internal/scheduler"
	"github.com/riftforge/draftorch/internal/session"
	"github.com/riftforge/draftorch/internal/voting"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	db, err := postgres.NewConnection(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	matchStore := postgres.NewMatchStore(db)
	voteStore := postgres.NewVoteStore(db)
	settingsStore := postgres.NewSettingsStore(db)

	cache := redis.NewClient(&redis.Options{Addr: redisAddr(cfg.RedisURL)})

	ctx := context.Background()

	specialUsers := identity.NewSpecialUsers(settingsStore)
	if err := specialUsers.Load(ctx); err != nil {
		log.Printf("warning: failed to load special users: %v", err)
	}
	verifier := identity.NewJWTVerifier(cfg.JWTSecret)

	catalog := champion.New(cfg.DataDragonVersion, cfg.DataDragonBaseURL, cache)
	if err := catalog.Sync(ctx); err != nil {
		log.Printf("warning: failed to sync champion catalog: %v", err)
	}

	registry := session.NewRegistry()
	lcuRouter := lcu.NewRouter(registry, cfg.LCUTimeout)

	matchMonitor := match.NewMonitor(matchStore, registry)
	draftManager := draft.NewManager(matchStore, catalog, registry, matchMonitor, cfg.ActionTimeout, cfg.ConfirmTimeout)
	queueManager := queue.NewManager(matchStore, draftManager, registry)
	votingService := voting.NewService(matchStore, voteStore, specialUsers, lcuRouter, registry, cfg.VoteQuorum)
	restorer := restore.NewOrchestrator(matchStore, draftManager)

	if err := restorer.Run(ctx); err != nil {
		log.Printf("warning: restore sweep failed: %v", err)
	}

	sched := scheduler.New(cfg.SchedulerInterval, draftManager)
	schedCtx, cancelSched := context.WithCancel(context.Background())
	go sched.Run(schedCtx)
	defer cancelSched()

	router := api.NewRouter(api.Deps{
		Drafts:   draftManager,
		Queue:    queueManager,
		Votes:    votingService,
		Matches:  matchMonitor,
		Restorer: restorer,
		Catalog:  catalog,
		Store:    matchStore,
		Registry: registry,
		Verifier: verifier,
		Config:   cfg,
	})

	srv := &http.Server{
		Addr:         "0.0.0.0:" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("draftorch server starting on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down server...")
	sched.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("server stopped")
}

func redisAddr(redisURL string) string {
	u, err := url.Parse(redisURL)
	if err != nil || u.Host == "" {
		return "localhost:6379"
	}
	return u.Host
}
