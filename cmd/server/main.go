package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/ignite/campaign-manager/internal/agent"
	"github.com/ignite/campaign-manager/internal/api"
	"github.com/ignite/campaign-manager/internal/cms"
	"github.com/ignite/campaign-manager/internal/config"
	"github.com/ignite/campaign-manager/internal/creation"
	"github.com/ignite/campaign-manager/internal/insights"
	"github.com/ignite/campaign-manager/internal/pkg/distlock"
	"github.com/ignite/campaign-manager/internal/pkg/httpretry"
	"github.com/ignite/campaign-manager/internal/pkg/logger"
	"github.com/ignite/campaign-manager/internal/recommendation"
	"github.com/ignite/campaign-manager/internal/repository/memory"
	"github.com/ignite/campaign-manager/internal/repository/postgres"
	"github.com/ignite/campaign-manager/internal/service/campaign"
	"github.com/ignite/campaign-manager/internal/trends"
	"github.com/ignite/campaign-manager/internal/wizard"

	_ "github.com/lib/pq" // PostgreSQL driver
	"github.com/redis/go-redis/v9"
)

const defaultConfigPath = "config/config.yaml"

func main() {
	cfg, err := config.LoadFromEnv(configPath())
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	if lvl, ok := logger.ParseLevel(cfg.Log.Level); ok {
		logger.SetLevel(lvl)
	}
	logger.SetRedactPII(cfg.Log.RedactPII)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Persistence
	var db *sql.DB
	if cfg.Persistence.Backend == config.BackendPostgres {
		db, err = openDatabase(ctx, cfg.Persistence.DatabaseURL)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.Close()
	}
	repo := buildRepository(cfg, db)
	campaigns := campaign.NewService(repo)

	// Optional Redis for the finalize lock
	var redisClient *redis.Client
	if cfg.Redis.Enabled() {
		redisClient, err = openRedis(ctx, cfg.Redis)
		if err != nil {
			logger.Warn("redis unavailable, finalize lock falls back", "addr", cfg.Redis.Addr, "error", err.Error())
			redisClient = nil
		} else {
			defer redisClient.Close()
		}
	}
	// a typed nil *redis.Client would not compare equal to nil inside NewProvider
	var lockClient redis.UniversalClient
	if redisClient != nil {
		lockClient = redisClient
	}
	locks := distlock.NewProvider(lockClient, db, cfg.Redis.FinalizeLockTTL())

	replier := buildReplier(ctx, cfg.Assistant)
	recommender := recommendation.NewService(buildSource(cfg.Recommendations))

	brandKits := make([]insights.BrandGuideline, 0, len(cfg.BrandKits))
	kitNames := make([]string, 0, len(cfg.BrandKits))
	for _, k := range cfg.BrandKits {
		brandKits = append(brandKits, insights.BrandGuideline{Name: k.Name, Tone: k.Tone, Forbidden: k.Forbidden})
		kitNames = append(kitNames, k.Name)
	}
	pipelineOpts := []insights.PipelineOption{insights.WithSimulatedLatency(cfg.Insights.SimulatedLatency())}
	if len(brandKits) > 0 {
		pipelineOpts = append(pipelineOpts, insights.WithBrandTable(insights.NewBrandTable(brandKits)))
	}
	pipeline := insights.NewPipeline(pipelineOpts...)

	machine := creation.NewMachine(creation.NewCatalog(), creation.NewParser())
	contextData := func() map[string]any {
		return map[string]any{
			"brand_kits":  kitNames,
			"persistence": cfg.Persistence.Backend,
		}
	}

	registry := api.NewRegistry(func() *wizard.Controller {
		return wizard.New(wizard.Deps{
			Machine:     machine,
			Recommender: recommender,
			Replier:     replier,
			Computer:    pipeline,
			Creator:     campaigns,
			Locks:       locks,
		}, wizard.WithDebounce(cfg.Insights.Debounce()), wizard.WithContextData(contextData))
	}, cfg.Server.SessionIdle())
	defer registry.Close()
	go registry.Run(ctx, time.Minute)

	var healthRedis redis.UniversalClient
	if redisClient != nil {
		healthRedis = redisClient
	}
	router := api.SetupRoutes(
		api.NewHandlers(registry, campaigns),
		api.NewHealthChecker(db, healthRedis, registry.Len),
		cfg.Server.CORSOrigins,
	)
	server := api.NewServer(cfg.Server.Addr(), router)

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := server.ListenAndServe(); err != nil {
			log.Fatalf("Server error: %v", err)
		}
	}()
	logger.Info("campaign manager ready",
		"addr", cfg.Server.Addr(),
		"persistence", cfg.Persistence.Backend,
		"assistant", replier.IsConfigured(),
		"redis", redisClient != nil,
	)

	<-done
	log.Println("Shutting down...")

	// Cancel background tasks
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout())
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
	log.Println("Server stopped")
}

func configPath() string {
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = defaultConfigPath
	}
	if _, err := os.Stat(path); err != nil {
		log.Printf("No config file at %s, using defaults and environment", path)
		return ""
	}
	return path
}

func openDatabase(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping %s: %w", extractHost(dsn), err)
	}
	return db, nil
}

// extractHost keeps credentials out of log lines.
func extractHost(dsn string) string {
	at := strings.Index(dsn, "@")
	if at < 0 {
		return "(unknown)"
	}
	rest := dsn[at+1:]
	if slash := strings.Index(rest, "/"); slash >= 0 {
		rest = rest[:slash]
	}
	return rest
}

func openRedis(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB})
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, err
	}
	return client, nil
}

func buildRepository(cfg *config.Config, db *sql.DB) campaign.Repository {
	switch cfg.Persistence.Backend {
	case config.BackendCMS:
		c := cfg.Persistence.CMS
		doer := httpretry.NewRetryClient(&http.Client{Timeout: c.Timeout()}, c.MaxRetries)
		return cms.NewClient(cms.Config{
			BaseURL:         c.BaseURL,
			APIKey:          c.APIKey,
			ManagementToken: c.ManagementToken,
			ContentType:     c.ContentType,
			AppURL:          c.AppURL,
		}, doer)
	case config.BackendPostgres:
		return postgres.NewCampaignRepo(db, cfg.Server.PublicURL)
	default:
		return memory.NewCampaignRepo(cfg.Server.PublicURL)
	}
}

func buildReplier(ctx context.Context, cfg config.AssistantConfig) agent.Replier {
	if !cfg.IsConfigured() {
		logger.Info("assistant not configured, using canned replies")
		return agent.NewCannedReplier()
	}
	r, err := agent.NewBedrockReplier(ctx, agent.BedrockConfig{
		ModelID:         cfg.ModelID,
		Region:          cfg.Region,
		AccessKeyID:     cfg.AccessKeyID,
		SecretAccessKey: cfg.SecretAccessKey,
		MaxTokens:       cfg.MaxTokens,
		Temperature:     cfg.Temperature,
		HistoryLimit:    cfg.HistoryLimit,
	})
	if err != nil {
		logger.Warn("bedrock replier unavailable, using canned replies", "error", err.Error())
		return agent.NewCannedReplier()
	}
	return r
}

func buildSource(cfg config.RecommendationsConfig) recommendation.DataSource {
	seed := cfg.MockSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	var source recommendation.DataSource = recommendation.NewMockSource(seed)
	if len(cfg.FeedURLs) == 0 {
		return source
	}
	opts := []trends.Option{
		trends.WithItemsPerFeed(cfg.ItemsPerFeed),
		trends.WithHTTPClient(&http.Client{Timeout: cfg.FeedTimeout()}),
	}
	if len(cfg.Keywords) > 0 {
		opts = append(opts, trends.WithKeywords(cfg.Keywords))
	}
	return recommendation.NewCompositeSource(source, trends.NewFeedSource(cfg.FeedURLs, opts...))
}
