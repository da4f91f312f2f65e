package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"outreach-backend/internal/history"
	"outreach-backend/internal/llm"
	openai "outreach-backend/internal/llm/openai"
	"outreach-backend/internal/outreach"
	"outreach-backend/internal/profiles"
	"outreach-backend/internal/search"
	"outreach-backend/internal/search/exa"
	"outreach-backend/internal/services/health"
	"outreach-backend/internal/shared/config"
	"outreach-backend/internal/shared/server"
	"outreach-backend/internal/shared/storage/db"
	"outreach-backend/internal/shared/storage/object"
	localstore "outreach-backend/internal/shared/storage/object/local"
	s3store "outreach-backend/internal/shared/storage/object/s3"
	"outreach-backend/internal/stages"
)

// App holds shared dependencies and the configured router.
type App struct {
	Config          config.Config
	Router          *gin.Engine
	DB              *sql.DB
	Store           object.Store
	ProfilesRepo    profiles.Repo
	HistoryRepo     history.Repo
	Stages          *stages.Runner
	Search          search.Capability
	ProfileService  *profiles.Service
	OutreachService *outreach.Service
	HistoryService  *history.Service
	closers         []func() error
}

// Build wires storage, generation and search clients, services and the router.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}
	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	app := &App{Config: cfg, DB: sqlDB, Store: store}
	if sqlDB != nil {
		app.ProfilesRepo = &profiles.PGRepo{DB: sqlDB}
		app.HistoryRepo = &history.PGRepo{DB: sqlDB}
	} else {
		app.ProfilesRepo = &profiles.DocumentRepo{Store: store}
		app.HistoryRepo = &history.DocumentRepo{Store: store}
	}

	writer, fast, embedder, err := BuildLLM(cfg)
	if err != nil {
		return nil, err
	}
	app.Stages = &stages.Runner{Fast: fast, Writer: writer}
	app.Search = app.buildSearch(ctx, cfg)

	app.ProfileService = &profiles.Service{
		Repo:      app.ProfilesRepo,
		Extractor: app.Stages,
		Embedder:  embedder,
		Uploads:   store,
	}
	app.HistoryService = history.NewService(app.HistoryRepo)
	app.OutreachService = &outreach.Service{
		Profiles: app.ProfilesRepo,
		History:  app.HistoryRepo,
		Stages:   app.Stages,
		Enricher: &search.Enricher{Capability: app.Search, Timeout: cfg.SearchTimeout},
	}

	app.Router = server.NewRouter(server.RouterDeps{
		Config:          cfg,
		ProfileHandler:  profiles.NewHandler(app.ProfileService),
		OutreachHandler: outreach.NewHandler(app.OutreachService),
		HistoryHandler:  history.NewHandler(app.HistoryService),
		Health:          health.NewService(sqlDB, searchEnabled(app.Search)),
	})
	return app, nil
}

// Close releases the database pool and search cache.
func (a *App) Close() {
	for _, c := range a.closers {
		_ = c()
	}
	if a.DB != nil {
		_ = a.DB.Close()
	}
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		log.Printf("bootstrap: DATABASE_URL empty; using %s document storage", cfg.ObjectStoreType)
		return nil, nil
	}

	var (
		sqlDB *sql.DB
		err   error
	)
	if db.IsLambdaRuntime() {
		sqlDB, err = db.GetSingleton(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultLambdaOptions()))
	} else {
		sqlDB, err = db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultServerOptions()))
	}
	if err != nil {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: database connect failed; using document storage: %v", err)
			return nil, nil
		}
		return nil, err
	}
	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.Store, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

// BuildLLM returns the drafting, fast and embedding clients. Without a
// provider key the placeholder client is used so the service still starts.
func BuildLLM(cfg config.Config) (llm.Completer, llm.Completer, llm.Embedder, error) {
	if cfg.LLMProvider != "openai" || strings.TrimSpace(cfg.OpenAIAPIKey) == "" {
		log.Printf("bootstrap: no generation provider configured; generation requests will fail")
		placeholder := llm.PlaceholderClient{}
		return placeholder, placeholder, placeholder, nil
	}
	writer, err := openai.NewClient(cfg.OpenAIAPIKey, cfg.LLMModel, cfg.OpenAITimeout)
	if err != nil {
		return nil, nil, nil, err
	}
	fast, err := openai.NewClient(cfg.OpenAIAPIKey, cfg.LLMFastModel, cfg.OpenAITimeout)
	if err != nil {
		return nil, nil, nil, err
	}
	embedder, err := openai.NewEmbeddingClient(cfg.OpenAIAPIKey, cfg.EmbeddingModel, cfg.OpenAITimeout)
	if err != nil {
		return nil, nil, nil, err
	}
	return writer, fast, embedder, nil
}

// buildSearch resolves the optional search capability once. Any failure
// leaves it absent for the process lifetime.
func (a *App) buildSearch(ctx context.Context, cfg config.Config) search.Capability {
	client, err := exa.NewClient(cfg.ExaAPIKey, cfg.SearchTimeout)
	if err != nil {
		log.Printf("bootstrap: search disabled: %v", err)
		return search.Absent()
	}
	if strings.TrimSpace(cfg.RedisAddr) == "" {
		return search.Present(client)
	}
	cache, err := search.NewRedisCache(ctx, cfg.RedisAddr)
	if err != nil {
		log.Printf("bootstrap: search cache disabled: %v", err)
		return search.Present(client)
	}
	a.closers = append(a.closers, cache.Close)
	ttl := cfg.SearchCacheTTL
	if ttl <= 0 {
		ttl = 6 * time.Hour
	}
	return search.Present(&search.CachedClient{Next: client, Cache: cache, TTL: ttl})
}

func searchEnabled(c search.Capability) bool {
	_, ok := c.Get()
	return ok
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}
