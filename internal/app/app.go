package app

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/calebowu/ghostwriter/internal/config"
	"github.com/calebowu/ghostwriter/internal/core"
	db "github.com/calebowu/ghostwriter/internal/core/database"
	"github.com/calebowu/ghostwriter/internal/core/demo"
	"github.com/calebowu/ghostwriter/internal/core/generator"
	"github.com/calebowu/ghostwriter/internal/core/llm"
	objectclient "github.com/calebowu/ghostwriter/internal/core/object-client"
	"github.com/calebowu/ghostwriter/internal/core/voice"
	"github.com/calebowu/ghostwriter/internal/logging"
	"github.com/calebowu/ghostwriter/internal/services"
)

// App holds the wired application: storage, model providers, services,
// the HTTP server and the demo janitor.
type App struct {
	DBClient core.DbClient
	Server   *Server
	Log      zerolog.Logger

	llmProvider core.LLMProvider
	janitor     *cron.Cron
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	log := logging.New(os.Stdout)

	appCtx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()

	dbClient, err := db.NewDatabaseClient(appCtx, cfg)
	if err != nil {
		return nil, fmt.Errorf("database init: %w", err)
	}
	log.Info().Msg("database initialized and ready")

	// sample archiving is optional; without credentials training still
	// works, only the raw-sample archive is skipped
	var objClient core.ObjectClient
	if cfg.AwsAccessKey != "" && cfg.AwsSecretKey != "" {
		objClient, err = objectclient.NewS3Client(appCtx, cfg)
		if err != nil {
			return nil, fmt.Errorf("object client init: %w", err)
		}
		log.Info().Str("bucket", cfg.BucketName).Msg("object client initialized and ready")
	} else {
		log.Warn().Msg("aws credentials not set; sample archiving disabled")
	}

	llmProvider, err := llm.NewProvider(appCtx, llm.Settings{
		Provider:     cfg.LLMProvider,
		GeminiAPIKey: cfg.AIAPIKey,
		OpenAIAPIKey: cfg.OpenAIKey,
		OpenAIBase:   cfg.OpenAIBase,
		Model:        cfg.GenModel,
	})
	if err != nil {
		return nil, fmt.Errorf("llm provider init: %w", err)
	}
	llmProvider = llm.WithTimeout(llmProvider, cfg.LLMTimeout)

	var embedder core.EmbeddingProvider
	if cfg.AIAPIKey != "" {
		geminiEmbedder, err := llm.NewGeminiEmbedder(appCtx, cfg.AIAPIKey, cfg.EmbedModel)
		if err != nil {
			return nil, fmt.Errorf("embedder init: %w", err)
		}
		embedder = geminiEmbedder
	} else {
		log.Warn().Msg("gemini api key not set; exemplar retrieval disabled")
	}

	extractor := voice.NewExtractor(llmProvider)
	gen := generator.NewGenerator(llmProvider)

	demoMgr, err := demo.NewManager(extractor, gen, demo.Options{
		AttemptCap:  cfg.DemoAttemptCap,
		OwnerPhrase: cfg.OwnerPhrase,
		OwnerTTL:    cfg.OwnerTTL,
		IdleTTL:     cfg.DemoIdleTTL,
	}, log)
	if err != nil {
		return nil, fmt.Errorf("demo manager init: %w", err)
	}

	profiles := services.NewProfileService(dbClient, extractor, objClient, cfg.BucketName, log)
	drafts := services.NewDraftService(dbClient, gen, embedder, log)

	janitor := cron.New()
	if _, err := janitor.AddFunc("@every 10m", demoMgr.Sweep); err != nil {
		return nil, fmt.Errorf("janitor schedule: %w", err)
	}

	server := NewServer(cfg, dbClient, profiles, drafts, demoMgr, log)

	return &App{
		DBClient:    dbClient,
		Server:      server,
		Log:         log,
		llmProvider: llmProvider,
		janitor:     janitor,
	}, nil
}

// Start launches the demo janitor alongside the HTTP server.
func (a *App) Start() error {
	a.janitor.Start()
	return a.Server.Start()
}

func (a *App) Close() {
	if a.janitor != nil {
		a.janitor.Stop()
	}
	if a.llmProvider != nil {
		_ = a.llmProvider.Close()
	}
	if a.DBClient != nil {
		_ = a.DBClient.Close()
	}
}
