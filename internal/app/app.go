// Package app wires every component — catalog, master data, parser,
// validator, resolver, SQL generator, executor, i18n — into one root
// struct exposing the two external operations: a batch Execute and a
// streaming ExecuteStream, grounded on how core/lynx/lynx.go and
// core/job compose independently-built pieces into one runnable unit
// rather than on any single source file.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/qdrant/go-client/qdrant"

	"github.com/DanielChung520/AI-Box-sub009/internal/apperror"
	"github.com/DanielChung520/AI-Box-sub009/internal/catalog"
	catalogfile "github.com/DanielChung520/AI-Box-sub009/internal/catalog/sources/file"
	"github.com/DanielChung520/AI-Box-sub009/internal/catalog/sources/graph"
	"github.com/DanielChung520/AI-Box-sub009/internal/catalog/sources/vector"
	"github.com/DanielChung520/AI-Box-sub009/internal/config"
	"github.com/DanielChung520/AI-Box-sub009/internal/executor"
	"github.com/DanielChung520/AI-Box-sub009/internal/executor/duckdb"
	"github.com/DanielChung520/AI-Box-sub009/internal/executor/oracle"
	"github.com/DanielChung520/AI-Box-sub009/internal/i18n"
	"github.com/DanielChung520/AI-Box-sub009/internal/masterdata"
	masterdatafile "github.com/DanielChung520/AI-Box-sub009/internal/masterdata/sources/file"
	"github.com/DanielChung520/AI-Box-sub009/internal/parser"
	"github.com/DanielChung520/AI-Box-sub009/internal/resolver"
	"github.com/DanielChung520/AI-Box-sub009/internal/sqlgen"
	"github.com/DanielChung520/AI-Box-sub009/internal/validator"
)

// App is the fully wired query core. Every field is safe for concurrent
// use; a request runs entirely through App.Execute or App.ExecuteStream
// with no shared per-request state.
type App struct {
	Config  *config.Config
	Log     *slog.Logger
	Dialect catalog.Dialect

	Catalog    *catalog.Store
	MasterData *masterdata.Store
	Parser     *parser.Cascade
	Validator  *validator.Validator
	Resolver   *resolver.Resolver
	Executor   *executor.Executor
	I18n       *i18n.Catalog

	loader *catalog.Loader
}

// New assembles an App from cfg: loads the catalog (vector/graph preferred,
// file fallback), loads master data, and wires the parser cascade,
// validator, resolver, SQL generator and executor for the configured
// datasource.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	log := newLogger(cfg.LogLevel)

	dialect := dialectFor(cfg)

	fileSrc := &catalogfile.Source{MetadataPath: cfg.MetadataPath, SystemID: cfg.SystemID}
	loader := &catalog.Loader{
		Dialect: dialect,
		Log:     log,
		File:    fileSrc,
	}
	if cfg.Qdrant.UseQdrant {
		client, err := qdrant.NewClient(&qdrant.Config{Host: cfg.Qdrant.Host, Port: cfg.Qdrant.Port})
		if err != nil {
			log.Warn("qdrant client unavailable, falling back to file catalog source", "error", err)
		} else {
			vSrc := &vector.Source{Client: client, CollectionPrefix: cfg.Qdrant.CollectionPrefix}
			loader.ConceptPreferred = vSrc
			loader.IntentPreferred = vSrc
		}
	}
	if cfg.ArangoDB.UseArangoDB {
		loader.BindingPreferred = &graph.Source{
			BaseURL:          fmt.Sprintf("http://%s:%d", cfg.ArangoDB.Host, cfg.ArangoDB.Port),
			Database:         cfg.ArangoDB.Database,
			User:             cfg.ArangoDB.User,
			Password:         cfg.ArangoDB.Password,
			CollectionPrefix: cfg.ArangoDB.CollectionPrefix,
		}
	}

	cat, err := loader.Load(ctx)
	if err != nil {
		return nil, err
	}
	store := catalog.NewStore(cat)

	mdStore := masterdata.NewStore(&masterdatafile.Source{BasePath: cfg.MetadataPath})
	if err := mdStore.EnsureLoaded(ctx, false); err != nil {
		return nil, err
	}

	cascade := &parser.Cascade{
		Cache:     parser.NewCacheLayer(1000, 2*time.Hour),
		UltraFast: parser.NewUltraFastParser(),
		LLM: &parser.LLMParser{Client: &parser.LLMEndpoint{
			URL:         cfg.LLM.Endpoint,
			Model:       cfg.LLM.Model,
			Temperature: cfg.LLM.Temperature,
			NumPredict:  cfg.LLM.NumPredict,
			Timeout:     time.Duration(cfg.LLM.TimeoutSecs) * time.Second,
			HTTPClient:  &http.Client{Timeout: time.Duration(cfg.LLM.TimeoutSecs) * time.Second},
		}},
		DefaultPageSize: parser.DefaultPageSize,
	}

	gen := &sqlgen.Generator{
		Dialect:  dialect,
		Tables:   &tableResolver{store: store},
		S3Bucket: cfg.DuckDB.S3.Bucket,
		Cache:    sqlgen.NewCache(500, 10*time.Minute),
	}

	connFactory, err := connFactoryFor(cfg, dialect)
	if err != nil {
		return nil, err
	}

	return &App{
		Config:  cfg,
		Log:     log,
		Dialect: dialect,

		Catalog:    store,
		MasterData: mdStore,
		Parser:     cascade,
		Validator:  validator.New(store, mdStore),
		Resolver:   resolver.New(store, gen),
		Executor: &executor.Executor{
			Open:    connFactory,
			Cache:   executor.NewResultCache(50, 10*time.Minute),
			MaxRows: cfg.MaxResults,
		},
		I18n: i18n.Load(),

		loader: loader,
	}, nil
}

// Reload re-runs the catalog Loader and atomically swaps the live Catalog,
// used by the warm-reload job (internal/lynxrt).
func (a *App) Reload(ctx context.Context) error {
	cat, err := a.loader.Load(ctx)
	if err != nil {
		a.Log.Warn("catalog reload failed, keeping previous catalog live", "error", err)
		return err
	}
	a.Catalog.Swap(cat)
	a.Log.Info("catalog reloaded")
	return nil
}

func dialectFor(cfg *config.Config) catalog.Dialect {
	switch {
	case cfg.IsOracle():
		return catalog.DialectOracle
	default:
		return catalog.DialectDuckDB
	}
}

func connFactoryFor(cfg *config.Config, dialect catalog.Dialect) (executor.ConnFactory, error) {
	switch dialect {
	case catalog.DialectOracle:
		return func(ctx context.Context) (executor.Conn, error) { return oracle.Open(ctx, &cfg.Oracle) }, nil
	case catalog.DialectDuckDB:
		return func(ctx context.Context) (executor.Conn, error) { return duckdb.Open(ctx, &cfg.DuckDB) }, nil
	default:
		return nil, apperror.New(apperror.InternalError, fmt.Sprintf("no connection factory for dialect %s", dialect))
	}
}

func newLogger(level string) *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel(level)}))
}

func logLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
