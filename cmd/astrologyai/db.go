package main

import (
	"context"

	"github.com/vedavani/astrology-ai/internal/astro"
	"github.com/vedavani/astrology-ai/internal/config"
	"github.com/vedavani/astrology-ai/internal/corrector"
	"github.com/vedavani/astrology-ai/internal/corrector/ollamaclient"
	"github.com/vedavani/astrology-ai/internal/extractor"
	"github.com/vedavani/astrology-ai/internal/logging"
	"github.com/vedavani/astrology-ai/internal/pipeline"
	"github.com/vedavani/astrology-ai/internal/store/sqlite"
)

func openPipeline(ctx context.Context, cfg *config.ProjectConfig) (*pipeline.Pipeline, error) {
	db, err := sqlite.New(ctx, cfg.Store.DSN)
	if err != nil {
		return nil, err
	}
	if err := db.EnsureSchema(ctx); err != nil {
		db.Close(ctx)
		return nil, err
	}

	lex := astro.Default()
	if cfg.Lexicon != "" {
		lex, err = astro.Load(cfg.Lexicon)
		if err != nil {
			db.Close(ctx)
			return nil, err
		}
	}

	logger, err := logging.New(logMode)
	if err != nil {
		db.Close(ctx)
		return nil, err
	}

	p := &pipeline.Pipeline{
		Store:     db,
		Lexicon:   lex,
		Extractor: extractor.New(lex, extractor.WithMinConfidence(cfg.Extraction.MinConfidence)),
		Logger:    logger,
	}

	batchTimeout, err := cfg.Corrector.BatchTimeoutDuration()
	if err != nil {
		db.Close(ctx)
		return nil, err
	}
	client := ollamaclient.New(cfg.Corrector.OllamaURL, cfg.Corrector.Model)
	p.Corrector = corrector.New(client, cfg.Corrector.Model,
		corrector.WithBatchSize(cfg.Corrector.BatchSize),
		corrector.WithBatchTimeout(batchTimeout),
	)

	return p, nil
}

func loadConfig() (*config.ProjectConfig, error) {
	return config.LoadProjectConfig("astrologyai.yaml")
}
