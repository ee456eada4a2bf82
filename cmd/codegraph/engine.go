package main

import (
	"context"
	"fmt"
	"log"
	"strings"

	"codegraph/internal/config"
	"codegraph/internal/export"
	"codegraph/internal/index"
	"codegraph/internal/llm"
	"codegraph/internal/oracle"
	"codegraph/internal/resolve"
	"codegraph/internal/scan"
	"codegraph/internal/server"
)

// engine wires one LLM client, a shared analysis cache and the scan,
// resolve and export stages into a reusable unit. A single engine
// serves repeated runs (serve, watch) so unchanged files stay cached.
type engine struct {
	cfg   *config.Config
	cli   llm.LLMClient
	cache *scan.AnalysisCache
}

func newEngine(ctx context.Context, cfg *config.Config) (*engine, error) {
	base, err := newLLMClient(ctx, cfg)
	if err != nil {
		return nil, err
	}
	cli := llm.Wrap(base,
		llm.WithLogging(log.Default()),
		llm.Retry(cfg.RetryAttempts, cfg.RetryBaseDelay),
		llm.RateLimit(cfg.RPS, cfg.Burst),
		llm.Timeout(cfg.OracleTimeout),
	)
	cache, err := scan.NewAnalysisCache(cfg.CacheSize)
	if err != nil {
		cli.Close()
		return nil, err
	}
	return &engine{cfg: cfg, cli: cli, cache: cache}, nil
}

func (e *engine) Close() error { return e.cli.Close() }

// LLM exposes the wrapped client for the activity diagram generator.
func (e *engine) LLM() llm.LLMClient { return e.cli }

// Analyze scans the target, resolves every call and returns the
// exported structure.
func (e *engine) Analyze(ctx context.Context, target server.ScanTarget, onEvent func(scan.Event)) (export.Structure, error) {
	orc := oracle.New(e.cli)
	ix := index.New()
	sc := &scan.Scanner{
		Index:      ix,
		Oracle:     orc,
		Extensions: e.cfg.Extensions,
		SkipDirs:   e.cfg.SkipDirs,
		Cache:      e.cache,
		OnEvent:    onEvent,
	}

	var err error
	if target.GitHubURL != "" {
		_, err = sc.ScanGitHub(ctx, target.GitHubURL)
	} else {
		_, err = sc.ScanDir(ctx, target.Path)
	}
	if err != nil {
		return export.Structure{}, err
	}

	res := resolve.New(ix, orc)
	res.Timeout = e.cfg.OracleTimeout
	ex := &export.Exporter{Index: ix, Resolver: res}
	s := ex.Structure(ctx)
	res.Stats().LogSummary()
	return s, nil
}

func newLLMClient(ctx context.Context, cfg *config.Config) (llm.LLMClient, error) {
	switch strings.ToLower(cfg.Provider) {
	case "gemini":
		return llm.NewGeminiClient(ctx, cfg.APIKey, cfg.Model)
	case "groq":
		return llm.NewGroqClient(cfg.APIKey, cfg.Model)
	case "fake":
		return llm.NewFakeClient(), nil
	default:
		return nil, fmt.Errorf("unknown provider %q", cfg.Provider)
	}
}

// targetFromArg interprets a positional argument as either a GitHub URL
// or a local path.
func targetFromArg(arg string) server.ScanTarget {
	if strings.HasPrefix(arg, "http://") || strings.HasPrefix(arg, "https://") || strings.HasPrefix(arg, "git@") {
		return server.ScanTarget{GitHubURL: arg}
	}
	return server.ScanTarget{Path: arg}
}
