package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"

	"pulse/internal/config"
	"pulse/internal/domain"
	"pulse/internal/engine"
	"pulse/internal/sentiment"
	"pulse/internal/store"
	"pulse/internal/store/memory"
	"pulse/internal/store/sqlite"
	"pulse/internal/tui"
)

func main() {
	_ = godotenv.Load()

	var cfgPath, inputPath, output string
	flag.StringVar(&cfgPath, "config", "", "Path to YAML config file (optional; uses ~/.config/pulse/config.yaml if not provided)")
	flag.StringVar(&inputPath, "input", "", "Path to a JSON file with the batch of posts")
	flag.StringVar(&output, "output", "json", "Output mode: json or tui")
	flag.Parse()
	if inputPath == "" {
		fmt.Println("Usage: pulse [--config=pulse.yaml] --input=posts.json [--output=json|tui]")
		os.Exit(1)
	}

	var cfg *config.AppConfig
	var err error
	if cfgPath == "" {
		cfg, _, err = config.LoadDefault()
	} else {
		cfg, err = config.Load(cfgPath)
	}
	if err != nil {
		log.Fatal("failed to load config", "err", err)
	}

	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true})
	if lvl, perr := log.ParseLevel(cfg.LogLevel); perr == nil {
		logger.SetLevel(lvl)
	}

	posts, err := readPosts(inputPath)
	if err != nil {
		log.Fatal("failed to read posts", "err", err)
	}

	scorer := buildScorer(cfg, logger)
	eng := engine.New(cfg.Pipeline, scorer, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	result, err := eng.Process(ctx, posts)
	if err != nil {
		// validation failures are the caller's problem; report and exit
		data, _ := json.Marshal(map[string]any{"error": err})
		fmt.Println(string(data))
		os.Exit(2)
	}

	persist(ctx, cfg, logger, result)

	switch output {
	case "tui":
		m := tui.New(result, posts)
		if _, err := tea.NewProgram(m).Run(); err != nil {
			log.Fatal("tui failed", "err", err)
		}
	default:
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			log.Fatal("failed to encode result", "err", err)
		}
		fmt.Println(string(data))
	}
}

func readPosts(path string) ([]domain.Post, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var posts []domain.Post
	if err := json.Unmarshal(data, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

func buildScorer(cfg *config.AppConfig, logger *log.Logger) *sentiment.Scorer {
	opts := sentiment.Options{
		Workers:           cfg.Scorer.Workers,
		Timeout:           time.Duration(cfg.Scorer.TimeoutSecs) * time.Second,
		MaxRetries:        cfg.Scorer.MaxRetries,
		RatePerSec:        cfg.Scorer.RatePerSec,
		PositiveThreshold: cfg.Pipeline.PositiveThreshold,
		NegativeThreshold: cfg.Pipeline.NegativeThreshold,
		Logger:            logger,
	}
	fallback := sentiment.NewLexiconScorer()

	var primary domain.PrimaryScorer
	if key := os.Getenv(cfg.Scorer.APIKeyEnv); key != "" {
		client, err := sentiment.NewGeminiClient(sentiment.GeminiConfig{
			BaseURL: cfg.Scorer.BaseURL,
			APIKey:  key,
			Model:   cfg.Scorer.Model,
			Timeout: time.Duration(cfg.Scorer.TimeoutSecs) * time.Second,
		})
		if err != nil {
			logger.Warn("primary scorer unavailable, using fallback only", "err", err)
		} else {
			primary = client
		}
	} else {
		logger.Warn("scorer credential not set, using fallback only", "env", cfg.Scorer.APIKeyEnv)
	}
	return sentiment.New(primary, fallback, opts)
}

func persist(ctx context.Context, cfg *config.AppConfig, logger *log.Logger, result *domain.BatchResult) {
	var st store.Store
	switch cfg.Store.Type {
	case "memory", "":
		st = memory.New()
	case "sqlite":
		s, err := sqlite.Open(cfg.Store.Path)
		if err != nil {
			log.Fatal("failed to open store", "err", err)
		}
		st = s
	default:
		log.Fatal("unknown store", "type", cfg.Store.Type)
	}
	defer st.Close()

	if err := st.Init(ctx); err != nil {
		logger.Error("store init failed", "err", err)
		return
	}
	report, err := st.SaveResult(ctx, result)
	if err != nil {
		logger.Error("failed to persist result", "run", result.RunID, "err", err)
		return
	}
	for _, f := range report.Failures {
		logger.Error("item write failed", "kind", f.Kind, "key", f.Key, "err", f.Err)
	}
	logger.Info("result persisted", "run", result.RunID, "written", report.Written, "failed", len(report.Failures))
}
