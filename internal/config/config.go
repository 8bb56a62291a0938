package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// PipelineConfig controls preprocessing, vectorization and clustering for a
// single batch run.
type PipelineConfig struct {
	K                 int      `yaml:"k"`
	Seed              int64    `yaml:"seed"`
	MaxBatchSize      int      `yaml:"max_batch_size"`
	MaxTextLength     int      `yaml:"max_text_length"`
	TopKeywords       int      `yaml:"top_keywords"`
	PositiveThreshold float64  `yaml:"positive_threshold"`
	NegativeThreshold float64  `yaml:"negative_threshold"`
	MaxVocabulary     int      `yaml:"max_vocabulary"`
	MinDocFreq        int      `yaml:"min_doc_freq"`
	MaxDocFreqRatio   float64  `yaml:"max_doc_freq_ratio"`
	ExtraStopwords    []string `yaml:"extra_stopwords,omitempty"`
}

// ScorerConfig configures the primary remote scorer and its worker pool.
type ScorerConfig struct {
	BaseURL     string  `yaml:"base_url"`
	APIKeyEnv   string  `yaml:"api_key_env"`
	Model       string  `yaml:"model"`
	TimeoutSecs int     `yaml:"timeout_secs"`
	MaxRetries  int     `yaml:"max_retries"`
	Workers     int     `yaml:"workers"`
	RatePerSec  float64 `yaml:"rate_per_sec"`
}

// StoreConfig selects and configures the results store implementation.
type StoreConfig struct {
	Type string `yaml:"type"`
	Path string `yaml:"path,omitempty"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	Pipeline PipelineConfig `yaml:"pipeline"`
	Scorer   ScorerConfig   `yaml:"scorer"`
	Store    StoreConfig    `yaml:"store"`
	LogLevel string         `yaml:"log_level"`
}

// Load reads a config from a specified path. If the file does not exist, returns defaults.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return nil, err
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)
	return &cfg, nil
}

// LoadDefault tries ./pulse.yaml first, then ~/.config/pulse/config.yaml.
// If neither exists, it writes defaults to ~/.config/pulse/config.yaml and returns them.
func LoadDefault() (*AppConfig, string, error) {
	cwdPath := "pulse.yaml"
	if _, err := os.Stat(cwdPath); err == nil {
		cfg, err := Load(cwdPath)
		return cfg, cwdPath, err
	}
	userPath, err := defaultUserConfigPath()
	if err != nil {
		return nil, "", err
	}
	if _, err := os.Stat(userPath); err == nil {
		cfg, err := Load(userPath)
		return cfg, userPath, err
	}
	cfg := Default()
	if err := Save(userPath, cfg); err != nil {
		return nil, "", err
	}
	return cfg, userPath, nil
}

// Save writes the config to the given path, creating directories as needed.
func Save(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func defaultUserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "pulse", "config.yaml"), nil
}

// Default returns the configuration used when no file is present.
func Default() *AppConfig {
	return &AppConfig{
		Pipeline: PipelineConfig{
			K:                 4,
			Seed:              42,
			MaxBatchSize:      500,
			MaxTextLength:     5000,
			TopKeywords:       8,
			PositiveThreshold: 0.3,
			NegativeThreshold: -0.3,
			MaxVocabulary:     2000,
			MinDocFreq:        1,
			MaxDocFreqRatio:   0.95,
		},
		Scorer: ScorerConfig{
			BaseURL:     "https://generativelanguage.googleapis.com/v1beta",
			APIKeyEnv:   "GEMINI_API_KEY",
			Model:       "gemini-2.0-flash",
			TimeoutSecs: 15,
			MaxRetries:  2,
			Workers:     4,
			RatePerSec:  5,
		},
		Store:    StoreConfig{Type: "memory"},
		LogLevel: "info",
	}
}

func applyDefaults(cfg *AppConfig) {
	def := Default()
	p := &cfg.Pipeline
	if p.K <= 0 {
		p.K = def.Pipeline.K
	}
	if p.Seed == 0 {
		p.Seed = def.Pipeline.Seed
	}
	if p.MaxBatchSize <= 0 {
		p.MaxBatchSize = def.Pipeline.MaxBatchSize
	}
	if p.MaxTextLength <= 0 {
		p.MaxTextLength = def.Pipeline.MaxTextLength
	}
	if p.TopKeywords <= 0 {
		p.TopKeywords = def.Pipeline.TopKeywords
	}
	if p.PositiveThreshold == 0 {
		p.PositiveThreshold = def.Pipeline.PositiveThreshold
	}
	if p.NegativeThreshold == 0 {
		p.NegativeThreshold = def.Pipeline.NegativeThreshold
	}
	if p.MaxVocabulary <= 0 {
		p.MaxVocabulary = def.Pipeline.MaxVocabulary
	}
	if p.MinDocFreq <= 0 {
		p.MinDocFreq = def.Pipeline.MinDocFreq
	}
	if p.MaxDocFreqRatio <= 0 {
		p.MaxDocFreqRatio = def.Pipeline.MaxDocFreqRatio
	}
	s := &cfg.Scorer
	if s.BaseURL == "" {
		s.BaseURL = def.Scorer.BaseURL
	}
	if s.APIKeyEnv == "" {
		s.APIKeyEnv = def.Scorer.APIKeyEnv
	}
	if s.Model == "" {
		s.Model = def.Scorer.Model
	}
	if s.TimeoutSecs <= 0 {
		s.TimeoutSecs = def.Scorer.TimeoutSecs
	}
	if s.MaxRetries < 0 {
		s.MaxRetries = def.Scorer.MaxRetries
	}
	if s.Workers <= 0 {
		s.Workers = def.Scorer.Workers
	}
	if s.RatePerSec <= 0 {
		s.RatePerSec = def.Scorer.RatePerSec
	}
	if cfg.Store.Type == "" {
		cfg.Store.Type = def.Store.Type
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = def.LogLevel
	}
}
