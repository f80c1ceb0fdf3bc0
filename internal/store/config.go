package store

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"trading-report/internal/types"
)

const (
	BackendSubprocess = "SUBPROCESS"
	BackendHTTP       = "HTTP"
	BackendFixture    = "FIXTURE"
)

type Config struct {
	Symbol   string `yaml:"symbol"`
	Date     string `yaml:"date"`
	Analysis struct {
		Backend         string   `yaml:"backend"`
		LLMProvider     string   `yaml:"llm_provider"`
		DeepThinkLLM    string   `yaml:"deep_think_llm"`
		QuickThinkLLM   string   `yaml:"quick_think_llm"`
		MaxDebateRounds int      `yaml:"max_debate_rounds"`
		OnlineTools     *bool    `yaml:"online_tools"`
		Debug           bool     `yaml:"debug"`
		TimeoutSeconds  int      `yaml:"timeout_seconds"`
		Command         string   `yaml:"command"`
		Args            []string `yaml:"args"`
		Endpoint        string   `yaml:"endpoint"`
		FixturePath     string   `yaml:"fixture_path"`
	} `yaml:"analysis"`
	Report struct {
		OutputDir string `yaml:"output_dir"`
		PageSize  string `yaml:"page_size"`
		Compress  *bool  `yaml:"compress"`
		Author    string `yaml:"author"`
	} `yaml:"report"`
	Batch struct {
		Symbols            []string `yaml:"symbols"`
		MinIntervalSeconds int      `yaml:"min_interval_seconds"`
	} `yaml:"batch"`
	RunLog struct {
		Enabled       *bool  `yaml:"enabled"`
		Dir           string `yaml:"dir"`
		RetentionDays int    `yaml:"retention_days"`
	} `yaml:"run_log"`
	Doctor struct {
		FinnhubBaseURL string `yaml:"finnhub_base_url"`
		OpenAIBaseURL  string `yaml:"openai_base_url"`
		ProbeModel     string `yaml:"probe_model"`
		ProbeSymbol    string `yaml:"probe_symbol"`
	} `yaml:"doctor"`
}

// Default returns a config with every default applied, as used when no
// config file exists.
func Default() *Config {
	var c Config
	c.applyDefaults()
	return &c
}

func (c *Config) applyDefaults() {
	if c.Symbol == "" {
		c.Symbol = "AAPL"
	}
	if c.Analysis.Backend == "" {
		c.Analysis.Backend = BackendSubprocess
	}
	if c.Analysis.LLMProvider == "" {
		c.Analysis.LLMProvider = "openai"
	}
	if c.Analysis.DeepThinkLLM == "" {
		c.Analysis.DeepThinkLLM = "gpt-4o-mini"
	}
	if c.Analysis.QuickThinkLLM == "" {
		c.Analysis.QuickThinkLLM = "gpt-4o-mini"
	}
	if c.Analysis.MaxDebateRounds == 0 {
		c.Analysis.MaxDebateRounds = 1
	}
	if c.Analysis.OnlineTools == nil {
		on := true
		c.Analysis.OnlineTools = &on
	}
	if c.Analysis.TimeoutSeconds == 0 {
		c.Analysis.TimeoutSeconds = 1800
	}
	if c.Analysis.Command == "" {
		c.Analysis.Command = "python3"
	}
	if c.Report.OutputDir == "" {
		c.Report.OutputDir = "."
	}
	if c.Report.PageSize == "" {
		c.Report.PageSize = "A4"
	}
	if c.Report.Compress == nil {
		on := true
		c.Report.Compress = &on
	}
	if c.RunLog.Enabled == nil {
		on := true
		c.RunLog.Enabled = &on
	}
	if c.RunLog.Dir == "" {
		c.RunLog.Dir = "logs"
	}
	if c.Doctor.FinnhubBaseURL == "" {
		c.Doctor.FinnhubBaseURL = "https://finnhub.io"
	}
	if c.Doctor.ProbeModel == "" {
		c.Doctor.ProbeModel = c.Analysis.QuickThinkLLM
	}
	if c.Doctor.ProbeSymbol == "" {
		c.Doctor.ProbeSymbol = "AAPL"
	}
}

func (c *Config) applyEnv() {
	if v := os.Getenv("REPORT_SYMBOL"); v != "" {
		c.Symbol = v
	}
	if v := os.Getenv("REPORT_DATE"); v != "" {
		c.Date = v
	}
	if v := os.Getenv("ANALYSIS_BACKEND"); v != "" {
		c.Analysis.Backend = v
	}
	if v := os.Getenv("REPORT_LOG_DIR"); v != "" {
		c.RunLog.Dir = v
	}
	if v := os.Getenv("REPORT_LOG_RETENTION_DAYS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.RunLog.RetentionDays = n
		}
	}
}

func (c *Config) Validate() error {
	c.Analysis.Backend = strings.ToUpper(c.Analysis.Backend)
	switch c.Analysis.Backend {
	case BackendSubprocess:
		if c.Analysis.Command == "" {
			return errors.New("analysis.command cannot be empty for SUBPROCESS backend")
		}
	case BackendHTTP:
		if c.Analysis.Endpoint == "" {
			return errors.New("analysis.endpoint cannot be empty for HTTP backend")
		}
	case BackendFixture:
		if c.Analysis.FixturePath == "" {
			return errors.New("analysis.fixture_path cannot be empty for FIXTURE backend")
		}
	default:
		return fmt.Errorf("invalid analysis.backend '%s': must be 'SUBPROCESS', 'HTTP' or 'FIXTURE'", c.Analysis.Backend)
	}
	if c.Analysis.MaxDebateRounds < 1 {
		return fmt.Errorf("analysis.max_debate_rounds must be at least 1, got %d", c.Analysis.MaxDebateRounds)
	}
	if c.Analysis.TimeoutSeconds < 0 {
		return fmt.Errorf("analysis.timeout_seconds cannot be negative, got %d", c.Analysis.TimeoutSeconds)
	}
	if c.Date != "" {
		if _, err := time.Parse(types.DateLayout, c.Date); err != nil {
			return fmt.Errorf("date '%s' must be formatted as YYYY-MM-DD", c.Date)
		}
	}
	switch strings.ToUpper(c.Report.PageSize) {
	case "A4", "LETTER":
	default:
		return fmt.Errorf("report.page_size must be 'A4' or 'Letter', got '%s'", c.Report.PageSize)
	}
	if c.RunLog.RetentionDays < 0 {
		return fmt.Errorf("run_log.retention_days cannot be negative, got %d", c.RunLog.RetentionDays)
	}
	if c.Batch.MinIntervalSeconds < 0 {
		return fmt.Errorf("batch.min_interval_seconds cannot be negative, got %d", c.Batch.MinIntervalSeconds)
	}
	return nil
}

// LoadConfig reads path, applies defaults and env overrides, then validates.
// A missing file yields the defaults.
func LoadConfig(path string) (*Config, error) {
	var c Config
	b, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(b, &c); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, err
	}

	c.applyEnv()
	c.applyDefaults()

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &c, nil
}

// AnalysisConfig is the configuration bag passed to the framework
func (c *Config) AnalysisConfig() types.AnalysisConfig {
	return types.AnalysisConfig{
		LLMProvider:     c.Analysis.LLMProvider,
		DeepThinkLLM:    c.Analysis.DeepThinkLLM,
		QuickThinkLLM:   c.Analysis.QuickThinkLLM,
		MaxDebateRounds: c.Analysis.MaxDebateRounds,
		OnlineTools:     c.Analysis.OnlineTools != nil && *c.Analysis.OnlineTools,
		Debug:           c.Analysis.Debug,
	}
}

func (c *Config) AnalysisTimeout() time.Duration {
	return time.Duration(c.Analysis.TimeoutSeconds) * time.Second
}

func (c *Config) BatchInterval() time.Duration {
	return time.Duration(c.Batch.MinIntervalSeconds) * time.Second
}

func (c *Config) CompressPDF() bool {
	return c.Report.Compress == nil || *c.Report.Compress
}

func (c *Config) RunLogEnabled() bool {
	return c.RunLog.Enabled == nil || *c.RunLog.Enabled
}
