package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Data struct {
		Symbol string `yaml:"symbol"`
		Range  string `yaml:"range"` // Yahoo range token, e.g. "2y"
	} `yaml:"data"`
	Indicators struct {
		SMAWindow int `yaml:"sma_window"`
		EMAWindow int `yaml:"ema_window"`
		RSIWindow int `yaml:"rsi_window"`
		MACDFast  int `yaml:"macd_fast"`
		MACDSlow  int `yaml:"macd_slow"`
	} `yaml:"indicators"`
	Analysis struct {
		OutlierThreshold float64 `yaml:"outlier_threshold"`
	} `yaml:"analysis"`
	Output struct {
		Dir         string `yaml:"dir"`
		CuratedFile string `yaml:"curated_file"`
		CleanFile   string `yaml:"clean_file"`
		PriceChart  string `yaml:"price_chart"`
		SpikeChart  string `yaml:"spike_chart"`
		ReportFile  string `yaml:"report_file"`
	} `yaml:"output"`
	Schedule struct {
		RefreshCron string `yaml:"refresh_cron"` // empty = run once and exit
	} `yaml:"schedule"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"` // empty = noop recorder
	} `yaml:"database"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("CURATOR_SYMBOL"); v != "" {
		cfg.Data.Symbol = v
	}
	if v := os.Getenv("CURATOR_RANGE"); v != "" {
		cfg.Data.Range = v
	}
	if v := os.Getenv("OUTPUT_DIR"); v != "" {
		cfg.Output.Dir = v
	}
	if v := os.Getenv("OUTLIER_THRESHOLD"); v != "" {
		var th float64
		if _, err := fmt.Sscanf(v, "%f", &th); err == nil {
			cfg.Analysis.OutlierThreshold = th
		}
	}
	if v := os.Getenv("REFRESH_CRON"); v != "" {
		cfg.Schedule.RefreshCron = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}

	// Defaults
	if cfg.Data.Symbol == "" {
		cfg.Data.Symbol = "AAPL"
	}
	if cfg.Data.Range == "" {
		cfg.Data.Range = "2y"
	}
	if cfg.Indicators.SMAWindow == 0 {
		cfg.Indicators.SMAWindow = 20
	}
	if cfg.Indicators.EMAWindow == 0 {
		cfg.Indicators.EMAWindow = 20
	}
	if cfg.Indicators.RSIWindow == 0 {
		cfg.Indicators.RSIWindow = 14
	}
	if cfg.Indicators.MACDFast == 0 {
		cfg.Indicators.MACDFast = 12
	}
	if cfg.Indicators.MACDSlow == 0 {
		cfg.Indicators.MACDSlow = 26
	}
	if cfg.Analysis.OutlierThreshold == 0 {
		cfg.Analysis.OutlierThreshold = 0.10
	}
	if cfg.Output.Dir == "" {
		cfg.Output.Dir = "out"
	}
	if cfg.Output.CuratedFile == "" {
		cfg.Output.CuratedFile = "curated_dataset.csv"
	}
	if cfg.Output.CleanFile == "" {
		cfg.Output.CleanFile = "curated_dataset_clean.csv"
	}
	if cfg.Output.PriceChart == "" {
		cfg.Output.PriceChart = "price_chart.png"
	}
	if cfg.Output.SpikeChart == "" {
		cfg.Output.SpikeChart = "spike_chart.png"
	}
	if cfg.Output.ReportFile == "" {
		cfg.Output.ReportFile = "summary_report.pdf"
	}

	return cfg, nil
}

// Validate checks that all required fields are consistent.
func (c *Config) Validate() error {
	if c.Data.Symbol == "" {
		return fmt.Errorf("data.symbol is required")
	}
	if c.Indicators.SMAWindow <= 0 || c.Indicators.EMAWindow <= 0 || c.Indicators.RSIWindow <= 0 {
		return fmt.Errorf("indicator windows must be positive")
	}
	if c.Indicators.MACDFast <= 0 || c.Indicators.MACDSlow <= 0 {
		return fmt.Errorf("macd periods must be positive")
	}
	if c.Indicators.MACDFast >= c.Indicators.MACDSlow {
		return fmt.Errorf("indicators.macd_fast must be shorter than indicators.macd_slow")
	}
	if c.Analysis.OutlierThreshold <= 0 {
		return fmt.Errorf("analysis.outlier_threshold must be positive")
	}
	return nil
}
