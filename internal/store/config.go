package store

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Mode       string `yaml:"mode"`        // DRY_RUN or LIVE
	DataSource string `yaml:"data_source"` // STATIC or LIVE
	Exchange   string `yaml:"exchange"`

	Scan struct {
		IntervalSeconds int     `yaml:"interval_seconds"`
		WarmupSeconds   int     `yaml:"warmup_seconds"`
		MinVolume       float64 `yaml:"min_volume"`
		TopN            int     `yaml:"top_n"`
		Parallelism     int     `yaml:"parallelism"`
	} `yaml:"scan"`

	Universe struct {
		Static []string `yaml:"static"`
		FNO    []string `yaml:"fno"`
	} `yaml:"universe"`

	Scoring struct {
		Profile string `yaml:"profile"` // default, strict, aggressive
	} `yaml:"scoring"`

	Risk struct {
		TargetATRMult float64 `yaml:"target_atr_mult"`
		StopATRMult   float64 `yaml:"stop_atr_mult"`
		MinRatio      float64 `yaml:"min_ratio"`
		StrongRatio   float64 `yaml:"strong_ratio"`
	} `yaml:"risk"`

	Safety struct {
		MaxTradesPerDay int     `yaml:"max_trades_per_day"`
		VIXWarnLevel    float64 `yaml:"vix_warn_level"`
		VIXBlockLevel   float64 `yaml:"vix_block_level"`
	} `yaml:"safety"`

	Indicators struct {
		EMAFast   int `yaml:"ema_fast"`
		EMASlow   int `yaml:"ema_slow"`
		RSIPeriod int `yaml:"rsi_period"`
		ATRPeriod int `yaml:"atr_period"`
		RangeBars int `yaml:"range_bars"`
	} `yaml:"indicators"`

	VIX struct {
		Source string  `yaml:"source"` // LIVE or STATIC
		Static float64 `yaml:"static"`
	} `yaml:"vix"`

	Events struct {
		CalendarURL     string `yaml:"calendar_url"`
		CacheTTLMinutes int    `yaml:"cache_ttl_minutes"`
		Enabled         bool   `yaml:"enabled"`
	} `yaml:"events"`
}

func (c *Config) Validate() error {
	if c.Mode != "DRY_RUN" && c.Mode != "LIVE" {
		return fmt.Errorf("invalid mode '%s': must be 'DRY_RUN' or 'LIVE'", c.Mode)
	}
	if c.DataSource != "STATIC" && c.DataSource != "LIVE" {
		return fmt.Errorf("invalid data_source '%s': must be 'STATIC' or 'LIVE'", c.DataSource)
	}
	if len(c.Universe.Static) == 0 {
		return errors.New("universe.static cannot be empty")
	}
	if c.Scan.IntervalSeconds <= 0 {
		return fmt.Errorf("scan.interval_seconds must be positive, got %d", c.Scan.IntervalSeconds)
	}
	switch c.Scoring.Profile {
	case "default", "strict", "aggressive":
	default:
		return fmt.Errorf("scoring.profile must be 'default', 'strict', or 'aggressive', got '%s'", c.Scoring.Profile)
	}
	if c.Risk.MinRatio <= 0 {
		return fmt.Errorf("risk.min_ratio must be positive, got %.2f", c.Risk.MinRatio)
	}
	if c.Risk.StrongRatio < c.Risk.MinRatio {
		return fmt.Errorf("risk.strong_ratio (%.2f) must be >= risk.min_ratio (%.2f)", c.Risk.StrongRatio, c.Risk.MinRatio)
	}
	if c.Safety.VIXBlockLevel < c.Safety.VIXWarnLevel {
		return fmt.Errorf("safety.vix_block_level (%.1f) must be >= safety.vix_warn_level (%.1f)", c.Safety.VIXBlockLevel, c.Safety.VIXWarnLevel)
	}
	return nil
}

func LoadConfig(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}

	applyDefaults(&c)

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &c, nil
}

func applyDefaults(c *Config) {
	if c.DataSource == "" {
		c.DataSource = "STATIC"
	}
	if c.Scan.IntervalSeconds == 0 {
		c.Scan.IntervalSeconds = 60
	}
	if c.Scan.WarmupSeconds == 0 {
		c.Scan.WarmupSeconds = 2
	}
	if c.Scan.TopN == 0 {
		c.Scan.TopN = 10
	}
	if c.Scan.Parallelism == 0 {
		c.Scan.Parallelism = 8
	}
	if c.Scoring.Profile == "" {
		c.Scoring.Profile = "default"
	}
	if c.Risk.TargetATRMult == 0 {
		c.Risk.TargetATRMult = 2.0
	}
	if c.Risk.StopATRMult == 0 {
		c.Risk.StopATRMult = 1.0
	}
	if c.Risk.MinRatio == 0 {
		c.Risk.MinRatio = 1.2
	}
	if c.Risk.StrongRatio == 0 {
		c.Risk.StrongRatio = 2.0
	}
	if c.Safety.MaxTradesPerDay == 0 {
		c.Safety.MaxTradesPerDay = 3
	}
	if c.Safety.VIXWarnLevel == 0 {
		c.Safety.VIXWarnLevel = 20
	}
	if c.Safety.VIXBlockLevel == 0 {
		c.Safety.VIXBlockLevel = 30
	}
	if c.Indicators.EMAFast == 0 {
		c.Indicators.EMAFast = 20
	}
	if c.Indicators.EMASlow == 0 {
		c.Indicators.EMASlow = 50
	}
	if c.Indicators.RSIPeriod == 0 {
		c.Indicators.RSIPeriod = 14
	}
	if c.Indicators.ATRPeriod == 0 {
		c.Indicators.ATRPeriod = 14
	}
	if c.Indicators.RangeBars == 0 {
		c.Indicators.RangeBars = 20
	}
	if c.VIX.Source == "" {
		c.VIX.Source = "STATIC"
	}
	if c.VIX.Static == 0 {
		c.VIX.Static = 14.5
	}
	if c.Events.CacheTTLMinutes == 0 {
		c.Events.CacheTTLMinutes = 120
	}
}
