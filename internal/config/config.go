package config

import (
	"os"
	"strconv"
	"time"

	"tabwise/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Pipeline  PipelineConfig
	Quality   QualityConfig
	Analysis  AnalysisConfig
	Narrative NarrativeConfig
}

// PipelineConfig holds ingestion and cleaning settings
type PipelineConfig struct {
	MaxRows           int     // data rows kept per sheet; excess is truncated deterministically
	MaxPayloadRows    int     // rows per sheet included in the narrative payload
	NumericThreshold  float64 // share of non-null values that must parse for numeric promotion
	TemporalThreshold float64 // share of non-null values that must parse for temporal promotion
}

// QualityConfig holds the quality-score weights and band cutoffs.
// All penalties are subtracted from a starting score of 100; the weighting
// is monotonic: adding a defect never lowers its penalty.
//
// These weights are deliberately not env-tunable. Reweighting the score
// changes what a band means, so they only move together through code, via
// the struct. Everything in PipelineConfig and AnalysisConfig has a
// TABWISE_* env key in Load.
type QualityConfig struct {
	PenaltyEmptySheet    int // sheet with zero data rows
	PenaltyFewRows       int // sheet with fewer than MinRows rows
	MinRows              int
	PenaltyNullsSevere   int     // sheet-wide null share above NullSevere
	PenaltyNullsHigh     int     // above NullHigh
	PenaltyNullsModerate int     // above NullModerate
	NullSevere           float64 // 0.50
	NullHigh             float64 // 0.20
	NullModerate         float64 // 0.05
	PenaltyNullColumn    int     // per column above ColumnNullRatio
	ColumnNullRatio      float64 // 0.50
	PenaltyDupsHigh      int     // duplicate rows above DupHighShare
	PenaltyDupsLow       int     // any duplicate rows
	DupHighShare         float64 // 0.10
	PenaltyZeroVariance  int     // per constant column
	PenaltyTypeMiscast   int     // per numeric-looking categorical column

	// Band cutoffs: score >= Excellent -> excellent, >= Good -> good, ...
	BandExcellent  int
	BandGood       int
	BandAcceptable int
	BandPoor       int
}

// AnalysisConfig holds the quantitative analyzer's tuning knobs
type AnalysisConfig struct {
	CorrelationThreshold  float64 // |r| above this is significant
	MinCorrelationSamples int     // paired non-null observations required
	IQRMultiplier         float64 // fence distance in IQRs
	MinAnomalySamples     int     // non-null values required for outlier detection
	TrendEpsilon          float64 // |slope| at or below this is flat
	MinTrendPoints        int     // paired points required for a trend record
	MaxGroupCardinality   int     // categorical columns above this are not grouped
	TopValueCount         int     // category frequencies kept per categorical KPI
	Workers               int     // parallel per-column computations; 0 = sequential
}

// NarrativeConfig holds external LLM settings
type NarrativeConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	MaxTokens   int
	Temperature float64
	Timeout     time.Duration
}

// Default returns the documented default configuration
func Default() Config {
	return Config{
		Pipeline: PipelineConfig{
			MaxRows:           100000,
			MaxPayloadRows:    2000,
			NumericThreshold:  0.8,
			TemporalThreshold: 0.8,
		},
		Quality: QualityConfig{
			PenaltyEmptySheet:    20,
			PenaltyFewRows:       5,
			MinRows:              3,
			PenaltyNullsSevere:   25,
			PenaltyNullsHigh:     10,
			PenaltyNullsModerate: 3,
			NullSevere:           0.50,
			NullHigh:             0.20,
			NullModerate:         0.05,
			PenaltyNullColumn:    4,
			ColumnNullRatio:      0.50,
			PenaltyDupsHigh:      5,
			PenaltyDupsLow:       2,
			DupHighShare:         0.10,
			PenaltyZeroVariance:  2,
			PenaltyTypeMiscast:   2,
			BandExcellent:        90,
			BandGood:             75,
			BandAcceptable:       60,
			BandPoor:             40,
		},
		Analysis: AnalysisConfig{
			CorrelationThreshold:  0.5,
			MinCorrelationSamples: 3,
			IQRMultiplier:         1.5,
			MinAnomalySamples:     5,
			TrendEpsilon:          1e-9,
			MinTrendPoints:        3,
			MaxGroupCardinality:   50,
			TopValueCount:         30,
			Workers:               0,
		},
		Narrative: NarrativeConfig{
			BaseURL:     "https://api.openai.com/v1",
			Model:       "gpt-4o",
			MaxTokens:   16000,
			Temperature: 1.0,
			Timeout:     120 * time.Second,
		},
	}
}

// Load reads configuration from environment variables on top of defaults
func Load() (*Config, error) {
	cfg := Default()

	cfg.Pipeline.MaxRows = getEnvIntOrDefault("TABWISE_MAX_ROWS", cfg.Pipeline.MaxRows)
	cfg.Pipeline.MaxPayloadRows = getEnvIntOrDefault("TABWISE_MAX_PAYLOAD_ROWS", cfg.Pipeline.MaxPayloadRows)
	cfg.Pipeline.NumericThreshold = getEnvFloatOrDefault("TABWISE_NUMERIC_THRESHOLD", cfg.Pipeline.NumericThreshold)
	cfg.Pipeline.TemporalThreshold = getEnvFloatOrDefault("TABWISE_TEMPORAL_THRESHOLD", cfg.Pipeline.TemporalThreshold)

	cfg.Analysis.CorrelationThreshold = getEnvFloatOrDefault("TABWISE_CORRELATION_THRESHOLD", cfg.Analysis.CorrelationThreshold)
	cfg.Analysis.MinCorrelationSamples = getEnvIntOrDefault("TABWISE_MIN_CORRELATION_SAMPLES", cfg.Analysis.MinCorrelationSamples)
	cfg.Analysis.IQRMultiplier = getEnvFloatOrDefault("TABWISE_IQR_MULTIPLIER", cfg.Analysis.IQRMultiplier)
	cfg.Analysis.MinAnomalySamples = getEnvIntOrDefault("TABWISE_MIN_ANOMALY_SAMPLES", cfg.Analysis.MinAnomalySamples)
	cfg.Analysis.TrendEpsilon = getEnvFloatOrDefault("TABWISE_TREND_EPSILON", cfg.Analysis.TrendEpsilon)
	cfg.Analysis.MinTrendPoints = getEnvIntOrDefault("TABWISE_MIN_TREND_POINTS", cfg.Analysis.MinTrendPoints)
	cfg.Analysis.MaxGroupCardinality = getEnvIntOrDefault("TABWISE_MAX_GROUP_CARDINALITY", cfg.Analysis.MaxGroupCardinality)
	cfg.Analysis.TopValueCount = getEnvIntOrDefault("TABWISE_TOP_VALUE_COUNT", cfg.Analysis.TopValueCount)
	cfg.Analysis.Workers = getEnvIntOrDefault("TABWISE_ANALYSIS_WORKERS", cfg.Analysis.Workers)

	cfg.Narrative.APIKey = getEnvOrDefault("OPENAI_API_KEY", "")
	cfg.Narrative.BaseURL = getEnvOrDefault("OPENAI_BASE_URL", cfg.Narrative.BaseURL)
	cfg.Narrative.Model = getEnvOrDefault("LLM_MODEL", cfg.Narrative.Model)
	cfg.Narrative.MaxTokens = getEnvIntOrDefault("MAX_TOKENS", cfg.Narrative.MaxTokens)
	cfg.Narrative.Temperature = getEnvFloatOrDefault("TEMPERATURE", cfg.Narrative.Temperature)
	cfg.Narrative.Timeout = getEnvDurationOrDefault("LLM_TIMEOUT", cfg.Narrative.Timeout)

	if err := validate(&cfg); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return &cfg, nil
}

func validate(cfg *Config) error {
	if cfg.Pipeline.MaxRows <= 0 {
		return errors.ConfigInvalid("TABWISE_MAX_ROWS must be positive")
	}
	if cfg.Pipeline.NumericThreshold <= 0 || cfg.Pipeline.NumericThreshold > 1 {
		return errors.ConfigInvalid("TABWISE_NUMERIC_THRESHOLD must be in (0,1]")
	}
	if cfg.Pipeline.TemporalThreshold <= 0 || cfg.Pipeline.TemporalThreshold > 1 {
		return errors.ConfigInvalid("TABWISE_TEMPORAL_THRESHOLD must be in (0,1]")
	}
	if cfg.Analysis.CorrelationThreshold < 0 || cfg.Analysis.CorrelationThreshold > 1 {
		return errors.ConfigInvalid("TABWISE_CORRELATION_THRESHOLD must be in [0,1]")
	}
	if cfg.Analysis.IQRMultiplier <= 0 {
		return errors.ConfigInvalid("TABWISE_IQR_MULTIPLIER must be positive")
	}
	if cfg.Analysis.MinTrendPoints < 2 {
		return errors.ConfigInvalid("TABWISE_MIN_TREND_POINTS must be at least 2")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
