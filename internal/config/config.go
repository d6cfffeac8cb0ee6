// Package config handles service configuration.
// Values come from an optional YAML file named by CONFIG_FILE, then environment overrides.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	HTTPAddr       string `yaml:"http_addr"`
	HealthGRPCAddr string `yaml:"health_grpc_addr"`

	APIKey             string `yaml:"api_key"`
	APIBaseURL         string `yaml:"api_base_url"`
	TranscriptionModel string `yaml:"transcription_model"`
	DefaultLanguage    string `yaml:"default_language"`
	DefaultModel       string `yaml:"default_model"`
	SummaryPromptFile  string `yaml:"summary_prompt_file"`

	TempDir             string  `yaml:"temp_dir"`
	CompressThresholdMB float64 `yaml:"compress_threshold_mb"`
	FFmpegPath          string  `yaml:"ffmpeg_path"`
	MaxUploadMB         int64   `yaml:"max_upload_mb"`

	HTTPWriteTimeout time.Duration `yaml:"http_write_timeout"`
	ShutdownTimeout  time.Duration `yaml:"shutdown_timeout"`
	BreakerThreshold int           `yaml:"breaker_threshold"` // 0 disables

	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
}

// Defaults returns the built-in configuration.
func Defaults() *Config {
	return &Config{
		HTTPAddr:            ":8000",
		HealthGRPCAddr:      ":50052",
		APIBaseURL:          "https://albert.api.etalab.gouv.fr/v1",
		TranscriptionModel:  "openai/whisper-large-v3",
		DefaultLanguage:     "fr",
		DefaultModel:        "mistral",
		TempDir:             os.TempDir(),
		CompressThresholdMB: 15,
		FFmpegPath:          "ffmpeg",
		MaxUploadMB:         512,
		HTTPWriteTimeout:    15 * time.Minute,
		ShutdownTimeout:     30 * time.Second,
		LogLevel:            "info",
		LogFormat:           "text",
	}
}

// Load reads CONFIG_FILE when set, then applies environment overrides.
func Load() (*Config, error) {
	cfg := Defaults()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.HTTPAddr = getEnv("HTTP_ADDR", c.HTTPAddr)
	c.HealthGRPCAddr = getEnvAllowEmpty("HEALTH_GRPC_ADDR", c.HealthGRPCAddr)
	c.APIKey = getEnv("ALBERT_API_KEY", c.APIKey)
	c.APIBaseURL = getEnv("ALBERT_BASE_URL", c.APIBaseURL)
	c.TranscriptionModel = getEnv("TRANSCRIPTION_MODEL", c.TranscriptionModel)
	c.DefaultLanguage = getEnv("DEFAULT_LANGUAGE", c.DefaultLanguage)
	c.DefaultModel = getEnv("DEFAULT_MODEL", c.DefaultModel)
	c.SummaryPromptFile = getEnv("SUMMARY_PROMPT_FILE", c.SummaryPromptFile)
	c.TempDir = getEnv("TEMP_DIR", c.TempDir)
	c.CompressThresholdMB = getEnvFloat("COMPRESS_THRESHOLD_MB", c.CompressThresholdMB)
	c.FFmpegPath = getEnv("FFMPEG_PATH", c.FFmpegPath)
	c.MaxUploadMB = int64(getEnvInt("MAX_UPLOAD_MB", int(c.MaxUploadMB)))
	c.HTTPWriteTimeout = getEnvDuration("HTTP_WRITE_TIMEOUT", c.HTTPWriteTimeout)
	c.ShutdownTimeout = getEnvDuration("SHUTDOWN_TIMEOUT", c.ShutdownTimeout)
	c.BreakerThreshold = getEnvInt("BREAKER_THRESHOLD", c.BreakerThreshold)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
	c.LogFormat = getEnv("LOG_FORMAT", c.LogFormat)
}

// Validate fills defaults for zero values and rejects impossible settings.
// A missing API key is not an error here; remote calls fail per job instead.
func (c *Config) Validate() error {
	d := Defaults()
	if c.HTTPAddr == "" {
		c.HTTPAddr = d.HTTPAddr
	}
	if c.APIBaseURL == "" {
		c.APIBaseURL = d.APIBaseURL
	}
	if c.TranscriptionModel == "" {
		c.TranscriptionModel = d.TranscriptionModel
	}
	if c.DefaultLanguage == "" {
		c.DefaultLanguage = d.DefaultLanguage
	}
	if c.DefaultModel == "" {
		c.DefaultModel = d.DefaultModel
	}
	if c.TempDir == "" {
		c.TempDir = d.TempDir
	}
	if c.FFmpegPath == "" {
		c.FFmpegPath = d.FFmpegPath
	}
	if c.HTTPWriteTimeout == 0 {
		c.HTTPWriteTimeout = d.HTTPWriteTimeout
	}
	if c.ShutdownTimeout == 0 {
		c.ShutdownTimeout = d.ShutdownTimeout
	}

	if c.CompressThresholdMB <= 0 {
		return fmt.Errorf("compress_threshold_mb must be positive, got %v", c.CompressThresholdMB)
	}
	if c.MaxUploadMB <= 0 {
		return fmt.Errorf("max_upload_mb must be positive, got %d", c.MaxUploadMB)
	}
	if c.BreakerThreshold < 0 {
		return fmt.Errorf("breaker_threshold must not be negative, got %d", c.BreakerThreshold)
	}
	switch strings.ToLower(c.LogFormat) {
	case "", "text", "json":
	default:
		return fmt.Errorf("log_format must be text or json, got %q", c.LogFormat)
	}
	return nil
}

// CompressThresholdBytes converts the MiB threshold to bytes.
func (c *Config) CompressThresholdBytes() int64 {
	return int64(c.CompressThresholdMB * 1024 * 1024)
}

// MaxUploadBytes converts the MiB upload limit to bytes.
func (c *Config) MaxUploadBytes() int64 {
	return c.MaxUploadMB * 1024 * 1024
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// getEnvAllowEmpty lets an explicitly empty variable clear the value.
func getEnvAllowEmpty(key, def string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func getEnvFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
