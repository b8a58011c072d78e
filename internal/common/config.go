package common

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all application configuration
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Extract ExtractConfig `yaml:"extract"`
	Watch   WatchConfig   `yaml:"watch"`
	Export  ExportConfig  `yaml:"export"`
	Log     LogConfig     `yaml:"log"`
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	GRPCAddr string `yaml:"grpc_addr"`
}

// ExtractConfig holds text acquisition and parsing configuration
type ExtractConfig struct {
	PdftotextBin       string        `yaml:"pdftotext_bin"`
	RequireDestination bool          `yaml:"require_destination"`
	ProcessTimeout     time.Duration `yaml:"process_timeout"`
}

// WatchConfig holds inbox watching configuration
type WatchConfig struct {
	Inbox       string        `yaml:"inbox"`
	Outbox      string        `yaml:"outbox"`
	Workers     int           `yaml:"workers"`
	QueueSize   int           `yaml:"queue_size"`
	Debounce    time.Duration `yaml:"debounce"`
	InitialScan bool          `yaml:"initial_scan"`
}

// ExportConfig lists the artifacts written per manifest: csv, xlsx, json.
type ExportConfig struct {
	Formats []string `yaml:"formats"`
}

// LogConfig holds logger configuration
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // json or console
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{GRPCAddr: ":8080"},
		Extract: ExtractConfig{
			PdftotextBin:   "pdftotext",
			ProcessTimeout: 2 * time.Minute,
		},
		Watch: WatchConfig{
			Inbox:       "./inbox",
			Outbox:      "./outbox",
			Workers:     4,
			QueueSize:   256,
			Debounce:    500 * time.Millisecond,
			InitialScan: true,
		},
		Export: ExportConfig{Formats: []string{"csv", "xlsx"}},
		Log:    LogConfig{Level: "info", Format: "json"},
	}
}

// LoadConfig builds configuration from defaults, an optional YAML file, an
// optional .env file in the working directory and finally the environment.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.Server.GRPCAddr = getEnv("GRPC_ADDR", c.Server.GRPCAddr)
	if !strings.HasPrefix(c.Server.GRPCAddr, ":") && !strings.Contains(c.Server.GRPCAddr, ":") {
		c.Server.GRPCAddr = ":" + c.Server.GRPCAddr
	}

	c.Extract.PdftotextBin = getEnv("PDFTOTEXT_BIN", c.Extract.PdftotextBin)
	c.Extract.RequireDestination = getEnvAsBool("REQUIRE_DESTINATION", c.Extract.RequireDestination)
	c.Extract.ProcessTimeout = getEnvAsDuration("PROCESS_TIMEOUT", c.Extract.ProcessTimeout)

	c.Watch.Inbox = getEnv("WATCH_INBOX", c.Watch.Inbox)
	c.Watch.Outbox = getEnv("WATCH_OUTBOX", c.Watch.Outbox)
	c.Watch.Workers = getEnvAsInt("WATCH_WORKERS", c.Watch.Workers)
	c.Watch.QueueSize = getEnvAsInt("WATCH_QUEUE_SIZE", c.Watch.QueueSize)
	c.Watch.Debounce = getEnvAsDuration("WATCH_DEBOUNCE", c.Watch.Debounce)
	c.Watch.InitialScan = getEnvAsBool("WATCH_INITIAL_SCAN", c.Watch.InitialScan)

	if v := getEnv("EXPORT_FORMATS", ""); v != "" {
		c.Export.Formats = splitList(v)
	}

	c.Log.Level = getEnv("LOG_LEVEL", c.Log.Level)
	c.Log.Format = getEnv("LOG_FORMAT", c.Log.Format)
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.ToLower(strings.TrimSpace(part)); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	v := NewValidator().
		Field("server.grpc_addr", c.Server.GRPCAddr, Required).
		Field("extract.pdftotext_bin", c.Extract.PdftotextBin, Required).
		Field("watch.workers", c.Watch.Workers, Positive).
		Field("watch.queue_size", c.Watch.QueueSize, Positive).
		Field("log.level", c.Log.Level, OneOf("debug", "info", "warn", "error")).
		Field("log.format", c.Log.Format, OneOf("json", "console"))
	for _, f := range c.Export.Formats {
		v.Field("export.formats", f, OneOf("csv", "xlsx", "json"))
	}
	if v.HasErrors() {
		return NewAppError("CONFIG_ERROR", v.ErrorMessage(), ErrInvalidInput)
	}
	return nil
}

// Wants reports whether the export format list contains format.
func (e ExportConfig) Wants(format string) bool {
	for _, f := range e.Formats {
		if strings.EqualFold(f, format) {
			return true
		}
	}
	return false
}
