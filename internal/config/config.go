package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const envPrefix = "PAYSLIP_"

// Config holds all application configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Parser  ParserConfig  `yaml:"parser"`
	Log     LogConfig     `yaml:"log"`
	Metrics MetricsConfig `yaml:"metrics"`
}

type ServerConfig struct {
	Host        string `yaml:"host"`
	Port        int    `yaml:"port"`
	BodyLimitMB int    `yaml:"bodyLimitMB"`
}

type ParserConfig struct {
	YTolerance float64 `yaml:"yTolerance"`
	MaxPages   int     `yaml:"maxPages"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	Env   string `yaml:"env"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Server:  ServerConfig{Host: "0.0.0.0", Port: 8080, BodyLimitMB: 32},
		Parser:  ParserConfig{YTolerance: 2, MaxPages: 0},
		Log:     LogConfig{Level: "info", Env: "development"},
		Metrics: MetricsConfig{Enabled: true},
	}
}

// Load builds the configuration from defaults, then the YAML file at path
// (skipped when path is empty), then a .env file in the working directory,
// then PAYSLIP_* environment variables.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := readFile(path, cfg); err != nil {
			return nil, err
		}
	}

	// A missing .env is normal; variables already set in the process win.
	_ = godotenv.Load()

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func readFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	var err error
	c.Server.Host = getEnv("HOST", c.Server.Host)
	if c.Server.Port, err = getEnvAsInt("PORT", c.Server.Port); err != nil {
		return err
	}
	if c.Server.BodyLimitMB, err = getEnvAsInt("BODY_LIMIT_MB", c.Server.BodyLimitMB); err != nil {
		return err
	}
	if c.Parser.YTolerance, err = getEnvAsFloat("Y_TOLERANCE", c.Parser.YTolerance); err != nil {
		return err
	}
	if c.Parser.MaxPages, err = getEnvAsInt("MAX_PAGES", c.Parser.MaxPages); err != nil {
		return err
	}
	c.Log.Level = getEnv("LOG_LEVEL", c.Log.Level)
	c.Log.Env = getEnv("ENV", c.Log.Env)
	if c.Metrics.Enabled, err = getEnvAsBool("METRICS_ENABLED", c.Metrics.Enabled); err != nil {
		return err
	}
	return nil
}

// Validate rejects settings the server or parser cannot run with.
func (c *Config) Validate() error {
	var errs []error
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port %d out of range", c.Server.Port))
	}
	if c.Server.BodyLimitMB <= 0 {
		errs = append(errs, fmt.Errorf("server.bodyLimitMB must be positive, got %d", c.Server.BodyLimitMB))
	}
	if c.Parser.YTolerance < 0 {
		errs = append(errs, fmt.Errorf("parser.yTolerance must not be negative, got %g", c.Parser.YTolerance))
	}
	if c.Parser.MaxPages < 0 {
		errs = append(errs, fmt.Errorf("parser.maxPages must not be negative, got %d", c.Parser.MaxPages))
	}
	switch c.Log.Env {
	case "development", "production":
	default:
		errs = append(errs, fmt.Errorf("log.env must be development or production, got %q", c.Log.Env))
	}
	return errors.Join(errs...)
}

// Addr returns the host:port the server listens on.
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// BodyLimit returns the request body limit in bytes.
func (c *ServerConfig) BodyLimit() int {
	return c.BodyLimitMB * 1024 * 1024
}

func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(envPrefix + key)); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) (int, error) {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s%s: %w", envPrefix, key, err)
	}
	return v, nil
}

func getEnvAsFloat(key string, defaultValue float64) (float64, error) {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", "."), 64)
	if err != nil {
		return 0, fmt.Errorf("%s%s: %w", envPrefix, key, err)
	}
	return v, nil
}

func getEnvAsBool(key string, defaultValue bool) (bool, error) {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("%s%s: %w", envPrefix, key, err)
	}
	return v, nil
}
