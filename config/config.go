/*
Package config loads menu-engine settings from layered sources.

PRECEDENCE (lowest to highest):
  1. Built-in defaults
  2. YAML file (--config, or menu-engine.yaml in the working directory)
  3. Environment variables, MENU_ prefix, "__" separating sections:
       MENU_SERVER__PORT=9000          -> server.port
       MENU_PIPELINE__CACHE_SIZE=64    -> pipeline.cache_size
       MENU_ADVISOR__API_KEY=...       -> advisor.api_key
  4. Command-line flags that were explicitly set

EXAMPLE FILE:
  server:
    port: 8080
    cors_origins: ["http://localhost:5173"]
  pipeline:
    strip_trailing_dots: true
  schema:
    sales_file: schemas/sales.json
  advisor:
    url: http://localhost:9100/advise
    timeout: 90s
  defaults:
    sales_file: data/vendas.csv
    cost_file: data/custos.csv
    refresh_interval: 10m

SEE ALSO:
  - factory/schema.go: Format of schema.sales_file / schema.cost_file
  - menu/options.go:   What the pipeline switches do
*/
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
	"github.com/warp/menu-engine/menu"
)

// DefaultFile is looked up in the working directory when no --config is given.
const DefaultFile = "menu-engine.yaml"

// EnvPrefix prefixes every environment variable the loader reads.
const EnvPrefix = "MENU_"

// Config is the full settings tree.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Pipeline PipelineConfig `koanf:"pipeline"`
	Schema   SchemaConfig   `koanf:"schema"`
	Advisor  AdvisorConfig  `koanf:"advisor"`
	Defaults DefaultsConfig `koanf:"defaults"`
	Log      LogConfig      `koanf:"log"`

	// File is the YAML file that was loaded, empty if none.
	File string `koanf:"-"`
}

type ServerConfig struct {
	Port        int      `koanf:"port"`
	CORSOrigins []string `koanf:"cors_origins"`
}

type PipelineConfig struct {
	StripTrailingDots            bool `koanf:"strip_trailing_dots"`
	ExcludeNegativeProfitability bool `koanf:"exclude_negative_profitability"`
	AggregateDuplicateSales      bool `koanf:"aggregate_duplicate_sales"`
	CacheSize                    int  `koanf:"cache_size"`
	ExcerptSize                  int  `koanf:"excerpt_size"`
}

// SchemaConfig points at optional JSON files that extend the built-in
// column schemas.
type SchemaConfig struct {
	SalesFile string `koanf:"sales_file"`
	CostFile  string `koanf:"cost_file"`
}

type AdvisorConfig struct {
	URL         string        `koanf:"url"`
	APIKey      string        `koanf:"api_key"`
	Timeout     time.Duration `koanf:"timeout"`
	MinInterval time.Duration `koanf:"min_interval"`
}

// DefaultsConfig names the exports used when a request does not upload one.
type DefaultsConfig struct {
	SalesFile       string        `koanf:"sales_file"`
	CostFile        string        `koanf:"cost_file"`
	RefreshInterval time.Duration `koanf:"refresh_interval"` // 0 disables
}

type LogConfig struct {
	Level string `koanf:"level"`
}

func defaults() map[string]any {
	return map[string]any{
		"server.port":                             8080,
		"server.cors_origins":                     []string{"http://localhost:5173", "http://localhost:8080"},
		"pipeline.strip_trailing_dots":            false,
		"pipeline.exclude_negative_profitability": false,
		"pipeline.aggregate_duplicate_sales":      true,
		"pipeline.cache_size":                     menu.DefaultCacheSize,
		"pipeline.excerpt_size":                   menu.DefaultExcerptSize,
		"advisor.timeout":                         "2m",
		"advisor.min_interval":                    "0s",
		"defaults.refresh_interval":               "5m",
		"log.level":                               "info",
	}
}

// flagKeys maps command-line flag names to config keys. Flags not listed
// here (input paths, output format) are not configuration.
var flagKeys = map[string]string{
	"port":                "server.port",
	"cors-origins":        "server.cors_origins",
	"strip-trailing-dots": "pipeline.strip_trailing_dots",
	"exclude-negative":    "pipeline.exclude_negative_profitability",
	"cache-size":          "pipeline.cache_size",
	"excerpt-size":        "pipeline.excerpt_size",
	"sales-schema":        "schema.sales_file",
	"cost-schema":         "schema.cost_file",
	"advisor-url":         "advisor.url",
	"advisor-key":         "advisor.api_key",
	"advisor-timeout":     "advisor.timeout",
	"default-sales":       "defaults.sales_file",
	"default-costs":       "defaults.cost_file",
	"refresh-interval":    "defaults.refresh_interval",
	"log-level":           "log.level",
}

// Load reads configuration from defaults, cfgFile, the environment and flags.
// flags may be nil. An explicit cfgFile that does not exist is an error; the
// implicit DefaultFile is optional.
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	// 1. Defaults
	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Config file
	used := cfgFile
	if used == "" {
		if _, err := os.Stat(DefaultFile); err == nil {
			used = DefaultFile
		}
	}
	if used != "" {
		if err := k.Load(file.Provider(used), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", used, err)
		}
	}

	// 3. Environment: MENU_PIPELINE__CACHE_SIZE -> pipeline.cache_size
	if err := k.Load(env.ProviderWithValue(EnvPrefix, ".", envValue), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Flags, only those explicitly set
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed {
				return "", nil
			}
			if f.Name == "no-aggregate-sales" {
				v, _ := flags.GetBool(f.Name)
				return "pipeline.aggregate_duplicate_sales", !v
			}
			key, ok := flagKeys[f.Name]
			if !ok {
				return "", nil
			}
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	cfg.File = used

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func envValue(name, value string) (string, interface{}) {
	key := strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(name, EnvPrefix)), "__", ".")
	if key == "server.cors_origins" {
		return key, strings.Split(value, ",")
	}
	return key, value
}

// Validate rejects settings the pipeline cannot run with.
func (c *Config) Validate() error {
	var errs []error
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port))
	}
	if c.Pipeline.CacheSize <= 0 {
		errs = append(errs, fmt.Errorf("pipeline.cache_size must be positive, got %d", c.Pipeline.CacheSize))
	}
	if c.Pipeline.ExcerptSize <= 0 {
		errs = append(errs, fmt.Errorf("pipeline.excerpt_size must be positive, got %d", c.Pipeline.ExcerptSize))
	}
	if c.Advisor.Timeout < 0 || c.Advisor.MinInterval < 0 || c.Defaults.RefreshInterval < 0 {
		errs = append(errs, errors.New("durations must not be negative"))
	}
	if _, err := parseLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Options converts the pipeline section into classifier options.
func (c *Config) Options() menu.Options {
	return menu.Options{
		StripTrailingDots:            c.Pipeline.StripTrailingDots,
		ExcludeNegativeProfitability: c.Pipeline.ExcludeNegativeProfitability,
		AggregateDuplicateSales:      c.Pipeline.AggregateDuplicateSales,
	}
}

// Logger builds a text logger at the configured level.
func (c *Config) Logger(w io.Writer) *slog.Logger {
	level, _ := parseLevel(c.Log.Level)
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, fmt.Errorf("log.level: %w", err)
	}
	return level, nil
}

// =============================================================================
// FLAGS
// =============================================================================

// PipelineFlags registers the flags shared by every binary. Defaults shown
// in help are informational; unset flags never override other sources.
func PipelineFlags(fs *pflag.FlagSet) {
	fs.String("config", "", "YAML config file (default ./"+DefaultFile+" if present)")
	fs.Bool("strip-trailing-dots", false, "drop trailing '.' from product names before matching")
	fs.Bool("exclude-negative", false, "leave out products whose price is below their cost")
	fs.Bool("no-aggregate-sales", false, "keep repeated sales rows instead of summing them")
	fs.String("sales-schema", "", "JSON file with extra sales column aliases")
	fs.String("cost-schema", "", "JSON file with extra cost column aliases")
	fs.Int("excerpt-size", menu.DefaultExcerptSize, "products in the advisor excerpt")
	fs.String("log-level", "info", "debug, info, warn or error")
}

// ServerFlags registers the flags only the HTTP server understands.
func ServerFlags(fs *pflag.FlagSet) {
	PipelineFlags(fs)
	fs.Int("port", 8080, "HTTP server port")
	fs.StringSlice("cors-origins", nil, "allowed CORS origins")
	fs.Int("cache-size", menu.DefaultCacheSize, "normalized exports kept in memory")
	fs.String("default-sales", "", "sales export used when a request uploads none")
	fs.String("default-costs", "", "cost export used when a request uploads none")
	fs.Duration("refresh-interval", 5*time.Minute, "re-analyze the default exports this often (0 disables)")
	fs.String("advisor-url", "", "advisor endpoint; advice is disabled when empty")
	fs.String("advisor-key", "", "bearer token for the advisor")
	fs.Duration("advisor-timeout", 2*time.Minute, "advisor request timeout")
}
