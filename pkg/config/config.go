// Package config loads scynet settings.
//
// Settings are layered, later layers winning:
//
//  1. built-in defaults ([Default])
//  2. the TOML file, by default $XDG_CONFIG_HOME/scynet/config.toml
//  3. a .env file in the working directory, then SCYNET_* environment variables
//  4. command-line flags (applied by the CLI)
//
// A minimal file:
//
//	[pipeline]
//	shared_compartment = "e0"
//
//	[layout]
//	org_size = 120
//
//	[cache]
//	backend = "redis"
//	redis.addr = "localhost:6379"
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"

	"github.com/scynet/scynet/pkg/cache"
	"github.com/scynet/scynet/pkg/pipeline"
)

// Cache backends.
const (
	BackendFile   = "file"
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendNone   = "none"
)

// Log formats.
const (
	FormatText   = "text"
	FormatJSON   = "json"
	FormatLogfmt = "logfmt"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "SCYNET_"

// Config is the complete scynet configuration.
type Config struct {
	Pipeline PipelineConfig `toml:"pipeline"`
	Layout   LayoutConfig   `toml:"layout"`
	Cache    CacheConfig    `toml:"cache"`
	Server   ServerConfig   `toml:"server"`
	Log      LogConfig      `toml:"log"`
}

type PipelineConfig struct {
	Delimiter         string `toml:"delimiter"`
	SharedCompartment string `toml:"shared_compartment"`
	OnlyCrossFed      bool   `toml:"only_cross_fed"`
	ShowZeroFlux      bool   `toml:"show_zero_flux"`
}

type LayoutConfig struct {
	OrganismSize   float64 `toml:"org_size"`
	MetaboliteSize float64 `toml:"met_size"`
}

type CacheConfig struct {
	Backend string      `toml:"backend"`
	Dir     string      `toml:"dir"`     // file backend; empty means the user cache dir
	Entries int         `toml:"entries"` // memory backend capacity
	Redis   RedisConfig `toml:"redis"`
}

type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
	Prefix   string `toml:"prefix"`
}

type ServerConfig struct {
	Addr         string   `toml:"addr"`
	ReadTimeout  Duration `toml:"read_timeout"`
	WriteTimeout Duration `toml:"write_timeout"`
	MaxBodyBytes int64    `toml:"max_body_bytes"`
}

type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Duration is a time.Duration written as "30s" in TOML.
type Duration struct{ time.Duration }

func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Pipeline: PipelineConfig{Delimiter: pipeline.DefaultDelimiter},
		Layout: LayoutConfig{
			OrganismSize:   pipeline.DefaultOrganismSize,
			MetaboliteSize: pipeline.DefaultMetaboliteSize,
		},
		Cache: CacheConfig{
			Backend: BackendFile,
			Entries: cache.DefaultMemoryEntries,
			Redis:   RedisConfig{Addr: "localhost:6379", Prefix: "scynet:"},
		},
		Server: ServerConfig{
			Addr:         ":8080",
			ReadTimeout:  Duration{30 * time.Second},
			WriteTimeout: Duration{2 * time.Minute},
			MaxBodyBytes: 64 << 20,
		},
		Log: LogConfig{Level: "info", Format: FormatText},
	}
}

// DefaultPath returns the per-user config file location.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(".", "scynet.toml")
	}
	return filepath.Join(dir, "scynet", "config.toml")
}

// Load builds the configuration from defaults, the file at path, .env and
// the environment. An empty path reads DefaultPath and tolerates its
// absence; an explicit path must exist.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	if err := cfg.decodeFile(path); err != nil {
		if explicit || !errors.Is(err, os.ErrNotExist) {
			return cfg, err
		}
	}

	_ = godotenv.Load()
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// Decode reads TOML from r over the current values. Unknown keys are an
// error so typos do not go unnoticed.
func (c *Config) Decode(r io.Reader) error {
	md, err := toml.NewDecoder(r).Decode(c)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return fmt.Errorf("config: unknown keys: %s", strings.Join(keys, ", "))
	}
	return nil
}

func (c *Config) decodeFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := c.Decode(f); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// Encode writes c as TOML.
func (c Config) Encode(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}

// ApplyEnv overrides settings from SCYNET_* variables found by lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	str := func(name string, dst *string) {
		if v, ok := lookup(EnvPrefix + name); ok {
			*dst = strings.TrimSpace(v)
		}
	}
	var errs []error
	num := func(name string, dst *float64) {
		if v, ok := lookup(EnvPrefix + name); ok {
			f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", EnvPrefix, name, err))
				return
			}
			*dst = f
		}
	}
	integer := func(name string, dst *int) {
		if v, ok := lookup(EnvPrefix + name); ok {
			n, err := strconv.Atoi(strings.TrimSpace(v))
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", EnvPrefix, name, err))
				return
			}
			*dst = n
		}
	}
	flag := func(name string, dst *bool) {
		if v, ok := lookup(EnvPrefix + name); ok {
			b, err := strconv.ParseBool(strings.TrimSpace(v))
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", EnvPrefix, name, err))
				return
			}
			*dst = b
		}
	}

	str("DELIMITER", &c.Pipeline.Delimiter)
	str("SHARED_COMPARTMENT", &c.Pipeline.SharedCompartment)
	flag("ONLY_CROSS_FED", &c.Pipeline.OnlyCrossFed)
	flag("SHOW_ZERO_FLUX", &c.Pipeline.ShowZeroFlux)
	num("ORG_SIZE", &c.Layout.OrganismSize)
	num("MET_SIZE", &c.Layout.MetaboliteSize)
	str("CACHE", &c.Cache.Backend)
	str("CACHE_DIR", &c.Cache.Dir)
	integer("CACHE_ENTRIES", &c.Cache.Entries)
	str("REDIS_ADDR", &c.Cache.Redis.Addr)
	str("REDIS_PASSWORD", &c.Cache.Redis.Password)
	integer("REDIS_DB", &c.Cache.Redis.DB)
	str("REDIS_PREFIX", &c.Cache.Redis.Prefix)
	str("ADDR", &c.Server.Addr)
	str("LOG_LEVEL", &c.Log.Level)
	str("LOG_FORMAT", &c.Log.Format)
	return errors.Join(errs...)
}

// Validate checks enumerations and ranges.
func (c Config) Validate() error {
	switch c.Cache.Backend {
	case BackendFile, BackendMemory, BackendRedis, BackendNone:
	default:
		return fmt.Errorf("config: unknown cache backend %q (want file, memory, redis or none)", c.Cache.Backend)
	}
	if c.Cache.Backend == BackendRedis && c.Cache.Redis.Addr == "" {
		return errors.New("config: cache.redis.addr is required for the redis backend")
	}
	if err := pipeline.ValidateNodeSize("layout.org_size", c.Layout.OrganismSize); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := pipeline.ValidateNodeSize("layout.met_size", c.Layout.MetaboliteSize); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if c.Pipeline.Delimiter == "" {
		return errors.New("config: pipeline.delimiter must not be empty")
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("config: log.level: %w", err)
	}
	switch c.Log.Format {
	case FormatText, FormatJSON, FormatLogfmt:
	default:
		return fmt.Errorf("config: unknown log format %q", c.Log.Format)
	}
	return nil
}

// PipelineOptions converts the pipeline and layout sections.
func (c Config) PipelineOptions() pipeline.Options {
	return pipeline.Options{
		Delimiter:         c.Pipeline.Delimiter,
		SharedCompartment: c.Pipeline.SharedCompartment,
		OnlyCrossFed:      c.Pipeline.OnlyCrossFed,
		ShowZeroFlux:      c.Pipeline.ShowZeroFlux,
		OrganismSize:      c.Layout.OrganismSize,
		MetaboliteSize:    c.Layout.MetaboliteSize,
	}
}

// RedisOptions converts the redis section.
func (c CacheConfig) RedisOptions() cache.RedisConfig {
	return cache.RedisConfig{
		Addr:     c.Redis.Addr,
		Password: c.Redis.Password,
		DB:       c.Redis.DB,
		Prefix:   c.Redis.Prefix,
	}
}
