// Package config loads run settings for the huskers-schedule commands.
//
// Values are resolved in order: built-in defaults, an optional YAML or TOML
// file, then environment variables. Command-line flags are applied last by
// the commands themselves.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Scrape contains settings for the extraction pipeline.
type Scrape struct {
	Strategy   string `yaml:"strategy" toml:"strategy"`
	SourceURL  string `yaml:"source_url" toml:"source_url"`
	Output     string `yaml:"output" toml:"output"`
	ChromePath string `yaml:"chrome_path" toml:"chrome_path"`
	CacheDir   string `yaml:"cache_dir" toml:"cache_dir"`
	CacheTTL   string `yaml:"cache_ttl" toml:"cache_ttl"`
	Timeout    string `yaml:"timeout" toml:"timeout"`
}

// Manifest contains settings for the stadium manifest pipeline.
type Manifest struct {
	Input      string `yaml:"input" toml:"input"`
	StadiumDir string `yaml:"stadium_dir" toml:"stadium_dir"`
	Output     string `yaml:"output" toml:"output"`
	Markdown   string `yaml:"markdown" toml:"markdown"`
	Bucket     string `yaml:"bucket" toml:"bucket"`
}

// Publish contains settings for Firestore and Cloud Storage publishing.
type Publish struct {
	ProjectID  string `yaml:"project_id" toml:"project_id"`
	Collection string `yaml:"collection" toml:"collection"`
	Source     string `yaml:"source" toml:"source"`
	Bucket     string `yaml:"bucket" toml:"bucket"`
	Prefix     string `yaml:"prefix" toml:"prefix"`
	Timeout    string `yaml:"timeout" toml:"timeout"`
}

// Logging contains configuration for log output.
type Logging struct {
	Level  string `yaml:"level" toml:"level"`
	Format string `yaml:"format" toml:"format"`
}

// Config is the full set of run settings.
type Config struct {
	Scrape   Scrape   `yaml:"scrape" toml:"scrape"`
	Manifest Manifest `yaml:"manifest" toml:"manifest"`
	Publish  Publish  `yaml:"publish" toml:"publish"`
	Logging  Logging  `yaml:"logging" toml:"logging"`
}

// Default returns the conventional settings used when nothing overrides them.
func Default() *Config {
	return &Config{
		Scrape: Scrape{
			Strategy:  "static",
			SourceURL: "https://huskers.com/sports/football/schedule",
			Output:    "data/huskers_schedule.json",
			CacheDir:  ".cache/huskers",
			CacheTTL:  "0s",
			Timeout:   "90s",
		},
		Manifest: Manifest{
			Input:      "data/huskers_schedule.json",
			StadiumDir: "stadiums",
			Output:     "data/stadium_manifest.json",
			Markdown:   "STADIUMS.md",
		},
		Publish: Publish{
			Collection: "games",
			Source:     "huskers-football",
			Prefix:     "stadiums",
			Timeout:    "2m",
		},
		Logging: Logging{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load reads the config file at path over the defaults and applies
// environment overrides. An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := decode(path, data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func decode(path string, data []byte, cfg *Config) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Unmarshal(data, cfg)
	case ".toml":
		return toml.Unmarshal(data, cfg)
	default:
		return fmt.Errorf("unsupported config extension %q", filepath.Ext(path))
	}
}

func (c *Config) applyEnv() {
	if v := os.Getenv("CHROME_PATH"); v != "" {
		c.Scrape.ChromePath = v
	}
	if v := os.Getenv("GCP_PROJECT_ID"); v != "" {
		c.Publish.ProjectID = v
	}
	if v := os.Getenv("FIRESTORE_COLLECTION"); v != "" {
		c.Publish.Collection = v
	}
	if v := os.Getenv("GCS_BUCKET"); v != "" {
		c.Publish.Bucket = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
}

// Validate checks values that would otherwise fail deep inside a run.
func (c *Config) Validate() error {
	switch c.Scrape.Strategy {
	case "static", "browser":
	default:
		return fmt.Errorf("scrape.strategy: unsupported value %q", c.Scrape.Strategy)
	}
	for name, v := range map[string]string{
		"scrape.cache_ttl": c.Scrape.CacheTTL,
		"scrape.timeout":   c.Scrape.Timeout,
		"publish.timeout":  c.Publish.Timeout,
	} {
		if _, err := parseDuration(v); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	return nil
}

// CacheTTL returns the scrape cache TTL. Zero disables the cache.
func (c *Config) CacheTTL() time.Duration {
	d, _ := parseDuration(c.Scrape.CacheTTL)
	return d
}

// ScrapeTimeout bounds a whole scrape run.
func (c *Config) ScrapeTimeout() time.Duration {
	d, _ := parseDuration(c.Scrape.Timeout)
	return d
}

// PublishTimeout bounds a whole ingest run.
func (c *Config) PublishTimeout() time.Duration {
	d, _ := parseDuration(c.Publish.Timeout)
	return d
}

// parseDuration accepts Go durations and bare seconds.
func parseDuration(v string) (time.Duration, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0, nil
	}
	if secs, err := strconv.Atoi(v); err == nil {
		if secs < 0 {
			return 0, fmt.Errorf("negative duration %q", v)
		}
		return time.Duration(secs) * time.Second, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q", v)
	}
	if d < 0 {
		return 0, fmt.Errorf("negative duration %q", v)
	}
	return d, nil
}
