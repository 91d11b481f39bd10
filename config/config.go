package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// DirName is the per-user directory holding config and cache
	DirName = ".jmsctl"
	// FileName is the config file inside DirName
	FileName = "config.yaml"
	// ServerEnv overrides server.url
	ServerEnv = "JMSCTL_SERVER"
)

// Config captures all tunable settings of jmsctl
type Config struct {
	Server ServerConfig `yaml:"server"`
	Cache  CacheConfig  `yaml:"cache"`
	Log    LogConfig    `yaml:"log"`
}

// ServerConfig points at the toolkit backend
type ServerConfig struct {
	URL string `yaml:"url"`
	// Request timeout, e.g. "30s"
	Timeout string `yaml:"timeout"`
}

// CacheConfig controls the local resource and snapshot cache
type CacheConfig struct {
	Dir          string `yaml:"dir"`
	ResourcesTTL string `yaml:"resources_ttl"`
	Disabled     bool   `yaml:"disabled"`
}

// LogConfig sets the verbosity of the charm logger
type LogConfig struct {
	// debug | info | warn | error
	Level string `yaml:"level"`
}

// DefaultConfig provides defaults for a backend running on localhost
func DefaultConfig() Config {
	return Config{
		Server: ServerConfig{
			URL:     "http://localhost:8080",
			Timeout: "30s",
		},
		Cache: CacheConfig{
			Dir:          filepath.Join("~", DirName, "cache"),
			ResourcesTTL: "24h",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// DefaultPath returns ~/.jmsctl/config.yaml
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(DirName, FileName)
	}
	return filepath.Join(home, DirName, FileName)
}

// Load reads the YAML file at path over the defaults and applies the
// environment. An empty path means DefaultPath, which may be absent.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
		// No config file; defaults apply
	default:
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	if env := os.Getenv(ServerEnv); env != "" {
		cfg.Server.URL = env
	}

	cfg.Server.URL = strings.TrimRight(cfg.Server.URL, "/")
	cfg.Cache.Dir = expandHome(cfg.Cache.Dir)

	return cfg, nil
}

// Validate checks that every setting is usable
func (c Config) Validate() error {
	u, err := url.Parse(c.Server.URL)
	if err != nil {
		return fmt.Errorf("invalid server url %q: %w", c.Server.URL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid server url %q: scheme must be http or https", c.Server.URL)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid server url %q: missing host", c.Server.URL)
	}

	if d, err := time.ParseDuration(c.Server.Timeout); err != nil || d <= 0 {
		return fmt.Errorf("invalid server timeout %q", c.Server.Timeout)
	}
	if _, err := time.ParseDuration(c.Cache.ResourcesTTL); err != nil {
		return fmt.Errorf("invalid cache resources_ttl %q", c.Cache.ResourcesTTL)
	}

	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level %q", c.Log.Level)
	}

	return nil
}

// Timeout returns the parsed request timeout, falling back to 30s
func (c Config) Timeout() time.Duration {
	d, err := time.ParseDuration(c.Server.Timeout)
	if err != nil || d <= 0 {
		return 30 * time.Second
	}
	return d
}

// ResourcesTTL returns how long a cached resource catalog stays fresh
func (c Config) ResourcesTTL() time.Duration {
	d, err := time.ParseDuration(c.Cache.ResourcesTTL)
	if err != nil {
		return 24 * time.Hour
	}
	return d
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
