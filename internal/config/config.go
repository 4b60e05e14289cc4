package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/martkit/martkit/internal/biomart"
)

const (
	CurrentVersion = 1
	DefaultPath    = "~/.martkit/martkit.yaml"
)

// Config is the top-level configuration.
type Config struct {
	Version  int            `yaml:"version"`
	Endpoint EndpointConfig `yaml:"endpoint"`
	Cache    CacheConfig    `yaml:"cache,omitempty"`
	Logging  LogConfig      `yaml:"logging,omitempty"`
}

// EndpointConfig defines the mart service endpoint.
type EndpointConfig struct {
	Host          string            `yaml:"host"`
	Path          string            `yaml:"path,omitempty"`
	Port          int               `yaml:"port,omitempty"`
	VirtualSchema string            `yaml:"virtual_schema,omitempty"`
	Params        map[string]string `yaml:"params,omitempty"` // extra query params, sent on every request
}

// CacheConfig defines the on-disk response cache.
type CacheConfig struct {
	Disabled  bool   `yaml:"disabled,omitempty"`
	Directory string `yaml:"directory,omitempty"` // default ~/.martkit/cache/
}

// LogConfig defines logging settings.
type LogConfig struct {
	Level     string `yaml:"level,omitempty"`     // debug, info, warn, error
	Directory string `yaml:"directory,omitempty"` // default ~/.martkit/logs/
}

// Default returns a config pointing at the Ensembl mart service, the
// endpoint most users mean.
func Default() *Config {
	cfg := &Config{
		Version: CurrentVersion,
		Endpoint: EndpointConfig{
			Host: "http://www.ensembl.org",
		},
	}
	cfg.applyDefaults()
	return cfg
}

// Load reads and parses the config file from the given path. An empty
// path means the default location; a missing file at the default
// location yields the default config rather than an error.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if path == "" {
		path = ExpandHome(DefaultPath)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return Default(), nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if cfg.Version != CurrentVersion {
		return nil, fmt.Errorf("unsupported config version %d (expected %d)", cfg.Version, CurrentVersion)
	}

	if err := cfg.resolveEnv(); err != nil {
		return nil, err
	}

	cfg.applyDefaults()
	return cfg, nil
}

// Save writes the config to the given path.
func (c *Config) Save(path string) error {
	if path == "" {
		path = ExpandHome(DefaultPath)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	return os.WriteFile(path, data, 0o600)
}

// Settings translates the endpoint section into transport settings for
// the biomart package.
func (c *Config) Settings() biomart.Settings {
	return biomart.Settings{
		Host:         c.Endpoint.Host,
		Path:         c.Endpoint.Path,
		Port:         c.Endpoint.Port,
		DisableCache: c.Cache.Disabled,
		CacheDir:     c.Cache.Directory,
		Params:       c.Endpoint.Params,
	}
}

func (c *Config) applyDefaults() {
	if c.Endpoint.VirtualSchema == "" {
		c.Endpoint.VirtualSchema = biomart.DefaultSchema
	}
	if c.Cache.Directory == "" {
		c.Cache.Directory = ExpandHome("~/.martkit/cache/")
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Directory == "" {
		c.Logging.Directory = ExpandHome("~/.martkit/logs/")
	}
}

var envPattern = regexp.MustCompile(`\$\{ENV:([^}]+)\}`)

func (c *Config) resolveEnv() error {
	var err error
	c.Endpoint.Host, err = ResolveValue(c.Endpoint.Host)
	if err != nil {
		return fmt.Errorf("endpoint host: %w", err)
	}
	for k, v := range c.Endpoint.Params {
		c.Endpoint.Params[k], err = ResolveValue(v)
		if err != nil {
			return fmt.Errorf("endpoint param %s: %w", k, err)
		}
	}
	return nil
}

// ResolveValue resolves ${ENV:NAME} references in a string value.
func ResolveValue(val string) (string, error) {
	matches := envPattern.FindStringSubmatch(val)
	if matches == nil {
		return val, nil
	}

	v := os.Getenv(matches[1])
	if v == "" {
		return "", fmt.Errorf("environment variable %s not set", matches[1])
	}
	return envPattern.ReplaceAllLiteralString(val, v), nil
}

// ExpandHome expands ~ to the user's home directory.
func ExpandHome(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}
