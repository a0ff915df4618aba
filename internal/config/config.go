package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const envPrefix = "ARCHIVE_SCRAPER_"

type Config struct {
	Site     SiteConfig     `yaml:"site"`
	Browser  BrowserConfig  `yaml:"browser"`
	Resolver ResolverConfig `yaml:"resolver"`
	Store    StoreConfig    `yaml:"store"`
	Logging  LoggingConfig  `yaml:"logging"`
}

type SiteConfig struct {
	BaseURL string `yaml:"base_url"`
}

type BrowserConfig struct {
	// BinaryPath overrides the candidate lookup when set.
	BinaryPath        string        `yaml:"binary_path"`
	Headless          bool          `yaml:"headless"`
	Incognito         bool          `yaml:"incognito"`
	AdBlock           bool          `yaml:"ad_block"`
	WindowWidth       int           `yaml:"window_width"`
	WindowHeight      int           `yaml:"window_height"`
	GlobalTimeout     time.Duration `yaml:"global_timeout"`     // Overall timeout
	ActionTimeout     time.Duration `yaml:"action_timeout"`     // Timeout for individual waits and actions
	NavigationTimeout time.Duration `yaml:"navigation_timeout"` // Timeout for a page load, reload included
	SettleDelay       time.Duration `yaml:"settle_delay"`       // Sleep after every navigation
	Reload            bool          `yaml:"reload"`
}

type ResolverConfig struct {
	StepDelay time.Duration `yaml:"step_delay"`
	OpenFinal bool          `yaml:"open_final"`
}

type StoreConfig struct {
	// Driver is one of supabase, postgres, sqlite or memory.
	Driver      string        `yaml:"driver"`
	Table       string        `yaml:"table"` // PostgREST table; SQL stores always use movies
	SupabaseURL string        `yaml:"supabase_url"`
	SupabaseKey string        `yaml:"supabase_key"`
	DatabaseURL string        `yaml:"database_url"`
	SQLitePath  string        `yaml:"sqlite_path"`
	Timeout     time.Duration `yaml:"timeout"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// Default returns the configuration used when nothing else is provided.
func Default() *Config {
	return &Config{
		Site: SiteConfig{
			BaseURL: "https://links.modpro.blog",
		},
		Browser: BrowserConfig{
			Headless:          true,
			Incognito:         true,
			AdBlock:           true,
			WindowWidth:       1920,
			WindowHeight:      1080,
			GlobalTimeout:     30 * time.Minute,
			ActionTimeout:     10 * time.Second,
			NavigationTimeout: 30 * time.Second,
			SettleDelay:       3 * time.Second,
			Reload:            true,
		},
		Resolver: ResolverConfig{
			StepDelay: 2 * time.Second,
			OpenFinal: true,
		},
		Store: StoreConfig{
			Driver:     "supabase",
			Table:      "movies",
			SQLitePath: "movies.db",
			Timeout:    30 * time.Second,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// LoadFromFile reads a YAML file over the current values. An empty path
// searches the default locations; finding nothing there is not an error.
func (c *Config) LoadFromFile(path string) error {
	if path == "" {
		path = findConfigFile()
		if path == "" {
			return nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}
	return nil
}

func findConfigFile() string {
	home, _ := os.UserHomeDir()
	locations := []string{
		".archive-scraper.yaml",
		".archive-scraper.yml",
	}
	if home != "" {
		locations = append(locations,
			filepath.Join(home, ".config", "archive-scraper", "config.yaml"),
			filepath.Join(home, ".archive-scraper.yaml"),
		)
	}

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}
	return ""
}

// LoadFromEnv overrides values from the environment. The two database
// credentials keep their conventional unprefixed names.
func (c *Config) LoadFromEnv() error {
	if v := os.Getenv("SUPABASE_URL"); v != "" {
		c.Store.SupabaseURL = v
	}
	if v := os.Getenv("SUPABASE_KEY"); v != "" {
		c.Store.SupabaseKey = v
	}

	if v := os.Getenv(envPrefix + "BASE_URL"); v != "" {
		c.Site.BaseURL = v
	}
	if v := os.Getenv(envPrefix + "BROWSER_PATH"); v != "" {
		c.Browser.BinaryPath = v
	}
	if v := os.Getenv(envPrefix + "STORE_DRIVER"); v != "" {
		c.Store.Driver = v
	}
	if v := os.Getenv(envPrefix + "DATABASE_URL"); v != "" {
		c.Store.DatabaseURL = v
	}
	if v := os.Getenv(envPrefix + "SQLITE_PATH"); v != "" {
		c.Store.SQLitePath = v
	}
	if v := os.Getenv(envPrefix + "LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv(envPrefix + "HEADLESS"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%sHEADLESS: %w", envPrefix, err)
		}
		c.Browser.Headless = b
	}
	if v := os.Getenv(envPrefix + "ACTION_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%sACTION_TIMEOUT: %w", envPrefix, err)
		}
		c.Browser.ActionTimeout = d
	}
	if v := os.Getenv(envPrefix + "NAVIGATION_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%sNAVIGATION_TIMEOUT: %w", envPrefix, err)
		}
		c.Browser.NavigationTimeout = d
	}
	return nil
}

// Validate reports every problem at once.
func (c *Config) Validate() error {
	var errs []error

	if c.Site.BaseURL == "" {
		errs = append(errs, errors.New("site base url is required"))
	}
	if c.Browser.ActionTimeout <= 0 {
		errs = append(errs, errors.New("browser action timeout must be positive"))
	}
	if c.Browser.NavigationTimeout <= 0 {
		errs = append(errs, errors.New("browser navigation timeout must be positive"))
	}
	if c.Browser.GlobalTimeout <= 0 {
		errs = append(errs, errors.New("browser global timeout must be positive"))
	}
	if c.Browser.SettleDelay < 0 || c.Resolver.StepDelay < 0 {
		errs = append(errs, errors.New("delays cannot be negative"))
	}
	if c.Browser.WindowWidth <= 0 || c.Browser.WindowHeight <= 0 {
		errs = append(errs, errors.New("window size must be positive"))
	}
	if c.Store.Table == "" {
		errs = append(errs, errors.New("store table is required"))
	}

	switch strings.ToLower(c.Store.Driver) {
	case "supabase", "memory":
	case "postgres":
		if c.Store.DatabaseURL == "" {
			errs = append(errs, errors.New("postgres store requires a database url"))
		}
	case "sqlite":
		if c.Store.SQLitePath == "" {
			errs = append(errs, errors.New("sqlite store requires a path"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown store driver %q", c.Store.Driver))
	}

	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("invalid log level %q", c.Logging.Level))
	}

	return errors.Join(errs...)
}

// Load applies, in increasing precedence: defaults, the YAML file, the .env
// file and the process environment. Command-line flags are applied by the
// caller afterwards, followed by Validate.
func Load(configPath, envFile string) (*Config, error) {
	if envFile == "" {
		envFile = ".env"
	}
	// A missing settings file is fine; the environment may already be set.
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
	}

	cfg := Default()
	if err := cfg.LoadFromFile(configPath); err != nil {
		return nil, err
	}
	if err := cfg.LoadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}
	return cfg, nil
}
