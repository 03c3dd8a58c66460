package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultTimezone = "UTC"
	configPathEnv   = "LINKPRESS_CONFIG"

	feedURLEnv    = "RSS_FEED_URL"
	wpURLEnv      = "WORDPRESS_URL"
	wpUsernameEnv = "WORDPRESS_USERNAME"
	wpPasswordEnv = "WORDPRESS_APP_PASSWORD"
	tagPrefixEnv  = "PINBOARD_TAG_PREFIX"
	dbPathEnv     = "LINKPRESS_DB_PATH"
	dryRunEnv     = "LINKPRESS_DRY_RUN"
	postStatusEnv = "LINKPRESS_POST_STATUS"
)

// Config holds high-level settings required across the application.
type Config struct {
	Logging   LoggingConfig   `yaml:"logging"`
	Feed      FeedConfig      `yaml:"feed"`
	WordPress WordPressConfig `yaml:"wordpress"`
	Database  DatabaseConfig  `yaml:"database"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	DryRun    bool            `yaml:"dryRun"`
}

// LoggingConfig controls log verbosity.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// FeedConfig describes the bookmark feed to gateway from.
type FeedConfig struct {
	URL string `yaml:"url"`
	// Window bounds how far back items are considered, e.g. "168h".
	// Empty means no windowing; the feed's own recency is trusted.
	Window string `yaml:"window"`
}

// RecencyWindow resolves the window string to a duration; zero when unset.
func (f FeedConfig) RecencyWindow() time.Duration {
	if f.Window == "" {
		return 0
	}
	d, err := time.ParseDuration(f.Window)
	if err != nil {
		return 0
	}
	return d
}

// WordPressConfig wires all data required to create posts.
type WordPressConfig struct {
	URL         string `yaml:"url"`
	Username    string `yaml:"username"`
	AppPassword string `yaml:"appPassword"`
	// PostStatus is "draft" or "publish".
	PostStatus string `yaml:"postStatus"`
	// TagPrefix is the base URL that per-tag anchors in the post body
	// point at, e.g. "https://pinboard.in/u:someone".
	TagPrefix string `yaml:"tagPrefix"`
}

// DatabaseConfig describes the published-item store location.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// SchedulerConfig defines the optional built-in schedule mode. An empty
// cron expression keeps the default single-shot behavior.
type SchedulerConfig struct {
	CronExpression string         `yaml:"cronExpression"`
	Timezone       string         `yaml:"timezone"`
	location       *time.Location `yaml:"-"`
}

// Location resolves the scheduler timezone string to a time.Location.
func (s SchedulerConfig) Location() *time.Location {
	if s.location != nil {
		return s.location
	}
	loc, _ := time.LoadLocation(defaultTimezone)
	return loc
}

// Load reads YAML configuration (if present), applies environment
// overrides, and validates the result.
func Load() (Config, error) {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
			}
			cfg = mergeConfig(cfg, fileCfg)
		}
	}

	cfg.applyEnvOverrides()
	cfg.bindTimezone()

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate checks that every field the gateway relies on is usable, so the
// core never sees raw or missing values.
func (c Config) Validate() error {
	if c.Feed.URL == "" {
		return fmt.Errorf("config: feed.url is required")
	}
	if c.Feed.Window != "" {
		if _, err := time.ParseDuration(c.Feed.Window); err != nil {
			return fmt.Errorf("config: feed.window: %w", err)
		}
	}

	switch c.WordPress.PostStatus {
	case "draft", "publish":
	default:
		return fmt.Errorf("config: wordpress.postStatus must be draft or publish, got %q", c.WordPress.PostStatus)
	}

	if c.DryRun {
		return nil
	}

	if c.WordPress.URL == "" {
		return fmt.Errorf("config: wordpress.url is required")
	}
	if c.WordPress.Username == "" || c.WordPress.AppPassword == "" {
		return fmt.Errorf("config: wordpress credentials are required")
	}
	if c.Database.Path == "" {
		return fmt.Errorf("config: database.path is required")
	}

	return nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(feedURLEnv); v != "" {
		c.Feed.URL = v
	}
	if v := os.Getenv(wpURLEnv); v != "" {
		c.WordPress.URL = v
	}
	if v := os.Getenv(wpUsernameEnv); v != "" {
		c.WordPress.Username = v
	}
	if v := os.Getenv(wpPasswordEnv); v != "" {
		c.WordPress.AppPassword = v
	}
	if v := os.Getenv(tagPrefixEnv); v != "" {
		c.WordPress.TagPrefix = v
	}
	if v := os.Getenv(postStatusEnv); v != "" {
		c.WordPress.PostStatus = v
	}
	if v := os.Getenv(dbPathEnv); v != "" {
		c.Database.Path = v
	}
	if v := os.Getenv(dryRunEnv); v == "1" || v == "true" {
		c.DryRun = true
	}
}

func (c *Config) bindTimezone() {
	tz := c.Scheduler.Timezone
	if tz == "" {
		tz = defaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		log.Printf("config: unknown timezone %s, reverting to %s", tz, defaultTimezone)
		loc, _ = time.LoadLocation(defaultTimezone)
	}
	c.Scheduler.location = loc
}

func mergeConfig(base, override Config) Config {
	if override.Logging.Level != "" {
		base.Logging = override.Logging
	}

	if override.Feed.URL != "" {
		base.Feed.URL = override.Feed.URL
	}
	if override.Feed.Window != "" {
		base.Feed.Window = override.Feed.Window
	}

	if override.WordPress.URL != "" {
		base.WordPress.URL = override.WordPress.URL
	}
	if override.WordPress.Username != "" {
		base.WordPress.Username = override.WordPress.Username
	}
	if override.WordPress.AppPassword != "" {
		base.WordPress.AppPassword = override.WordPress.AppPassword
	}
	if override.WordPress.PostStatus != "" {
		base.WordPress.PostStatus = override.WordPress.PostStatus
	}
	if override.WordPress.TagPrefix != "" {
		base.WordPress.TagPrefix = override.WordPress.TagPrefix
	}

	if override.Database.Path != "" {
		base.Database = override.Database
	}

	if override.Scheduler.CronExpression != "" {
		base.Scheduler.CronExpression = override.Scheduler.CronExpression
	}
	if override.Scheduler.Timezone != "" {
		base.Scheduler.Timezone = override.Scheduler.Timezone
	}

	if override.DryRun {
		base.DryRun = true
	}

	return base
}

func defaultConfig() Config {
	tz, _ := time.LoadLocation(defaultTimezone)
	return Config{
		Logging:   LoggingConfig{Level: "info"},
		Feed:      FeedConfig{},
		WordPress: WordPressConfig{PostStatus: "draft"},
		Database:  DatabaseConfig{Path: "rss_state.db"},
		Scheduler: SchedulerConfig{Timezone: defaultTimezone, location: tz},
	}
}
