package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		configPathEnv, feedURLEnv, wpURLEnv, wpUsernameEnv,
		wpPasswordEnv, tagPrefixEnv, dbPathEnv, dryRunEnv, postStatusEnv,
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoadFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv(feedURLEnv, "https://feeds.pinboard.in/rss/u:someone/")
	t.Setenv(wpURLEnv, "https://blog.example.com")
	t.Setenv(wpUsernameEnv, "alice")
	t.Setenv(wpPasswordEnv, "app password")
	t.Setenv(dbPathEnv, "/var/lib/linkpress/state.db")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Feed.URL != "https://feeds.pinboard.in/rss/u:someone/" {
		t.Fatalf("unexpected feed url: %s", cfg.Feed.URL)
	}
	if cfg.WordPress.Username != "alice" {
		t.Fatalf("unexpected username: %s", cfg.WordPress.Username)
	}
	if cfg.Database.Path != "/var/lib/linkpress/state.db" {
		t.Fatalf("unexpected db path: %s", cfg.Database.Path)
	}
	if cfg.WordPress.PostStatus != "draft" {
		t.Fatalf("default post status must be draft, got %s", cfg.WordPress.PostStatus)
	}
}

func TestLoadYAMLWithEnvOverride(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "linkpress.yaml")
	raw := `
logging:
  level: debug
feed:
  url: https://feeds.pinboard.in/rss/u:someone/
  window: 168h
wordpress:
  url: https://blog.example.com
  username: file-user
  appPassword: file-pass
  postStatus: publish
  tagPrefix: https://pinboard.in/u:someone
database:
  path: ./state.db
scheduler:
  cronExpression: "0 * * * *"
  timezone: Europe/Berlin
`
	if err := os.WriteFile(path, []byte(raw), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv(configPathEnv, path)
	t.Setenv(wpUsernameEnv, "env-user")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Logging.Level != "debug" {
		t.Fatalf("unexpected level: %s", cfg.Logging.Level)
	}
	if cfg.WordPress.Username != "env-user" {
		t.Fatalf("env must override file, got %s", cfg.WordPress.Username)
	}
	if cfg.Feed.RecencyWindow() != 168*time.Hour {
		t.Fatalf("unexpected window: %v", cfg.Feed.RecencyWindow())
	}
	if cfg.Scheduler.CronExpression != "0 * * * *" {
		t.Fatalf("unexpected cron expression: %s", cfg.Scheduler.CronExpression)
	}
	if cfg.Scheduler.Location().String() != "Europe/Berlin" {
		t.Fatalf("unexpected timezone: %s", cfg.Scheduler.Location())
	}
}

func TestValidateRequiresFeedURL(t *testing.T) {
	clearEnv(t)

	if _, err := Load(); err == nil {
		t.Fatal("expected an error without a feed url")
	}
}

func TestValidateRequiresCredentialsUnlessDryRun(t *testing.T) {
	clearEnv(t)
	t.Setenv(feedURLEnv, "https://feeds.pinboard.in/rss/u:someone/")

	if _, err := Load(); err == nil {
		t.Fatal("expected an error without wordpress settings")
	}

	t.Setenv(dryRunEnv, "1")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("dry run must not require credentials: %v", err)
	}
	if !cfg.DryRun {
		t.Fatal("dry run flag not applied")
	}
}

func TestValidateRejectsBadPostStatus(t *testing.T) {
	clearEnv(t)
	t.Setenv(feedURLEnv, "https://feeds.pinboard.in/rss/u:someone/")
	t.Setenv(dryRunEnv, "1")
	t.Setenv(postStatusEnv, "pending")

	if _, err := Load(); err == nil {
		t.Fatal("expected an error for an unknown post status")
	}
}

func TestValidateRejectsBadWindow(t *testing.T) {
	clearEnv(t)
	t.Setenv(feedURLEnv, "https://feeds.pinboard.in/rss/u:someone/")
	t.Setenv(dryRunEnv, "1")

	path := filepath.Join(t.TempDir(), "linkpress.yaml")
	if err := os.WriteFile(path, []byte("feed:\n  url: https://x/\n  window: tomorrow\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv(configPathEnv, path)

	if _, err := Load(); err == nil {
		t.Fatal("expected an error for an unparseable window")
	}
}
