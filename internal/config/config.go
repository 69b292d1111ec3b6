// Package config provides application configuration management with support for environment variables, command-line flags, and .env files.
package config

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Config holds the application configuration.
type Config struct {
	App       AppConfig
	Logger    LoggerConfig
	Site      SiteConfig
	Content   ContentConfig
	Cache     CacheConfig
	Server    ServerConfig
	Analytics AnalyticsConfig
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	Environment string
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level string
}

// SiteConfig holds site identity configuration.
type SiteConfig struct {
	// DescriptorPath points to the site.yaml descriptor (name, tagline,
	// category metadata, static routes). Empty uses built-in defaults.
	DescriptorPath string
	// BaseURL is the canonical site origin, e.g. https://example.com
	BaseURL string
}

// ContentConfig holds content source configuration.
type ContentConfig struct {
	// SourceURL is the remote content endpoint. Empty disables HTTP fetching.
	SourceURL string
	// DirPath is a local directory of JSON content records. Empty disables.
	DirPath string
	// AssetsDir is the local static-assets root used to inspect thumbnail
	// files (aspect ratio, blurhash). Empty disables inspection.
	AssetsDir string
	// StorePath is the badger database directory for the raw record store.
	StorePath string
	// Watch enables filesystem watching of DirPath for cache invalidation.
	Watch bool
	// FallbackPlaceholder substitutes placeholder fields for malformed
	// records instead of dropping them.
	FallbackPlaceholder bool
	// FetchTimeout bounds a single source fetch (default: 10s).
	FetchTimeout time.Duration
}

// CacheConfig holds portfolio cache configuration.
type CacheConfig struct {
	// TTL is how long a snapshot stays fresh (default: 1h).
	TTL time.Duration
	// EmptyBackoff is the minimum interval between refresh attempts after
	// an empty fetch (default: 10s).
	EmptyBackoff time.Duration
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port         string        // Server port (default: 8080)
	ReadTimeout  time.Duration // HTTP read timeout (default: 15s)
	WriteTimeout time.Duration // HTTP write timeout (default: 15s)
	IdleTimeout  time.Duration // HTTP idle timeout (default: 60s)
	// RateLimitRPS is the per-client request rate (default: 10).
	RateLimitRPS float64
	// RateLimitBurst is the per-client burst size (default: 20).
	RateLimitBurst int
}

// AnalyticsConfig holds analytics persistence configuration.
type AnalyticsConfig struct {
	// Enabled toggles event recording (default: true).
	Enabled bool
	// DBPath is the SQLite database file. Defaults to {store}/analytics.db.
	DBPath string
}

// LoadConfig loads configuration from multiple sources with precedence:
// 1. Command-line flags (highest priority).
// 2. Environment variables.
// 3. .env file.
// 4. Default values (lowest priority).
func LoadConfig() (*Config, error) {
	// Define command-line flags.
	env := flag.String("env", "", "Environment (development, staging, production)")
	logLevel := flag.String("log-level", "", "Log level (debug, info, warn, error)")
	sitePath := flag.String("site-descriptor", "", "Path to site.yaml descriptor")
	baseURL := flag.String("base-url", "", "Canonical site origin")

	sourceURL := flag.String("content-url", "", "Remote content endpoint")
	dirPath := flag.String("content-dir", "", "Local directory of JSON content records")
	assetsDir := flag.String("assets-dir", "", "Local static-assets root for thumbnail inspection")
	storePath := flag.String("store-path", "", "Base path for the record store")
	watch := flag.String("content-watch", "", "Watch content-dir for changes (default: true)")
	fallbackPlaceholder := flag.String("fallback-placeholder", "", "Keep malformed records with placeholder fields (default: false)")
	fetchTimeout := flag.String("fetch-timeout", "", "Content fetch timeout (default: 10s)")

	cacheTTL := flag.String("cache-ttl", "", "Portfolio cache TTL (default: 1h)")
	emptyBackoff := flag.String("empty-backoff", "", "Backoff after an empty fetch (default: 10s)")

	serverPort := flag.String("port", "", "Server port (default: 8080)")
	readTimeout := flag.String("read-timeout", "", "HTTP read timeout (default: 15s)")
	writeTimeout := flag.String("write-timeout", "", "HTTP write timeout (default: 15s)")
	idleTimeout := flag.String("idle-timeout", "", "HTTP idle timeout (default: 60s)")
	rateLimitRPS := flag.String("rate-limit-rps", "", "Per-client requests per second (default: 10)")
	rateLimitBurst := flag.String("rate-limit-burst", "", "Per-client burst size (default: 20)")

	analyticsEnabled := flag.String("analytics", "", "Record analytics events (default: true)")
	analyticsDB := flag.String("analytics-db", "", "Path to analytics SQLite database")

	envFile := flag.String("env-file", ".env", "Path to .env file")

	// Parse flags but don't exit on error - we want to handle it gracefully.
	flag.Parse()

	// Load .env file if it exists (silently ignore if not found).
	_ = loadEnvFile(*envFile)

	// Build config with proper precedence.
	cfg := &Config{
		App: AppConfig{
			Environment: getConfigValue(*env, "ENV", "development"),
		},
		Logger: LoggerConfig{
			Level: getConfigValue(*logLevel, "LOG_LEVEL", "info"),
		},
		Site: SiteConfig{
			DescriptorPath: getConfigValue(*sitePath, "SITE_DESCRIPTOR", ""),
			BaseURL:        getConfigValue(*baseURL, "SITE_BASE_URL", "http://localhost:8080"),
		},
		Content: ContentConfig{
			SourceURL:           getConfigValue(*sourceURL, "CONTENT_URL", ""),
			DirPath:             getConfigValue(*dirPath, "CONTENT_DIR", ""),
			AssetsDir:           getConfigValue(*assetsDir, "ASSETS_DIR", ""),
			StorePath:           getConfigValue(*storePath, "STORE_PATH", ""),
			Watch:               getBoolConfigValue(*watch, "CONTENT_WATCH", true),
			FallbackPlaceholder: getBoolConfigValue(*fallbackPlaceholder, "FALLBACK_PLACEHOLDER", false),
		},
		Server: ServerConfig{
			Port:           getConfigValue(*serverPort, "SERVER_PORT", "8080"),
			RateLimitRPS:   getFloatConfigValue(*rateLimitRPS, "RATE_LIMIT_RPS", 10),
			RateLimitBurst: getIntConfigValue(*rateLimitBurst, "RATE_LIMIT_BURST", 20),
		},
		Analytics: AnalyticsConfig{
			Enabled: getBoolConfigValue(*analyticsEnabled, "ANALYTICS_ENABLED", true),
			DBPath:  getConfigValue(*analyticsDB, "ANALYTICS_DB", ""),
		},
	}

	// Parse durations.
	var err error
	if cfg.Content.FetchTimeout, err = parseDurationValue(*fetchTimeout, "FETCH_TIMEOUT", "10s"); err != nil {
		return nil, err
	}
	if cfg.Cache.TTL, err = parseDurationValue(*cacheTTL, "CACHE_TTL", "1h"); err != nil {
		return nil, err
	}
	if cfg.Cache.EmptyBackoff, err = parseDurationValue(*emptyBackoff, "EMPTY_BACKOFF", "10s"); err != nil {
		return nil, err
	}
	if cfg.Server.ReadTimeout, err = parseDurationValue(*readTimeout, "SERVER_READ_TIMEOUT", "15s"); err != nil {
		return nil, err
	}
	if cfg.Server.WriteTimeout, err = parseDurationValue(*writeTimeout, "SERVER_WRITE_TIMEOUT", "15s"); err != nil {
		return nil, err
	}
	if cfg.Server.IdleTimeout, err = parseDurationValue(*idleTimeout, "SERVER_IDLE_TIMEOUT", "60s"); err != nil {
		return nil, err
	}

	// Expand and validate the store path.
	if err := cfg.expandStorePath(); err != nil {
		return nil, fmt.Errorf("invalid store path: %w", err)
	}

	// Expand content dir and site descriptor if given.
	if err := cfg.expandContentDir(); err != nil {
		return nil, fmt.Errorf("invalid content dir: %w", err)
	}

	// Analytics DB defaults to {store}/analytics.db.
	if err := cfg.expandAnalyticsDBPath(); err != nil {
		return nil, fmt.Errorf("invalid analytics db path: %w", err)
	}

	// Validate configuration.
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required config values are present and valid.
func (c *Config) Validate() error {
	if c.App.Environment == "" {
		return errors.New("ENV is required")
	}

	validEnvs := map[string]bool{
		"development": true,
		"staging":     true,
		"production":  true,
	}
	if !validEnvs[c.App.Environment] {
		return fmt.Errorf("invalid environment: %s (must be development, staging, or production)", c.App.Environment)
	}

	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[strings.ToLower(c.Logger.Level)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	if c.Content.StorePath == "" {
		return errors.New("store path cannot be empty after expansion")
	}

	if !strings.HasPrefix(c.Site.BaseURL, "http://") && !strings.HasPrefix(c.Site.BaseURL, "https://") {
		return fmt.Errorf("invalid base url: %s (must start with http:// or https://)", c.Site.BaseURL)
	}

	if c.Cache.TTL <= 0 {
		return fmt.Errorf("cache TTL must be positive, got %s", c.Cache.TTL)
	}

	if c.Server.RateLimitRPS <= 0 || c.Server.RateLimitBurst <= 0 {
		return errors.New("rate limit rps and burst must be positive")
	}

	// SourceURL and DirPath can both be empty - content can be seeded
	// directly into the record store.

	return nil
}

// expandPath expands ~ and makes the path absolute.
// If path is empty and defaultPath is provided, uses the default.
func expandPath(path, defaultPath string) (string, error) {
	if path == "" {
		return defaultPath, nil
	}

	// Expand tilde.
	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(homeDir, path[2:])
	}

	// Make absolute if needed.
	if !filepath.IsAbs(path) {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return "", fmt.Errorf("failed to get absolute path: %w", err)
		}
		path = absPath
	}

	return filepath.Clean(path), nil
}

// expandStorePath expands ~ and makes the path absolute.
func (c *Config) expandStorePath() error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}
	defaultPath := filepath.Join(homeDir, "Folio", "store")

	expanded, err := expandPath(c.Content.StorePath, defaultPath)
	if err != nil {
		return err
	}
	c.Content.StorePath = expanded
	return nil
}

// expandContentDir expands ~ and makes the path absolute.
// If empty, leaves it empty - the HTTP source or store is used instead.
func (c *Config) expandContentDir() error {
	if c.Content.DirPath != "" {
		expanded, err := expandPath(c.Content.DirPath, "")
		if err != nil {
			return err
		}
		c.Content.DirPath = expanded
	}

	if c.Content.AssetsDir != "" {
		expanded, err := expandPath(c.Content.AssetsDir, "")
		if err != nil {
			return err
		}
		c.Content.AssetsDir = expanded
	}
	return nil
}

// expandAnalyticsDBPath expands ~ and makes the path absolute.
// Defaults to {store}/analytics.db if not specified.
func (c *Config) expandAnalyticsDBPath() error {
	defaultPath := filepath.Join(c.Content.StorePath, "analytics.db")

	expanded, err := expandPath(c.Analytics.DBPath, defaultPath)
	if err != nil {
		return err
	}
	c.Analytics.DBPath = expanded
	return nil
}

// parseDurationValue resolves a duration from flag, env var, or default.
func parseDurationValue(flagValue, envKey, defaultValue string) (time.Duration, error) {
	str := getConfigValue(flagValue, envKey, defaultValue)
	d, err := time.ParseDuration(str)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", strings.ToLower(envKey), str, err)
	}
	return d, nil
}

// getConfigValue returns the first non-empty value from flag, env var, or default.
func getConfigValue(flagValue, envKey, defaultValue string) string {
	// Priority 1: Command-line flag.
	if flagValue != "" {
		return flagValue
	}

	// Priority 2: Environment variable.
	if envValue := os.Getenv(envKey); envValue != "" {
		return envValue
	}

	// Priority 3: Default value.
	return defaultValue
}

// getBoolConfigValue returns a bool from flag, env var, or default.
// Accepts: "true", "1", "yes" (case-insensitive) as true; anything else is false.
func getBoolConfigValue(flagValue, envKey string, defaultValue bool) bool {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	strValue = strings.ToLower(strValue)
	return strValue == "true" || strValue == "1" || strValue == "yes"
}

// getIntConfigValue returns an int from flag, env var, or default.
func getIntConfigValue(flagValue, envKey string, defaultValue int) int {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	var result int
	if _, err := fmt.Sscanf(strValue, "%d", &result); err != nil {
		return defaultValue
	}
	return result
}

// getFloatConfigValue returns a float64 from flag, env var, or default.
func getFloatConfigValue(flagValue, envKey string, defaultValue float64) float64 {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	var result float64
	if _, err := fmt.Sscanf(strValue, "%g", &result); err != nil {
		return defaultValue
	}
	return result
}

// loadEnvFile loads environment variables from a .env file.
// Format: KEY=value (one per line, # for comments).
func loadEnvFile(path string) error {
	file, err := os.Open(path) //#nosec G304 -- Config file path from user input is expected
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments.
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// Parse KEY=value.
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			return fmt.Errorf("invalid format at line %d: %s", lineNum, line)
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		// Remove quotes if present.
		value = strings.Trim(value, `"'`)

		// Only set if not already set (env vars take precedence over .env file).
		if os.Getenv(key) == "" {
			if err := os.Setenv(key, value); err != nil {
				return fmt.Errorf("failed to set env var %s: %w", key, err)
			}
		}
	}

	return scanner.Err()
}
