package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetConfigValue(t *testing.T) {
	t.Setenv("TEST_CONFIG_KEY", "from-env")

	assert.Equal(t, "from-flag", getConfigValue("from-flag", "TEST_CONFIG_KEY", "default"))
	assert.Equal(t, "from-env", getConfigValue("", "TEST_CONFIG_KEY", "default"))
	assert.Equal(t, "default", getConfigValue("", "TEST_CONFIG_MISSING", "default"))
}

func TestGetBoolConfigValue(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"true", true},
		{"TRUE", true},
		{"1", true},
		{"yes", true},
		{"false", false},
		{"0", false},
		{"nope", false},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			assert.Equal(t, tt.want, getBoolConfigValue(tt.value, "TEST_BOOL_MISSING", !tt.want))
		})
	}

	// Empty falls back to the default.
	assert.True(t, getBoolConfigValue("", "TEST_BOOL_MISSING", true))
}

func TestGetFloatConfigValue(t *testing.T) {
	assert.Equal(t, 2.5, getFloatConfigValue("2.5", "TEST_FLOAT_MISSING", 10))
	assert.Equal(t, 10.0, getFloatConfigValue("", "TEST_FLOAT_MISSING", 10))
	assert.Equal(t, 10.0, getFloatConfigValue("not-a-number", "TEST_FLOAT_MISSING", 10))
}

func TestParseDurationValue(t *testing.T) {
	d, err := parseDurationValue("30s", "TEST_DUR_MISSING", "1h")
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, d)

	d, err = parseDurationValue("", "TEST_DUR_MISSING", "1h")
	require.NoError(t, err)
	assert.Equal(t, time.Hour, d)

	_, err = parseDurationValue("bogus", "TEST_DUR_MISSING", "1h")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			App:    AppConfig{Environment: "development"},
			Logger: LoggerConfig{Level: "info"},
			Site:   SiteConfig{BaseURL: "https://example.com"},
			Content: ContentConfig{
				StorePath: "/tmp/folio",
			},
			Cache:  CacheConfig{TTL: time.Hour, EmptyBackoff: 10 * time.Second},
			Server: ServerConfig{Port: "8080", RateLimitRPS: 10, RateLimitBurst: 20},
		}
	}

	t.Run("valid config", func(t *testing.T) {
		assert.NoError(t, valid().Validate())
	})

	t.Run("bad environment", func(t *testing.T) {
		cfg := valid()
		cfg.App.Environment = "testing"
		assert.Error(t, cfg.Validate())
	})

	t.Run("bad log level", func(t *testing.T) {
		cfg := valid()
		cfg.Logger.Level = "verbose"
		assert.Error(t, cfg.Validate())
	})

	t.Run("bad base url", func(t *testing.T) {
		cfg := valid()
		cfg.Site.BaseURL = "example.com"
		assert.Error(t, cfg.Validate())
	})

	t.Run("zero cache ttl", func(t *testing.T) {
		cfg := valid()
		cfg.Cache.TTL = 0
		assert.Error(t, cfg.Validate())
	})
}

func TestExpandPath(t *testing.T) {
	t.Run("empty uses default", func(t *testing.T) {
		got, err := expandPath("", "/default/path")
		require.NoError(t, err)
		assert.Equal(t, "/default/path", got)
	})

	t.Run("tilde expands to home", func(t *testing.T) {
		home, err := os.UserHomeDir()
		require.NoError(t, err)

		got, err := expandPath("~/folio", "")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(home, "folio"), got)
	})

	t.Run("absolute stays put", func(t *testing.T) {
		got, err := expandPath("/var/lib/folio", "")
		require.NoError(t, err)
		assert.Equal(t, "/var/lib/folio", got)
	})
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	content := "# comment\nTEST_ENVFILE_A=hello\nTEST_ENVFILE_B=\"quoted\"\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	t.Setenv("TEST_ENVFILE_A", "")
	t.Setenv("TEST_ENVFILE_B", "")
	os.Unsetenv("TEST_ENVFILE_A")
	os.Unsetenv("TEST_ENVFILE_B")

	require.NoError(t, loadEnvFile(path))
	assert.Equal(t, "hello", os.Getenv("TEST_ENVFILE_A"))
	assert.Equal(t, "quoted", os.Getenv("TEST_ENVFILE_B"))
}

func TestLoadSiteDescriptor(t *testing.T) {
	t.Run("empty path returns defaults", func(t *testing.T) {
		desc, err := LoadSiteDescriptor("")
		require.NoError(t, err)
		assert.Equal(t, "Folio", desc.Name)
		assert.NotEmpty(t, desc.StaticRoutes)
	})

	t.Run("yaml overrides defaults", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "site.yaml")
		content := `name: My Portfolio
tagline: Creative Developer
keywords: [go, webgl]
categories:
  - id: develop
    title: Development Work
    description: Software projects
static_routes:
  - path: /
    changefreq: daily
    priority: 1.0
`
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

		desc, err := LoadSiteDescriptor(path)
		require.NoError(t, err)
		assert.Equal(t, "My Portfolio", desc.Name)
		assert.Equal(t, "Creative Developer", desc.Tagline)
		assert.Equal(t, []string{"go", "webgl"}, desc.Keywords)

		meta, ok := desc.CategoryMetaFor("develop")
		require.True(t, ok)
		assert.Equal(t, "Development Work", meta.Title)

		_, ok = desc.CategoryMetaFor("video")
		assert.False(t, ok)
	})

	t.Run("missing file errors", func(t *testing.T) {
		_, err := LoadSiteDescriptor("/nonexistent/site.yaml")
		assert.Error(t, err)
	})
}
