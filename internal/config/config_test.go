package config

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), c)
	assert.Equal(t, ":8080", c.Addr())
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
port: "9000"
base_path: /api
development: true
cors_origins: [http://localhost:5173]
sessions:
  ttl: 30m
  janitor_interval: 10s
  seed: 7
`)

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "9000", c.Port)
	assert.Equal(t, "/api", c.BasePath)
	assert.True(t, c.Development)
	assert.Equal(t, []string{"http://localhost:5173"}, c.CorsOrigins)
	assert.Equal(t, 30*time.Minute, c.Sessions.TTL.Duration)
	assert.Equal(t, 10*time.Second, c.Sessions.JanitorInterval.Duration)
	require.NotNil(t, c.Sessions.Seed)
	assert.Equal(t, uint64(7), *c.Sessions.Seed)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, `
port: "9000"
sessions:
  ttl: 30m
`)
	t.Setenv("APP_PORT", "9100")
	t.Setenv("APP_BASE_PATH", "/mines")
	t.Setenv("DEVELOPMENT", "1")
	t.Setenv("SESSION_TTL", "5m")
	t.Setenv("MINES_SEED", "123")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example,")

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "9100", c.Port)
	assert.Equal(t, "/mines", c.BasePath)
	assert.True(t, c.Development)
	assert.Equal(t, 5*time.Minute, c.Sessions.TTL.Duration)
	require.NotNil(t, c.Sessions.Seed)
	assert.Equal(t, uint64(123), *c.Sessions.Seed)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, c.CorsOrigins)
}

func TestLoadErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
	t.Run("bad duration", func(t *testing.T) {
		_, err := Load(writeConfig(t, "sessions:\n  ttl: soon\n"))
		assert.Error(t, err)
	})
	t.Run("bad env ttl", func(t *testing.T) {
		t.Setenv("SESSION_TTL", "forever")
		_, err := Load("")
		assert.ErrorContains(t, err, "SESSION_TTL")
	})
	t.Run("bad env seed", func(t *testing.T) {
		t.Setenv("MINES_SEED", "-1")
		_, err := Load("")
		assert.ErrorContains(t, err, "MINES_SEED")
	})
	t.Run("zero ttl", func(t *testing.T) {
		t.Setenv("SESSION_TTL", "0s")
		_, err := Load("")
		assert.Error(t, err)
	})
	t.Run("relative base path", func(t *testing.T) {
		t.Setenv("APP_BASE_PATH", "api")
		_, err := Load("")
		assert.Error(t, err)
	})
}

func TestDevelopmentEnv(t *testing.T) {
	t.Setenv("DEVELOPMENT", "0")
	dev, ok := Development()
	assert.True(t, ok)
	assert.False(t, dev)
}

func TestDurationYAML(t *testing.T) {
	var v struct {
		A Duration `yaml:"a"`
		B Duration `yaml:"b"`
	}
	require.NoError(t, yaml.Unmarshal([]byte("a: 1h30m\nb: 1500000000\n"), &v))
	assert.Equal(t, 90*time.Minute, v.A.Duration)
	assert.Equal(t, 1500*time.Millisecond, v.B.Duration)

	out, err := yaml.Marshal(v)
	require.NoError(t, err)
	assert.Equal(t, "a: 1h30m0s\nb: 1.5s\n", string(out))

	assert.Error(t, yaml.Unmarshal([]byte("a: [1]\n"), &v))
	assert.Error(t, yaml.Unmarshal([]byte("a: true\n"), &v))
}

func TestWebSocketCheckOrigin(t *testing.T) {
	request := func(origin string) *http.Request {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		if origin != "" {
			r.Header.Set("Origin", origin)
		}
		return r
	}

	open := NewWebSocket(nil)
	assert.True(t, open.Upgrader.CheckOrigin(request("https://evil.example")))

	strict := NewWebSocket([]string{"https://mines.example"})
	assert.True(t, strict.Upgrader.CheckOrigin(request("https://mines.example")))
	assert.True(t, strict.Upgrader.CheckOrigin(request("")))
	assert.False(t, strict.Upgrader.CheckOrigin(request("https://evil.example")))
}
