package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, EncodingMsgpack, cfg.Server.Encoding)
	assert.Equal(t, 864000*time.Second, cfg.Cache.FeedTTL())
	assert.Equal(t, time.Hour, cfg.Cache.CleanInterval())
	assert.Zero(t, cfg.Index.RefreshInterval())
}

func TestInitConfigWritesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.toml")
	cfg, err := InitConfig(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
	assert.FileExists(t, path)

	again, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), again)
}

func TestLoadConfigOverrides(t *testing.T) {
	path := writeConfig(t, `
[server]
encoding = "json"
max_prefix = 20

[index]
data_file = "/srv/films.msgpack"
refresh_interval_seconds = 300
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, EncodingJSON, cfg.Server.Encoding)
	assert.Equal(t, 20, cfg.Server.MaxPrefix)
	assert.Equal(t, 1, cfg.Server.MinPrefix, "unset keys keep defaults")
	assert.Equal(t, "/srv/films.msgpack", cfg.Index.DataFile)
	assert.Equal(t, 5*time.Minute, cfg.Index.RefreshInterval())
	assert.Equal(t, 864000, cfg.Cache.FeedTTLSeconds)
}

func TestLoadConfigPartialRecovery(t *testing.T) {
	path := writeConfig(t, `
[server]
min_prefix = "two"
max_prefix = 30

[cache]
feed_ttl_seconds = 60
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 1, cfg.Server.MinPrefix, "mistyped value falls back")
	assert.Equal(t, 30, cfg.Server.MaxPrefix)
	assert.Equal(t, 60, cfg.Cache.FeedTTLSeconds)
}

func TestLoadConfigGarbageFallsBack(t *testing.T) {
	path := writeConfig(t, "[server\nencoding = ")
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfigInvalidFallsBack(t *testing.T) {
	path := writeConfig(t, `
[server]
encoding = "xml"
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Server.MinPrefix, cfg.Server.MaxPrefix = 5, 2
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.Index.DataFile = ""
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.CLI.DefaultMinLen = -1
	assert.Error(t, cfg.Validate())
}

func TestLoadConfigWithPriorityCustomPath(t *testing.T) {
	path := writeConfig(t, `
[cli]
default_max_len = 12
`)
	cfg, used, err := LoadConfigWithPriority(path)
	require.NoError(t, err)
	assert.Equal(t, path, used)
	assert.Equal(t, 12, cfg.CLI.DefaultMaxLen)
	assert.Equal(t, used, GetActiveConfigPath(used))
	assert.Equal(t, "builtin defaults", GetActiveConfigPath(""))
}
