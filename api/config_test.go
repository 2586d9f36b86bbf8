package api

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
)

func TestDefaultConfig(t *testing.T) {
	conf := NewConfig()
	assert.Equal(t, DefaultAddr, conf.HTTP.Addr)
	assert.EqualValues(t, DefaultShards, conf.Store.Shards)
	assert.True(t, conf.HTTP.GzipEnabled())
	assert.NoError(t, conf.Validate())
}

func TestValidate(t *testing.T) {
	conf := NewConfig()
	conf.HTTP.Addr = " "
	conf.HTTP.ReadTimeout = -time.Second
	conf.HTTP.RateLimit = -1
	conf.Store.Shards = 3

	err := conf.Validate()
	require.Error(t, err)
	assert.Len(t, multierr.Errors(err), 4)

	_, err = NewApp(conf)
	assert.Error(t, err)
	_, err = NewApp(nil)
	assert.Error(t, err)

	assert.Len(t, multierr.Errors((&Config{}).Validate()), 2)
}

func writeConfig(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "counterd.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
log:
  level: info
runtime:
  maxprocs: 0
http:
  addr: ":9090"
  read_timeout: 5s
  write_timeout: 10s
  max_conns: 100
  rate_limit: 50
  rate_burst: 10
  gzip: false
store:
  shards: 16
`)
	conf, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, ":9090", conf.HTTP.Addr)
	assert.Equal(t, 5*time.Second, conf.HTTP.ReadTimeout)
	assert.Equal(t, 10*time.Second, conf.HTTP.WriteTimeout)
	assert.Equal(t, 100, conf.HTTP.MaxConns)
	assert.EqualValues(t, 50, conf.HTTP.RateLimit)
	assert.Equal(t, 10, conf.HTTP.RateBurst)
	assert.False(t, conf.HTTP.GzipEnabled())
	assert.EqualValues(t, 16, conf.Store.Shards)
	assert.Equal(t, "info", conf.LogConfig.Level)
}

func TestLoadConfigEnv(t *testing.T) {
	path := writeConfig(t, `
http:
  addr: ":9090"
`)
	t.Setenv("COUNTERD_HTTP_ADDR", ":9191")
	t.Setenv("COUNTERD_STORE_SHARDS", "64")
	conf, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, ":9191", conf.HTTP.Addr)
	assert.EqualValues(t, 64, conf.Store.Shards)

	t.Setenv("PORT", "7070")
	conf, err = LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, ":7070", conf.HTTP.Addr)

	conf, err = LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, ":7070", conf.HTTP.Addr)
	assert.EqualValues(t, 64, conf.Store.Shards)
}

func TestLoadConfigInvalid(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "none.yaml"))
	assert.Error(t, err)

	path := writeConfig(t, `
store:
  shards: 10
`)
	_, err = LoadConfig(path)
	assert.Error(t, err)

	path = writeConfig(t, `
log:
  level: verbose
`)
	_, err = LoadConfig(path)
	assert.Error(t, err)

	path = writeConfig(t, "http:\n  addr: \":9090\"\n")
	t.Setenv("COUNTERD_STORE_SHARDS", "many")
	_, err = LoadConfig(path)
	assert.Error(t, err)
}
