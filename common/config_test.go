package common

import (
	"errors"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var data = `
a: Easy!
b:
  c: 2
  d: [3, 4]
`

type conf struct {
	A string
	B struct {
		C int
		D []int `yaml:",flow"`
	}
}

func TestLoadYAML(t *testing.T) {
	config := conf{}
	require.NoError(t, LoadYAML([]byte(data), &config))
	assert.Equal(t, "Easy!", config.A)
	assert.Equal(t, 2, config.B.C)
	assert.Equal(t, []int{3, 4}, config.B.D)

	assert.Error(t, LoadYAML(nil, &config))
}

type testAppConfig struct {
	AppConfig `yaml:",inline"`
	Name      string        `yaml:"name"`
	Timeout   time.Duration `yaml:"timeout"`
	parsed    bool
}

func (p *testAppConfig) Parse() error {
	if err := Parse(p); err != nil {
		return err
	}
	p.parsed = true
	return nil
}

type memLoader map[string]string

func (p memLoader) Load(configPath string) ([]byte, error) {
	c, ok := p[configPath]
	if !ok {
		return nil, errors.New("not found " + configPath)
	}
	return []byte(c), nil
}

func (p memLoader) Exist(configPath string) (bool, error) {
	_, ok := p[configPath]
	return ok, nil
}

func TestLoadConfigWithLoader(t *testing.T) {
	loader := memLoader{
		"conf/app.yaml": "name: counterd\nlog:\n  level: debug\n",
		"conf/rt.yaml":  "runtime:\n  maxprocs: 0\n",
		"conf/empty":    "",
	}
	var appConf testAppConfig
	err := LoadConfigWithLoader(loader, &appConf, "timeout: 3s", "conf", "app.yaml", "rt.yaml", "empty")
	require.NoError(t, err)
	assert.Equal(t, "counterd", appConf.Name)
	assert.Equal(t, 3*time.Second, appConf.Timeout)
	require.NotNil(t, appConf.LogConfig)
	assert.Equal(t, "debug", appConf.LogConfig.Level)
	require.NotNil(t, appConf.RuntimeConfig)

	procs := runtime.GOMAXPROCS(0)
	require.NoError(t, appConf.Parse())
	assert.True(t, appConf.parsed)
	assert.Equal(t, procs, runtime.GOMAXPROCS(0))

	assert.Error(t, LoadConfigWithLoader(loader, &appConf, "", "conf", "missing.yaml"))
	assert.Equal(t, errInvalidConf, LoadConfigWithLoader(loader, &appConf, "", "conf"))
	assert.Error(t, LoadConfigWithLoader(nil, &appConf, "", "conf", "app.yaml"))
}

func TestParseSkipsNil(t *testing.T) {
	var appConf testAppConfig
	assert.NoError(t, appConf.Parse())
	assert.True(t, appConf.parsed)
}

type envConf struct {
	Addr    string        `envconfig:"ADDR"`
	Timeout time.Duration `envconfig:"TIMEOUT"`
	Log     *LogConfig
}

func TestLoadEnv(t *testing.T) {
	t.Setenv("TESTAPP_ADDR", ":9999")
	t.Setenv("TESTAPP_TIMEOUT", "5s")
	t.Setenv("TESTAPP_LOG_FILE_NAME", "/tmp/x.log")

	c := envConf{Addr: ":8080"}
	require.NoError(t, LoadEnv("TESTAPP", &c))
	assert.Equal(t, ":9999", c.Addr)
	assert.Equal(t, 5*time.Second, c.Timeout)
	require.NotNil(t, c.Log)
	assert.Equal(t, "/tmp/x.log", c.Log.FileName)

	t.Setenv("TESTAPP_TIMEOUT", "soon")
	assert.Error(t, LoadEnv("TESTAPP", &c))
}

func TestConfigFileLoader(t *testing.T) {
	loader := &ConfigFileLoader{}
	exist, err := loader.Exist(t.TempDir())
	assert.NoError(t, err)
	assert.False(t, exist)

	exist, err = loader.Exist("/not/exist/file.yaml")
	assert.NoError(t, err)
	assert.False(t, exist)
}
