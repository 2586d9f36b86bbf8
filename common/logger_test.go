package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLog(t *testing.T) {
	SetLogLevel(Debug)
	Debugf("this is a test")
	assert.True(t, DebugEnabled())
	assert.True(t, InfoEnabled())
	SetLogLevel(Info)
	assert.False(t, DebugEnabled())
	assert.True(t, InfoEnabled())
	Debugf("this is a test, no debug")
	Infof("this is a test, info")
	SetLogLevel(0)
	assert.False(t, DebugEnabled())
	assert.True(t, InfoEnabled())
	Infof("this is a test, no level")
	Logf(Warn, "The is a test, warn")
	SetLogLevel(Error)
	assert.False(t, DebugEnabled())
	assert.False(t, InfoEnabled())
	assert.True(t, ErrorEnabled())
	Infof("this is a test, no error")
	Errorf("this is a test, error")
	SetLogLevel(Debug)
}

func TestParseLogLevel(t *testing.T) {
	l, ok := ParseLogLevel(" WARN ")
	assert.True(t, ok)
	assert.Equal(t, Warn, l)
	assert.Equal(t, "warn", l.String())

	_, ok = ParseLogLevel("verbose")
	assert.False(t, ok)
}

func TestLogConfigParse(t *testing.T) {
	conf := &LogConfig{Env: EnvProduction, Level: "error", NoCaller: true}
	assert.NoError(t, conf.Parse())
	assert.False(t, InfoEnabled())
	assert.True(t, ErrorEnabled())

	conf = &LogConfig{Level: "nope"}
	assert.Error(t, conf.Parse())

	assert.NoError(t, (&LogConfig{Level: "debug"}).Parse())
	assert.True(t, DebugEnabled())
}
