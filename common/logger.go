package common

import (
	"strings"
	"sync"

	"go.uber.org/zap/zapcore"
)

// LogLevel 日志级别
type LogLevel int8

// 日志级别
const (
	Debug LogLevel = iota + 1
	Info
	Warn
	Error
)

var logLevelNames = map[LogLevel]string{
	Debug: "debug",
	Info:  "info",
	Warn:  "warn",
	Error: "error",
}

func (p LogLevel) String() string {
	return logLevelNames[p]
}

// ParseLogLevel 从字符串解析日志级别,不区分大小写
func ParseLogLevel(level string) (LogLevel, bool) {
	level = strings.ToLower(strings.TrimSpace(level))
	for l, name := range logLevelNames {
		if name == level {
			return l, true
		}
	}
	return 0, false
}

func (p LogLevel) zapLevel() (zapcore.Level, bool) {
	switch p {
	case Debug:
		return zapcore.DebugLevel, true
	case Info:
		return zapcore.InfoLevel, true
	case Warn:
		return zapcore.WarnLevel, true
	case Error:
		return zapcore.ErrorLevel, true
	}
	return zapcore.InfoLevel, false
}

// Logger 日志接口
type Logger interface {
	Debugf(format string, params ...interface{})
	Infof(format string, params ...interface{})
	Warnf(format string, params ...interface{})
	Errorf(format string, params ...interface{})

	DebugEnabled() bool
	InfoEnabled() bool
	WarnEnabled() bool
	ErrorEnabled() bool

	// SetLevel 设置日志级别,无效的级别会被忽略
	SetLevel(level LogLevel)
	// Sync 刷新缓冲的日志
	Sync()
}

var (
	loggerMu sync.RWMutex
	logger   Logger = NewZapLogger(&LogConfig{})
)

func currentLogger() Logger {
	loggerMu.RLock()
	l := logger
	loggerMu.RUnlock()
	return l
}

// SetLogger 替换全局的Logger,替换前会Sync旧的Logger
func SetLogger(l Logger) {
	if l == nil {
		return
	}
	loggerMu.Lock()
	old := logger
	logger = l
	loggerMu.Unlock()
	old.Sync()
}

// SetLogLevel 设置全局Logger的级别
func SetLogLevel(level LogLevel) {
	currentLogger().SetLevel(level)
}

// Debugf debug
func Debugf(format string, params ...interface{}) {
	currentLogger().Debugf(format, params...)
}

// Infof info
func Infof(format string, params ...interface{}) {
	currentLogger().Infof(format, params...)
}

// Warnf warn
func Warnf(format string, params ...interface{}) {
	currentLogger().Warnf(format, params...)
}

// Errorf error
func Errorf(format string, params ...interface{}) {
	currentLogger().Errorf(format, params...)
}

// Logf 按照指定的级别记录日志
func Logf(level LogLevel, format string, params ...interface{}) {
	l := currentLogger()
	switch level {
	case Debug:
		l.Debugf(format, params...)
	case Info:
		l.Infof(format, params...)
	case Warn:
		l.Warnf(format, params...)
	default:
		l.Errorf(format, params...)
	}
}

// DebugEnabled is debug enabled
func DebugEnabled() bool {
	return currentLogger().DebugEnabled()
}

// InfoEnabled is info enabled
func InfoEnabled() bool {
	return currentLogger().InfoEnabled()
}

// ErrorEnabled is error enabled
func ErrorEnabled() bool {
	return currentLogger().ErrorEnabled()
}

// SyncLog 刷新全局Logger
func SyncLog() {
	currentLogger().Sync()
}

func initLogger(conf *LogConfig) error {
	if conf == nil {
		return nil
	}
	if conf.Level != "" {
		if _, ok := ParseLogLevel(conf.Level); !ok {
			return errInvalidLogLevel(conf.Level)
		}
	}
	SetLogger(NewZapLogger(conf))
	return nil
}
