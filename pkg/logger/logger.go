package logger

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"

	"clipstream-service/pkg/config"
)

// Logger 日志服务，封装logrus并支持文件滚动输出
type Logger struct {
	entry  *logrus.Logger
	closer io.Closer
}

var (
	globalMu     sync.RWMutex
	globalLogger *Logger
)

// NewLogger 根据配置创建日志服务
func NewLogger(cfg *config.Config) *Logger {
	l := logrus.New()

	level, err := logrus.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	l.SetLevel(level)

	if cfg.Log.Format == "json" {
		l.SetFormatter(&logrus.JSONFormatter{})
	} else {
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	var closer io.Closer
	switch cfg.Log.Output {
	case "file":
		rotator := &lumberjack.Logger{
			Filename:   cfg.Log.Filename,
			MaxSize:    cfg.Log.MaxSize,
			MaxAge:     cfg.Log.MaxAge,
			MaxBackups: cfg.Log.MaxBackups,
			Compress:   cfg.Log.Compress,
		}
		l.SetOutput(rotator)
		closer = rotator
	case "both":
		rotator := &lumberjack.Logger{
			Filename:   cfg.Log.Filename,
			MaxSize:    cfg.Log.MaxSize,
			MaxAge:     cfg.Log.MaxAge,
			MaxBackups: cfg.Log.MaxBackups,
			Compress:   cfg.Log.Compress,
		}
		l.SetOutput(io.MultiWriter(os.Stdout, rotator))
		closer = rotator
	default:
		l.SetOutput(os.Stdout)
	}

	return &Logger{entry: l, closer: closer}
}

// Close 关闭日志输出
func (l *Logger) Close() {
	if l.closer != nil {
		_ = l.closer.Close()
	}
}

// SetGlobalLogger 设置全局日志器
func SetGlobalLogger(l *Logger) {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalLogger = l
}

func current() *logrus.Logger {
	globalMu.RLock()
	defer globalMu.RUnlock()
	if globalLogger != nil {
		return globalLogger.entry
	}
	return logrus.StandardLogger()
}

// Debug 输出调试日志，fields为结构化字段
func Debug(msg string, fields map[string]interface{}) {
	current().WithFields(fields).Debug(msg)
}

// Info 输出信息日志，fields为结构化字段
func Info(msg string, fields map[string]interface{}) {
	current().WithFields(fields).Info(msg)
}

// Warn 输出警告日志，fields为结构化字段
func Warn(msg string, fields map[string]interface{}) {
	current().WithFields(fields).Warn(msg)
}

// Error 输出错误日志，fields为结构化字段
func Error(msg string, fields map[string]interface{}) {
	current().WithFields(fields).Error(msg)
}

// Debugf 格式化调试日志
func Debugf(format string, args ...interface{}) {
	current().Debugf(format, args...)
}

// Infof 格式化信息日志
func Infof(format string, args ...interface{}) {
	current().Infof(format, args...)
}

// Warnf 格式化警告日志
func Warnf(format string, args ...interface{}) {
	current().Warnf(format, args...)
}

// Errorf 格式化错误日志
func Errorf(format string, args ...interface{}) {
	current().Errorf(format, args...)
}

// Fatal 输出错误日志并退出进程
func Fatal(msg string) {
	current().Fatal(msg)
}

// Fatalf 格式化输出错误日志并退出进程
func Fatalf(format string, args ...interface{}) {
	current().Fatal(fmt.Sprintf(format, args...))
}
