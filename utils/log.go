package utils

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// CustomFormatter 自定义日志格式
type CustomFormatter struct {
	logrus.JSONFormatter
}

// Format 实现自定义格式化
func (f *CustomFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	entry.Data["pid"] = os.Getpid()
	entry.Data["goroutine_id"] = getGoroutineID()

	return f.JSONFormatter.Format(entry)
}

// Log is the global logger instance
var (
	Log  *logrus.Logger
	once sync.Once
)

func newFormatter() *CustomFormatter {
	return &CustomFormatter{
		JSONFormatter: logrus.JSONFormatter{
			TimestampFormat: time.RFC3339,
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyTime:  "@timestamp",
				logrus.FieldKeyLevel: "level",
				logrus.FieldKeyMsg:   "message",
			},
			// func 只保留短名，file 带行号
			CallerPrettyfier: func(frame *runtime.Frame) (string, string) {
				return filepath.Base(frame.Function), fmt.Sprintf("%s:%d", filepath.Base(frame.File), frame.Line)
			},
		},
	}
}

func initLogger(logFilePath string, level logrus.Level) {
	Log = logrus.New()
	Log.SetFormatter(newFormatter())

	var out io.Writer = os.Stdout
	if logFilePath != "" {
		if err := os.MkdirAll(filepath.Dir(logFilePath), 0755); err != nil {
			panic(fmt.Sprintf("failed to create log directory: %v", err))
		}
		out = io.MultiWriter(os.Stdout, &lumberjack.Logger{
			Filename:   logFilePath,
			MaxSize:    10,
			MaxBackups: 5,
			MaxAge:     30,
			Compress:   true,
		})
	}
	Log.SetOutput(out)
	Log.SetLevel(level)
	Log.SetReportCaller(true)
}

// InitLogger configures the singleton. Only the first call (or the first
// GetLogger) takes effect; an empty path logs to stdout only.
func InitLogger(logFilePath, level string) error {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	once.Do(func() { initLogger(logFilePath, lvl) })
	return nil
}

// GetLogger returns the singleton logger instance. Without a prior
// InitLogger it logs to stdout at debug level.
func GetLogger() *logrus.Logger {
	once.Do(func() { initLogger("", logrus.DebugLevel) })
	return Log
}

// getGoroutineID 获取当前协程ID
func getGoroutineID() uint64 {
	b := make([]byte, 64)
	b = b[:runtime.Stack(b, false)]
	var id uint64
	fmt.Sscanf(string(b), "goroutine %d", &id)
	return id
}
