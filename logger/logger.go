package logger

import (
	"io"
	"os"
	"sync"

	"github.com/sirupsen/logrus"
)

type Config struct {
	Level  string    `yaml:"level"`
	Format string    `yaml:"format"` // "text", "json"
	Output io.Writer `yaml:"-"`
}

var (
	once sync.Once
	lg   *logrus.Logger
)

// Init 初始化全局日志，只有第一次调用生效
func Init(cfg Config) *logrus.Logger {
	once.Do(func() {
		lg = New(cfg)
	})
	return lg
}

// New 按配置创建一个独立的 logger
func New(cfg Config) *logrus.Logger {
	if cfg.Output == nil {
		cfg.Output = os.Stdout
	}
	l := logrus.New()
	l.SetOutput(cfg.Output)
	l.SetLevel(parseLevel(cfg.Level))
	switch cfg.Format {
	case "json":
		l.SetFormatter(&logrus.JSONFormatter{})
	default:
		l.SetFormatter(&logrus.TextFormatter{
			ForceColors:     cfg.Output == os.Stdout || cfg.Output == os.Stderr,
			FullTimestamp:   true,
			TimestampFormat: "15:04:05",
		})
	}
	return l
}

// L 返回全局 logger，未初始化时使用默认配置
func L() *logrus.Logger {
	Init(Config{Level: "info", Format: "text"})
	return lg
}

func parseLevel(levelStr string) logrus.Level {
	switch levelStr {
	case "debug":
		return logrus.DebugLevel
	case "info":
		return logrus.InfoLevel
	case "warn":
		return logrus.WarnLevel
	case "error":
		return logrus.ErrorLevel
	default:
		return logrus.InfoLevel
	}
}
