package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/soyamkaran351-cloud/Farmer-support-system/internal/config"
)

const serviceName = "farmer-support"

// Init installs the process-wide JSON logger. Records go to stdout when
// log.console is set and to a size-rotated file when log.file is set; with
// neither they go to stdout. Every record carries service=farmer-support, and
// debug level adds the source location.
func Init(cfg config.LogConfig) {
	level := parseLevel(cfg.Level)
	h := slog.NewJSONHandler(output(cfg), &slog.HandlerOptions{
		Level:     level,
		AddSource: level == slog.LevelDebug,
	})
	slog.SetDefault(slog.New(h).With("service", serviceName))
	Info("logger.init", "level", level.String(), "file", cfg.File, "console", cfg.Console)
}

func output(cfg config.LogConfig) io.Writer {
	if cfg.File == "" {
		return os.Stdout
	}
	rotating := &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		LocalTime:  true,
	}
	if !cfg.Console {
		return rotating
	}
	return io.MultiWriter(os.Stdout, rotating)
}

func Info(msg string, args ...any)  { slog.Info(msg, args...) }
func Warn(msg string, args ...any)  { slog.Warn(msg, args...) }
func Error(msg string, args ...any) { slog.Error(msg, args...) }
func Debug(msg string, args ...any) { slog.Debug(msg, args...) }

// GinMiddleware replaces gin's text access log with one structured line per request.
func GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		args := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"latency_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
		}
		if uid := c.GetString("user_id"); uid != "" {
			args = append(args, "uid", uid)
		}
		switch {
		case status >= 500:
			Error("http.request", args...)
		case status >= 400:
			Warn("http.request", args...)
		default:
			Info("http.request", args...)
		}
	}
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
