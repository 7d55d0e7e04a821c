// Package logger provides the structured, levelled logger used by the seeder
// and migration runner. It is built on log/slog.
//
// A text handler writing to stderr is installed at init so packages can log
// before configuration is read. Configure replaces it once config is loaded:
//
//	closeLogs, err := logger.Configure()
//	defer closeLogs()
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/shashiranjanraj/recipemanager/config"
)

var L *slog.Logger

func init() {
	L = New(os.Stderr, "local", "")
	slog.SetDefault(L)
}

// New builds a logger for env. Production environments get JSON output at
// INFO; everything else gets text at DEBUG. level, when set, overrides both.
func New(w io.Writer, env, level string) *slog.Logger {
	return slog.New(newHandler(w, env, level))
}

func newHandler(w io.Writer, env, level string) slog.Handler {
	opts := &slog.HandlerOptions{Level: parseLevel(env, level)}

	switch env {
	case "production", "prod":
		return slog.NewJSONHandler(w, opts)
	default:
		return slog.NewTextHandler(w, opts)
	}
}

func parseLevel(env, level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}

	if env == "production" || env == "prod" {
		return slog.LevelInfo
	}
	return slog.LevelDebug
}

// Configure rebuilds L from config. When LOG_MONGO_URI is set, records are
// also shipped to MongoDB. The returned func flushes and closes any sink and
// is always safe to call.
func Configure() (func(), error) {
	base := newHandler(os.Stderr, config.AppEnv(), config.LogLevel())

	uri := config.LogMongoURI()
	if uri == "" {
		Use(slog.New(base))
		return func() {}, nil
	}

	mh, err := NewMongoHandler(uri, config.LogMongoDB(), config.LogMongoCollection())
	if err != nil {
		Use(slog.New(base))
		return func() {}, err
	}

	Use(slog.New(NewMultiHandler(base, mh)))
	return mh.Close, nil
}

// Use installs l as the package and slog default logger.
func Use(l *slog.Logger) {
	L = l
	slog.SetDefault(l)
}

// Debug logs at DEBUG level.
func Debug(msg string, args ...any) { L.Debug(msg, args...) }

// Info logs at INFO level.
func Info(msg string, args ...any) { L.Info(msg, args...) }

// Warn logs at WARN level.
func Warn(msg string, args ...any) { L.Warn(msg, args...) }

// Error logs at ERROR level.
func Error(msg string, args ...any) { L.Error(msg, args...) }
