package logger

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"
)

var Log *slog.Logger

// Init configures the process-wide logger: JSON lines into a rotating file
// under logs/, or stderr when the directory cannot be created. Called once
// from main before anything else runs.
func Init(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	Log = slog.New(newHandler("logs", level))
	slog.SetDefault(Log)
}

// newHandler builds the JSON handler over a rotating file in dir. If the
// directory cannot be created the handler writes to stderr instead, so log
// lines are never dropped silently.
func newHandler(dir string, level slog.Level) slog.Handler {
	opts := &slog.HandlerOptions{
		Level: level,
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "logger: cannot create %s, logging to stderr: %v\n", dir, err)
		return slog.NewJSONHandler(os.Stderr, opts)
	}

	fileWriter := &lumberjack.Logger{
		Filename:   filepath.Join(dir, "orders.log"),
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
		Compress:   true,
	}

	return slog.NewJSONHandler(fileWriter, opts)
}

func Info(msg string, args ...any) {
	if Log != nil {
		Log.Info(msg, args...)
	}
}

func Error(msg string, args ...any) {
	if Log != nil {
		Log.Error(msg, args...)
	}
}

func Warn(msg string, args ...any) {
	if Log != nil {
		Log.Warn(msg, args...)
	}
}

func Debug(msg string, args ...any) {
	if Log != nil {
		Log.Debug(msg, args...)
	}
}
