package logger

import (
	"log/slog"
	"os"
	"strings"
	"sync"
)

var (
	log  *slog.Logger
	once sync.Once
)

// Init configures the process-wide logger. Level is one of debug, info,
// warn, error (case-insensitive); anything else means info. JSON output
// when format is "json", text otherwise.
func Init(level, format string) {
	once.Do(func() {
		var lvl slog.Level
		switch strings.ToLower(level) {
		case "debug":
			lvl = slog.LevelDebug
		case "warn":
			lvl = slog.LevelWarn
		case "error":
			lvl = slog.LevelError
		default:
			lvl = slog.LevelInfo
		}

		opts := &slog.HandlerOptions{Level: lvl}
		var handler slog.Handler
		if strings.ToLower(format) == "json" {
			handler = slog.NewJSONHandler(os.Stdout, opts)
		} else {
			handler = slog.NewTextHandler(os.Stdout, opts)
		}
		log = slog.New(handler)
	})
}

func get() *slog.Logger {
	if log == nil {
		Init("info", "text")
	}
	return log
}

func Debug(msg string, args ...any) {
	get().Debug(msg, normalize(args)...)
}

func Info(msg string, args ...any) {
	get().Info(msg, normalize(args)...)
}

func Warn(msg string, args ...any) {
	get().Warn(msg, normalize(args)...)
}

func Error(msg string, args ...any) {
	get().Error(msg, normalize(args)...)
}

// normalize tolerates the bare-error call style used across repositories
// and services: logger.Error("Repo:Method:Error:", err). A trailing odd
// argument is keyed as "error" when it is an error, "detail" otherwise.
func normalize(args []any) []any {
	if len(args)%2 == 0 {
		return args
	}
	last := args[len(args)-1]
	head := args[:len(args)-1]
	if _, ok := last.(error); ok {
		return append(append([]any{}, head...), "error", last)
	}
	return append(append([]any{}, head...), "detail", last)
}
