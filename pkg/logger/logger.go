package logger

import (
	"log/slog"
	"os"
)

var log *slog.Logger = slog.New(slog.NewTextHandler(os.Stdout, nil))

// Init configures the process-wide logger. Development gets human-readable
// text at debug level, everything else gets JSON at info level.
func Init(environment string) {
	var handler slog.Handler

	if environment == "development" {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})
	} else {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}

	log = slog.New(handler)
}

// normalize turns loose arguments into key-value pairs. Bare error values are
// promoted to an "error" attribute so call sites can pass errors directly.
func normalize(args []any) []any {
	out := make([]any, 0, len(args)+1)

	i := 0
	for i < len(args) {
		if err, ok := args[i].(error); ok {
			out = append(out, "error", err.Error())
			i++
			continue
		}

		if i+1 < len(args) {
			out = append(out, args[i], args[i+1])
			i += 2
			continue
		}

		out = append(out, "detail", args[i])
		i++
	}

	return out
}

func Debug(msg string, args ...any) {
	log.Debug(msg, normalize(args)...)
}

func Info(msg string, args ...any) {
	log.Info(msg, normalize(args)...)
}

func Warn(msg string, args ...any) {
	log.Warn(msg, normalize(args)...)
}

func Error(msg string, args ...any) {
	log.Error(msg, normalize(args)...)
}

func Fatal(msg string, args ...any) {
	log.Error(msg, normalize(args)...)
	os.Exit(1)
}
