package observability

import (
	"context"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger to provide specialized logging methods.
type Logger struct {
	*slog.Logger
}

// GlobalLogger is the default logger instance for the application.
var GlobalLogger *Logger

func init() {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	GlobalLogger = &Logger{Logger: slog.New(handler)}
}

// RepoLogger provides structured logging for repository operations.
type RepoLogger struct {
	tableName string
	logger    *Logger
}

// NewRepoLogger creates a new RepoLogger for the given table.
func NewRepoLogger(tableName string) *RepoLogger {
	return &RepoLogger{
		tableName: tableName,
		logger:    GlobalLogger,
	}
}

// LogMerge logs a read-merge-write cycle on the singleton config record.
func (l *RepoLogger) LogMerge(ctx context.Context, fields map[string]interface{}) {
	attrs := []any{
		slog.String("table", l.tableName),
		slog.String("operation", "merge_write"),
	}
	for k, v := range fields {
		attrs = append(attrs, slog.Any(k, v))
	}
	l.logger.InfoContext(ctx, "repository merge write", attrs...)
}

// LogError logs a repository error.
func (l *RepoLogger) LogError(ctx context.Context, err error, operation string) {
	l.logger.ErrorContext(ctx, "repository error",
		slog.String("table", l.tableName),
		slog.String("operation", operation),
		slog.String("error", err.Error()),
	)
}

// PollLogger provides structured logging for viewer poll loops.
type PollLogger struct {
	loop   string
	logger *Logger
}

// NewPollLogger creates a new PollLogger for the named loop ("config" or "chat").
func NewPollLogger(loop string) *PollLogger {
	return &PollLogger{loop: loop, logger: GlobalLogger}
}

// LogCycle logs a completed poll cycle.
func (l *PollLogger) LogCycle(ctx context.Context, changed bool) {
	l.logger.DebugContext(ctx, "poll cycle",
		slog.String("loop", l.loop),
		slog.Bool("changed", changed),
	)
}

// LogRetained logs a failed poll cycle where the last known state was kept.
func (l *PollLogger) LogRetained(ctx context.Context, err error) {
	l.logger.WarnContext(ctx, "poll failed, retaining last known state",
		slog.String("loop", l.loop),
		slog.String("error", err.Error()),
	)
}

// LogStopped logs loop teardown.
func (l *PollLogger) LogStopped(ctx context.Context) {
	l.logger.InfoContext(ctx, "poll loop stopped",
		slog.String("loop", l.loop),
	)
}
