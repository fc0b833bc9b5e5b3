package database

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// SlowQueryThreshold is the duration above which a statement is logged at
// warn level.
const SlowQueryThreshold = 200 * time.Millisecond

const maxSQLLength = 200

// queryLogger routes GORM output through slog. The logger is resolved on
// every call so that a default installed after the database opens is used.
type queryLogger struct {
	logger func() *slog.Logger
	slow   time.Duration
}

func newQueryLogger() queryLogger {
	return queryLogger{logger: slog.Default, slow: SlowQueryThreshold}
}

func (l queryLogger) log() *slog.Logger {
	return l.logger().With(slog.String("component", "database"))
}

// LogMode is a no-op; levels are filtered by slog.
func (l queryLogger) LogMode(gormlogger.LogLevel) gormlogger.Interface { return l }

func (l queryLogger) Info(ctx context.Context, msg string, args ...any) {
	l.log().InfoContext(ctx, fmt.Sprintf(msg, args...))
}

func (l queryLogger) Warn(ctx context.Context, msg string, args ...any) {
	l.log().WarnContext(ctx, fmt.Sprintf(msg, args...))
}

func (l queryLogger) Error(ctx context.Context, msg string, args ...any) {
	l.log().ErrorContext(ctx, fmt.Sprintf(msg, args...))
}

// Trace logs one statement. A missing record is the normal empty result of
// First and is not a failure.
func (l queryLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	elapsed := time.Since(begin)

	level := slog.LevelDebug
	msg := "query"
	switch {
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound):
		level, msg = slog.LevelError, "query failed"
	case l.slow > 0 && elapsed > l.slow:
		level, msg = slog.LevelWarn, "slow query"
	}

	logger := l.log()
	if !logger.Enabled(ctx, level) {
		return
	}
	sql, rows := fc()
	attrs := []slog.Attr{
		slog.String("sql", shortenSQL(sql)),
		slog.Int64("rows", rows),
		slog.Duration("duration", elapsed),
	}
	if level == slog.LevelError {
		attrs = append(attrs, slog.Any("error", err))
	}
	logger.LogAttrs(ctx, level, msg, attrs...)
}

// shortenSQL keeps the head and tail of long statements.
func shortenSQL(sql string) string {
	if len(sql) <= maxSQLLength {
		return sql
	}
	half := (maxSQLLength - 3) / 2
	return sql[:half] + "..." + sql[len(sql)-half:]
}
