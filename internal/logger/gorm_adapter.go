package logger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// defaultSlowThreshold is the query duration above which Trace warns.
const defaultSlowThreshold = 200 * time.Millisecond

// GormAdapter routes gorm's diagnostics through the database logger so SQL
// output shares the application's structured format. Record-not-found is
// never reported as an error; callers treat it as a normal outcome.
type GormAdapter struct {
	log           *Logger
	level         gormlogger.LogLevel
	slowThreshold time.Duration
}

// NewGormAdapter creates an adapter filtering at the given level name.
func NewGormAdapter(log *Logger, level string) *GormAdapter {
	return &GormAdapter{
		log:           log,
		level:         gormLevelFor(level),
		slowThreshold: defaultSlowThreshold,
	}
}

// LogMode returns a copy of the adapter at the given gorm level.
func (a *GormAdapter) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	clone := *a
	clone.level = level
	return &clone
}

func (a *GormAdapter) Info(_ context.Context, msg string, args ...interface{}) {
	if a.level >= gormlogger.Info {
		a.log.Info(fmt.Sprintf(msg, args...))
	}
}

func (a *GormAdapter) Warn(_ context.Context, msg string, args ...interface{}) {
	if a.level >= gormlogger.Warn {
		a.log.Warn(fmt.Sprintf(msg, args...))
	}
}

func (a *GormAdapter) Error(_ context.Context, msg string, args ...interface{}) {
	if a.level >= gormlogger.Error {
		a.log.Error(fmt.Sprintf(msg, args...), nil)
	}
}

// Trace reports one executed statement: failures at error level, statements
// over the slow threshold at warn, everything else at debug.
func (a *GormAdapter) Trace(_ context.Context, begin time.Time, fc func() (string, int64), err error) {
	if a.level <= gormlogger.Silent {
		return
	}

	elapsed := time.Since(begin)
	switch {
	case err != nil && a.level >= gormlogger.Error && !errors.Is(err, gorm.ErrRecordNotFound):
		sql, rows := fc()
		a.statement(sql, rows, elapsed).Error("query failed", err)
	case a.slowThreshold > 0 && elapsed > a.slowThreshold && a.level >= gormlogger.Warn:
		sql, rows := fc()
		a.statement(sql, rows, elapsed).Warn("slow query")
	case a.level >= gormlogger.Info:
		sql, rows := fc()
		a.statement(sql, rows, elapsed).Debug("query executed")
	}
}

func (a *GormAdapter) statement(sql string, rows int64, elapsed time.Duration) *FieldLogger {
	return a.log.WithFields(map[string]interface{}{
		"sql":        sql,
		"rows":       rows,
		"elapsed_ms": float64(elapsed.Nanoseconds()) / 1e6,
	})
}

func gormLevelFor(level string) gormlogger.LogLevel {
	switch level {
	case "debug":
		return gormlogger.Info
	case "info", "warn":
		return gormlogger.Warn
	case "error":
		return gormlogger.Error
	default:
		return gormlogger.Warn
	}
}
