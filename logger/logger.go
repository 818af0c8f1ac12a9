// Package logger builds the zerolog loggers used across the service.
package logger

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	gormlogger "gorm.io/gorm/logger"
)

// New returns a logger at the given level. Local environments get a human
// readable console writer on stderr, everything else gets JSON on stdout.
func New(level string, local bool) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	var l zerolog.Logger
	if local {
		l = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	} else {
		l = zerolog.New(os.Stdout)
	}

	return l.Level(lvl).With().Timestamp().Str("service", "shop-api").Logger()
}

// gormWriter adapts zerolog to gorm's logger.Writer.
type gormWriter struct {
	log   zerolog.Logger
	level zerolog.Level
}

func (w gormWriter) Printf(format string, args ...any) {
	w.log.WithLevel(w.level).Msgf(format, args...)
}

// NewGormLogger routes gorm's SQL and slow query output through log. Every
// statement is traced only when log is at debug level.
func NewGormLogger(log zerolog.Logger) gormlogger.Interface {
	gormLevel := gormlogger.Warn
	writerLevel := zerolog.WarnLevel
	if log.GetLevel() <= zerolog.DebugLevel {
		gormLevel = gormlogger.Info
		writerLevel = zerolog.DebugLevel
	}

	return gormlogger.New(
		gormWriter{log: log.With().Str("component", "gorm").Logger(), level: writerLevel},
		gormlogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  gormLevel,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
}
