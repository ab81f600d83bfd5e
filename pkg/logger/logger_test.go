package logger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func observe(t *testing.T, level zapcore.Level) *observer.ObservedLogs {
	prev := zapLogger
	core, logs := observer.New(level)
	NewFromZap(zap.New(core))
	t.Cleanup(func() { zapLogger = prev })
	return logs
}

func TestPackageFunctions(t *testing.T) {
	logs := observe(t, zapcore.InfoLevel)

	Info("client created", "client_id", 7)
	Warn("health check failed", "database", "ok", "redis", "connection refused")
	Debug("dropped below level")

	entries := logs.AllUntimed()
	require.Len(t, entries, 2)
	assert.Equal(t, "client created", entries[0].Message)
	assert.Equal(t, map[string]any{"client_id": int64(7)}, entries[0].ContextMap())
	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	assert.Equal(t, "connection refused", entries[1].ContextMap()["redis"])
}

func TestGormLogger_Trace(t *testing.T) {
	sql := func() (string, int64) { return "SELECT * FROM movement", 3 }

	t.Run("failed query", func(t *testing.T) {
		logs := observe(t, zapcore.DebugLevel)
		NewGormLogger(false).Trace(context.Background(), time.Now(), sql, errors.New("no such table"))

		require.Equal(t, 1, logs.Len())
		e := logs.All()[0]
		assert.Equal(t, zapcore.ErrorLevel, e.Level)
		assert.Equal(t, "[gorm] query failed", e.Message)
		assert.Equal(t, "no such table", e.ContextMap()["error"])
		assert.Equal(t, "SELECT * FROM movement", e.ContextMap()["sql"])
	})

	t.Run("record not found is quiet", func(t *testing.T) {
		logs := observe(t, zapcore.DebugLevel)
		NewGormLogger(false).Trace(context.Background(), time.Now(), sql, gorm.ErrRecordNotFound)
		assert.Zero(t, logs.Len())
	})

	t.Run("slow query", func(t *testing.T) {
		logs := observe(t, zapcore.DebugLevel)
		NewGormLogger(false).Trace(context.Background(), time.Now().Add(-time.Second), sql, nil)

		require.Equal(t, 1, logs.FilterMessage("[gorm] slow query").Len())
	})

	t.Run("debug logs every query", func(t *testing.T) {
		logs := observe(t, zapcore.DebugLevel)
		NewGormLogger(true).Trace(context.Background(), time.Now(), sql, nil)

		require.Equal(t, 1, logs.FilterMessage("[gorm] query").Len())
		assert.Equal(t, int64(3), logs.All()[0].ContextMap()["rows"])
	})

	t.Run("silent", func(t *testing.T) {
		logs := observe(t, zapcore.DebugLevel)
		NewGormLogger(true).LogMode(gormlogger.Silent).Trace(context.Background(), time.Now(), sql, errors.New("boom"))
		assert.Zero(t, logs.Len())
	})
}
