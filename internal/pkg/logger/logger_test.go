package logger_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"goinventory/internal/pkg/logger"
)

func TestZapLogger_WritesFieldsAndErrors(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := logger.FromZap(zap.New(core))

	log.Info("Reserva concluída", map[string]interface{}{"order_id": 10})
	log.Warn("Estoque insuficiente", map[string]interface{}{"sku": "ABC-123"})
	log.Error("Falha no DB", errors.New("conn reset"))

	entries := logs.All()
	require.Len(t, entries, 3)

	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
	assert.Equal(t, int64(10), entries[0].ContextMap()["order_id"])
	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	assert.Equal(t, "ABC-123", entries[1].ContextMap()["sku"])
	assert.Equal(t, "conn reset", entries[2].ContextMap()["error"])
}

func TestZapLogger_RespectsLevel(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	log := logger.FromZap(zap.New(core))

	log.Debug("ignorado", nil)
	log.Info("registrado", nil)

	assert.Equal(t, 1, logs.Len())
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, logger.ParseLevel("DEBUG"))
	assert.Equal(t, zapcore.WarnLevel, logger.ParseLevel(" warn "))
	assert.Equal(t, zapcore.InfoLevel, logger.ParseLevel("barulhento"))
}
