package log

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/synthgen/pkg/errors"
)

func TestTestLoggerCapturesFields(t *testing.T) {
	logger, buffer := NewTestLogger(LevelDebug)

	logger.Debug("encoding", FeaturesKey, 3)
	logger.Info("resampling", OperationKey, OperationFitResample)
	logger.Error("failed", errors.New("boom"), ModelNameKey, "SMOTENC")

	require.NotEmpty(t, buffer.String())
	assert.True(t, logger.ContainsMessage("encoding"))
	assert.True(t, logger.ContainsField(FeaturesKey, 3.0))
	assert.True(t, logger.ContainsField(OperationKey, OperationFitResample))
	assert.True(t, logger.ContainsField("error", "boom"))

	entries, err := logger.GetLogEntries()
	require.NoError(t, err)
	assert.Len(t, entries, 3)
}

func TestTestLoggerLevelFiltering(t *testing.T) {
	logger, _ := NewTestLogger(LevelWarn)

	logger.Debug("hidden")
	logger.Info("hidden too")
	logger.Warn("shown")

	assert.False(t, logger.ContainsMessage("hidden"))
	assert.True(t, logger.ContainsMessage("shown"))
	assert.False(t, logger.Enabled(context.Background(), LevelInfo))
	assert.True(t, logger.Enabled(context.Background(), LevelError))
}

func TestTestLoggerWithSharesBuffer(t *testing.T) {
	logger, _ := NewTestLogger(LevelInfo)
	child := logger.With(ModelNameKey, "SMOTENC", RunIDKey, "run-1")

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			child.Info("sample", "index", i)
		}(i)
	}
	wg.Wait()

	entries, err := logger.GetLogEntries()
	require.NoError(t, err)
	assert.Len(t, entries, 8)
	assert.True(t, logger.ContainsField(RunIDKey, "run-1"))
}

func TestZerologLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewZerologLogger(&buf, LevelInfo)

	logger.Debug("not emitted")
	logger.With(ModelNameKey, "Assembler").Info("done", SyntheticSamplesKey, 4)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "done", entry["message"])
	assert.Equal(t, "Assembler", entry[ModelNameKey])
	assert.Equal(t, 4.0, entry[SyntheticSamplesKey])

	assert.True(t, logger.Enabled(context.Background(), LevelWarn))
	assert.False(t, logger.Enabled(context.Background(), LevelDebug))
	assert.False(t, NewNopLogger().Enabled(context.Background(), LevelError))
}

func TestZerologLoggerError(t *testing.T) {
	var buf bytes.Buffer
	logger := NewZerologLogger(&buf, LevelDebug)

	logger.Error("resampling failed", errors.New("k too large"), KNeighborsKey, 6)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "k too large", entry["error"])
	assert.Equal(t, 6.0, entry[KNeighborsKey])
}

func TestSetupLogger(t *testing.T) {
	defer SetLogger(NewNopLogger())

	var buf bytes.Buffer
	logger, err := SetupLogger(&buf, "debug", FormatSlog)
	require.NoError(t, err)
	assert.Same(t, logger, GetLogger())

	logger.Error("cast failed", errors.NewDataShapeError("dataset.FromMatrix", "bad code"))
	out := buf.String()
	assert.Contains(t, out, `"severity":"ERROR"`)
	assert.Contains(t, out, `"message":"cast failed"`)
	assert.Contains(t, out, StacktraceAttrKey)

	_, err = SetupLogger(&buf, "loud", FormatJSON)
	var cfgErr *errors.ConfigurationError
	assert.True(t, errors.As(err, &cfgErr))

	_, err = SetupLogger(&buf, "info", "xml")
	assert.Error(t, err)
}

func TestSetupLoggerRoutesWarnings(t *testing.T) {
	defer SetLogger(NewNopLogger())
	defer errors.SetZerologWarnFunc(nil)

	var buf bytes.Buffer
	_, err := SetupLogger(&buf, "info", FormatJSON)
	require.NoError(t, err)

	errors.Warn(errors.NewDataConversionWarning("age", "float64", "int64", "fractional values truncated"))

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "age", entry["column"])
	assert.Equal(t, "DataConversionWarning", entry["type"])
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"debug", LevelDebug},
		{"INFO", LevelInfo},
		{"", LevelInfo},
		{"warning", LevelWarn},
		{"error", LevelError},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, tt.in)
	}
	assert.Equal(t, "WARN", LevelWarn.String())
}
