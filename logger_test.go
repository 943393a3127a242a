package openidconnect

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/rs/zerolog"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/biocad/openid-connect/transport"
)

func TestDefaultLogger(t *testing.T) {
	logger := &DefaultLogger{}

	// Test that the logger methods don't panic
	logger.Debugf("debug message: %s", "test")
	logger.Infof("info message: %s", "test")
	logger.Warnf("warn message: %s", "test")
	logger.Errorf("error message: %s", "test")
}

func TestZapLogger(t *testing.T) {
	core, recorded := observer.New(zapcore.InfoLevel)
	zapLogger := zap.New(core)

	logger := NewZapLogger(zapLogger.Sugar())

	logger.Debugf("debug message: %s", "test")
	assert.Equal(t, 0, recorded.Len(), "Debug message should not be recorded at Info level")

	logger.Infof("info message: %s", "test")
	assert.Equal(t, 1, recorded.Len(), "Info message should be recorded")
	assert.Equal(t, "info message: test", recorded.All()[0].Message)

	logger.Warnf("warn message: %s", "test")
	assert.Equal(t, 2, recorded.Len(), "Warn message should be recorded")
	assert.Equal(t, "warn message: test", recorded.All()[1].Message)

	logger.Errorf("error message: %s", "test")
	assert.Equal(t, 3, recorded.Len(), "Error message should be recorded")
	assert.Equal(t, "error message: test", recorded.All()[2].Message)
}

func TestZerologLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewZerologLogger(zerolog.New(&buf).Level(zerolog.InfoLevel))

	logger.Debugf("debug message: %s", "test")
	logger.Infof("info message: %s", "test")
	logger.Warnf("warn message: %s", "test")
	logger.Errorf("error message: %s", "test")

	output := buf.String()
	assert.NotContains(t, output, "debug message: test", "Debug messages should not be logged at Info level")
	assert.Contains(t, output, `"level":"info","message":"info message: test"`)
	assert.Contains(t, output, `"level":"warn","message":"warn message: test"`)
	assert.Contains(t, output, `"level":"error","message":"error message: test"`)
}

func TestLogrusLogger(t *testing.T) {
	var buf bytes.Buffer

	logrusLogger := logrus.New()
	logrusLogger.Out = &buf
	logrusLogger.Level = logrus.InfoLevel

	logger := NewLogrusLogger(logrusLogger)

	logger.Debugf("debug message: %s", "test")
	logger.Infof("info message: %s", "test")
	logger.Warnf("warn message: %s", "test")
	logger.Errorf("error message: %s", "test")

	output := buf.String()
	assert.NotContains(t, output, "debug message: test", "Debug messages should not be logged at Info level")
	assert.Contains(t, output, "info message: test")
	assert.Contains(t, output, "warn message: test")
	assert.Contains(t, output, "error message: test")

	buf.Reset()
	logrusLogger.Level = logrus.DebugLevel

	logger.Debugf("debug message: %s", "test")
	assert.Contains(t, buf.String(), "debug message: test", "Debug messages should be logged at Debug level")
}

func TestLoggingTransport(t *testing.T) {
	core, recorded := observer.New(zapcore.DebugLevel)
	logger := NewZapLogger(zap.New(core).Sugar())

	req, err := transport.NewRequestFromString("https://op.example.com/keys")
	require.NoError(t, err)

	t.Run("logs the request and its status", func(t *testing.T) {
		tr := &loggingTransport{
			logger: logger,
			next: transport.Func(func(context.Context, transport.Request) (*transport.Response, error) {
				return &transport.Response{StatusCode: http.StatusOK, Body: []byte("{}")}, nil
			}),
		}

		_, err := tr.Do(context.Background(), req)
		require.NoError(t, err)

		entries := recorded.TakeAll()
		require.Len(t, entries, 2)
		assert.Equal(t, "sending GET https://op.example.com/keys", entries[0].Message)
		assert.Equal(t, "GET https://op.example.com/keys returned status 200 (2 bytes)", entries[1].Message)
	})

	t.Run("warns on transport failure", func(t *testing.T) {
		tr := &loggingTransport{
			logger: logger,
			next: transport.Func(func(context.Context, transport.Request) (*transport.Response, error) {
				return nil, errors.New("connection reset")
			}),
		}

		_, err := tr.Do(context.Background(), req)
		require.Error(t, err)

		entries := recorded.TakeAll()
		require.Len(t, entries, 2)
		assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
		assert.Contains(t, entries[1].Message, "connection reset")
	})
}
