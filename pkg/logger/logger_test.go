package logger_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/Sn1ff3hr/chabella/internal/config"
	"github.com/Sn1ff3hr/chabella/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(filename string) *config.Config {
	return &config.Config{
		Env: "local",
		App: config.App{Name: "storefront-service", Version: "test"},
		Logger: config.Logger{
			Level:      "debug",
			Filename:   filename,
			MaxSize:    1,
			MaxBackups: 1,
			MaxAge:     1,
		},
	}
}

func TestNewAdapter(t *testing.T) {
	t.Run("RotatedFile", func(t *testing.T) {
		log, err := logger.NewAdapter(testConfig(filepath.Join(t.TempDir(), "service.log")))
		require.NoError(t, err)

		log.Infow("product created", "asset_id", "MARXIA-0003")
		log.LogAttrs(context.Background(), logger.WarnLevel, "slow", logger.Int("ms", 250))
	})

	t.Run("Console", func(t *testing.T) {
		cfg := testConfig("")
		cfg.Logger.MaxSize = 0

		_, err := logger.NewAdapter(cfg, logger.Console())
		require.NoError(t, err)
	})

	t.Run("InvalidRotation", func(t *testing.T) {
		cfg := testConfig(filepath.Join(t.TempDir(), "service.log"))
		cfg.Logger.MaxBackups = 0

		_, err := logger.NewAdapter(cfg)
		require.Error(t, err)
	})

	t.Run("InvalidLevel", func(t *testing.T) {
		cfg := testConfig("")
		cfg.Logger.Level = "verbose"

		_, err := logger.NewAdapter(cfg, logger.Console())
		require.Error(t, err)
	})
}

func TestRequestID(t *testing.T) {
	log := logger.NewNop()

	assert.Empty(t, log.GetRequestID(context.Background()))

	id := log.GenerateRequestID()
	require.Len(t, id, 36)

	ctx := log.WithRequestID(context.Background(), id)
	assert.Equal(t, id, log.GetRequestID(ctx))

	log.Ctx(ctx).With("component", "test").Infow("tagged")
}

func TestLevelString(t *testing.T) {
	assert.Equal(t, "DEBUG", logger.DebugLevel.String())
	assert.Equal(t, "ERROR", logger.ErrorLevel.String())
}
