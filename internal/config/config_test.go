package config_test

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/Sn1ff3hr/chabella/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeEnvFile writes vars to a .env file. The loader exports file values
// into the process environment, so every key is registered with t.Setenv
// to be restored after the test.
func writeEnvFile(t *testing.T, vars map[string]string) string {
	t.Helper()

	keys := make([]string, 0, len(vars))
	for k := range vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		t.Setenv(k, vars[k])
		fmt.Fprintf(&b, "%s=%s\n", k, vars[k])
	}

	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0o600))
	return path
}

func TestLoadPath_Defaults(t *testing.T) {
	path := writeEnvFile(t, map[string]string{
		"ENV":             "local",
		"STORAGE_DRIVER":  "memory",
		"GOOGLE_SHEET_ID": "",
	})

	cfg, err := config.LoadPath(path)
	require.NoError(t, err)

	assert.Equal(t, "MARXIA", cfg.App.AssetPrefix)
	assert.Equal(t, "8080", cfg.HTTP.Port)
	assert.Equal(t, 2*time.Second, cfg.HTTP.RequestTimeout)
	assert.Equal(t, config.DriverMemory, cfg.Storage.Driver)
	assert.Equal(t, "ProductLog!A1", cfg.Sheets.Range)
	assert.Equal(t, 10*time.Second, cfg.Sheets.Timeout)
	assert.Equal(t, config.TransportLocal, cfg.SheetLog.Transport)
	assert.False(t, cfg.SheetLogEnabled())
}

func TestLoadPath_SheetLogOverKafka(t *testing.T) {
	path := writeEnvFile(t, map[string]string{
		"STORAGE_DRIVER":     "memory",
		"GOOGLE_SHEET_ID":    "sheet-123",
		"SHEETLOG_TRANSPORT": "kafka",
		"KAFKA_GROUP_ID":     "storefront",
		"KAFKA_BROKERS":      "kafka-1:9092,kafka-2:9092",
		"KAFKA_TOPIC":        "product-log",
		"DLQ_BROKERS":        "kafka-1:9092",
		"DLQ_TOPIC":          "product-log-dlq",
	})

	cfg, err := config.LoadPath(path)
	require.NoError(t, err)

	assert.True(t, cfg.SheetLogEnabled())
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, "product-log-dlq", cfg.DLQ.Topic)
}

func TestLoadPath_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		vars  map[string]string
		field string
	}{
		{
			name: "postgres selected without connection settings",
			vars: map[string]string{
				"STORAGE_DRIVER":  "postgres",
				"GOOGLE_SHEET_ID": "",
				"DB_HOST":         "",
			},
			field: "Postgres.Host",
		},
		{
			name: "unknown storage driver",
			vars: map[string]string{
				"STORAGE_DRIVER":  "sqlite",
				"GOOGLE_SHEET_ID": "",
			},
			field: "Storage.Driver",
		},
		{
			name: "kafka transport without brokers",
			vars: map[string]string{
				"STORAGE_DRIVER":     "memory",
				"GOOGLE_SHEET_ID":    "sheet-123",
				"SHEETLOG_TRANSPORT": "kafka",
				"KAFKA_TOPIC":        "",
				"KAFKA_BROKERS":      "",
			},
			field: "Kafka.Topic",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeEnvFile(t, tt.vars)

			_, err := config.LoadPath(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}

func TestLoadPath_MissingFile(t *testing.T) {
	_, err := config.LoadPath(filepath.Join(t.TempDir(), "absent.env"))
	assert.ErrorContains(t, err, "config file does not exist")
}
