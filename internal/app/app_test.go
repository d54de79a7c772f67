package app_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"testing"
	"time"

	"github.com/Sn1ff3hr/chabella/internal/app"
	"github.com/Sn1ff3hr/chabella/internal/config"
	"github.com/Sn1ff3hr/chabella/internal/entity"
	"github.com/Sn1ff3hr/chabella/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func freePort(t *testing.T) string {
	t.Helper()

	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer l.Close()

	return strconv.Itoa(l.Addr().(*net.TCPAddr).Port)
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()

	return &config.Config{
		App: config.App{Name: "storefront-service", Version: "test", AssetPrefix: "MARXIA"},
		HTTP: config.HTTP{
			Host:              "127.0.0.1",
			Port:              freePort(t),
			ReadTimeout:       time.Second,
			WriteTimeout:      time.Second,
			IdleTimeout:       time.Second,
			ShutdownTimeout:   time.Second,
			ReadHeaderTimeout: time.Second,
			RequestTimeout:    time.Second,
		},
		Metrics: config.Metrics{
			Host:              "127.0.0.1",
			Port:              freePort(t),
			ReadTimeout:       time.Second,
			WriteTimeout:      time.Second,
			ReadHeaderTimeout: time.Second,
		},
		Storage:  config.Storage{Driver: config.DriverMemory},
		Cache:    config.Cache{Capacity: 16, TTL: time.Minute, CleanupInterval: time.Second},
		SheetLog: config.SheetLog{Transport: config.TransportLocal, QueueSize: 4, Workers: 1},
		Env:      "local",
	}
}

func waitHealthy(t *testing.T, baseURL string) {
	t.Helper()

	require.Eventually(t, func() bool {
		resp, err := http.Get(baseURL + "/health")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 20*time.Millisecond)
}

func TestRun_MemoryStorefront(t *testing.T) {
	cfg := testConfig(t)
	baseURL := fmt.Sprintf("http://%s", net.JoinHostPort(cfg.HTTP.Host, cfg.HTTP.Port))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- app.Run(ctx, cfg, logger.NewNop())
	}()

	waitHealthy(t, baseURL)

	body := bytes.NewBufferString(`{"productName":"Widget","price":5,"quantityAvailable":2}`)
	resp, err := http.Post(baseURL+"/api/owner/products", "application/json", body)
	require.NoError(t, err)

	var product entity.Product
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&product))
	resp.Body.Close()
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "MARXIA-0003", product.AssetID)

	resp, err = http.Get(baseURL + "/api/owner/products/MARXIA-0003")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	metricsURL := fmt.Sprintf("http://%s/metrics", net.JoinHostPort(cfg.Metrics.Host, cfg.Metrics.Port))
	resp, err = http.Get(metricsURL)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()

	select {
	case err = <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("app did not stop after cancellation")
	}
}
