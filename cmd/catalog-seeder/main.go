//nolint:mnd
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/Sn1ff3hr/chabella/internal/entity"

	"github.com/brianvoe/gofakeit/v7"
	"go.uber.org/zap"
)

const _productsPath = "/api/owner/products"

func main() {
	baseURL := flag.String("url", "http://localhost:8080", "Base URL of the storefront service")
	count := flag.Int("count", 1, "Number of products to create")
	interval := flag.Duration("interval", time.Second, "Interval between requests")
	timeout := flag.Duration("timeout", 5*time.Second, "Per-request timeout")

	flag.Parse()

	zl, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = zl.Sync() }()
	log := zl.Sugar()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	s := &seeder{
		client:   &http.Client{Timeout: *timeout},
		endpoint: strings.TrimRight(*baseURL, "/") + _productsPath,
		log:      log,
	}

	log.Infow("starting catalog seeder",
		"endpoint", s.endpoint,
		"count", *count,
		"interval", interval.String(),
	)

	created := s.run(ctx, *count, *interval)
	log.Infow("catalog seeder finished", "created", created, "requested", *count)
}

type seeder struct {
	client   *http.Client
	endpoint string
	log      *zap.SugaredLogger
}

func (s *seeder) run(ctx context.Context, count int, interval time.Duration) int {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	created := 0
	for sent := 0; sent < count; sent++ {
		if sent > 0 {
			select {
			case <-ctx.Done():
				s.log.Infow("shutting down seeder")
				return created
			case <-ticker.C:
			}
		}

		product, err := s.create(ctx, generateFakeProduct())
		if err != nil {
			s.log.Errorw("failed to create product", "error", err)
			continue
		}
		created++
		s.log.Infow("product created", "asset_id", product.AssetID, "name", product.ProductName)
	}
	return created
}

func (s *seeder) create(ctx context.Context, in *entity.ProductInput) (*entity.Product, error) {
	const op = "seeder.create"

	body, err := json.Marshal(in)
	if err != nil {
		return nil, fmt.Errorf("%s: marshal: %w", op, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%s: build request: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: post: %w", op, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s: read response: %w", op, err)
	}

	if resp.StatusCode != http.StatusCreated {
		var apiErr struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(raw, &apiErr) != nil || apiErr.Message == "" {
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
		return nil, fmt.Errorf("%s: status %d: %w", op, resp.StatusCode, errors.New(apiErr.Message))
	}

	var product entity.Product
	if err = json.Unmarshal(raw, &product); err != nil {
		return nil, fmt.Errorf("%s: decode product: %w", op, err)
	}
	return &product, nil
}

func generateFakeProduct() *entity.ProductInput {
	in := &entity.ProductInput{
		ProductName:       ptr(gofakeit.ProductName()),
		Price:             ptr(gofakeit.Price(1, 500)),
		QuantityAvailable: ptr(float64(gofakeit.Number(0, 100))),
		Description:       ptr(gofakeit.ProductDescription()),
	}

	if gofakeit.Bool() {
		in.TaxName = ptr("VAT")
		in.TaxRate = ptr(float64(gofakeit.RandomInt([]int{0, 5, 10, 20})))
	}
	if gofakeit.Bool() {
		in.PhotoURL = ptr(gofakeit.URL())
	}
	return in
}

func ptr[T any](v T) *T {
	return &v
}
