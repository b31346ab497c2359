// Package fetch downloads reference images for face verification.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

var (
	// ErrUnexpectedStatus is returned when the remote server answers with anything but 200.
	ErrUnexpectedStatus = errors.New("unexpected status fetching image")
	ErrTooLarge         = errors.New("remote image exceeds size limit")
)

const (
	DefaultTimeout = 10 * time.Second
	DefaultMaxSize = 10 * 1024 * 1024
)

type Config struct {
	Timeout time.Duration
	MaxSize int64
}

type Fetcher struct {
	httpClient *http.Client
	maxSize    int64
}

func New(cfg Config) *Fetcher {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.MaxSize <= 0 {
		cfg.MaxSize = DefaultMaxSize
	}

	return &Fetcher{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		maxSize:    cfg.MaxSize,
	}
}

// Fetch GETs url and returns the body. Transport failures are returned as-is so
// callers can tell them apart from a non-200 answer.
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "image/*")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxSize+1))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if int64(len(body)) > f.maxSize {
		return nil, ErrTooLarge
	}

	return body, nil
}
