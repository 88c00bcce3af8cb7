package cache

import (
	"context"
	"time"
)

// ReportCache stores JSON-encodable report results under string keys.
type ReportCache interface {
	// Get decodes the cached value into dest and reports whether it was present.
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	// DeletePrefix drops every key starting with prefix.
	DeletePrefix(ctx context.Context, prefix string) error
}

type NoopReportCache struct{}

func (NoopReportCache) Get(_ context.Context, _ string, _ interface{}) (bool, error) {
	return false, nil
}

func (NoopReportCache) Set(_ context.Context, _ string, _ interface{}, _ time.Duration) error {
	return nil
}

func (NoopReportCache) DeletePrefix(_ context.Context, _ string) error {
	return nil
}
