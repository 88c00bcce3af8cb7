package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type report struct {
	Total string `json:"total"`
}

func TestNoopReportCache(t *testing.T) {
	var c ReportCache = NoopReportCache{}
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", report{Total: "1.00"}, time.Minute))

	var got report
	ok, err := c.Get(ctx, "k", &got)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, c.DeletePrefix(ctx, "k"))
}

func TestRedisReportCache(t *testing.T) {
	addr := os.Getenv("POS_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("POS_TEST_REDIS_ADDR not set")
	}
	ctx := context.Background()
	c := NewRedisReportCache(addr, "", 0)
	defer c.Close()
	require.NoError(t, c.Ping(ctx))

	require.NoError(t, c.Set(ctx, "test:perf:a", report{Total: "12.50"}, time.Minute))
	require.NoError(t, c.Set(ctx, "test:perf:b", report{Total: "3.00"}, time.Minute))

	var got report
	ok, err := c.Get(ctx, "test:perf:a", &got)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "12.50", got.Total)

	require.NoError(t, c.DeletePrefix(ctx, "test:perf:"))
	ok, err = c.Get(ctx, "test:perf:b", &got)
	require.NoError(t, err)
	assert.False(t, ok)
}
