package logger

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestNewParsesLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, New("debug").GetLevel())
	assert.Equal(t, zerolog.InfoLevel, New("nonsense").GetLevel())
	assert.Equal(t, zerolog.InfoLevel, New("").GetLevel())
}

func TestFromContextRoundTrip(t *testing.T) {
	buf := &bytes.Buffer{}
	ctx := WithContext(context.Background(), NewWithWriter(buf))

	l := FromContext(ctx)
	l.Info().Str("shift_id", "abc").Msg("shift closed")

	assert.Contains(t, buf.String(), "shift closed")
	assert.Contains(t, buf.String(), `"shift_id":"abc"`)
}

func TestFromContextWithoutLoggerIsSilent(t *testing.T) {
	l := FromContext(context.Background())
	assert.Equal(t, zerolog.Disabled, l.GetLevel())
}
