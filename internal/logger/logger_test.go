package logger

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	log := New()
	assert.NotEqual(t, zerolog.Disabled, log.GetLevel(), "expected logger to be enabled")
}

func TestNewWithWriter(t *testing.T) {
	buf := &bytes.Buffer{}
	log := NewWithWriter(buf)

	log.Info().Msg("test message")

	assert.Contains(t, buf.String(), "test message")
}

func TestWithContext(t *testing.T) {
	ctx := WithContext(context.Background(), New())
	assert.NotNil(t, ctx.Value(LoggerKey))
}

func TestFromContext(t *testing.T) {
	buf := &bytes.Buffer{}
	ctx := WithContext(context.Background(), NewWithWriter(buf))

	retrieved := FromContext(ctx)
	retrieved.Info().Msg("test")

	assert.NotZero(t, buf.Len(), "expected log output from retrieved logger")
}

func TestFromContext_DefaultIsSilent(t *testing.T) {
	log := FromContext(context.Background())
	assert.Equal(t, zerolog.Disabled, log.GetLevel())
}

func TestWithFields(t *testing.T) {
	buf := &bytes.Buffer{}
	log := WithFields(NewWithWriter(buf), map[string]interface{}{
		"collection_id": "abc",
		"action":        "find",
	})
	log.Info().Msg("test message")

	out := buf.String()
	assert.Contains(t, out, `"collection_id":"abc"`)
	assert.Contains(t, out, `"action":"find"`)
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    zerolog.Level
		wantErr bool
	}{
		{"", zerolog.InfoLevel, false},
		{"debug", zerolog.DebugLevel, false},
		{" WARN ", zerolog.WarnLevel, false},
		{"loud", zerolog.NoLevel, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
