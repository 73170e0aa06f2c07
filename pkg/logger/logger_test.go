package logger

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithContext(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter(&buf, "debug")
	t.Cleanup(func() { InitWithWriter(&bytes.Buffer{}, "info") })

	l := WithRequestID("abc12345")
	ctx := NewContext(context.Background(), &l)
	WithContext(ctx).Info().Msg("hello")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "abc12345", entry["request_id"])
	assert.Equal(t, "hello", entry["message"])

	assert.Same(t, Get(), WithContext(context.Background()))
}

func TestUpstream(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter(&buf, "info")
	t.Cleanup(func() { InitWithWriter(&bytes.Buffer{}, "info") })

	Upstream(context.Background(), "storefront", "cartCreate", 10*time.Millisecond, nil)
	assert.Empty(t, buf.String(), "successful calls log at debug")

	Upstream(context.Background(), "storefront", "cartCreate", 10*time.Millisecond, errors.New("boom"))
	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "cartCreate", entry["operation"])
	assert.Equal(t, "boom", entry["error"])
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, "debug", parseLevel("debug").String())
	assert.Equal(t, "warn", parseLevel("warning").String())
	assert.Equal(t, "info", parseLevel("nonsense").String())
}
