package upstream

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig_JitterFn(t *testing.T) {
	cfg := DefaultConfig()

	assert.NotNil(t, cfg.Retry.JitterFn)

	backoff := 100 * time.Millisecond
	jitter := cfg.Retry.JitterFn(backoff)

	assert.Equal(t, 50*time.Millisecond, jitter,
		"default jitter should be 50% of backoff")
}

func TestDefaultConfig_ProbeDisabled(t *testing.T) {
	cfg := DefaultConfig()

	assert.Zero(t, cfg.Probe.Interval)
	assert.Greater(t, cfg.Timeout, time.Duration(0))
}
