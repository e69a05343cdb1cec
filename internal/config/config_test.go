package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "en", cfg.User.Language)

	assert.True(t, cfg.Camera.Enabled)
	assert.Equal(t, 2500*time.Millisecond, cfg.Camera.PollInterval)
	assert.Equal(t, 0.7, cfg.Camera.ConfidenceThreshold)

	assert.Equal(t, 2, cfg.Stabilizer.RepeatThreshold)

	// Camera-driven responses carry the time-of-day greeting unless the
	// user turns it off.
	assert.True(t, cfg.Response.IncludeTimeGreeting)

	assert.Equal(t, 800*time.Millisecond, cfg.Avatar.TransitionDuration)
	assert.Equal(t, 3*time.Second, cfg.Avatar.BlinkMinGap)
	assert.Equal(t, 5*time.Second, cfg.Avatar.BlinkMaxGap)
	assert.Equal(t, 150*time.Millisecond, cfg.Avatar.JitterPeriod)

	assert.Equal(t, "http", cfg.Speech.Provider)
	assert.True(t, cfg.Sync.Enabled)
	assert.NotEmpty(t, cfg.Store.Path)
}
