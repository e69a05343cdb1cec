// Package speech delivers resolved responses as spoken audio.
package speech

import (
	"context"
	"errors"
	"time"
)

// Common errors
var (
	ErrProviderUnavailable = errors.New("speech provider unavailable")
	ErrTextTooLong         = errors.New("text exceeds maximum length")
	ErrSynthesisFailed     = errors.New("synthesis failed")
)

// MaxTextLength bounds a single utterance.
const MaxTextLength = 500

// Options shape how an utterance is delivered.
type Options struct {
	Rate   float64 `json:"rate,omitempty"`   // 0.7 to 1.2
	Pitch  float64 `json:"pitch,omitempty"`  // -1.0 to 1.0
	Volume float64 `json:"volume,omitempty"` // 0 to 1
	Lang   string  `json:"lang,omitempty"`   // BCP 47, e.g. "en-US"
}

// DefaultOptions mirrors the delivery defaults used across the app.
func DefaultOptions() Options {
	return Options{Rate: 0.9, Pitch: 1.0, Volume: 1.0, Lang: "en-US"}
}

// Result is a completed synthesis.
type Result struct {
	Audio          []byte        `json:"audio"`
	Format         string        `json:"format"`
	Duration       time.Duration `json:"duration"`
	ProcessingTime time.Duration `json:"processing_time"`
	Provider       string        `json:"provider"`
}

// Provider is a synthesis backend.
type Provider interface {
	// Name returns the provider identifier.
	Name() string

	// Synthesize converts text to audio.
	Synthesize(ctx context.Context, text string, opts Options) (*Result, error)

	// Health checks if the provider is available.
	Health(ctx context.Context) error
}
