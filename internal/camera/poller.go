package camera

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/ananyak/mindmate/internal/emotion"
)

const (
	// DefaultPollInterval matches the fixed camera sampling period.
	DefaultPollInterval = 2500 * time.Millisecond

	// DefaultConfidenceThreshold gates low-evidence detections. A
	// dominant class at or below it drops the sample entirely rather
	// than passing as neutral.
	DefaultConfidenceThreshold = 0.7
)

// PollerConfig tunes the camera sampling loop.
type PollerConfig struct {
	Interval            time.Duration
	ConfidenceThreshold float64
}

func DefaultPollerConfig() PollerConfig {
	return PollerConfig{
		Interval:            DefaultPollInterval,
		ConfidenceThreshold: DefaultConfidenceThreshold,
	}
}

// Poller samples the detector on a fixed period and forwards confident
// dominant-class detections as emotion samples. Backend failures never
// stop the loop; the rest of the pipeline keeps running on manual input.
type Poller struct {
	config   PollerConfig
	detector Detector
	logger   zerolog.Logger
	now      func() time.Time

	mu       sync.Mutex
	onSample func(emotion.Sample)

	stopChan chan struct{}
	stopOnce sync.Once
}

// PollerOption configures a Poller.
type PollerOption func(*Poller)

// WithClock sets the clock used to stamp samples.
func WithClock(now func() time.Time) PollerOption {
	return func(p *Poller) { p.now = now }
}

func NewPoller(config PollerConfig, detector Detector, logger zerolog.Logger, opts ...PollerOption) *Poller {
	if config.Interval <= 0 {
		config.Interval = DefaultPollInterval
	}
	if config.ConfidenceThreshold <= 0 {
		config.ConfidenceThreshold = DefaultConfidenceThreshold
	}
	p := &Poller{
		config:   config,
		detector: detector,
		logger:   logger.With().Str("component", "camera").Logger(),
		now:      time.Now,
		stopChan: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// SetSampleHandler registers the callback for confident samples.
func (p *Poller) SetSampleHandler(fn func(emotion.Sample)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onSample = fn
}

// Start runs the poll loop until Stop or context cancellation.
func (p *Poller) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(p.config.Interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-p.stopChan:
				return
			case <-ticker.C:
				p.Poll(ctx)
			}
		}
	}()
}

// Stop halts the poll loop. Safe to call more than once.
func (p *Poller) Stop() {
	p.stopOnce.Do(func() { close(p.stopChan) })
}

// Poll runs one detection cycle: reduce the score vector to its dominant
// class, gate on confidence, forward the sample.
func (p *Poller) Poll(ctx context.Context) {
	scores, err := p.detector.Detect(ctx)
	if errors.Is(err, ErrNoDetection) {
		return
	}
	if err != nil {
		p.logger.Debug().Err(err).Msg("Detection failed")
		return
	}

	dominant, confidence := scores.Dominant()
	if confidence <= p.config.ConfidenceThreshold {
		p.logger.Debug().
			Str("emotion", string(dominant)).
			Float64("confidence", confidence).
			Msg("Detection below confidence gate")
		return
	}

	p.mu.Lock()
	handler := p.onSample
	p.mu.Unlock()
	if handler != nil {
		handler(emotion.Sample{
			Emotion:    dominant,
			Confidence: confidence,
			Source:     emotion.SourceCamera,
			Timestamp:  p.now(),
		})
	}
}
