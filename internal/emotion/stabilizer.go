package emotion

import (
	"sync"

	"github.com/rs/zerolog"
)

// StabilizedEvent is emitted once the repeat-count policy is satisfied.
// It is consumed exactly once by the response pipeline and then discarded.
type StabilizedEvent struct {
	Emotion Emotion
	Count   int
	Sample  Sample
}

// StabilizerConfig tunes the consecutive-repeat policy.
type StabilizerConfig struct {
	// RepeatThreshold is the number of consecutive matching camera samples
	// required before a StabilizedEvent fires (default: 2).
	RepeatThreshold int
}

// DefaultStabilizerConfig returns the production policy.
func DefaultStabilizerConfig() StabilizerConfig {
	return StabilizerConfig{RepeatThreshold: 2}
}

// Stabilizer suppresses reaction to single-frame camera noise by requiring
// the same label on consecutive samples. Manual samples bypass the counter
// entirely: an explicit user action carries certainty camera inference
// lacks, so it always fires immediately and leaves the camera-path counter
// untouched.
//
// Visual mirroring is unthrottled: OnMirror fires for every sample, before
// the counter is consulted, so the avatar tracks the user's face even while
// the response is being debounced.
type Stabilizer struct {
	mu sync.Mutex

	config      StabilizerConfig
	logger      zerolog.Logger
	lastEmotion Emotion
	repeatCount int

	onMirror func(Emotion)
	onStable func(StabilizedEvent)
}

// NewStabilizer creates a stabilizer with the given policy.
func NewStabilizer(config StabilizerConfig, logger zerolog.Logger) *Stabilizer {
	if config.RepeatThreshold <= 0 {
		config.RepeatThreshold = 2
	}
	return &Stabilizer{
		config: config,
		logger: logger.With().Str("component", "stabilizer").Logger(),
	}
}

// SetMirrorHandler registers the unthrottled expression-mirror callback.
func (s *Stabilizer) SetMirrorHandler(fn func(Emotion)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onMirror = fn
}

// SetStableHandler registers the debounced event callback.
func (s *Stabilizer) SetStableHandler(fn func(StabilizedEvent)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onStable = fn
}

// Observe feeds one accepted sample through the policy. Camera samples
// increment the repeat counter; when it reaches the threshold one event is
// emitted and the counter resets to zero, so a sustained emotion re-fires
// only after another full run of confirmations. Rapid oscillation between
// two emotions never reaches the threshold for either; that flicker
// suppression is intended behavior.
func (s *Stabilizer) Observe(sample Sample) {
	s.mu.Lock()

	mirror := s.onMirror
	stable := s.onStable

	if sample.Source == SourceManual {
		s.mu.Unlock()
		if mirror != nil {
			mirror(sample.Emotion)
		}
		if stable != nil {
			stable(StabilizedEvent{Emotion: sample.Emotion, Count: 1, Sample: sample})
		}
		return
	}

	if sample.Emotion == s.lastEmotion {
		s.repeatCount++
	} else {
		s.lastEmotion = sample.Emotion
		s.repeatCount = 1
	}

	fire := false
	count := s.repeatCount
	if s.repeatCount >= s.config.RepeatThreshold {
		fire = true
		s.repeatCount = 0
	}
	s.mu.Unlock()

	if mirror != nil {
		mirror(sample.Emotion)
	}

	if fire {
		s.logger.Debug().
			Str("emotion", string(sample.Emotion)).
			Int("count", count).
			Msg("Emotion stabilized")
		if stable != nil {
			stable(StabilizedEvent{Emotion: sample.Emotion, Count: count, Sample: sample})
		}
	}
}

// Reset clears the counter, e.g. when the camera is stopped.
func (s *Stabilizer) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastEmotion = ""
	s.repeatCount = 0
}
