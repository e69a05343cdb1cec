package speech

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// wordsPerSecond estimates utterance length when the provider reports no
// duration, scaled by the requested rate.
const wordsPerSecond = 2.5

// Speaker delivers at most one utterance at a time. Starting a new
// utterance cancels the one in flight, and the speaking flag is flipped
// around delivery so collaborators can animate against it.
type Speaker struct {
	mu         sync.Mutex
	provider   Provider
	logger     zerolog.Logger
	onSpeaking func(bool)
	cancel     context.CancelFunc
	gen        uint64
	speaking   bool
}

func NewSpeaker(provider Provider, logger zerolog.Logger) *Speaker {
	return &Speaker{
		provider: provider,
		logger:   logger.With().Str("component", "speech").Logger(),
	}
}

// SetSpeakingHandler registers the callback invoked when the speaking
// flag changes.
func (s *Speaker) SetSpeakingHandler(fn func(bool)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onSpeaking = fn
}

// IsSpeaking reports whether an utterance is being delivered.
func (s *Speaker) IsSpeaking() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.speaking
}

// Speak synthesizes and delivers text, blocking until delivery finishes
// or the utterance is superseded. A superseded utterance returns
// context.Canceled.
func (s *Speaker) Speak(ctx context.Context, text string, opts Options) error {
	if len(text) > MaxTextLength {
		return ErrTextTooLong
	}
	if opts.Rate == 0 {
		opts.Rate = DefaultOptions().Rate
	}

	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	uttCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.gen++
	gen := s.gen
	s.mu.Unlock()
	defer cancel()

	result, err := s.provider.Synthesize(uttCtx, text, opts)
	if err != nil {
		// This generation owns the flag now; clear anything a superseded
		// utterance left set.
		s.setSpeaking(gen, false)
		s.logger.Error().Err(err).Msg("Synthesis failed")
		return err
	}

	duration := result.Duration
	if duration == 0 {
		duration = estimateDuration(text, opts.Rate)
	}

	s.setSpeaking(gen, true)
	defer s.setSpeaking(gen, false)

	s.logger.Debug().
		Str("provider", result.Provider).
		Dur("duration", duration).
		Msg("Delivering utterance")

	select {
	case <-time.After(duration):
		return nil
	case <-uttCtx.Done():
		return uttCtx.Err()
	}
}

// Stop cancels the in-flight utterance, if any.
func (s *Speaker) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

// setSpeaking flips the flag on behalf of one utterance. A superseded
// utterance's teardown must not clear the flag owned by its successor,
// so writes from a stale generation are dropped.
func (s *Speaker) setSpeaking(gen uint64, v bool) {
	s.mu.Lock()
	if gen != s.gen || s.speaking == v {
		s.mu.Unlock()
		return
	}
	s.speaking = v
	fn := s.onSpeaking
	s.mu.Unlock()
	if fn != nil {
		fn(v)
	}
}

func estimateDuration(text string, rate float64) time.Duration {
	words := len(strings.Fields(text))
	if words == 0 {
		return 0
	}
	seconds := float64(words) / (wordsPerSecond * rate)
	return time.Duration(seconds * float64(time.Second))
}
