package expression

import (
	"math/rand"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const (
	// FrameInterval is the render tick period when the engine drives
	// its own loop.
	FrameInterval = 33 * time.Millisecond

	blinkMinGap   = 3000 * time.Millisecond
	blinkMaxGap   = 5000 * time.Millisecond
	blinkDuration = 150 * time.Millisecond

	jitterPeriod = 150 * time.Millisecond
	jitterRange  = 0.15
)

// Timings are the engine's animation periods. Zero fields fall back to
// the defaults above.
type Timings struct {
	TransitionDuration time.Duration
	BlinkMinGap        time.Duration
	BlinkMaxGap        time.Duration
	JitterPeriod       time.Duration
}

// DefaultTimings returns the stock animation periods.
func DefaultTimings() Timings {
	return Timings{
		TransitionDuration: TransitionDuration,
		BlinkMinGap:        blinkMinGap,
		BlinkMaxGap:        blinkMaxGap,
		JitterPeriod:       jitterPeriod,
	}
}

// Frame is one rendered avatar state.
type Frame struct {
	Expression    Name    `json:"expression"`
	Config        Config  `json:"config"`
	Blinking      bool    `json:"blinking"`
	MouthScale    float64 `json:"mouthScale"`
	Transitioning bool    `json:"transitioning"`
}

// Engine drives the avatar's visual state: one transition at a time
// toward the requested preset, with blink and speech jitter layered on
// top independently.
type Engine struct {
	mu      sync.Mutex
	logger  zerolog.Logger
	rng     *rand.Rand
	now     func() time.Time
	timings Timings

	target     Name
	current    Config
	transition *Transition

	nextBlinkAt time.Time
	blinkUntil  time.Time

	speaking     bool
	mouthScale   float64
	nextJitterAt time.Time

	stopChan chan struct{}
	stopOnce sync.Once
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithRand sets the random source for blink gaps and mouth jitter.
func WithRand(rng *rand.Rand) EngineOption {
	return func(e *Engine) { e.rng = rng }
}

// WithClock sets the clock, letting tests run on virtual time.
func WithClock(now func() time.Time) EngineOption {
	return func(e *Engine) { e.now = now }
}

// WithTimings overrides the animation periods. Zero fields keep their
// defaults.
func WithTimings(t Timings) EngineOption {
	return func(e *Engine) {
		if t.TransitionDuration > 0 {
			e.timings.TransitionDuration = t.TransitionDuration
		}
		if t.BlinkMinGap > 0 {
			e.timings.BlinkMinGap = t.BlinkMinGap
		}
		if t.BlinkMaxGap > 0 {
			e.timings.BlinkMaxGap = t.BlinkMaxGap
		}
		if t.JitterPeriod > 0 {
			e.timings.JitterPeriod = t.JitterPeriod
		}
	}
}

func NewEngine(logger zerolog.Logger, opts ...EngineOption) *Engine {
	e := &Engine{
		logger:     logger.With().Str("component", "expression").Logger(),
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())),
		now:        time.Now,
		timings:    DefaultTimings(),
		target:     Neutral,
		current:    Presets[Neutral],
		mouthScale: 1.0,
		stopChan:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.nextBlinkAt = e.now().Add(e.blinkGap())
	return e
}

func (e *Engine) blinkGap() time.Duration {
	return e.timings.BlinkMinGap +
		time.Duration(e.rng.Float64()*float64(e.timings.BlinkMaxGap-e.timings.BlinkMinGap))
}

// SetExpression retargets the avatar. Unknown names resolve to
// encouraging. A retarget mid-transition restarts from the live
// interpolated value so the rendered state never jumps.
func (e *Engine) SetExpression(name Name) {
	resolved, preset := PresetFor(name)

	e.mu.Lock()
	defer e.mu.Unlock()

	if resolved == e.target {
		return
	}

	now := e.now()
	if e.transition != nil {
		e.current = e.transition.At(now)
	}

	e.logger.Debug().
		Str("from", string(e.target)).
		Str("to", string(resolved)).
		Msg("Expression transition")

	e.target = resolved
	e.transition = &Transition{
		From:      e.current,
		To:        preset,
		StartTime: now,
		Duration:  e.timings.TransitionDuration,
	}
}

// SetSpeaking toggles the mouth jitter layer.
func (e *Engine) SetSpeaking(speaking bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.speaking = speaking
	if !speaking {
		e.mouthScale = 1.0
	}
}

// Current returns the active target expression.
func (e *Engine) Current() Name {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.target
}

// Frame advances the engine to the current instant and returns the
// rendered state.
func (e *Engine) Frame() Frame {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.now()

	if e.transition != nil {
		e.current = e.transition.At(now)
		if e.transition.IsComplete(now) {
			e.transition = nil
		}
	}

	if !now.Before(e.nextBlinkAt) {
		e.blinkUntil = now.Add(blinkDuration)
		e.nextBlinkAt = now.Add(e.blinkGap())
	}
	blinking := now.Before(e.blinkUntil)

	if e.speaking && !now.Before(e.nextJitterAt) {
		e.mouthScale = 1.0 + e.rng.Float64()*jitterRange
		e.nextJitterAt = now.Add(e.timings.JitterPeriod)
	}

	return Frame{
		Expression:    e.target,
		Config:        e.current,
		Blinking:      blinking,
		MouthScale:    e.mouthScale,
		Transitioning: e.transition != nil,
	}
}

// Start runs the render loop, invoking onFrame each tick until Stop.
func (e *Engine) Start(onFrame func(Frame)) {
	go func() {
		ticker := time.NewTicker(FrameInterval)
		defer ticker.Stop()
		for {
			select {
			case <-e.stopChan:
				return
			case <-ticker.C:
				onFrame(e.Frame())
			}
		}
	}()
}

// Stop halts the render loop. Safe to call more than once.
func (e *Engine) Stop() {
	e.stopOnce.Do(func() { close(e.stopChan) })
}
