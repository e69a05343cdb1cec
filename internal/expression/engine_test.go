package expression

import (
	"math"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/ananyak/mindmate/internal/emotion"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func newTestEngine(clock *fakeClock) *Engine {
	return NewEngine(zerolog.Nop(),
		WithClock(clock.Now),
		WithRand(rand.New(rand.NewSource(7))))
}

func TestPresets_AllNamed(t *testing.T) {
	if len(Presets) != 18 {
		t.Fatalf("expected 18 presets, got %d", len(Presets))
	}
	for name, cfg := range Presets {
		if cfg.Colors.From == "" || cfg.Colors.To == "" || cfg.Colors.Glow == "" {
			t.Errorf("%s has incomplete colors", name)
		}
		if cfg.MouthCurve == "" || cfg.Animation == "" {
			t.Errorf("%s has incomplete discrete fields", name)
		}
	}
}

func TestPresetFor_UnknownDefaultsToEncouraging(t *testing.T) {
	name, cfg := PresetFor(Name("zen"))
	if name != Encouraging {
		t.Errorf("expected encouraging, got %s", name)
	}
	if cfg != Presets[Encouraging] {
		t.Error("config mismatch for fallback preset")
	}
}

func TestForEmotion(t *testing.T) {
	cases := map[emotion.Emotion]Name{
		emotion.Happy:     Happy,
		emotion.Sad:       Empathetic,
		emotion.Angry:     Concerned,
		emotion.Surprised: Surprised,
		emotion.Fearful:   Empathetic,
		emotion.Disgusted: Concerned,
		emotion.Neutral:   Calm,
	}
	for e, want := range cases {
		if got := ForEmotion(e); got != want {
			t.Errorf("ForEmotion(%s) = %s, want %s", e, got, want)
		}
	}
}

func TestForContext(t *testing.T) {
	cases := []struct {
		context string
		mood    string
		want    Name
	}{
		{"Achievement unlocked!", "", Celebrating},
		{"great job on your progress", "", Proud},
		{"what does this mean", "", Curious},
		{"can you explain this", "", Focused},
		{"this is really hard", "", Empathetic},
		{"so much stress lately", "", Concerned},
		{"time for a break", "", Calm},
		{"let's study", "", Motivated},
		{"just want to talk", "", Listening},
		{"", "stressed", Empathetic},
		{"", "happy", Happy},
		{"", "calm", Calm},
		{"", "", Encouraging},
	}
	for _, tc := range cases {
		if got := ForContext(tc.context, tc.mood); got != tc.want {
			t.Errorf("ForContext(%q, %q) = %s, want %s", tc.context, tc.mood, got, tc.want)
		}
	}
}

func TestEaseInOutQuad(t *testing.T) {
	cases := map[float64]float64{
		0: 0, 0.25: 0.125, 0.5: 0.5, 0.75: 0.875, 1: 1,
	}
	for in, want := range cases {
		if got := easeInOutQuad(in); math.Abs(got-want) > 1e-9 {
			t.Errorf("ease(%v) = %v, want %v", in, got, want)
		}
	}
}

func TestInterpolate_Endpoints(t *testing.T) {
	from, to := Presets[Neutral], Presets[Happy]

	if got := Interpolate(from, to, 0); got != from {
		t.Error("progress 0 should equal from")
	}
	if got := Interpolate(from, to, 1); got != to {
		t.Error("progress 1 should equal to")
	}
}

func TestInterpolate_DiscreteSnapAtMidpoint(t *testing.T) {
	from, to := Presets[Neutral], Presets[Happy]

	before := Interpolate(from, to, 0.49)
	if before.MouthCurve != from.MouthCurve || before.Colors != from.Colors || before.Animation != from.Animation {
		t.Error("discrete fields should hold the from value before the midpoint")
	}
	if before.Sparkles != from.Sparkles {
		t.Error("sparkles should hold the from value before the midpoint")
	}

	at := Interpolate(from, to, 0.5)
	if at.MouthCurve != to.MouthCurve || at.Colors != to.Colors || at.Animation != to.Animation {
		t.Error("mouth curve, colors and animation snap to the to value at 0.5")
	}
	if at.Sparkles != from.Sparkles {
		t.Error("sparkles stay on the from value at exactly 0.5")
	}

	after := Interpolate(from, to, 0.51)
	if after.Sparkles != to.Sparkles {
		t.Error("sparkles snap just past the midpoint")
	}
}

func TestInterpolate_NumericMidpoint(t *testing.T) {
	from, to := Presets[Neutral], Presets[Happy]
	mid := Interpolate(from, to, 0.5)

	wantEye := (from.EyeScale + to.EyeScale) / 2
	if math.Abs(mid.EyeScale-wantEye) > 1e-9 {
		t.Errorf("eyeScale midpoint = %v, want %v", mid.EyeScale, wantEye)
	}
	wantMouth := (from.MouthWidth + to.MouthWidth) / 2
	if math.Abs(mid.MouthWidth-wantMouth) > 1e-9 {
		t.Errorf("mouthWidth midpoint = %v, want %v", mid.MouthWidth, wantMouth)
	}
}

func TestEngine_ConvergesWithinDuration(t *testing.T) {
	clock := newFakeClock()
	e := newTestEngine(clock)

	e.SetExpression(Happy)
	clock.Advance(TransitionDuration)

	f := e.Frame()
	if f.Config != Presets[Happy] {
		t.Error("frame should equal the target preset once the transition elapses")
	}
	if f.Transitioning {
		t.Error("transition should be finished")
	}
}

func TestEngine_CustomTimings(t *testing.T) {
	clock := newFakeClock()
	e := NewEngine(zerolog.Nop(),
		WithClock(clock.Now),
		WithRand(rand.New(rand.NewSource(7))),
		WithTimings(Timings{
			TransitionDuration: 200 * time.Millisecond,
			BlinkMinGap:        10 * time.Second,
			BlinkMaxGap:        12 * time.Second,
		}))

	e.SetExpression(Happy)
	clock.Advance(100 * time.Millisecond)
	if f := e.Frame(); !f.Transitioning {
		t.Error("transition should still be running at its halfway point")
	}
	clock.Advance(100 * time.Millisecond)
	f := e.Frame()
	if f.Config != Presets[Happy] {
		t.Error("frame should equal the target preset once the shortened transition elapses")
	}
	if f.Transitioning {
		t.Error("transition should be finished after 200ms")
	}

	// The widened blink gap means no blink within the stock window.
	clock.Advance(6 * time.Second)
	if e.Frame().Blinking {
		t.Error("blink fired before the configured minimum gap")
	}
}

func TestEngine_ZeroTimingsKeepDefaults(t *testing.T) {
	clock := newFakeClock()
	e := NewEngine(zerolog.Nop(),
		WithClock(clock.Now),
		WithRand(rand.New(rand.NewSource(7))),
		WithTimings(Timings{}))

	e.SetExpression(Calm)
	clock.Advance(TransitionDuration)
	if f := e.Frame(); f.Config != Presets[Calm] {
		t.Error("zero timings should keep the default transition duration")
	}
}

func TestEngine_RetargetKeepsContinuity(t *testing.T) {
	clock := newFakeClock()
	e := newTestEngine(clock)

	e.SetExpression(Happy)
	clock.Advance(400 * time.Millisecond)
	before := e.Frame()

	// Retarget mid-flight: the very next frame starts from the live
	// interpolated value, not from the old preset.
	e.SetExpression(Calm)
	after := e.Frame()

	if math.Abs(after.Config.EyeScale-before.Config.EyeScale) > 1e-9 {
		t.Errorf("eyeScale jumped on retarget: %v -> %v", before.Config.EyeScale, after.Config.EyeScale)
	}
	if math.Abs(after.Config.MouthWidth-before.Config.MouthWidth) > 1e-9 {
		t.Errorf("mouthWidth jumped on retarget: %v -> %v", before.Config.MouthWidth, after.Config.MouthWidth)
	}

	clock.Advance(TransitionDuration)
	if f := e.Frame(); f.Config != Presets[Calm] {
		t.Error("retargeted transition should converge on the new preset")
	}
}

func TestEngine_SameTargetIsNoop(t *testing.T) {
	clock := newFakeClock()
	e := newTestEngine(clock)

	e.SetExpression(Happy)
	clock.Advance(TransitionDuration)
	e.Frame()

	e.SetExpression(Happy)
	if f := e.Frame(); f.Transitioning {
		t.Error("re-requesting the active target must not restart the transition")
	}
}

func TestEngine_UnknownTargetBecomesEncouraging(t *testing.T) {
	clock := newFakeClock()
	e := newTestEngine(clock)

	e.SetExpression(Name("bogus"))
	if e.Current() != Encouraging {
		t.Errorf("expected encouraging, got %s", e.Current())
	}
}

func TestEngine_BlinkWindow(t *testing.T) {
	clock := newFakeClock()
	e := newTestEngine(clock)

	// The first blink is scheduled 3 to 5 seconds out.
	if e.Frame().Blinking {
		t.Fatal("fresh engine should not be blinking")
	}

	clock.Advance(5 * time.Second)
	if !e.Frame().Blinking {
		t.Fatal("blink should have fired within 5 seconds")
	}

	clock.Advance(blinkDuration)
	if e.Frame().Blinking {
		t.Error("blink should end after its 150ms window")
	}
}

func TestEngine_MouthJitterOnlyWhileSpeaking(t *testing.T) {
	clock := newFakeClock()
	e := newTestEngine(clock)

	if f := e.Frame(); f.MouthScale != 1.0 {
		t.Fatalf("silent mouth scale = %v, want 1.0", f.MouthScale)
	}

	e.SetSpeaking(true)
	f := e.Frame()
	if f.MouthScale < 1.0 || f.MouthScale >= 1.0+jitterRange {
		t.Errorf("speaking mouth scale %v outside [1.0, 1.15)", f.MouthScale)
	}

	// Jitter holds steady within a 150ms window and re-rolls after it.
	clock.Advance(50 * time.Millisecond)
	if got := e.Frame().MouthScale; got != f.MouthScale {
		t.Errorf("jitter re-rolled early: %v -> %v", f.MouthScale, got)
	}

	e.SetSpeaking(false)
	if got := e.Frame().MouthScale; got != 1.0 {
		t.Errorf("mouth scale should reset to 1.0 when speech stops, got %v", got)
	}
}
