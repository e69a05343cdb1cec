package companion

import (
	"math/rand"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ananyak/mindmate/internal/bus"
	"github.com/ananyak/mindmate/internal/config"
	"github.com/ananyak/mindmate/internal/emotion"
	"github.com/ananyak/mindmate/internal/expression"
	"github.com/ananyak/mindmate/internal/persona"
	"github.com/ananyak/mindmate/internal/response"
	"github.com/ananyak/mindmate/internal/speech"
)

type testClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

type harness struct {
	companion *Companion
	provider  *speech.MockProvider
	store     *persona.MemStore
	bus       *bus.EventBus
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	provider := speech.NewMockProvider()
	provider.FixedDuration = 5 * time.Millisecond
	store := persona.NewMemStore()
	b := bus.NewEventBus()

	c := New(Deps{
		Config:   config.DefaultConfig(),
		Logger:   zerolog.Nop(),
		Bus:      b,
		Provider: provider,
		Store:    store,
	}, WithRand(rand.New(rand.NewSource(11))))

	return &harness{companion: c, provider: provider, store: store, bus: b}
}

func waitForUtterances(t *testing.T, provider *speech.MockProvider, n int) []string {
	t.Helper()
	require.Eventually(t, func() bool {
		return len(provider.Synthesized()) >= n
	}, 2*time.Second, 5*time.Millisecond)
	return provider.Synthesized()
}

func TestSelectEmotion_ResolvesAndSpeaks(t *testing.T) {
	h := newHarness(t)

	require.NoError(t, h.companion.SelectEmotion(emotion.Happy))

	texts := waitForUtterances(t, h.provider, 1)
	assert.NotEmpty(t, texts[0])
	assert.Equal(t, expression.Happy, h.companion.Frame().Expression)

	progress, err := h.companion.Persona().Progress()
	require.NoError(t, err)
	assert.Equal(t, 10, progress.WellnessPoints)

	memories, err := h.store.Memories()
	require.NoError(t, err)
	require.Len(t, memories, 1)
	assert.Equal(t, "emotion_happy", memories[0].Topic)
}

func TestSelectEmotion_RejectsUnknown(t *testing.T) {
	h := newHarness(t)
	assert.Error(t, h.companion.SelectEmotion(emotion.Emotion("bored")))
}

func TestCameraSamples_StabilizeAfterRepeat(t *testing.T) {
	h := newHarness(t)

	resolved := make(chan bus.Event, 1)
	h.bus.Subscribe(bus.EventTypeResponseResolved, func(ev bus.Event) {
		resolved <- ev
	})

	sample := emotion.Sample{
		Emotion:    emotion.Sad,
		Confidence: 0.9,
		Source:     emotion.SourceCamera,
		Timestamp:  time.Now(),
	}
	h.companion.ObserveSample(sample)
	assert.Empty(t, h.provider.Synthesized())

	h.companion.ObserveSample(sample)
	texts := waitForUtterances(t, h.provider, 1)
	assert.Len(t, texts, 1)
	assert.Equal(t, expression.Empathetic, h.companion.Frame().Expression)

	select {
	case ev := <-resolved:
		assert.Equal(t, response.ColorFor(emotion.Sad), ev.Data["colors"])
	case <-time.After(time.Second):
		t.Fatal("no resolved event published")
	}
}

func TestAvatarTimings_ComeFromConfig(t *testing.T) {
	clock := &testClock{t: time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC)}
	cfg := config.DefaultConfig()
	cfg.Avatar.TransitionDuration = 50 * time.Millisecond

	c := New(Deps{
		Config:   cfg,
		Logger:   zerolog.Nop(),
		Provider: speech.NewMockProvider(),
		Store:    persona.NewMemStore(),
	}, WithClock(clock.Now), WithRand(rand.New(rand.NewSource(3))))

	require.NoError(t, c.SelectEmotion(emotion.Happy))
	clock.Advance(50 * time.Millisecond)

	f := c.Frame()
	assert.False(t, f.Transitioning)
	_, preset := expression.PresetFor(expression.Happy)
	assert.Equal(t, preset, f.Config)
}

func TestHandleUserMessage_StressIntent(t *testing.T) {
	h := newHarness(t)

	navEvents := make(chan bus.Event, 4)
	h.bus.Subscribe(bus.EventTypeNavSuggested, func(ev bus.Event) {
		navEvents <- ev
	})

	reply := h.companion.HandleUserMessage("I'm so stressed about my exams")

	assert.Equal(t, "Let's take a calming breath together.", reply.Text)
	assert.Equal(t, response.NavRelax, reply.Nav)
	assert.Equal(t, expression.Empathetic, reply.Expression)
	assert.InDelta(t, 0.85, reply.SpeechRate, 1e-9)

	select {
	case ev := <-navEvents:
		assert.Equal(t, "relax", ev.Data["nav"])
	case <-time.After(time.Second):
		t.Fatal("no navigation event published")
	}

	memories, err := h.store.Memories()
	require.NoError(t, err)
	require.Len(t, memories, 1)
	assert.Equal(t, "stressed", memories[0].UserMood)
}

func TestHandleUserMessage_FallsBackToContextual(t *testing.T) {
	h := newHarness(t)

	reply := h.companion.HandleUserMessage("hello there")

	assert.Equal(t, "I'm here to support you every step of the way! 💪", reply.Text)
	assert.Equal(t, response.NavNone, reply.Nav)
	assert.Equal(t, expression.Encouraging, reply.Expression)
}

func TestHandleUserMessage_RemembersStress(t *testing.T) {
	h := newHarness(t)

	h.companion.HandleUserMessage("I'm anxious about algebra")
	reply := h.companion.HandleUserMessage("algebra")

	assert.Contains(t, reply.Text, "algebra")
	assert.Contains(t, reply.Text, "stressed")
}

func TestAchievements_AnnouncedExactlyOnce(t *testing.T) {
	h := newHarness(t)

	var announced atomic.Int32
	h.bus.Subscribe(bus.EventTypeAchievementUnlocked, func(ev bus.Event) {
		if ev.Data["id"] == "first_session" {
			announced.Add(1)
		}
	})

	h.companion.RecordStudySession(30)
	require.Eventually(t, func() bool {
		return announced.Load() == 1
	}, 2*time.Second, 5*time.Millisecond)

	// Still inside the store's recency window; the second session must
	// not re-announce.
	h.companion.RecordStudySession(20)
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(1), announced.Load())
}

func TestFrustration_SetsConcernedExpression(t *testing.T) {
	h := newHarness(t)

	var detected atomic.Int32
	h.bus.Subscribe(bus.EventTypeFrustrationDetected, func(bus.Event) {
		detected.Add(1)
	})

	for i := 0; i < 31; i++ {
		h.companion.RecordClick()
	}
	for i := 0; i < 6; i++ {
		h.companion.RecordPause()
	}

	require.Eventually(t, func() bool {
		return detected.Load() >= 1
	}, 2*time.Second, 5*time.Millisecond)
	assert.Equal(t, expression.Concerned, h.companion.Frame().Expression)
}

func TestGreeting_FirstSession(t *testing.T) {
	h := newHarness(t)
	assert.Contains(t, h.companion.Greeting(), "excited")
}
