// Package companion wires the emotion pipeline end to end: camera and
// manual samples through the stabilizer, stabilized emotions through the
// resolver into speech, the avatar expression engine, and the persona
// store.
package companion

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/ananyak/mindmate/internal/bus"
	"github.com/ananyak/mindmate/internal/camera"
	"github.com/ananyak/mindmate/internal/config"
	"github.com/ananyak/mindmate/internal/emotion"
	"github.com/ananyak/mindmate/internal/expression"
	"github.com/ananyak/mindmate/internal/persona"
	"github.com/ananyak/mindmate/internal/response"
	"github.com/ananyak/mindmate/internal/speech"
)

// achievementPollInterval is how often newly unlocked achievements are
// checked and announced.
const achievementPollInterval = 5 * time.Second

// Reply is what a free-text exchange hands back to the caller: the
// spoken text plus the navigation and expression side effects.
type Reply struct {
	Text       string             `json:"text"`
	Nav        response.NavTarget `json:"nav,omitempty"`
	Expression expression.Name    `json:"expression"`
	SpeechRate float64            `json:"speechRate"`
}

// Deps are the injectable pieces of a Companion. Detector may be nil
// when no camera backend is available; the pipeline then runs on manual
// input only.
type Deps struct {
	Config   *config.Config
	Logger   zerolog.Logger
	Bus      *bus.EventBus
	Detector camera.Detector
	Provider speech.Provider
	Store    persona.Store
}

// Companion orchestrates the pipeline.
type Companion struct {
	cfg    *config.Config
	logger zerolog.Logger
	bus    *bus.EventBus

	stabilizer *emotion.Stabilizer
	poller     *camera.Poller
	resolver   *response.Resolver
	engine     *expression.Engine
	speaker    *speech.Speaker
	persona    *persona.System

	now func() time.Time

	mu        sync.Mutex
	announced map[string]bool
	ctx       context.Context
	cancel    context.CancelFunc
	stopOnce  sync.Once
}

// Option configures a Companion.
type Option func(*options)

type options struct {
	now func() time.Time
	rng *rand.Rand
}

// WithClock injects the clock used by every subcomponent.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithRand injects the random source used by the resolver and engine.
func WithRand(rng *rand.Rand) Option {
	return func(o *options) { o.rng = rng }
}

// New builds a fully wired Companion from its dependencies.
func New(deps Deps, opts ...Option) *Companion {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}

	cfg := deps.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	var resolverOpts []response.ResolverOption
	var engineOpts []expression.EngineOption
	resolverOpts = append(resolverOpts, response.WithClock(o.now))
	engineOpts = append(engineOpts,
		expression.WithClock(o.now),
		expression.WithTimings(expression.Timings{
			TransitionDuration: cfg.Avatar.TransitionDuration,
			BlinkMinGap:        cfg.Avatar.BlinkMinGap,
			BlinkMaxGap:        cfg.Avatar.BlinkMaxGap,
			JitterPeriod:       cfg.Avatar.JitterPeriod,
		}))
	if o.rng != nil {
		resolverOpts = append(resolverOpts, response.WithRand(o.rng))
		engineOpts = append(engineOpts, expression.WithRand(o.rng))
	}

	c := &Companion{
		cfg:    cfg,
		logger: deps.Logger.With().Str("component", "companion").Logger(),
		bus:    deps.Bus,
		stabilizer: emotion.NewStabilizer(emotion.StabilizerConfig{
			RepeatThreshold: cfg.Stabilizer.RepeatThreshold,
		}, deps.Logger),
		resolver:  response.NewResolver(deps.Logger, resolverOpts...),
		engine:    expression.NewEngine(deps.Logger, engineOpts...),
		speaker:   speech.NewSpeaker(deps.Provider, deps.Logger),
		persona:   persona.NewSystem(deps.Store, deps.Logger, persona.WithClock(o.now)),
		now:       o.now,
		announced: make(map[string]bool),
	}

	if deps.Detector != nil && cfg.Camera.Enabled {
		c.poller = camera.NewPoller(camera.PollerConfig{
			Interval:            cfg.Camera.PollInterval,
			ConfidenceThreshold: cfg.Camera.ConfidenceThreshold,
		}, deps.Detector, deps.Logger, camera.WithClock(o.now))
		c.poller.SetSampleHandler(c.ObserveSample)
	}

	c.stabilizer.SetMirrorHandler(c.handleMirror)
	c.stabilizer.SetStableHandler(c.handleStabilized)
	c.speaker.SetSpeakingHandler(c.handleSpeaking)

	return c
}

// Start launches the pipeline loops: camera polling, the avatar frame
// loop, and achievement announcements. onFrame receives every rendered
// avatar frame and may be nil.
func (c *Companion) Start(ctx context.Context, onFrame func(expression.Frame)) {
	c.mu.Lock()
	c.ctx, c.cancel = context.WithCancel(ctx)
	runCtx := c.ctx
	c.mu.Unlock()

	if greeting, err := c.persona.Greeting(); err == nil {
		c.logger.Info().Str("greeting", greeting).Msg("Session started")
		go c.speak(greeting, 0.9)
	}

	if onFrame == nil {
		onFrame = func(expression.Frame) {}
	}
	c.engine.Start(onFrame)
	if c.poller != nil {
		c.poller.Start(runCtx)
	}
	go c.achievementLoop(runCtx)
}

// Stop shuts down the pipeline.
func (c *Companion) Stop() {
	c.stopOnce.Do(func() {
		c.mu.Lock()
		if c.cancel != nil {
			c.cancel()
		}
		c.mu.Unlock()
		if c.poller != nil {
			c.poller.Stop()
		}
		c.speaker.Stop()
		c.engine.Stop()
	})
}

// ObserveSample feeds one emotion sample into the stabilizer. The camera
// poller calls this; tests and manual adapters may too.
func (c *Companion) ObserveSample(sample emotion.Sample) {
	c.publish(bus.EventTypeEmotionSample, map[string]any{
		"emotion":    string(sample.Emotion),
		"confidence": sample.Confidence,
		"source":     string(sample.Source),
	})
	c.stabilizer.Observe(sample)
}

// SelectEmotion handles a manual emotion selection, which bypasses the
// stabilizer's repeat counter.
func (c *Companion) SelectEmotion(e emotion.Emotion) error {
	if !e.Valid() {
		return errors.New("unknown emotion: " + string(e))
	}
	c.ObserveSample(emotion.Sample{
		Emotion:    e,
		Confidence: 1.0,
		Source:     emotion.SourceManual,
		Timestamp:  c.now(),
	})
	return nil
}

// HandleUserMessage routes free-text input: keyword intents first, then
// the memory-aware contextual responder.
func (c *Companion) HandleUserMessage(text string) Reply {
	if intent, ok := response.MatchIntent(text); ok {
		name := expression.Name(intent.Expression)
		c.engine.SetExpression(name)
		if err := c.persona.AddMemory(text, intent.Mood, intent.Reply); err != nil {
			c.logger.Warn().Err(err).Msg("Failed to record memory")
		}
		c.publish(bus.EventTypeIntentMatched, map[string]any{
			"nav":  string(intent.Nav),
			"mood": intent.Mood,
		})
		if intent.Nav != response.NavNone {
			c.publish(bus.EventTypeNavSuggested, map[string]any{"nav": string(intent.Nav)})
		}
		go c.speak(intent.Reply, intent.SpeechRate)
		return Reply{
			Text:       intent.Reply,
			Nav:        intent.Nav,
			Expression: name,
			SpeechRate: intent.SpeechRate,
		}
	}

	msg, err := c.persona.ContextualResponse(text)
	if err != nil {
		c.logger.Warn().Err(err).Msg("Contextual responder failed")
		msg = "I'm here to support you every step of the way! 💪"
	}
	name := expression.ForContext(text, "")
	c.engine.SetExpression(name)
	if err := c.persona.AddMemory(text, "", msg); err != nil {
		c.logger.Warn().Err(err).Msg("Failed to record memory")
	}
	go c.speak(msg, 0.9)
	return Reply{Text: msg, Expression: name, SpeechRate: 0.9}
}

// RecordClick registers a user click and reacts to detected frustration.
func (c *Companion) RecordClick() {
	if err := c.persona.RecordClick(); err != nil {
		c.logger.Warn().Err(err).Msg("Failed to record click")
		return
	}
	c.checkFrustration()
}

// RecordPause registers a user pause and reacts to detected frustration.
func (c *Companion) RecordPause() {
	if err := c.persona.RecordPause(); err != nil {
		c.logger.Warn().Err(err).Msg("Failed to record pause")
		return
	}
	c.checkFrustration()
}

// RecordBreak registers a taken break, resetting the frustration inputs.
func (c *Companion) RecordBreak() {
	if err := c.persona.RecordBreak(); err != nil {
		c.logger.Warn().Err(err).Msg("Failed to record break")
	}
}

// SuggestBreakIfDue publishes a break suggestion when 45 minutes have
// passed since the last break. It reports whether a break is due.
func (c *Companion) SuggestBreakIfDue() bool {
	due, err := c.persona.ShouldSuggestBreak()
	if err != nil {
		c.logger.Warn().Err(err).Msg("Break check failed")
		return false
	}
	if due {
		c.publish(bus.EventTypeBreakSuggested, nil)
	}
	return due
}

// RecordStudySession records a completed study session and announces any
// newly unlocked achievements.
func (c *Companion) RecordStudySession(durationMinutes int) {
	if err := c.persona.RecordStudySession(durationMinutes); err != nil {
		c.logger.Warn().Err(err).Msg("Failed to record study session")
		return
	}
	c.announceAchievements()
}

// RecordChapterCompleted records a finished chapter and announces any
// newly unlocked achievements.
func (c *Companion) RecordChapterCompleted() {
	if err := c.persona.RecordChapterCompleted(); err != nil {
		c.logger.Warn().Err(err).Msg("Failed to record chapter")
		return
	}
	c.announceAchievements()
}

// RecordBreathingExercise records a finished breathing exercise and
// announces any newly unlocked achievements.
func (c *Companion) RecordBreathingExercise() {
	if err := c.persona.RecordBreathingExercise(); err != nil {
		c.logger.Warn().Err(err).Msg("Failed to record breathing exercise")
		return
	}
	c.announceAchievements()
}

// Greeting returns the personalized session greeting.
func (c *Companion) Greeting() string {
	greeting, err := c.persona.Greeting()
	if err != nil {
		c.logger.Warn().Err(err).Msg("Greeting failed")
		return "Hi! Ready to continue your learning journey? 📚"
	}
	return greeting
}

// Persona exposes the persona system for configuration surfaces.
func (c *Companion) Persona() *persona.System {
	return c.persona
}

// Frame returns the current avatar frame.
func (c *Companion) Frame() expression.Frame {
	return c.engine.Frame()
}

// IsSpeaking reports whether an utterance is in flight.
func (c *Companion) IsSpeaking() bool {
	return c.speaker.IsSpeaking()
}

func (c *Companion) handleMirror(e emotion.Emotion) {
	name := expression.ForEmotion(e)
	c.engine.SetExpression(name)
	c.publish(bus.EventTypeEmotionMirrored, map[string]any{
		"emotion":    string(e),
		"expression": string(name),
	})
}

func (c *Companion) handleStabilized(ev emotion.StabilizedEvent) {
	userName := ""
	lang := response.Language(c.cfg.User.Language)
	if profile, err := c.persona.Profile(); err == nil {
		userName = profile.Name
		if profile.PreferredLanguage != "" {
			lang = response.Language(profile.PreferredLanguage)
		}
	}

	bundle := c.resolver.Resolve(ev.Emotion, lang, userName, c.cfg.Response.IncludeTimeGreeting)

	c.logger.Info().
		Str("emotion", string(ev.Emotion)).
		Str("action", string(bundle.SuggestedAction)).
		Int("points", bundle.WellnessPoints).
		Msg("Emotion stabilized")

	c.publish(bus.EventTypeEmotionStabilized, map[string]any{
		"emotion": string(ev.Emotion),
		"source":  string(ev.Sample.Source),
	})
	c.publish(bus.EventTypeResponseResolved, map[string]any{
		"message":        bundle.Message,
		"speechRate":     bundle.SpeechRate,
		"action":         string(bundle.SuggestedAction),
		"wellnessPoints": bundle.WellnessPoints,
		"colors":         response.ColorFor(ev.Emotion),
	})
	if bundle.WellnessPoints > 0 {
		if err := c.persona.AddWellnessPoints(bundle.WellnessPoints); err != nil {
			c.logger.Warn().Err(err).Msg("Failed to persist wellness points")
		}
		c.publish(bus.EventTypeWellnessPoints, map[string]any{
			"points": bundle.WellnessPoints,
		})
	}
	if err := c.persona.AddMemory("emotion_"+string(ev.Emotion), string(ev.Emotion),
		"Detected "+string(ev.Emotion)+" emotion"); err != nil {
		c.logger.Warn().Err(err).Msg("Failed to record emotion memory")
	}
	if bundle.SuggestedAction != response.ActionNone {
		c.publish(bus.EventTypeNavSuggested, map[string]any{
			"nav": string(bundle.SuggestedAction),
		})
	}

	go c.speak(bundle.Message, bundle.SpeechRate)
}

func (c *Companion) handleSpeaking(speaking bool) {
	c.engine.SetSpeaking(speaking)
	if speaking {
		c.publish(bus.EventTypeSpeakingStarted, nil)
	} else {
		c.publish(bus.EventTypeSpeakingStopped, nil)
	}
}

// speak delivers one utterance; a newer utterance cancelling this one is
// not an error.
func (c *Companion) speak(text string, rate float64) {
	c.mu.Lock()
	ctx := c.ctx
	c.mu.Unlock()
	if ctx == nil {
		ctx = context.Background()
	}

	opts := speech.DefaultOptions()
	opts.Rate = rate
	if c.cfg.Speech.Lang != "" {
		opts.Lang = c.cfg.Speech.Lang
	}
	if err := c.speaker.Speak(ctx, text, opts); err != nil && !errors.Is(err, context.Canceled) {
		c.logger.Warn().Err(err).Msg("Speech delivery failed")
	}
}

func (c *Companion) checkFrustration() {
	frustrated, err := c.persona.DetectFrustration()
	if err != nil {
		c.logger.Warn().Err(err).Msg("Frustration check failed")
		return
	}
	if frustrated {
		c.engine.SetExpression(expression.Concerned)
		c.publish(bus.EventTypeFrustrationDetected, nil)
	}
}

func (c *Companion) achievementLoop(ctx context.Context) {
	ticker := time.NewTicker(achievementPollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.announceAchievements()
		}
	}
}

// announceAchievements publishes each newly unlocked achievement once,
// even though the store keeps reporting it as new for its full recency
// window.
func (c *Companion) announceAchievements() {
	fresh, err := c.persona.NewAchievements()
	if err != nil {
		c.logger.Warn().Err(err).Msg("Achievement check failed")
		return
	}
	for _, a := range fresh {
		c.mu.Lock()
		seen := c.announced[a.ID]
		if !seen {
			c.announced[a.ID] = true
		}
		c.mu.Unlock()
		if seen {
			continue
		}
		c.logger.Info().Str("achievement", a.ID).Msg("Achievement unlocked")
		c.engine.SetExpression(expression.Celebrating)
		c.publish(bus.EventTypeAchievementUnlocked, map[string]any{
			"id":    a.ID,
			"title": a.Title,
			"icon":  a.Icon,
		})
	}
}

func (c *Companion) publish(eventType bus.EventType, data map[string]any) {
	if c.bus == nil {
		return
	}
	c.bus.Publish(bus.Event{Type: eventType, Data: data})
}
