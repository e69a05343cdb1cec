package response

import (
	"math/rand"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/ananyak/mindmate/internal/emotion"
)

// Bundle is a fully resolved motivational response.
type Bundle struct {
	Message         string          `json:"message"`
	SpeechRate      float64         `json:"speechRate"`
	SuggestedAction SuggestedAction `json:"suggestedAction,omitempty"`
	WellnessPoints  int             `json:"wellnessPoints"`
}

type emotionMeta struct {
	action     SuggestedAction
	speechRate float64
	points     int
}

var metaByEmotion = map[emotion.Emotion]emotionMeta{
	emotion.Sad:       {ActionBreathe, 0.8, 3},
	emotion.Happy:     {ActionLearn, 1.0, 10},
	emotion.Angry:     {ActionRelax, 0.85, 5},
	emotion.Surprised: {ActionLearn, 1.1, 8},
	emotion.Neutral:   {ActionNone, 0.9, 5},
	emotion.Fearful:   {ActionBreathe, 0.8, 5},
	emotion.Disgusted: {ActionRelax, 0.9, 3},
}

// Resolver picks localized responses for stabilized emotions. The random
// source and clock are injected so resolution can be replayed in tests.
type Resolver struct {
	rng    *rand.Rand
	now    func() time.Time
	logger zerolog.Logger
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithRand sets the random source used for pool picks and the
// personalization coin flip.
func WithRand(rng *rand.Rand) ResolverOption {
	return func(r *Resolver) { r.rng = rng }
}

// WithClock sets the clock used for time-of-day greetings.
func WithClock(now func() time.Time) ResolverOption {
	return func(r *Resolver) { r.now = now }
}

func NewResolver(logger zerolog.Logger, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
		now:    time.Now,
		logger: logger.With().Str("component", "response").Logger(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve returns a response bundle for the emotion in the given language.
// Unknown emotions fall back to the neutral pool and unknown languages to
// English, so a bundle is always produced.
func (r *Resolver) Resolve(e emotion.Emotion, lang Language, userName string, includeTimeGreeting bool) Bundle {
	meta, ok := metaByEmotion[e]
	if !ok {
		meta = metaByEmotion[emotion.Neutral]
		e = emotion.Neutral
	}
	if !lang.Valid() {
		lang = LangEnglish
	}

	responses := poolsByEmotion[e][lang]
	message := responses[r.rng.Intn(len(responses))]

	if includeTimeGreeting {
		tod := TimeOfDayFor(r.now().Hour())
		message = greetingPrefixes[tod][lang] + message
	}

	if userName != "" && r.rng.Float64() > 0.5 {
		message = personalize(message, userName)
	}

	r.logger.Debug().
		Str("emotion", string(e)).
		Str("language", string(lang)).
		Str("action", string(meta.action)).
		Msg("Resolved response")

	return Bundle{
		Message:         message,
		SpeechRate:      meta.speechRate,
		SuggestedAction: meta.action,
		WellnessPoints:  meta.points,
	}
}

// personalize folds the user's name into sentence-initial second-person
// phrases. Only the capitalized forms are rewritten, so mid-sentence
// "you're" is left alone.
func personalize(message, name string) string {
	message = strings.ReplaceAll(message, "You're", name+", you're")
	message = strings.ReplaceAll(message, "You've", name+", you've")
	message = strings.ReplaceAll(message, "Your", name+", your")
	return message
}

// ColorGradient is a two-stop hex gradient associated with an emotion.
type ColorGradient struct {
	From string `json:"from"`
	To   string `json:"to"`
}

var colorsByEmotion = map[emotion.Emotion]ColorGradient{
	emotion.Happy:     {"#FFD700", "#FFA500"},
	emotion.Sad:       {"#87CEEB", "#4682B4"},
	emotion.Angry:     {"#FF6347", "#DC143C"},
	emotion.Surprised: {"#FFE4B5", "#FFA07A"},
	emotion.Neutral:   {"#98D8C8", "#6BCF7F"},
	emotion.Fearful:   {"#DDA0DD", "#9370DB"},
	emotion.Disgusted: {"#D8BFD8", "#9370DB"},
}

// ColorFor returns the UI gradient for an emotion, defaulting to the
// neutral gradient.
func ColorFor(e emotion.Emotion) ColorGradient {
	if c, ok := colorsByEmotion[e]; ok {
		return c
	}
	return colorsByEmotion[emotion.Neutral]
}
