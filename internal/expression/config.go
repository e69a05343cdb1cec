package expression

import (
	"strings"

	"github.com/ananyak/mindmate/internal/emotion"
)

// Name identifies one of the avatar's expression presets.
type Name string

const (
	Neutral     Name = "neutral"
	Happy       Name = "happy"
	Calm        Name = "calm"
	Thinking    Name = "thinking"
	Curious     Name = "curious"
	Concerned   Name = "concerned"
	Encouraging Name = "encouraging"
	Surprised   Name = "surprised"
	Proud       Name = "proud"
	Listening   Name = "listening"
	Excited     Name = "excited"
	Empathetic  Name = "empathetic"
	Focused     Name = "focused"
	Playful     Name = "playful"
	Celebrating Name = "celebrating"
	Confused    Name = "confused"
	Tired       Name = "tired"
	Motivated   Name = "motivated"
)

// MouthCurve is the discrete mouth shape tag.
type MouthCurve string

const (
	MouthSmile     MouthCurve = "smile"
	MouthNeutral   MouthCurve = "neutral"
	MouthFrown     MouthCurve = "frown"
	MouthOpen      MouthCurve = "open"
	MouthSurprised MouthCurve = "surprised"
)

// Animation is the discrete ambient animation tag.
type Animation string

const (
	AnimBounce Animation = "bounce"
	AnimPulse  Animation = "pulse"
	AnimWave   Animation = "wave"
	AnimNone   Animation = "none"
)

// Colors is the avatar's gradient and glow palette.
type Colors struct {
	From string `json:"from"`
	To   string `json:"to"`
	Glow string `json:"glow"`
}

// Config is the full set of visual parameters for one expression.
type Config struct {
	EyeScale          float64    `json:"eyeScale"`          // 0.5 to 1.5
	EyeRotation       float64    `json:"eyeRotation"`       // -15 to 15 degrees
	EyeVerticalOffset float64    `json:"eyeVerticalOffset"` // -10 to 10 pixels
	EyeBrowOffset     float64    `json:"eyeBrowOffset"`     // -5 to 5 pixels
	MouthWidth        float64    `json:"mouthWidth"`        // 30 to 80 pixels
	MouthHeight       float64    `json:"mouthHeight"`       // 2 to 40 pixels
	MouthCurve        MouthCurve `json:"mouthCurve"`
	HeadTilt          float64    `json:"headTilt"` // -15 to 15 degrees
	GlowIntensity     float64    `json:"glowIntensity"`
	Sparkles          bool       `json:"sparkles"`
	PulseSpeed        float64    `json:"pulseSpeed"`
	Colors            Colors     `json:"colors"`
	Animation         Animation  `json:"animation"`
}

// Presets holds the fixed configuration for every named expression.
var Presets = map[Name]Config{
	Neutral: {
		EyeScale: 1, EyeRotation: 0, EyeVerticalOffset: 0, EyeBrowOffset: 0,
		MouthWidth: 48, MouthHeight: 8, MouthCurve: MouthNeutral,
		HeadTilt: 0, GlowIntensity: 0.4, Sparkles: false, PulseSpeed: 1,
		Colors:    Colors{"#98D8C8", "#6BCF7F", "#98D8C8"},
		Animation: AnimNone,
	},
	Happy: {
		EyeScale: 1.1, EyeRotation: 0, EyeVerticalOffset: -2, EyeBrowOffset: -3,
		MouthWidth: 56, MouthHeight: 20, MouthCurve: MouthSmile,
		HeadTilt: 0, GlowIntensity: 0.7, Sparkles: true, PulseSpeed: 1.2,
		Colors:    Colors{"#FFD700", "#FFA500", "#FFD700"},
		Animation: AnimBounce,
	},
	Calm: {
		EyeScale: 0.9, EyeRotation: 0, EyeVerticalOffset: 2, EyeBrowOffset: 1,
		MouthWidth: 44, MouthHeight: 6, MouthCurve: MouthSmile,
		HeadTilt: 0, GlowIntensity: 0.5, Sparkles: false, PulseSpeed: 0.7,
		Colors:    Colors{"#87CEEB", "#4682B4", "#87CEEB"},
		Animation: AnimPulse,
	},
	Thinking: {
		EyeScale: 0.95, EyeRotation: -5, EyeVerticalOffset: 0, EyeBrowOffset: -2,
		MouthWidth: 40, MouthHeight: 4, MouthCurve: MouthNeutral,
		HeadTilt: 8, GlowIntensity: 0.6, Sparkles: false, PulseSpeed: 0.9,
		Colors:    Colors{"#DDA0DD", "#9370DB", "#DDA0DD"},
		Animation: AnimNone,
	},
	Curious: {
		EyeScale: 1.15, EyeRotation: 0, EyeVerticalOffset: -3, EyeBrowOffset: -5,
		MouthWidth: 42, MouthHeight: 10, MouthCurve: MouthSurprised,
		HeadTilt: -5, GlowIntensity: 0.65, Sparkles: false, PulseSpeed: 1.1,
		Colors:    Colors{"#FFB6C1", "#FF69B4", "#FFB6C1"},
		Animation: AnimWave,
	},
	Concerned: {
		EyeScale: 0.95, EyeRotation: 3, EyeVerticalOffset: 1, EyeBrowOffset: 2,
		MouthWidth: 44, MouthHeight: 6, MouthCurve: MouthFrown,
		HeadTilt: 3, GlowIntensity: 0.45, Sparkles: false, PulseSpeed: 0.85,
		Colors:    Colors{"#B0C4DE", "#778899", "#B0C4DE"},
		Animation: AnimNone,
	},
	Encouraging: {
		EyeScale: 1.05, EyeRotation: 0, EyeVerticalOffset: -1, EyeBrowOffset: -2,
		MouthWidth: 52, MouthHeight: 16, MouthCurve: MouthSmile,
		HeadTilt: -2, GlowIntensity: 0.7, Sparkles: true, PulseSpeed: 1.15,
		Colors:    Colors{"#98FB98", "#32CD32", "#98FB98"},
		Animation: AnimPulse,
	},
	Surprised: {
		EyeScale: 1.3, EyeRotation: 0, EyeVerticalOffset: -5, EyeBrowOffset: -8,
		MouthWidth: 48, MouthHeight: 32, MouthCurve: MouthOpen,
		HeadTilt: 0, GlowIntensity: 0.8, Sparkles: true, PulseSpeed: 1.5,
		Colors:    Colors{"#FFE4B5", "#FFA07A", "#FFE4B5"},
		Animation: AnimBounce,
	},
	Proud: {
		EyeScale: 1.08, EyeRotation: 0, EyeVerticalOffset: -2, EyeBrowOffset: -3,
		MouthWidth: 58, MouthHeight: 22, MouthCurve: MouthSmile,
		HeadTilt: -3, GlowIntensity: 0.85, Sparkles: true, PulseSpeed: 1.2,
		Colors:    Colors{"#FFD700", "#FF8C00", "#FFD700"},
		Animation: AnimBounce,
	},
	Listening: {
		EyeScale: 1, EyeRotation: 0, EyeVerticalOffset: 0, EyeBrowOffset: -1,
		MouthWidth: 42, MouthHeight: 6, MouthCurve: MouthNeutral,
		HeadTilt: 12, GlowIntensity: 0.55, Sparkles: false, PulseSpeed: 0.8,
		Colors:    Colors{"#ADD8E6", "#5F9EA0", "#ADD8E6"},
		Animation: AnimNone,
	},
	Excited: {
		EyeScale: 1.2, EyeRotation: 0, EyeVerticalOffset: -4, EyeBrowOffset: -6,
		MouthWidth: 60, MouthHeight: 28, MouthCurve: MouthSmile,
		HeadTilt: 0, GlowIntensity: 0.9, Sparkles: true, PulseSpeed: 1.6,
		Colors:    Colors{"#FF6347", "#FF4500", "#FF6347"},
		Animation: AnimBounce,
	},
	Empathetic: {
		EyeScale: 0.95, EyeRotation: 0, EyeVerticalOffset: 1, EyeBrowOffset: 0,
		MouthWidth: 46, MouthHeight: 10, MouthCurve: MouthSmile,
		HeadTilt: 5, GlowIntensity: 0.6, Sparkles: false, PulseSpeed: 0.85,
		Colors:    Colors{"#DDA0DD", "#BA55D3", "#DDA0DD"},
		Animation: AnimPulse,
	},
	Focused: {
		EyeScale: 0.85, EyeRotation: 0, EyeVerticalOffset: 2, EyeBrowOffset: 1,
		MouthWidth: 38, MouthHeight: 4, MouthCurve: MouthNeutral,
		HeadTilt: 0, GlowIntensity: 0.5, Sparkles: false, PulseSpeed: 0.75,
		Colors:    Colors{"#4682B4", "#2F4F4F", "#4682B4"},
		Animation: AnimNone,
	},
	Playful: {
		EyeScale: 1.1, EyeRotation: -8, EyeVerticalOffset: -1, EyeBrowOffset: -4,
		MouthWidth: 54, MouthHeight: 18, MouthCurve: MouthSmile,
		HeadTilt: -8, GlowIntensity: 0.75, Sparkles: true, PulseSpeed: 1.3,
		Colors:    Colors{"#FF69B4", "#FF1493", "#FF69B4"},
		Animation: AnimWave,
	},
	Celebrating: {
		EyeScale: 1.25, EyeRotation: 0, EyeVerticalOffset: -4, EyeBrowOffset: -7,
		MouthWidth: 64, MouthHeight: 30, MouthCurve: MouthSmile,
		HeadTilt: 0, GlowIntensity: 1, Sparkles: true, PulseSpeed: 1.8,
		Colors:    Colors{"#FFD700", "#FFA500", "#FFD700"},
		Animation: AnimBounce,
	},
	Confused: {
		EyeScale: 1.05, EyeRotation: 5, EyeVerticalOffset: 0, EyeBrowOffset: 3,
		MouthWidth: 40, MouthHeight: 8, MouthCurve: MouthNeutral,
		HeadTilt: 15, GlowIntensity: 0.5, Sparkles: false, PulseSpeed: 0.9,
		Colors:    Colors{"#D8BFD8", "#9370DB", "#D8BFD8"},
		Animation: AnimNone,
	},
	Tired: {
		EyeScale: 0.7, EyeRotation: 0, EyeVerticalOffset: 4, EyeBrowOffset: 3,
		MouthWidth: 42, MouthHeight: 6, MouthCurve: MouthNeutral,
		HeadTilt: 2, GlowIntensity: 0.3, Sparkles: false, PulseSpeed: 0.6,
		Colors:    Colors{"#B0C4DE", "#708090", "#B0C4DE"},
		Animation: AnimNone,
	},
	Motivated: {
		EyeScale: 1.1, EyeRotation: 0, EyeVerticalOffset: -2, EyeBrowOffset: -4,
		MouthWidth: 50, MouthHeight: 14, MouthCurve: MouthSmile,
		HeadTilt: -2, GlowIntensity: 0.8, Sparkles: true, PulseSpeed: 1.25,
		Colors:    Colors{"#FF6347", "#DC143C", "#FF6347"},
		Animation: AnimPulse,
	},
}

// PresetFor returns the preset for name. Unknown names resolve to the
// encouraging preset.
func PresetFor(name Name) (Name, Config) {
	if cfg, ok := Presets[name]; ok {
		return name, cfg
	}
	return Encouraging, Presets[Encouraging]
}

// ForEmotion maps a detected emotion onto the expression the avatar
// mirrors back.
func ForEmotion(e emotion.Emotion) Name {
	switch e {
	case emotion.Happy:
		return Happy
	case emotion.Sad:
		return Empathetic
	case emotion.Angry:
		return Concerned
	case emotion.Surprised:
		return Surprised
	case emotion.Fearful:
		return Empathetic
	case emotion.Disgusted:
		return Concerned
	default:
		return Calm
	}
}

type contextRule struct {
	keywords []string
	name     Name
}

var contextRules = []contextRule{
	{[]string{"achievement", "completed"}, Celebrating},
	{[]string{"progress", "great job"}, Proud},
	{[]string{"question", "what", "how"}, Curious},
	{[]string{"explain", "understand"}, Focused},
	{[]string{"difficult", "hard"}, Empathetic},
	{[]string{"stress", "anxious"}, Concerned},
	{[]string{"tired", "exhausted"}, Empathetic},
	{[]string{"excited", "amazing"}, Excited},
	{[]string{"break", "relax"}, Calm},
	{[]string{"study", "learn"}, Motivated},
	{[]string{"chat", "talk"}, Listening},
}

// ForContext picks the expression matching a conversational context, with
// the user's mood as a tiebreaker and encouraging as the final fallback.
func ForContext(context, userMood string) Name {
	lower := strings.ToLower(context)
	for _, rule := range contextRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.name
			}
		}
	}
	switch userMood {
	case "stressed":
		return Empathetic
	case "happy":
		return Happy
	case "calm":
		return Calm
	}
	return Encouraging
}
