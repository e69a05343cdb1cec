package response

import "strings"

// NavTarget is the page a matched intent navigates to.
type NavTarget string

const (
	NavRelax NavTarget = "relax"
	NavLearn NavTarget = "learn"
	NavChat  NavTarget = "chat"
	NavNone  NavTarget = ""
)

// Intent is the result of free-text intent matching: a canned spoken
// reply plus the navigation and avatar side effects that go with it.
type Intent struct {
	Reply      string
	SpeechRate float64
	Nav        NavTarget
	Expression string
	Mood       string
}

type intentRule struct {
	keywords []string
	intent   Intent
}

// Rules are checked in order; the first keyword hit wins.
var intentRules = []intentRule{
	{
		keywords: []string{"stress", "anxious", "worried", "overwhelm", "relax"},
		intent: Intent{
			Reply:      "Let's take a calming breath together.",
			SpeechRate: 0.85,
			Nav:        NavRelax,
			Expression: "empathetic",
			Mood:       "stressed",
		},
	},
	{
		keywords: []string{"learn", "study", "read", "pdf"},
		intent: Intent{
			Reply:      "Let's start learning!",
			SpeechRate: 0.9,
			Nav:        NavLearn,
			Expression: "motivated",
			Mood:       "calm",
		},
	},
	{
		keywords: []string{"chat", "talk"},
		intent: Intent{
			Reply:      "I'm here to listen.",
			SpeechRate: 0.9,
			Nav:        NavChat,
			Expression: "listening",
		},
	},
}

// MatchIntent scans lowercased free-text input against the keyword rules.
// It returns false when nothing matches; callers then fall back to a
// memory-aware generic reply.
func MatchIntent(input string) (Intent, bool) {
	lower := strings.ToLower(input)
	for _, rule := range intentRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.intent, true
			}
		}
	}
	return Intent{}, false
}
