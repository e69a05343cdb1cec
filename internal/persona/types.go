// Package persona tracks who the user is: profile, progress,
// achievements, conversational memory and interaction patterns.
package persona

import "time"

// LearningStyle is the user's preferred way of taking in material.
type LearningStyle string

const (
	StyleVisual      LearningStyle = "visual"
	StyleAuditory    LearningStyle = "auditory"
	StyleKinesthetic LearningStyle = "kinesthetic"
	StyleMixed       LearningStyle = "mixed"
)

// Trait is the avatar's personality flavor.
type Trait string

const (
	TraitEncouraging Trait = "encouraging"
	TraitCalm        Trait = "calm"
	TraitEnergetic   Trait = "energetic"
	TraitThoughtful  Trait = "thoughtful"
	TraitPlayful     Trait = "playful"
)

// Profile holds the user's identity and preferences.
type Profile struct {
	Name              string        `json:"name"`
	LearningStyle     LearningStyle `json:"learningStyle"`
	FavoriteSubjects  []string      `json:"favoriteSubjects"`
	StressTriggers    []string      `json:"stressTriggers"`
	PreferredLanguage string        `json:"preferredLanguage"` // en, hi, hinglish
	AvatarPersonality Trait         `json:"avatarPersonality"`
	JoinedDate        time.Time     `json:"joinedDate"`
	LastActive        time.Time     `json:"lastActive"`
}

// DefaultProfile is the profile handed to first-time users.
func DefaultProfile(now time.Time) Profile {
	return Profile{
		LearningStyle:     StyleMixed,
		FavoriteSubjects:  []string{},
		StressTriggers:    []string{},
		PreferredLanguage: "en",
		AvatarPersonality: TraitEncouraging,
		JoinedDate:        now,
		LastActive:        now,
	}
}

// Achievement is a permanently unlocked milestone.
type Achievement struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	UnlockedDate time.Time `json:"unlockedDate"`
	Icon         string    `json:"icon"`
}

// Progress accumulates the user's wellness and study activity.
type Progress struct {
	TotalStudySessions          int           `json:"totalStudySessions"`
	TotalStudyMinutes           int           `json:"totalStudyMinutes"`
	ChaptersCompleted           int           `json:"chaptersCompleted"`
	BreathingExercisesCompleted int           `json:"breathingExercisesCompleted"`
	ConsecutiveDays             int           `json:"consecutiveDays"`
	WellnessPoints              int           `json:"wellnessPoints"`
	Achievements                []Achievement `json:"achievements"`
	WeeklyGoal                  int           `json:"weeklyGoal"`
	WeeklyProgress              int           `json:"weeklyProgress"`
}

// DefaultProgress starts a fresh user at zero with a five-session
// weekly goal.
func DefaultProgress() Progress {
	return Progress{
		Achievements: []Achievement{},
		WeeklyGoal:   5,
	}
}

// Memory is one remembered conversational exchange.
type Memory struct {
	ID       string    `json:"id"`
	Date     time.Time `json:"date"`
	Topic    string    `json:"topic"`
	UserMood string    `json:"userMood"`
	Context  string    `json:"context"`
}

// MemoryCap bounds the conversation memory ring; appending past the cap
// drops the oldest entry.
const MemoryCap = 50

// InteractionPattern tracks how the user behaves within a session.
type InteractionPattern struct {
	AverageSessionDuration int       `json:"averageSessionDuration"`
	PreferredStudyTime     string    `json:"preferredStudyTime"` // morning, afternoon, evening, night
	ClickSpeed             int       `json:"clickSpeed"`         // clicks per minute
	PauseFrequency         int       `json:"pauseFrequency"`     // pauses per session
	FrustrationIndicators  int       `json:"frustrationIndicators"`
	LastBreakTime          time.Time `json:"lastBreakTime"`
}

// DefaultPattern starts interaction tracking with an evening preference
// and the break clock at now.
func DefaultPattern(now time.Time) InteractionPattern {
	return InteractionPattern{
		PreferredStudyTime: "evening",
		LastBreakTime:      now,
	}
}
