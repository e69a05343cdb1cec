package persona

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	// frustrationClickSpeed and frustrationPauses together flag a
	// frustrated session.
	frustrationClickSpeed = 30
	frustrationPauses     = 5

	// breakInterval is how long a session runs before a break is
	// suggested.
	breakInterval = 45 * time.Minute

	// achievementNewWindow is how long an unlocked achievement counts
	// as "new". Recency is read at query time, so an achievement can
	// surface twice if queried twice inside the window.
	achievementNewWindow = 5 * time.Minute
)

// System is the personality and memory layer. It owns read-modify-write
// sequences over the injected Store.
type System struct {
	mu     sync.Mutex
	store  Store
	logger zerolog.Logger
	now    func() time.Time
}

// SystemOption configures a System.
type SystemOption func(*System)

// WithClock sets the clock used for timestamps and recency windows.
func WithClock(now func() time.Time) SystemOption {
	return func(s *System) { s.now = now }
}

func NewSystem(store Store, logger zerolog.Logger, opts ...SystemOption) *System {
	s := &System{
		store:  store,
		logger: logger.With().Str("component", "persona").Logger(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Profile returns the stored profile, creating the default for a new
// user.
func (s *System) Profile() (Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.profileLocked()
}

func (s *System) profileLocked() (Profile, error) {
	p, err := s.store.GetProfile()
	if errors.Is(err, ErrNotFound) {
		p = DefaultProfile(s.now())
		if err := s.store.SaveProfile(p); err != nil {
			return Profile{}, err
		}
		return p, nil
	}
	return p, err
}

// SaveProfile stores the profile, refreshing its last-active stamp.
func (s *System) SaveProfile(p Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p.LastActive = s.now()
	return s.store.SaveProfile(p)
}

// UpdateUserName stores the user's name.
func (s *System) UpdateUserName(name string) error {
	return s.updateProfile(func(p *Profile) { p.Name = name })
}

// UpdateLearningStyle stores the user's learning style.
func (s *System) UpdateLearningStyle(style LearningStyle) error {
	return s.updateProfile(func(p *Profile) { p.LearningStyle = style })
}

// AddFavoriteSubject records a subject once.
func (s *System) AddFavoriteSubject(subject string) error {
	return s.updateProfile(func(p *Profile) {
		for _, existing := range p.FavoriteSubjects {
			if existing == subject {
				return
			}
		}
		p.FavoriteSubjects = append(p.FavoriteSubjects, subject)
	})
}

// AddStressTrigger records a stress trigger once.
func (s *System) AddStressTrigger(trigger string) error {
	return s.updateProfile(func(p *Profile) {
		for _, existing := range p.StressTriggers {
			if existing == trigger {
				return
			}
		}
		p.StressTriggers = append(p.StressTriggers, trigger)
	})
}

func (s *System) updateProfile(mutate func(*Profile)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, err := s.profileLocked()
	if err != nil {
		return err
	}
	mutate(&p)
	p.LastActive = s.now()
	return s.store.SaveProfile(p)
}

// Progress returns stored progress, creating the default for a new user.
func (s *System) Progress() (Progress, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.progressLocked()
}

func (s *System) progressLocked() (Progress, error) {
	p, err := s.store.GetProgress()
	if errors.Is(err, ErrNotFound) {
		p = DefaultProgress()
		if err := s.store.SaveProgress(p); err != nil {
			return Progress{}, err
		}
		return p, nil
	}
	return p, err
}

// RecordStudySession adds a completed study session and checks
// achievements.
func (s *System) RecordStudySession(durationMinutes int) error {
	return s.updateProgress(func(p *Progress) {
		p.TotalStudySessions++
		p.TotalStudyMinutes += durationMinutes
		p.WeeklyProgress++
	})
}

// AddWellnessPoints adds points earned from a resolved response. The
// write is best effort; the caller's flow continues on failure.
func (s *System) AddWellnessPoints(points int) error {
	if points <= 0 {
		return nil
	}
	return s.updateProgress(func(p *Progress) { p.WellnessPoints += points })
}

// RecordChapterCompleted adds a finished chapter and checks achievements.
func (s *System) RecordChapterCompleted() error {
	return s.updateProgress(func(p *Progress) { p.ChaptersCompleted++ })
}

// RecordBreathingExercise adds a finished breathing exercise and checks
// achievements.
func (s *System) RecordBreathingExercise() error {
	return s.updateProgress(func(p *Progress) { p.BreathingExercisesCompleted++ })
}

func (s *System) updateProgress(mutate func(*Progress)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, err := s.progressLocked()
	if err != nil {
		return err
	}
	mutate(&p)
	s.awardAchievements(&p)
	return s.store.SaveProgress(p)
}

// awardAchievements appends any newly earned achievements, deduplicated
// by id.
func (s *System) awardAchievements(p *Progress) {
	type candidate struct {
		id, title, description, icon string
		earned                       bool
	}
	candidates := []candidate{
		{"first_session", "First Steps! 🎉", "Completed your first study session", "🎉",
			p.TotalStudySessions == 1},
		{"dedicated_learner", "Dedicated Learner 📚", "Completed 10 study sessions", "📚",
			p.TotalStudySessions == 10},
		{"chapter_master", "Chapter Master 📖", "Completed 5 chapters", "📖",
			p.ChaptersCompleted == 5},
		{"zen_master", "Zen Master 🧘", "Completed 10 breathing exercises", "🧘",
			p.BreathingExercisesCompleted == 10},
		{"weekly_warrior", "Weekly Warrior 🏆", "Achieved your weekly study goal", "🏆",
			p.WeeklyProgress >= p.WeeklyGoal},
	}

	for _, c := range candidates {
		if !c.earned || hasAchievement(p, c.id) {
			continue
		}
		a := Achievement{
			ID:           c.id,
			Title:        c.title,
			Description:  c.description,
			UnlockedDate: s.now(),
			Icon:         c.icon,
		}
		p.Achievements = append(p.Achievements, a)
		s.logger.Info().Str("achievement", c.id).Msg("Achievement unlocked")
	}
}

func hasAchievement(p *Progress, id string) bool {
	for _, a := range p.Achievements {
		if a.ID == id {
			return true
		}
	}
	return false
}

// NewAchievements lists achievements unlocked within the last five
// minutes.
func (s *System) NewAchievements() ([]Achievement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.progressLocked()
	if err != nil {
		return nil, err
	}
	now := s.now()
	var recent []Achievement
	for _, a := range p.Achievements {
		if now.Sub(a.UnlockedDate) < achievementNewWindow {
			recent = append(recent, a)
		}
	}
	return recent, nil
}

// AddMemory appends a conversational memory; the store evicts beyond the
// ring cap.
func (s *System) AddMemory(topic, userMood, context string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.store.AppendMemory(Memory{
		ID:       uuid.NewString(),
		Date:     s.now(),
		Topic:    topic,
		UserMood: userMood,
		Context:  context,
	})
}

// RecentMemory returns the most recent memory whose topic contains the
// given topic, or nil.
func (s *System) RecentMemory(topic string) (*Memory, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	memories, err := s.store.Memories()
	if err != nil {
		return nil, err
	}
	needle := strings.ToLower(topic)
	for i := len(memories) - 1; i >= 0; i-- {
		if strings.Contains(strings.ToLower(memories[i].Topic), needle) {
			m := memories[i]
			return &m, nil
		}
	}
	return nil, nil
}

// RecordClick bumps the click counter.
func (s *System) RecordClick() error {
	return s.updatePattern(func(p *InteractionPattern) { p.ClickSpeed++ })
}

// RecordPause bumps the pause counter.
func (s *System) RecordPause() error {
	return s.updatePattern(func(p *InteractionPattern) { p.PauseFrequency++ })
}

// DetectFrustration reports whether the interaction pattern looks
// frustrated, bumping the indicator when it does.
func (s *System) DetectFrustration() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.patternLocked()
	if err != nil {
		return false, err
	}
	if p.ClickSpeed > frustrationClickSpeed && p.PauseFrequency > frustrationPauses {
		p.FrustrationIndicators++
		if err := s.store.SavePattern(p); err != nil {
			return false, err
		}
		return true, nil
	}
	return false, nil
}

// ShouldSuggestBreak reports whether it has been at least 45 minutes
// since the last break.
func (s *System) ShouldSuggestBreak() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.patternLocked()
	if err != nil {
		return false, err
	}
	return s.now().Sub(p.LastBreakTime) >= breakInterval, nil
}

// RecordBreak resets the break clock and the per-session counters.
func (s *System) RecordBreak() error {
	return s.updatePattern(func(p *InteractionPattern) {
		p.LastBreakTime = s.now()
		p.ClickSpeed = 0
		p.PauseFrequency = 0
	})
}

func (s *System) patternLocked() (InteractionPattern, error) {
	p, err := s.store.GetPattern()
	if errors.Is(err, ErrNotFound) {
		p = DefaultPattern(s.now())
		if err := s.store.SavePattern(p); err != nil {
			return InteractionPattern{}, err
		}
		return p, nil
	}
	return p, err
}

func (s *System) updatePattern(mutate func(*InteractionPattern)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, err := s.patternLocked()
	if err != nil {
		return err
	}
	mutate(&p)
	return s.store.SavePattern(p)
}

// Greeting builds a personalized time-of-day greeting that folds in the
// user's streak.
func (s *System) Greeting() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	profile, err := s.profileLocked()
	if err != nil {
		return "", err
	}
	progress, err := s.progressLocked()
	if err != nil {
		return "", err
	}

	hour := s.now().Hour()
	timeGreeting := "Good night"
	switch {
	case hour < 12:
		timeGreeting = "Good morning"
	case hour < 17:
		timeGreeting = "Good afternoon"
	case hour < 21:
		timeGreeting = "Good evening"
	}

	name := profile.Name
	if name == "" {
		name = "friend"
	}

	if progress.TotalStudySessions == 0 {
		return fmt.Sprintf("%s, %s! I'm excited to start this learning journey with you! 🌟", timeGreeting, name), nil
	}
	if progress.ConsecutiveDays >= 3 {
		return fmt.Sprintf("%s, %s! You're on a %d-day streak! Keep it up! 🔥", timeGreeting, name, progress.ConsecutiveDays), nil
	}
	return fmt.Sprintf("%s, %s! Ready to continue your learning journey? 📚", timeGreeting, name), nil
}

// ContextualResponse builds a reply from the user's history: remembered
// stress about the topic first, known stress triggers second, visible
// progress third, then a generic encouragement.
func (s *System) ContextualResponse(context string) (string, error) {
	memory, err := s.RecentMemory(context)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	profile, err := s.profileLocked()
	if err != nil {
		return "", err
	}
	progress, err := s.progressLocked()
	if err != nil {
		return "", err
	}

	if memory != nil && memory.UserMood == "stressed" {
		return fmt.Sprintf("I remember you felt stressed about %s before. Let's take it slow this time. 💙", memory.Topic), nil
	}

	if strings.Contains(strings.ToLower(context), "math") && containsString(profile.StressTriggers, "math") {
		return "I know math can be challenging for you. Let's break it down into smaller steps together! 🧮", nil
	}

	if progress.ChaptersCompleted >= 3 {
		return fmt.Sprintf("You've already completed %d chapters! You're making amazing progress! 🎉", progress.ChaptersCompleted), nil
	}

	return "I'm here to support you every step of the way! 💪", nil
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
