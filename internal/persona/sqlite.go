package persona

import (
	"database/sql"
	"encoding/json"
	"fmt"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver (no CGO required)
)

// SQLiteStore persists the persona state in a local SQLite database.
//
// Profile, progress counters and the interaction pattern live in
// single-row tables; achievements and memories get their own tables so
// dedup and ring eviction are plain SQL.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (and if needed creates) the database at path and
// applies the schema.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable WAL mode for better concurrent access
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS profile (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		name TEXT NOT NULL DEFAULT '',
		learning_style TEXT NOT NULL,
		favorite_subjects TEXT NOT NULL DEFAULT '[]',
		stress_triggers TEXT NOT NULL DEFAULT '[]',
		preferred_language TEXT NOT NULL,
		avatar_personality TEXT NOT NULL,
		joined_date DATETIME NOT NULL,
		last_active DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS progress (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		total_study_sessions INTEGER NOT NULL DEFAULT 0,
		total_study_minutes INTEGER NOT NULL DEFAULT 0,
		chapters_completed INTEGER NOT NULL DEFAULT 0,
		breathing_completed INTEGER NOT NULL DEFAULT 0,
		consecutive_days INTEGER NOT NULL DEFAULT 0,
		wellness_points INTEGER NOT NULL DEFAULT 0,
		weekly_goal INTEGER NOT NULL DEFAULT 5,
		weekly_progress INTEGER NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS achievements (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		description TEXT NOT NULL,
		unlocked_date DATETIME NOT NULL,
		icon TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS memories (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		id TEXT NOT NULL,
		date DATETIME NOT NULL,
		topic TEXT NOT NULL,
		user_mood TEXT NOT NULL,
		context TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS pattern (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		avg_session_duration INTEGER NOT NULL DEFAULT 0,
		preferred_study_time TEXT NOT NULL DEFAULT 'evening',
		click_speed INTEGER NOT NULL DEFAULT 0,
		pause_frequency INTEGER NOT NULL DEFAULT 0,
		frustration_indicators INTEGER NOT NULL DEFAULT 0,
		last_break_time DATETIME NOT NULL
	);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return err
	}
	return nil
}

func (s *SQLiteStore) GetProfile() (Profile, error) {
	var p Profile
	var subjects, triggers string
	err := s.db.QueryRow(`
		SELECT name, learning_style, favorite_subjects, stress_triggers,
		       preferred_language, avatar_personality, joined_date, last_active
		FROM profile WHERE id = 1
	`).Scan(&p.Name, &p.LearningStyle, &subjects, &triggers,
		&p.PreferredLanguage, &p.AvatarPersonality, &p.JoinedDate, &p.LastActive)
	if err == sql.ErrNoRows {
		return Profile{}, ErrNotFound
	}
	if err != nil {
		return Profile{}, fmt.Errorf("failed to get profile: %w", err)
	}

	if err := json.Unmarshal([]byte(subjects), &p.FavoriteSubjects); err != nil {
		return Profile{}, fmt.Errorf("failed to decode favorite subjects: %w", err)
	}
	if err := json.Unmarshal([]byte(triggers), &p.StressTriggers); err != nil {
		return Profile{}, fmt.Errorf("failed to decode stress triggers: %w", err)
	}
	return p, nil
}

func (s *SQLiteStore) SaveProfile(p Profile) error {
	subjects, err := json.Marshal(p.FavoriteSubjects)
	if err != nil {
		return fmt.Errorf("failed to encode favorite subjects: %w", err)
	}
	triggers, err := json.Marshal(p.StressTriggers)
	if err != nil {
		return fmt.Errorf("failed to encode stress triggers: %w", err)
	}

	_, err = s.db.Exec(`
		INSERT INTO profile (id, name, learning_style, favorite_subjects, stress_triggers,
		                     preferred_language, avatar_personality, joined_date, last_active)
		VALUES (1, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			learning_style = excluded.learning_style,
			favorite_subjects = excluded.favorite_subjects,
			stress_triggers = excluded.stress_triggers,
			preferred_language = excluded.preferred_language,
			avatar_personality = excluded.avatar_personality,
			last_active = excluded.last_active
	`, p.Name, string(p.LearningStyle), string(subjects), string(triggers),
		p.PreferredLanguage, string(p.AvatarPersonality), p.JoinedDate, p.LastActive)
	if err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}
	return nil
}

func (s *SQLiteStore) GetProgress() (Progress, error) {
	var p Progress
	err := s.db.QueryRow(`
		SELECT total_study_sessions, total_study_minutes, chapters_completed,
		       breathing_completed, consecutive_days, wellness_points, weekly_goal, weekly_progress
		FROM progress WHERE id = 1
	`).Scan(&p.TotalStudySessions, &p.TotalStudyMinutes, &p.ChaptersCompleted,
		&p.BreathingExercisesCompleted, &p.ConsecutiveDays, &p.WellnessPoints, &p.WeeklyGoal, &p.WeeklyProgress)
	if err == sql.ErrNoRows {
		return Progress{}, ErrNotFound
	}
	if err != nil {
		return Progress{}, fmt.Errorf("failed to get progress: %w", err)
	}

	rows, err := s.db.Query(`
		SELECT id, title, description, unlocked_date, icon
		FROM achievements ORDER BY unlocked_date
	`)
	if err != nil {
		return Progress{}, fmt.Errorf("failed to query achievements: %w", err)
	}
	defer rows.Close()

	p.Achievements = []Achievement{}
	for rows.Next() {
		var a Achievement
		if err := rows.Scan(&a.ID, &a.Title, &a.Description, &a.UnlockedDate, &a.Icon); err != nil {
			return Progress{}, fmt.Errorf("failed to scan achievement: %w", err)
		}
		p.Achievements = append(p.Achievements, a)
	}
	if err := rows.Err(); err != nil {
		return Progress{}, fmt.Errorf("error iterating achievements: %w", err)
	}
	return p, nil
}

func (s *SQLiteStore) SaveProgress(p Progress) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO progress (id, total_study_sessions, total_study_minutes, chapters_completed,
		                      breathing_completed, consecutive_days, wellness_points, weekly_goal, weekly_progress)
		VALUES (1, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			total_study_sessions = excluded.total_study_sessions,
			total_study_minutes = excluded.total_study_minutes,
			chapters_completed = excluded.chapters_completed,
			breathing_completed = excluded.breathing_completed,
			consecutive_days = excluded.consecutive_days,
			wellness_points = excluded.wellness_points,
			weekly_goal = excluded.weekly_goal,
			weekly_progress = excluded.weekly_progress
	`, p.TotalStudySessions, p.TotalStudyMinutes, p.ChaptersCompleted,
		p.BreathingExercisesCompleted, p.ConsecutiveDays, p.WellnessPoints, p.WeeklyGoal, p.WeeklyProgress)
	if err != nil {
		return fmt.Errorf("failed to save progress: %w", err)
	}

	for _, a := range p.Achievements {
		_, err = tx.Exec(`
			INSERT INTO achievements (id, title, description, unlocked_date, icon)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT(id) DO NOTHING
		`, a.ID, a.Title, a.Description, a.UnlockedDate, a.Icon)
		if err != nil {
			return fmt.Errorf("failed to save achievement %s: %w", a.ID, err)
		}
	}

	return tx.Commit()
}

func (s *SQLiteStore) Memories() ([]Memory, error) {
	rows, err := s.db.Query(`
		SELECT id, date, topic, user_mood, context FROM memories ORDER BY seq
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query memories: %w", err)
	}
	defer rows.Close()

	var memories []Memory
	for rows.Next() {
		var m Memory
		if err := rows.Scan(&m.ID, &m.Date, &m.Topic, &m.UserMood, &m.Context); err != nil {
			return nil, fmt.Errorf("failed to scan memory: %w", err)
		}
		memories = append(memories, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating memories: %w", err)
	}
	return memories, nil
}

func (s *SQLiteStore) AppendMemory(m Memory) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO memories (id, date, topic, user_mood, context)
		VALUES (?, ?, ?, ?, ?)
	`, m.ID, m.Date, m.Topic, m.UserMood, m.Context)
	if err != nil {
		return fmt.Errorf("failed to append memory: %w", err)
	}

	// Evict the oldest entries beyond the ring cap.
	_, err = tx.Exec(`
		DELETE FROM memories WHERE seq NOT IN (
			SELECT seq FROM memories ORDER BY seq DESC LIMIT ?
		)
	`, MemoryCap)
	if err != nil {
		return fmt.Errorf("failed to trim memories: %w", err)
	}

	return tx.Commit()
}

func (s *SQLiteStore) GetPattern() (InteractionPattern, error) {
	var p InteractionPattern
	err := s.db.QueryRow(`
		SELECT avg_session_duration, preferred_study_time, click_speed,
		       pause_frequency, frustration_indicators, last_break_time
		FROM pattern WHERE id = 1
	`).Scan(&p.AverageSessionDuration, &p.PreferredStudyTime, &p.ClickSpeed,
		&p.PauseFrequency, &p.FrustrationIndicators, &p.LastBreakTime)
	if err == sql.ErrNoRows {
		return InteractionPattern{}, ErrNotFound
	}
	if err != nil {
		return InteractionPattern{}, fmt.Errorf("failed to get pattern: %w", err)
	}
	return p, nil
}

func (s *SQLiteStore) SavePattern(p InteractionPattern) error {
	_, err := s.db.Exec(`
		INSERT INTO pattern (id, avg_session_duration, preferred_study_time, click_speed,
		                     pause_frequency, frustration_indicators, last_break_time)
		VALUES (1, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			avg_session_duration = excluded.avg_session_duration,
			preferred_study_time = excluded.preferred_study_time,
			click_speed = excluded.click_speed,
			pause_frequency = excluded.pause_frequency,
			frustration_indicators = excluded.frustration_indicators,
			last_break_time = excluded.last_break_time
	`, p.AverageSessionDuration, p.PreferredStudyTime, p.ClickSpeed,
		p.PauseFrequency, p.FrustrationIndicators, p.LastBreakTime)
	if err != nil {
		return fmt.Errorf("failed to save pattern: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

var _ Store = (*SQLiteStore)(nil)
