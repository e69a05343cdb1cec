package persona

import (
	"errors"
	"sync"
)

// ErrNotFound is returned when a stored record does not exist yet.
// Callers usually substitute the defaults instead of failing.
var ErrNotFound = errors.New("record not found")

// Store persists the persona state. Implementations must be safe for
// concurrent use; read-modify-write sequences need external
// synchronization (the System provides it).
type Store interface {
	GetProfile() (Profile, error)
	SaveProfile(Profile) error

	GetProgress() (Progress, error)
	SaveProgress(Progress) error

	Memories() ([]Memory, error)
	// AppendMemory adds an entry, evicting the oldest beyond MemoryCap.
	AppendMemory(Memory) error

	GetPattern() (InteractionPattern, error)
	SavePattern(InteractionPattern) error

	Close() error
}

// MemStore is an in-memory Store for tests and ephemeral runs.
type MemStore struct {
	mu       sync.Mutex
	profile  *Profile
	progress *Progress
	memories []Memory
	pattern  *InteractionPattern
}

func NewMemStore() *MemStore {
	return &MemStore{}
}

func (s *MemStore) GetProfile() (Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.profile == nil {
		return Profile{}, ErrNotFound
	}
	return cloneProfile(*s.profile), nil
}

func (s *MemStore) SaveProfile(p Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := cloneProfile(p)
	s.profile = &c
	return nil
}

func (s *MemStore) GetProgress() (Progress, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.progress == nil {
		return Progress{}, ErrNotFound
	}
	return cloneProgress(*s.progress), nil
}

func (s *MemStore) SaveProgress(p Progress) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := cloneProgress(p)
	s.progress = &c
	return nil
}

func (s *MemStore) Memories() ([]Memory, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Memory, len(s.memories))
	copy(out, s.memories)
	return out, nil
}

func (s *MemStore) AppendMemory(m Memory) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.memories = append(s.memories, m)
	if len(s.memories) > MemoryCap {
		s.memories = s.memories[len(s.memories)-MemoryCap:]
	}
	return nil
}

func (s *MemStore) GetPattern() (InteractionPattern, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pattern == nil {
		return InteractionPattern{}, ErrNotFound
	}
	return *s.pattern, nil
}

func (s *MemStore) SavePattern(p InteractionPattern) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pattern = &p
	return nil
}

func (s *MemStore) Close() error {
	return nil
}

func cloneProfile(p Profile) Profile {
	p.FavoriteSubjects = append([]string(nil), p.FavoriteSubjects...)
	p.StressTriggers = append([]string(nil), p.StressTriggers...)
	return p
}

func cloneProgress(p Progress) Progress {
	p.Achievements = append([]Achievement(nil), p.Achievements...)
	return p
}
