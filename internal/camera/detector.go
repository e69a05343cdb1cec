// Package camera turns raw facial-emotion inference into emotion samples.
package camera

import (
	"context"
	"errors"
	"sync"

	"github.com/ananyak/mindmate/internal/emotion"
)

// ErrNoDetection means the backend saw no face this poll.
var ErrNoDetection = errors.New("no face detected")

// Detector yields one per-class score vector per poll.
type Detector interface {
	// Detect returns the current emotion scores. ErrNoDetection is the
	// normal "nothing in frame" outcome, any other error is a backend
	// failure.
	Detect(ctx context.Context) (emotion.Scores, error)
}

// MockDetector replays scripted score vectors, for tests and demo runs.
type MockDetector struct {
	mu      sync.Mutex
	results []emotion.Scores
	idx     int
	err     error
}

func NewMockDetector(results ...emotion.Scores) *MockDetector {
	return &MockDetector{results: results}
}

// Fail makes every subsequent Detect return err.
func (d *MockDetector) Fail(err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.err = err
}

func (d *MockDetector) Detect(ctx context.Context) (emotion.Scores, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.err != nil {
		return nil, d.err
	}
	if d.idx >= len(d.results) {
		return nil, ErrNoDetection
	}
	scores := d.results[d.idx]
	d.idx++
	return scores, nil
}
