package speech

import (
	"context"
	"sync"
	"time"
)

// MockProvider is an in-memory Provider for tests and offline runs.
type MockProvider struct {
	mu sync.Mutex

	// FixedDuration is reported on every result; zero lets the Speaker
	// estimate from word count.
	FixedDuration time.Duration

	// Err, when set, fails every synthesis.
	Err error

	// Texts records every synthesized utterance in order.
	Texts []string
}

func NewMockProvider() *MockProvider {
	return &MockProvider{}
}

func (p *MockProvider) Name() string {
	return "mock"
}

func (p *MockProvider) Synthesize(ctx context.Context, text string, opts Options) (*Result, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.Err != nil {
		return nil, p.Err
	}
	p.Texts = append(p.Texts, text)
	return &Result{
		Audio:    []byte(text),
		Format:   "wav",
		Duration: p.FixedDuration,
		Provider: "mock",
	}, nil
}

func (p *MockProvider) Health(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.Err
}

// Synthesized returns a copy of the recorded utterances.
func (p *MockProvider) Synthesized() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.Texts))
	copy(out, p.Texts)
	return out
}
