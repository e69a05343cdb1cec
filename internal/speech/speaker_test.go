package speech

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestSpeaker_SpeakingFlagAroundDelivery(t *testing.T) {
	provider := NewMockProvider()
	provider.FixedDuration = 30 * time.Millisecond
	s := NewSpeaker(provider, zerolog.Nop())

	var mu sync.Mutex
	var flips []bool
	s.SetSpeakingHandler(func(v bool) {
		mu.Lock()
		flips = append(flips, v)
		mu.Unlock()
	})

	if err := s.Speak(context.Background(), "hello there", Options{Rate: 1.0}); err != nil {
		t.Fatalf("speak failed: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(flips) != 2 || !flips[0] || flips[1] {
		t.Errorf("expected speaking on then off, got %v", flips)
	}
	if s.IsSpeaking() {
		t.Error("speaker should be idle after delivery")
	}
}

func TestSpeaker_NewUtteranceCancelsPrior(t *testing.T) {
	provider := NewMockProvider()
	provider.FixedDuration = 5 * time.Second
	s := NewSpeaker(provider, zerolog.Nop())

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.Speak(context.Background(), "long first utterance", Options{Rate: 1.0})
	}()

	// Let the first utterance begin delivering.
	deadline := time.Now().Add(time.Second)
	for !s.IsSpeaking() {
		if time.Now().After(deadline) {
			t.Fatal("first utterance never started")
		}
		time.Sleep(time.Millisecond)
	}

	provider.FixedDuration = 10 * time.Millisecond
	if err := s.Speak(context.Background(), "second", Options{Rate: 1.0}); err != nil {
		t.Fatalf("second speak failed: %v", err)
	}

	select {
	case err := <-errCh:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("superseded utterance should return context.Canceled, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("first utterance did not end when superseded")
	}

	got := provider.Synthesized()
	if len(got) != 2 || got[1] != "second" {
		t.Errorf("unexpected synthesis log: %v", got)
	}
}

func TestSpeaker_SupersededTeardownKeepsFlagForNext(t *testing.T) {
	provider := NewMockProvider()
	provider.FixedDuration = 300 * time.Millisecond
	s := NewSpeaker(provider, zerolog.Nop())

	errA := make(chan error, 1)
	go func() {
		errA <- s.Speak(context.Background(), "first utterance", Options{Rate: 1.0})
	}()

	deadline := time.Now().Add(time.Second)
	for !s.IsSpeaking() {
		if time.Now().After(deadline) {
			t.Fatal("first utterance never started")
		}
		time.Sleep(time.Millisecond)
	}

	errB := make(chan error, 1)
	go func() {
		errB <- s.Speak(context.Background(), "second utterance", Options{Rate: 1.0})
	}()

	select {
	case err := <-errA:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("superseded utterance should return context.Canceled, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("first utterance did not end when superseded")
	}

	// The first utterance's teardown has run by the time Speak returns;
	// it must not have cleared the flag out from under the second.
	if !s.IsSpeaking() {
		t.Fatal("speaking flag cleared while second utterance still in flight")
	}

	select {
	case err := <-errB:
		if err != nil {
			t.Fatalf("second speak failed: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("second utterance did not finish")
	}
	if s.IsSpeaking() {
		t.Error("speaker should be idle after the second utterance ends")
	}
}

func TestSpeaker_Stop(t *testing.T) {
	provider := NewMockProvider()
	provider.FixedDuration = 5 * time.Second
	s := NewSpeaker(provider, zerolog.Nop())

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.Speak(context.Background(), "interrupted", Options{Rate: 1.0})
	}()

	deadline := time.Now().Add(time.Second)
	for !s.IsSpeaking() {
		if time.Now().After(deadline) {
			t.Fatal("utterance never started")
		}
		time.Sleep(time.Millisecond)
	}

	s.Stop()

	select {
	case err := <-errCh:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("stopped utterance should return context.Canceled, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("utterance did not end on stop")
	}
}

func TestSpeaker_ProviderErrorPropagates(t *testing.T) {
	provider := NewMockProvider()
	provider.Err = ErrProviderUnavailable
	s := NewSpeaker(provider, zerolog.Nop())

	err := s.Speak(context.Background(), "hello", Options{})
	if !errors.Is(err, ErrProviderUnavailable) {
		t.Errorf("expected provider error, got %v", err)
	}
	if s.IsSpeaking() {
		t.Error("failed synthesis must not set the speaking flag")
	}
}

func TestSpeaker_RejectsOversizedText(t *testing.T) {
	s := NewSpeaker(NewMockProvider(), zerolog.Nop())
	err := s.Speak(context.Background(), strings.Repeat("a", MaxTextLength+1), Options{})
	if !errors.Is(err, ErrTextTooLong) {
		t.Errorf("expected ErrTextTooLong, got %v", err)
	}
}

func TestEstimateDuration(t *testing.T) {
	// Ten words at 2.5 words/sec and rate 1.0 is four seconds.
	d := estimateDuration("one two three four five six seven eight nine ten", 1.0)
	if d != 4*time.Second {
		t.Errorf("expected 4s, got %v", d)
	}
	if estimateDuration("", 1.0) != 0 {
		t.Error("empty text should estimate zero")
	}
}
