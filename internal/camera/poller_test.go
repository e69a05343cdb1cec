package camera

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/ananyak/mindmate/internal/emotion"
)

func TestPoller_ForwardsConfidentDominantClass(t *testing.T) {
	detector := NewMockDetector(
		emotion.Scores{emotion.Happy: 0.85, emotion.Neutral: 0.1},
	)
	p := NewPoller(DefaultPollerConfig(), detector, zerolog.Nop())

	var samples []emotion.Sample
	p.SetSampleHandler(func(s emotion.Sample) { samples = append(samples, s) })

	p.Poll(context.Background())

	if len(samples) != 1 {
		t.Fatalf("expected 1 sample, got %d", len(samples))
	}
	if samples[0].Emotion != emotion.Happy {
		t.Errorf("expected happy, got %s", samples[0].Emotion)
	}
	if samples[0].Confidence != 0.85 {
		t.Errorf("expected 0.85, got %f", samples[0].Confidence)
	}
	if samples[0].Source != emotion.SourceCamera {
		t.Errorf("expected camera source, got %s", samples[0].Source)
	}
}

func TestPoller_DropsLowConfidence(t *testing.T) {
	detector := NewMockDetector(
		// Dominant class at exactly the threshold is still dropped.
		emotion.Scores{emotion.Sad: 0.7, emotion.Neutral: 0.3},
		emotion.Scores{emotion.Sad: 0.69},
	)
	p := NewPoller(DefaultPollerConfig(), detector, zerolog.Nop())

	var samples []emotion.Sample
	p.SetSampleHandler(func(s emotion.Sample) { samples = append(samples, s) })

	p.Poll(context.Background())
	p.Poll(context.Background())

	if len(samples) != 0 {
		t.Errorf("low-confidence detections must be dropped, got %d samples", len(samples))
	}
}

func TestPoller_NoDetectionIsNoop(t *testing.T) {
	p := NewPoller(DefaultPollerConfig(), NewMockDetector(), zerolog.Nop())

	var samples []emotion.Sample
	p.SetSampleHandler(func(s emotion.Sample) { samples = append(samples, s) })

	p.Poll(context.Background())

	if len(samples) != 0 {
		t.Errorf("empty frame should produce no sample, got %d", len(samples))
	}
}

func TestPoller_DetectorFailureDoesNotStopPolling(t *testing.T) {
	detector := NewMockDetector(
		emotion.Scores{emotion.Happy: 0.9},
	)
	p := NewPoller(DefaultPollerConfig(), detector, zerolog.Nop())

	var samples []emotion.Sample
	p.SetSampleHandler(func(s emotion.Sample) { samples = append(samples, s) })

	detector.Fail(errors.New("model load failed"))
	p.Poll(context.Background())
	if len(samples) != 0 {
		t.Fatal("failed detection must not emit a sample")
	}

	detector.Fail(nil)
	p.Poll(context.Background())
	if len(samples) != 1 {
		t.Fatalf("poller should recover after backend failure, got %d samples", len(samples))
	}
}
