package emotion

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func cameraSample(e Emotion) Sample {
	return Sample{Emotion: e, Confidence: 0.8, Source: SourceCamera, Timestamp: time.Now()}
}

func manualSample(e Emotion) Sample {
	return Sample{Emotion: e, Confidence: 1.0, Source: SourceManual, Timestamp: time.Now()}
}

func newTestStabilizer() (*Stabilizer, *[]StabilizedEvent, *[]Emotion) {
	s := NewStabilizer(DefaultStabilizerConfig(), zerolog.Nop())
	events := &[]StabilizedEvent{}
	mirrors := &[]Emotion{}
	s.SetStableHandler(func(ev StabilizedEvent) { *events = append(*events, ev) })
	s.SetMirrorHandler(func(e Emotion) { *mirrors = append(*mirrors, e) })
	return s, events, mirrors
}

func TestStabilizer_TwoConsecutiveSamplesEmit(t *testing.T) {
	s, events, _ := newTestStabilizer()

	s.Observe(cameraSample(Happy))
	if len(*events) != 0 {
		t.Fatalf("expected no event after 1 sample, got %d", len(*events))
	}

	s.Observe(cameraSample(Happy))
	if len(*events) != 1 {
		t.Fatalf("expected 1 event after 2 samples, got %d", len(*events))
	}
	if (*events)[0].Emotion != Happy {
		t.Errorf("expected happy event, got %s", (*events)[0].Emotion)
	}
	if (*events)[0].Count != 2 {
		t.Errorf("expected count=2, got %d", (*events)[0].Count)
	}
}

func TestStabilizer_ResetsAfterEmit(t *testing.T) {
	s, events, _ := newTestStabilizer()

	// Four sustained samples: events at the 2nd and 4th, not the 3rd.
	s.Observe(cameraSample(Sad))
	s.Observe(cameraSample(Sad))
	s.Observe(cameraSample(Sad))
	if len(*events) != 1 {
		t.Fatalf("expected 1 event after 3 sustained samples, got %d", len(*events))
	}
	s.Observe(cameraSample(Sad))
	if len(*events) != 2 {
		t.Fatalf("expected 2 events after 4 sustained samples, got %d", len(*events))
	}
}

func TestStabilizer_LabelChangeResetsCounter(t *testing.T) {
	s, events, _ := newTestStabilizer()

	s.Observe(cameraSample(Happy))
	s.Observe(cameraSample(Sad))
	s.Observe(cameraSample(Sad))

	if len(*events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(*events))
	}
	if (*events)[0].Emotion != Sad {
		t.Errorf("expected sad, got %s", (*events)[0].Emotion)
	}
}

func TestStabilizer_OscillationNeverEmits(t *testing.T) {
	s, events, _ := newTestStabilizer()

	for i := 0; i < 20; i++ {
		if i%2 == 0 {
			s.Observe(cameraSample(Happy))
		} else {
			s.Observe(cameraSample(Angry))
		}
	}

	if len(*events) != 0 {
		t.Errorf("oscillating labels must never emit, got %d events", len(*events))
	}
}

func TestStabilizer_MirrorsEverySample(t *testing.T) {
	s, _, mirrors := newTestStabilizer()

	s.Observe(cameraSample(Happy))
	s.Observe(cameraSample(Sad))
	s.Observe(cameraSample(Happy))

	if len(*mirrors) != 3 {
		t.Fatalf("expected 3 mirror calls, got %d", len(*mirrors))
	}
	want := []Emotion{Happy, Sad, Happy}
	for i, e := range want {
		if (*mirrors)[i] != e {
			t.Errorf("mirror[%d] = %s, want %s", i, (*mirrors)[i], e)
		}
	}
}

func TestStabilizer_ManualBypassesCounter(t *testing.T) {
	s, events, _ := newTestStabilizer()

	// One camera sample, counter at 1.
	s.Observe(cameraSample(Happy))

	// Manual selection fires immediately and exactly once per click.
	s.Observe(manualSample(Fearful))
	s.Observe(manualSample(Fearful))
	if len(*events) != 2 {
		t.Fatalf("expected 2 manual events, got %d", len(*events))
	}

	// The camera-path counter was not perturbed: one more happy sample
	// completes the original pair.
	s.Observe(cameraSample(Happy))
	if len(*events) != 3 {
		t.Fatalf("expected camera event after manual interleave, got %d events", len(*events))
	}
	if (*events)[2].Emotion != Happy {
		t.Errorf("expected happy, got %s", (*events)[2].Emotion)
	}
}

func TestStabilizer_Reset(t *testing.T) {
	s, events, _ := newTestStabilizer()

	s.Observe(cameraSample(Happy))
	s.Reset()
	s.Observe(cameraSample(Happy))

	if len(*events) != 0 {
		t.Errorf("expected no event after reset split the pair, got %d", len(*events))
	}
}

func TestScores_Dominant(t *testing.T) {
	scores := Scores{Happy: 0.1, Sad: 0.75, Neutral: 0.15}
	e, conf := scores.Dominant()
	if e != Sad {
		t.Errorf("expected sad, got %s", e)
	}
	if conf != 0.75 {
		t.Errorf("expected 0.75, got %f", conf)
	}
}

func TestScores_DominantEmpty(t *testing.T) {
	e, conf := Scores{}.Dominant()
	if e != Neutral || conf != 0 {
		t.Errorf("empty scores should reduce to neutral/0, got %s/%f", e, conf)
	}
}
