// Package emotion defines the emotion vocabulary shared by all detection
// sources and the stabilizer that debounces noisy camera detections.
package emotion

import "time"

// Emotion is one of the seven affect labels produced by every source.
type Emotion string

const (
	Happy     Emotion = "happy"
	Sad       Emotion = "sad"
	Angry     Emotion = "angry"
	Surprised Emotion = "surprised"
	Neutral   Emotion = "neutral"
	Fearful   Emotion = "fearful"
	Disgusted Emotion = "disgusted"
)

// All lists every emotion in a stable order.
var All = []Emotion{Happy, Sad, Angry, Surprised, Neutral, Fearful, Disgusted}

// Valid reports whether e is part of the closed vocabulary.
func (e Emotion) Valid() bool {
	switch e {
	case Happy, Sad, Angry, Surprised, Neutral, Fearful, Disgusted:
		return true
	}
	return false
}

// Source identifies where a sample came from.
type Source string

const (
	SourceCamera Source = "camera"
	SourceManual Source = "manual"
)

// Sample is a single emotion observation. Samples are ephemeral and never
// persisted; camera samples below the confidence threshold are dropped by
// the camera adapter before they reach the stabilizer.
type Sample struct {
	Emotion    Emotion
	Confidence float64
	Source     Source
	Timestamp  time.Time
}

// Scores is a per-class score vector as produced by the inference backend.
type Scores map[Emotion]float64

// Dominant reduces a score vector to its single highest-scoring class.
// Iteration follows the canonical order so ties resolve deterministically.
func (s Scores) Dominant() (Emotion, float64) {
	best := Neutral
	bestScore := -1.0
	for _, e := range All {
		if score, ok := s[e]; ok && score > bestScore {
			best = e
			bestScore = score
		}
	}
	if bestScore < 0 {
		return Neutral, 0
	}
	return best, bestScore
}
