package expression

import "time"

// TransitionDuration is how long a preset-to-preset blend takes.
const TransitionDuration = 800 * time.Millisecond

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// easeInOutQuad is a symmetric quadratic ease.
func easeInOutQuad(t float64) float64 {
	if t < 0.5 {
		return 2 * t * t
	}
	return 1 - (-2*t+2)*(-2*t+2)/2
}

// Interpolate blends two configs at progress in [0,1]. Numeric fields
// interpolate linearly; mouth curve, colors and animation snap from the
// old value to the new one at the midpoint, sparkles at just past it.
func Interpolate(from, to Config, progress float64) Config {
	out := Config{
		EyeScale:          lerp(from.EyeScale, to.EyeScale, progress),
		EyeRotation:       lerp(from.EyeRotation, to.EyeRotation, progress),
		EyeVerticalOffset: lerp(from.EyeVerticalOffset, to.EyeVerticalOffset, progress),
		EyeBrowOffset:     lerp(from.EyeBrowOffset, to.EyeBrowOffset, progress),
		MouthWidth:        lerp(from.MouthWidth, to.MouthWidth, progress),
		MouthHeight:       lerp(from.MouthHeight, to.MouthHeight, progress),
		HeadTilt:          lerp(from.HeadTilt, to.HeadTilt, progress),
		GlowIntensity:     lerp(from.GlowIntensity, to.GlowIntensity, progress),
		PulseSpeed:        lerp(from.PulseSpeed, to.PulseSpeed, progress),
	}

	if progress < 0.5 {
		out.MouthCurve = from.MouthCurve
		out.Colors = from.Colors
		out.Animation = from.Animation
	} else {
		out.MouthCurve = to.MouthCurve
		out.Colors = to.Colors
		out.Animation = to.Animation
	}
	if progress > 0.5 {
		out.Sparkles = to.Sparkles
	} else {
		out.Sparkles = from.Sparkles
	}

	return out
}

// Transition is one in-flight blend between configs. From is the live
// interpolated value at the moment the transition started, so a retarget
// never jumps.
type Transition struct {
	From      Config
	To        Config
	StartTime time.Time
	Duration  time.Duration
}

// At returns the eased interpolated config at the given instant.
func (t *Transition) At(now time.Time) Config {
	elapsed := now.Sub(t.StartTime)
	if elapsed >= t.Duration {
		return t.To
	}
	if elapsed < 0 {
		return t.From
	}
	progress := easeInOutQuad(float64(elapsed) / float64(t.Duration))
	return Interpolate(t.From, t.To, progress)
}

func (t *Transition) IsComplete(now time.Time) bool {
	return now.Sub(t.StartTime) >= t.Duration
}
