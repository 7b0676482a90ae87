package parameter

import "time"

// Audio hardware settings
const (
	AudioSampleRate     = 44100
	AudioBufferDuration = 100 * time.Millisecond
)

// Cue tones
const (
	BumperToneFreq     = 880.0
	BumperToneDuration = 60 * time.Millisecond

	FlipperToneFreq     = 220.0
	FlipperToneDuration = 30 * time.Millisecond

	DrainToneFreq     = 110.0
	DrainToneDuration = 400 * time.Millisecond

	CaptureToneFreq     = 660.0
	CaptureToneDuration = 150 * time.Millisecond

	// ToneGain scales every cue below clipping when several overlap
	ToneGain = 0.2

	// MinSoundGap drops repeats of the same cue closer than this
	MinSoundGap = 40 * time.Millisecond
)
