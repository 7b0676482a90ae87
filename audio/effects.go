package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"

	"github.com/lixenwraith/vi-pinball/parameter"
)

// WaveType defines oscillator wave shapes
type WaveType int

const (
	WaveSine WaveType = iota
	WaveSquare
	WaveSaw
)

// oscillator generates a fixed-length raw wave
type oscillator struct {
	freq     float64
	phase    float64
	duration int
	position int
	wave     WaveType
	rate     beep.SampleRate
}

// NewOscillator creates a finite oscillator
func NewOscillator(freq float64, duration time.Duration, wave WaveType, rate beep.SampleRate) beep.Streamer {
	return &oscillator{
		freq:     freq,
		duration: rate.N(duration),
		wave:     wave,
		rate:     rate,
	}
}

func (o *oscillator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if o.position >= o.duration {
			return i, i > 0
		}

		var val float64
		switch o.wave {
		case WaveSine:
			val = math.Sin(2 * math.Pi * o.phase)
		case WaveSquare:
			if o.phase < 0.5 {
				val = 1.0
			} else {
				val = -1.0
			}
		case WaveSaw:
			val = 2.0 * (o.phase - 0.5)
		}

		samples[i][0] = val
		samples[i][1] = val

		o.phase += o.freq / float64(o.rate)
		o.phase -= math.Floor(o.phase)
		o.position++
	}
	return len(samples), true
}

func (o *oscillator) Err() error { return nil }

// envelope applies linear attack/release shaping and ends the stream at its duration
type envelope struct {
	streamer       beep.Streamer
	position       int
	attackSamples  int
	releaseSamples int
	totalSamples   int
}

// NewEnvelope wraps s with attack and release ramps
func NewEnvelope(s beep.Streamer, duration, attack, release time.Duration, rate beep.SampleRate) beep.Streamer {
	total := rate.N(duration)
	att := rate.N(attack)
	rel := rate.N(release)
	if att+rel > total {
		att, rel = total/2, total-total/2
	}
	return &envelope{
		streamer:       s,
		attackSamples:  att,
		releaseSamples: rel,
		totalSamples:   total,
	}
}

func (e *envelope) Stream(samples [][2]float64) (n int, ok bool) {
	if e.position >= e.totalSamples {
		return 0, false
	}
	if remaining := e.totalSamples - e.position; len(samples) > remaining {
		samples = samples[:remaining]
	}

	n, ok = e.streamer.Stream(samples)
	releaseStart := e.totalSamples - e.releaseSamples
	for i := 0; i < n; i++ {
		vol := 1.0
		if e.position < e.attackSamples {
			vol = float64(e.position) / float64(e.attackSamples)
		} else if e.position >= releaseStart && e.releaseSamples > 0 {
			vol = float64(e.totalSamples-e.position) / float64(e.releaseSamples)
		}
		samples[i][0] *= vol
		samples[i][1] *= vol
		e.position++
	}
	return n, ok
}

func (e *envelope) Err() error { return e.streamer.Err() }

// newVolume scales a stream linearly; zero or negative volume is silent
func newVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol), Silent: false}
}

// Cue identifies a sound effect
type Cue int

const (
	CueBumper Cue = iota
	CueFlipper
	CueDrain
	CueCapture
	cueCount
)

func (c Cue) String() string {
	switch c {
	case CueBumper:
		return "bumper"
	case CueFlipper:
		return "flipper"
	case CueDrain:
		return "drain"
	case CueCapture:
		return "capture"
	}
	return "unknown"
}

// CreateBumperSound is a short bright ping
func CreateBumperSound(rate beep.SampleRate) beep.Streamer {
	sine, err := generators.SineTone(rate, parameter.BumperToneFreq)
	if err != nil {
		// Tone above Nyquist for this rate; fall back to the raw oscillator
		sine = NewOscillator(parameter.BumperToneFreq, parameter.BumperToneDuration, WaveSine, rate)
	}
	tone := beep.Take(rate.N(parameter.BumperToneDuration), sine)
	shaped := NewEnvelope(tone, parameter.BumperToneDuration, 2*time.Millisecond, 40*time.Millisecond, rate)
	return newVolume(shaped, parameter.ToneGain)
}

// CreateFlipperSound is a low mechanical thunk
func CreateFlipperSound(rate beep.SampleRate) beep.Streamer {
	osc := NewOscillator(parameter.FlipperToneFreq, parameter.FlipperToneDuration, WaveSquare, rate)
	shaped := NewEnvelope(osc, parameter.FlipperToneDuration, time.Millisecond, 20*time.Millisecond, rate)
	return newVolume(shaped, parameter.ToneGain*0.5)
}

// CreateDrainSound layers a saw under its octave for a falling groan
func CreateDrainSound(rate beep.SampleRate) beep.Streamer {
	low := NewOscillator(parameter.DrainToneFreq, parameter.DrainToneDuration, WaveSaw, rate)
	high := NewOscillator(parameter.DrainToneFreq*2, parameter.DrainToneDuration, WaveSine, rate)
	mixed := beep.Mix(newVolume(low, 0.6), newVolume(high, 0.4))
	shaped := NewEnvelope(mixed, parameter.DrainToneDuration, 10*time.Millisecond, 300*time.Millisecond, rate)
	return newVolume(shaped, parameter.ToneGain)
}

// CreateCaptureSound is a two-note rising chime
func CreateCaptureSound(rate beep.SampleRate) beep.Streamer {
	half := parameter.CaptureToneDuration / 2
	n1 := NewEnvelope(NewOscillator(parameter.CaptureToneFreq, half, WaveSine, rate), half, 2*time.Millisecond, 20*time.Millisecond, rate)
	n2 := NewEnvelope(NewOscillator(parameter.CaptureToneFreq*1.5, half, WaveSine, rate), half, 2*time.Millisecond, 50*time.Millisecond, rate)
	return newVolume(beep.Seq(n1, n2), parameter.ToneGain)
}

// GetSoundEffect builds a fresh streamer for a cue
func GetSoundEffect(cue Cue, rate beep.SampleRate) beep.Streamer {
	switch cue {
	case CueBumper:
		return CreateBumperSound(rate)
	case CueFlipper:
		return CreateFlipperSound(rate)
	case CueDrain:
		return CreateDrainSound(rate)
	case CueCapture:
		return CreateCaptureSound(rate)
	}
	return nil
}
