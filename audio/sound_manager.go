package audio

import (
	"log"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/lixenwraith/vi-pinball/parameter"
)

const (
	sampleRate = beep.SampleRate(parameter.AudioSampleRate)
)

// cueGate drops repeats of a cue closer than MinSoundGap
type cueGate struct {
	last [cueCount]time.Time
	gap  time.Duration
}

func (g *cueGate) allow(cue Cue, now time.Time) bool {
	if cue < 0 || cue >= cueCount {
		return false
	}
	if !g.last[cue].IsZero() && now.Sub(g.last[cue]) < g.gap {
		return false
	}
	g.last[cue] = now
	return true
}

// SoundManager plays table cues through a single beep mixer
// Every method is safe to call before Initialize or after a failed Initialize
type SoundManager struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	gate        cueGate
	now         func() time.Time
	initialized bool
	enabled     bool
}

// NewSoundManager creates a new, enabled, uninitialized sound manager
func NewSoundManager() *SoundManager {
	return &SoundManager{
		mixer:   &beep.Mixer{},
		gate:    cueGate{gap: parameter.MinSoundGap},
		now:     time.Now,
		enabled: true,
	}
}

// Initialize sets up the audio device
func (sm *SoundManager) Initialize() error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		return nil
	}

	if err := speaker.Init(sampleRate, sampleRate.N(parameter.AudioBufferDuration)); err != nil {
		return err
	}

	speaker.Play(sm.mixer)
	sm.initialized = true
	log.Printf("[AUDIO] initialized at %d Hz", sampleRate)
	return nil
}

// Cleanup stops all sounds and releases the device; Initialize may be called again afterwards
func (sm *SoundManager) Cleanup() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized {
		return
	}

	speaker.Lock()
	sm.mixer.Clear()
	speaker.Unlock()

	speaker.Close()
	sm.initialized = false
}

// SetEnabled mutes or unmutes cue playback
func (sm *SoundManager) SetEnabled(enabled bool) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.enabled = enabled
	if !enabled && sm.initialized {
		speaker.Lock()
		sm.mixer.Clear()
		speaker.Unlock()
	}
}

// Toggle flips mute and returns the new enabled state
func (sm *SoundManager) Toggle() bool {
	sm.mu.Lock()
	enabled := !sm.enabled
	sm.mu.Unlock()
	sm.SetEnabled(enabled)
	return enabled
}

func (sm *SoundManager) Enabled() bool {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return sm.enabled
}

func (sm *SoundManager) IsInitialized() bool {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return sm.initialized
}

// Play queues a cue, returns false when dropped (uninitialized, muted or rate limited)
func (sm *SoundManager) Play(cue Cue) bool {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized || !sm.enabled {
		return false
	}
	if !sm.gate.allow(cue, sm.now()) {
		return false
	}

	streamer := GetSoundEffect(cue, sampleRate)
	if streamer == nil {
		return false
	}

	speaker.Lock()
	sm.mixer.Add(streamer)
	speaker.Unlock()
	return true
}

func (sm *SoundManager) PlayBumper()  { sm.Play(CueBumper) }
func (sm *SoundManager) PlayFlipper() { sm.Play(CueFlipper) }
func (sm *SoundManager) PlayDrain()   { sm.Play(CueDrain) }
func (sm *SoundManager) PlayCapture() { sm.Play(CueCapture) }
