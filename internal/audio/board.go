package audio

import (
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/Garsondee/Outbreak/internal/geom"
	"github.com/Garsondee/Outbreak/internal/sim"
)

// maxVoices caps simultaneous effects so a firefight doesn't clip.
const maxVoices = 12

// Output is where the board's mixer ends up. The default is the system
// speaker; tests substitute a recorder.
type Output interface {
	Init(sr beep.SampleRate, bufferSize int) error
	Play(s beep.Streamer)
}

type speakerOutput struct{}

func (speakerOutput) Init(sr beep.SampleRate, bufferSize int) error {
	return speaker.Init(sr, bufferSize)
}

func (speakerOutput) Play(s beep.Streamer) { speaker.Play(s) }

// SoundBoard turns tick signals into mixed, panned effects.
type SoundBoard struct {
	mu          sync.Mutex
	out         Output
	rate        beep.SampleRate
	volume      float64
	mixer       *beep.Mixer
	ctrl        *beep.Ctrl
	initialized bool

	// listener is the world x at the centre of the screen; halfWidth is
	// the world distance to the screen edge.
	listener  float64
	halfWidth float64
}

// NewSoundBoard returns a board that will play through the system speaker.
func NewSoundBoard(sampleRate int, volume float64) *SoundBoard {
	return NewSoundBoardWithOutput(speakerOutput{}, sampleRate, volume)
}

// NewSoundBoardWithOutput is NewSoundBoard with an explicit output.
func NewSoundBoardWithOutput(out Output, sampleRate int, volume float64) *SoundBoard {
	if sampleRate <= 0 {
		sampleRate = 44100
	}
	mixer := &beep.Mixer{}
	return &SoundBoard{
		out:       out,
		rate:      beep.SampleRate(sampleRate),
		volume:    volume,
		mixer:     mixer,
		ctrl:      &beep.Ctrl{Streamer: mixer},
		halfWidth: 1,
	}
}

// Init opens the output and starts the mixer. Calling it twice is harmless.
func (b *SoundBoard) Init() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.initialized {
		return nil
	}
	if err := b.out.Init(b.rate, b.rate.N(100*time.Millisecond)); err != nil {
		return err
	}
	b.out.Play(b.ctrl)
	b.initialized = true
	return nil
}

// SetListener positions the stereo centre.
func (b *SoundBoard) SetListener(x, halfWidth float64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.listener = x
	if halfWidth > 0 {
		b.halfWidth = halfWidth
	}
}

// SetMuted pauses or resumes all output.
func (b *SoundBoard) SetMuted(muted bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.ctrl.Paused = muted
}

// Muted reports whether output is paused.
func (b *SoundBoard) Muted() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.ctrl.Paused
}

// Play queues one effect per signal kind per call, panned by the first
// signal of that kind. Returns how many effects were queued.
func (b *SoundBoard) Play(signals []sim.Signal) int {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.initialized || b.ctrl.Paused || b.volume <= 0 {
		return 0
	}

	speaker.Lock()
	defer speaker.Unlock()

	played := 0
	var seen [8]bool
	for _, s := range signals {
		k := int(s.Kind)
		if k >= 0 && k < len(seen) {
			if seen[k] {
				continue
			}
			seen[k] = true
		}
		if b.mixer.Len() >= maxVoices {
			break
		}
		fx := Effect(s.Kind, b.rate)
		if fx == nil {
			continue
		}
		b.mixer.Add(newPan(newVolume(fx, b.volume), b.pan(s.Position)))
		played++
	}
	return played
}

func (b *SoundBoard) pan(p geom.Vec2) float64 {
	return (p.X - b.listener) / b.halfWidth
}

// Voices returns the number of effects still sounding.
func (b *SoundBoard) Voices() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	speaker.Lock()
	defer speaker.Unlock()
	return b.mixer.Len()
}

// Close silences everything. The speaker itself stays open.
func (b *SoundBoard) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.initialized {
		return
	}
	speaker.Lock()
	b.mixer.Clear()
	speaker.Unlock()
	b.initialized = false
}
