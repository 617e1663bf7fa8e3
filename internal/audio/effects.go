package audio

import (
	"time"

	"github.com/gopxl/beep"

	"github.com/Garsondee/Outbreak/internal/sim"
)

// createGunshot is a short noise crack over a low thump.
func createGunshot(sr beep.SampleRate) beep.Streamer {
	crack := NewEnvelope(
		NewOscillator(1, 90*time.Millisecond, WaveNoise, sr),
		90*time.Millisecond, time.Millisecond, 70*time.Millisecond, sr,
	)
	thump := NewEnvelope(
		NewSweep(160, 60, 120*time.Millisecond, WaveSine, sr),
		120*time.Millisecond, 2*time.Millisecond, 100*time.Millisecond, sr,
	)
	return beep.Mix(newVolume(crack, 0.6), newVolume(thump, 0.8))
}

// createInfected is a low descending saw growl.
func createInfected(sr beep.SampleRate) beep.Streamer {
	growl := NewSweep(110, 70, 400*time.Millisecond, WaveSaw, sr)
	return newVolume(NewEnvelope(growl, 400*time.Millisecond, 40*time.Millisecond, 200*time.Millisecond, sr), 0.4)
}

// createZombieKilled is a wet thud: a falling square under noise.
func createZombieKilled(sr beep.SampleRate) beep.Streamer {
	body := NewEnvelope(
		NewSweep(90, 40, 180*time.Millisecond, WaveSquare, sr),
		180*time.Millisecond, 3*time.Millisecond, 150*time.Millisecond, sr,
	)
	splat := NewEnvelope(
		NewOscillator(2, 60*time.Millisecond, WaveNoise, sr),
		60*time.Millisecond, time.Millisecond, 50*time.Millisecond, sr,
	)
	return beep.Mix(newVolume(body, 0.35), newVolume(splat, 0.3))
}

// createHumanKilled is a falling sine cry.
func createHumanKilled(sr beep.SampleRate) beep.Streamer {
	cry := NewSweep(880, 330, 300*time.Millisecond, WaveSine, sr)
	return newVolume(NewEnvelope(cry, 300*time.Millisecond, 10*time.Millisecond, 150*time.Millisecond, sr), 0.35)
}

// createReloaded is two magazine clicks.
func createReloaded(sr beep.SampleRate) beep.Streamer {
	click := func(freq float64) beep.Streamer {
		return NewEnvelope(
			NewOscillator(freq, 15*time.Millisecond, WaveSquare, sr),
			15*time.Millisecond, time.Millisecond, 10*time.Millisecond, sr,
		)
	}
	return newVolume(beep.Seq(
		click(2200),
		beep.Silence(sr.N(70*time.Millisecond)),
		click(1600),
	), 0.3)
}

// Effect builds a fresh streamer for a signal kind. Unknown kinds return nil.
func Effect(kind sim.SignalKind, sr beep.SampleRate) beep.Streamer {
	switch kind {
	case sim.SignalGunshot:
		return createGunshot(sr)
	case sim.SignalPersonInfected:
		return createInfected(sr)
	case sim.SignalZombieKilled:
		return createZombieKilled(sr)
	case sim.SignalHumanKilled:
		return createHumanKilled(sr)
	case sim.SignalReloaded:
		return createReloaded(sr)
	default:
		return nil
	}
}
