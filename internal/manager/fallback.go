package manager

import "ttsd/internal/audio"

// fallbackSampleRate matches the XTTS output rate so placeholder audio has
// the same shape downstream consumers expect from real output.
const fallbackSampleRate = 24000

// fallbackWAV returns the placeholder utterance: a fixed duration of silence,
// 16-bit mono PCM, byte-for-byte identical across calls. It never fails.
func (m *Manager) fallbackWAV() []byte {
	return audio.Silence(m.fallbackDur, fallbackSampleRate)
}
