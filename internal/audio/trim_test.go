package audio

import (
	"math"
	"testing"
	"time"
)

// tone builds seconds of a 440 Hz sine at half amplitude.
func tone(seconds float64, rate int) []int16 {
	n := int(seconds * float64(rate))
	out := make([]int16, n)
	for i := range out {
		out[i] = int16(0.5 * 32767 * math.Sin(2*math.Pi*440*float64(i)/float64(rate)))
	}
	return out
}

func TestTrimTrailingSilence(t *testing.T) {
	rate := 24000
	loud := tone(0.5, rate)
	padded := append(append([]int16(nil), loud...), make([]int16, 2*rate)...) // 2s of silence
	wav := EncodePCM16(padded, rate)

	trimmed, err := TrimTrailingSilence(wav, DefaultKeepSilence)
	if err != nil {
		t.Fatalf("trim: %v", err)
	}
	if len(trimmed) >= len(wav) {
		t.Fatalf("nothing trimmed: %d >= %d", len(trimmed), len(wav))
	}
	out, _, err := DecodePCM16(trimmed)
	if err != nil {
		t.Fatalf("decode trimmed: %v", err)
	}
	if len(out) < len(loud) {
		t.Fatalf("audible part cut: %d < %d", len(out), len(loud))
	}
	// Last audible frame start + keep pad bounds the kept length.
	keepSamples := int(DefaultKeepSilence.Seconds() * float64(rate))
	maxKeep := len(loud) + trimHopLen + keepSamples
	if len(out) > maxKeep {
		t.Fatalf("kept too much: %d > %d", len(out), maxKeep)
	}
}

func TestTrimAllSilentUnchanged(t *testing.T) {
	wav := Silence(time.Second, 24000)
	trimmed, err := TrimTrailingSilence(wav, DefaultKeepSilence)
	if err != nil {
		t.Fatalf("trim: %v", err)
	}
	if len(trimmed) != len(wav) {
		t.Fatalf("all-silent input changed: %d != %d", len(trimmed), len(wav))
	}
}

func TestTrimShortInputUnchanged(t *testing.T) {
	wav := EncodePCM16(make([]int16, 100), 24000)
	trimmed, err := TrimTrailingSilence(wav, DefaultKeepSilence)
	if err != nil {
		t.Fatalf("trim: %v", err)
	}
	if len(trimmed) != len(wav) {
		t.Fatal("short input should be returned as-is")
	}
}

func TestTrimNoTrailingSilenceUnchanged(t *testing.T) {
	rate := 24000
	wav := EncodePCM16(tone(0.5, rate), rate)
	trimmed, err := TrimTrailingSilence(wav, DefaultKeepSilence)
	if err != nil {
		t.Fatalf("trim: %v", err)
	}
	if len(trimmed) != len(wav) {
		t.Fatalf("loud-to-the-end input changed: %d != %d", len(trimmed), len(wav))
	}
}

func TestTrimRejectsBadInput(t *testing.T) {
	if _, err := TrimTrailingSilence([]byte("nope"), DefaultKeepSilence); err == nil {
		t.Fatal("expected error for non-wav input")
	}
}
