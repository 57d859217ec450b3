package audio

import (
	"math"
	"time"
)

// Trailing-silence trim parameters. Frame/hop sizes follow the usual RMS
// windowing used for speech; the threshold is on normalized amplitude.
const (
	trimFrameLen  = 2048
	trimHopLen    = 512
	trimThreshold = 0.01

	// DefaultKeepSilence is the pad kept after the last audible frame.
	// Short texts sound stretched with longer pads.
	DefaultKeepSilence = 200 * time.Millisecond
)

// TrimTrailingSilence cuts silence from the end of a 16-bit mono PCM WAV,
// keeping a keep-sized pad after the last audible frame. All-silent input is
// returned unchanged, as is anything too short to window.
func TrimTrailingSilence(wav []byte, keep time.Duration) ([]byte, error) {
	samples, info, err := DecodePCM16(wav)
	if err != nil {
		return nil, err
	}
	if len(samples) < trimFrameLen {
		return wav, nil
	}
	if keep <= 0 {
		keep = DefaultKeepSilence
	}

	lastLoud := -1
	for frame, start := 0, 0; start+trimFrameLen <= len(samples); frame, start = frame+1, start+trimHopLen {
		if frameRMS(samples[start:start+trimFrameLen]) > trimThreshold {
			lastLoud = frame
		}
	}
	if lastLoud < 0 {
		return wav, nil
	}

	end := lastLoud*trimHopLen + int(keep.Seconds()*float64(info.SampleRate))
	if end >= len(samples) {
		return wav, nil
	}
	return EncodePCM16(samples[:end], info.SampleRate), nil
}

func frameRMS(frame []int16) float64 {
	var sum float64
	for _, s := range frame {
		v := float64(s) / 32768.0
		sum += v * v
	}
	return math.Sqrt(sum / float64(len(frame)))
}
