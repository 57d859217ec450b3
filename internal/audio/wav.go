// Package audio provides the small amount of WAV plumbing the daemon needs:
// PCM16 encode/decode, silence generation and trailing-silence trimming.
package audio

import (
	"encoding/binary"
	"errors"
	"fmt"
	"time"
)

// ErrInvalidWAV indicates the byte slice is not a parseable RIFF/WAVE file.
var ErrInvalidWAV = errors.New("invalid wav data")

// ErrUnsupportedFormat indicates a WAV encoding other than 16-bit mono PCM.
var ErrUnsupportedFormat = errors.New("unsupported wav format")

const headerLen = 44

// Info describes a decoded PCM payload.
type Info struct {
	SampleRate    int
	Channels      int
	BitsPerSample int
}

// EncodePCM16 wraps mono 16-bit samples in a canonical 44-byte RIFF header.
func EncodePCM16(samples []int16, sampleRate int) []byte {
	dataLen := len(samples) * 2
	buf := make([]byte, headerLen+dataLen)

	copy(buf[0:4], "RIFF")
	binary.LittleEndian.PutUint32(buf[4:8], uint32(36+dataLen))
	copy(buf[8:12], "WAVE")

	copy(buf[12:16], "fmt ")
	binary.LittleEndian.PutUint32(buf[16:20], 16) // PCM fmt chunk size
	binary.LittleEndian.PutUint16(buf[20:22], 1)  // PCM
	binary.LittleEndian.PutUint16(buf[22:24], 1)  // mono
	binary.LittleEndian.PutUint32(buf[24:28], uint32(sampleRate))
	binary.LittleEndian.PutUint32(buf[28:32], uint32(sampleRate*2)) // byte rate
	binary.LittleEndian.PutUint16(buf[32:34], 2)                    // block align
	binary.LittleEndian.PutUint16(buf[34:36], 16)                   // bits per sample

	copy(buf[36:40], "data")
	binary.LittleEndian.PutUint32(buf[40:44], uint32(dataLen))

	for i, s := range samples {
		binary.LittleEndian.PutUint16(buf[headerLen+i*2:], uint16(s))
	}
	return buf
}

// Silence returns a complete WAV file containing d of silence at sampleRate.
func Silence(d time.Duration, sampleRate int) []byte {
	n := int(d.Seconds() * float64(sampleRate))
	if n < 0 {
		n = 0
	}
	return EncodePCM16(make([]int16, n), sampleRate)
}

// IsWAV reports whether b starts with a RIFF/WAVE header. It is a cheap sniff
// for validating backend responses without decoding them.
func IsWAV(b []byte) bool {
	return len(b) >= headerLen && string(b[0:4]) == "RIFF" && string(b[8:12]) == "WAVE"
}

// DecodePCM16 parses a WAV file and returns its samples. Only 16-bit mono PCM
// is accepted; anything else returns ErrUnsupportedFormat.
func DecodePCM16(wav []byte) ([]int16, Info, error) {
	var info Info
	if len(wav) < 12 || string(wav[0:4]) != "RIFF" || string(wav[8:12]) != "WAVE" {
		return nil, info, ErrInvalidWAV
	}
	// Walk chunks; some writers insert LIST or fact chunks before data.
	pos := 12
	var data []byte
	haveFmt := false
	for pos+8 <= len(wav) {
		id := string(wav[pos : pos+4])
		size := int(binary.LittleEndian.Uint32(wav[pos+4 : pos+8]))
		body := pos + 8
		if body+size > len(wav) {
			return nil, info, fmt.Errorf("%w: chunk %q overruns file", ErrInvalidWAV, id)
		}
		switch id {
		case "fmt ":
			if size < 16 {
				return nil, info, fmt.Errorf("%w: short fmt chunk", ErrInvalidWAV)
			}
			format := binary.LittleEndian.Uint16(wav[body : body+2])
			info.Channels = int(binary.LittleEndian.Uint16(wav[body+2 : body+4]))
			info.SampleRate = int(binary.LittleEndian.Uint32(wav[body+4 : body+8]))
			info.BitsPerSample = int(binary.LittleEndian.Uint16(wav[body+14 : body+16]))
			if format != 1 {
				return nil, info, fmt.Errorf("%w: non-PCM format %d", ErrUnsupportedFormat, format)
			}
			haveFmt = true
		case "data":
			data = wav[body : body+size]
		}
		// Chunks are word-aligned.
		if size%2 == 1 {
			size++
		}
		pos = body + size
	}
	if !haveFmt || data == nil {
		return nil, info, fmt.Errorf("%w: missing fmt or data chunk", ErrInvalidWAV)
	}
	if info.Channels != 1 || info.BitsPerSample != 16 {
		return nil, info, fmt.Errorf("%w: %d ch / %d bit", ErrUnsupportedFormat, info.Channels, info.BitsPerSample)
	}
	samples := make([]int16, len(data)/2)
	for i := range samples {
		samples[i] = int16(binary.LittleEndian.Uint16(data[i*2:]))
	}
	return samples, info, nil
}
