package ttsctl

import (
	"context"
	"fmt"
	"os"
	"strings"

	"ttsd/pkg/types"
)

func runSpeak(cfg *Config, text, language string, speed float64, out string) error {
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("--text is required")
	}
	res, err := clientFor(cfg).Speak(context.Background(), types.SpeakRequest{
		Text: text, Language: language, Speed: speed,
	})
	if err != nil {
		return err
	}
	if res.Fallback {
		warn("[ttsctl] server substituted placeholder audio")
	}
	if err := writeOut(out, res.Audio); err != nil {
		return err
	}
	if out != "-" {
		info("[ttsctl] wrote %s (%d bytes)", out, len(res.Audio))
	}
	return nil
}

func runSynth(cfg *Config, text, file, language, out string) error {
	if file != "" {
		b, err := os.ReadFile(file)
		if err != nil {
			return err
		}
		text = string(b)
	}
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("either --text or --file is required")
	}
	res, err := clientFor(cfg).Synthesize(context.Background(), types.SynthesizeRequest{
		Text: text, Language: language,
	})
	if err != nil {
		return err
	}
	if res.Fallbacks > 0 {
		warn("[ttsctl] %d sentences fell back to placeholder audio", res.Fallbacks)
	}
	if err := writeOut(out, res.Zip); err != nil {
		return err
	}
	if out != "-" {
		info("[ttsctl] wrote %s (%d bytes)", out, len(res.Zip))
	}
	return nil
}

// writeOut saves data to path, or to stdout when path is "-".
func writeOut(path string, data []byte) error {
	if path == "-" {
		_, err := os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
