package text

import (
	"strings"
	"unicode/utf8"
)

// InferenceParams tunes one synthesis call from the shape of its text.
type InferenceParams struct {
	Speed             float64
	Temperature       float64
	LengthPenalty     float64
	RepetitionPenalty float64
	// Sentence splitting happens here, not in the backend.
	EnableTextSplitting bool
}

// CalculateInferenceParams derives backend parameters from text shape: word
// count, punctuation density and word diversity. Very short sentences get a
// low length penalty and a slight speed-up so the model does not stretch them.
func CalculateInferenceParams(s string) InferenceParams {
	s = strings.TrimSpace(s)
	textLen := utf8.RuneCountInString(s)

	punct := 0
	for _, r := range s {
		switch r {
		case ',', '.', '!', '?', ';', ':', '—', '-':
			punct++
		}
	}
	density := float64(punct) / float64(max(textLen, 1))

	words := strings.Fields(strings.ToLower(s))
	unique := make(map[string]struct{}, len(words))
	for _, w := range words {
		unique[w] = struct{}{}
	}
	wordCount := len(words)
	diversity := float64(len(unique)) / float64(max(wordCount, 1))

	if wordCount < 15 {
		return InferenceParams{
			Speed:             1.04,
			LengthPenalty:     0.75,
			Temperature:       0.8,
			RepetitionPenalty: 1.5,
		}
	}

	var p InferenceParams

	switch {
	case density > 0.05:
		p.Speed = 0.98
	case textLen > 200:
		p.Speed = 0.95
	default:
		p.Speed = 1.0
	}

	switch {
	case textLen < 80:
		p.LengthPenalty = 1.0
	case textLen > 200:
		p.LengthPenalty = 1.1
	default:
		p.LengthPenalty = 1.05
	}

	switch {
	case diversity > 0.7:
		p.Temperature = 0.75
	case diversity < 0.5:
		p.Temperature = 0.7
	default:
		p.Temperature = 0.72
	}

	switch {
	case wordCount > 50 && diversity < 0.6:
		p.RepetitionPenalty = 4.0
	case wordCount > 30:
		p.RepetitionPenalty = 3.0
	default:
		p.RepetitionPenalty = 2.0
	}

	return p
}
