package types

// SpeakRequest asks for a single utterance synthesized to one WAV.
type SpeakRequest struct {
	// Required text to voice.
	// example: Xin chào thế giới.
	Text string `json:"text" example:"Xin chào thế giới."`
	// BCP-47-ish language code understood by the backend. Defaults to the server's configured language.
	// example: vi
	Language string `json:"language,omitempty" example:"vi"`
	// Playback speed multiplier. 0 lets the server pick per-sentence heuristics.
	// example: 1.0
	Speed float64 `json:"speed,omitempty" example:"1.0"`
}

// SynthesizeRequest asks for a full text split into sentences, each
// synthesized separately and returned as a ZIP of numbered WAV files.
type SynthesizeRequest struct {
	// Required text; may contain many sentences and paragraphs.
	Text string `json:"text"`
	// Language code, same semantics as SpeakRequest.Language.
	// example: vi
	Language string `json:"language,omitempty" example:"vi"`
}

// StateResponse is returned by GET /state.
type StateResponse struct {
	// Current lifecycle state.
	// example: ready
	State ModelState `json:"state" example:"ready"`
}

// ReloadResponse is returned by POST /reload once the reload has been accepted.
type ReloadResponse struct {
	// State after accepting the reload (loading).
	// example: loading
	State ModelState `json:"state" example:"loading"`
}

// ErrorResponse is a consistent JSON error payload.
type ErrorResponse struct {
	// Error message.
	// example: invalid JSON body
	Error string `json:"error" example:"invalid JSON body"`
	// HTTP status code.
	// example: 400
	Code int `json:"code" example:"400"`
}
