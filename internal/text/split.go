// Package text prepares raw input for synthesis: sentence splitting,
// normalization and per-sentence inference parameter heuristics.
package text

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// DefaultMaxSentenceLen bounds a single synthesis chunk in runes. Longer
// sentences are re-packed at soft boundaries so the backend never sees
// text past its attention window.
const DefaultMaxSentenceLen = 250

const ellipsisToken = "⟦ELLIPSIS⟧"

var (
	// Sentence enders, allowing closing quotes/brackets before the gap.
	boundaryRe = regexp.MustCompile(`(?:` + regexp.QuoteMeta(ellipsisToken) + `|[.!?])["'”’)\]]*\s+`)
	// Soft boundaries inside an over-long sentence: comma, semicolon,
	// colon, hyphen, en/em dash.
	softDelimRe = regexp.MustCompile(`[,;:\-\x{2013}\x{2014}]`)
)

var viConjunctions = map[string]struct{}{
	"và": {}, "nhưng": {}, "hoặc": {}, "rồi": {}, "thì": {}, "là": {},
	"nên": {}, "vì": {}, "bởi": {}, "tuy": {}, "dù": {},
}

// SplitSentences splits a paragraph into synthesizable chunks. Punctuation
// stays with its sentence, unicode ellipses survive intact, and sentences
// longer than maxLen are re-packed at soft delimiters. For Vietnamese,
// a chunk never ends on a dangling conjunction.
func SplitSentences(paragraph string, maxLen int, language string) []string {
	if strings.TrimSpace(paragraph) == "" {
		return nil
	}
	if maxLen <= 0 {
		maxLen = DefaultMaxSentenceLen
	}

	t := strings.TrimSpace(paragraph)
	t = strings.ReplaceAll(t, "…", "...")
	t = strings.ReplaceAll(t, "...", ellipsisToken)

	var base []string
	start := 0
	for _, loc := range boundaryRe.FindAllStringIndex(t, -1) {
		if chunk := strings.TrimSpace(t[start:loc[1]]); chunk != "" {
			base = append(base, strings.ReplaceAll(chunk, ellipsisToken, "..."))
		}
		start = loc[1]
	}
	if tail := strings.TrimSpace(t[start:]); tail != "" {
		base = append(base, strings.ReplaceAll(tail, ellipsisToken, "..."))
	}

	var conj map[string]struct{}
	if language == "vi" {
		conj = viConjunctions
	}

	var chunks []string
	for _, sent := range base {
		if utf8.RuneCountInString(sent) <= maxLen {
			chunks = append(chunks, sent)
			continue
		}
		chunks = append(chunks, packLongSentence(sent, maxLen, conj)...)
	}
	return chunks
}

// splitSoft cuts a sentence at soft delimiters, keeping each delimiter
// attached to the token before it.
func splitSoft(s string) []string {
	var out []string
	last := 0
	for _, loc := range softDelimRe.FindAllStringIndex(s, -1) {
		if tok := strings.TrimSpace(s[last:loc[1]]); tok != "" {
			out = append(out, tok)
		}
		last = loc[1]
	}
	if tok := strings.TrimSpace(s[last:]); tok != "" {
		out = append(out, tok)
	}
	return out
}

// packLongSentence greedily packs soft-delimited tokens up to maxLen runes.
// When a chunk closes, a trailing conjunction or bare delimiter is dropped
// rather than left hanging at the chunk edge.
func packLongSentence(sentence string, maxLen int, conj map[string]struct{}) []string {
	var chunks []string
	var buf []string
	curLen := 0

	flush := func() {
		if c := strings.TrimSpace(strings.Join(buf, " ")); c != "" {
			chunks = append(chunks, c)
		}
	}

	for _, tok := range splitSoft(sentence) {
		tokLen := utf8.RuneCountInString(tok)
		sep := 0
		if curLen > 0 {
			sep = 1
		}
		if curLen+sep+tokLen <= maxLen {
			buf = append(buf, tok)
			curLen += sep + tokLen
			continue
		}
		if len(buf) > 0 {
			last := buf[len(buf)-1]
			lastWord := strings.ToLower(strings.Trim(last, ".,;:-—– "))
			_, isConj := conj[lastWord]
			if isConj || (utf8.RuneCountInString(last) == 1 && strings.ContainsAny(last, ",;:-")) {
				buf = buf[:len(buf)-1]
			}
		}
		flush()
		buf = []string{tok}
		curLen = tokLen
	}
	flush()
	return chunks
}
