package text

import (
	"strings"
	"testing"
)

func TestNormalizeVietnameseNumbers(t *testing.T) {
	cases := []struct{ in, want string }{
		{"Tôi có 2 con mèo", "Tôi có hai con mèo"},
		{"năm 2024", "năm hai nghìn không trăm hai mươi bốn"},
		{"3 quả táo và 15 quả cam", "ba quả táo và mười lăm quả cam"},
		{"không có số", "không có số"},
	}
	for _, c := range cases {
		if got := Normalize(c.in, "vi"); got != c.want {
			t.Fatalf("%q -> %q, want %q", c.in, got, c.want)
		}
	}
}

func TestNormalizeEnglishNumbers(t *testing.T) {
	if got := Normalize("I have 21 cats", "en"); got != "I have twenty-one cats" {
		t.Fatalf("got %q", got)
	}
}

func TestNormalizeDecimalDigitsSpelledSeparately(t *testing.T) {
	// Digit runs around a dot are spelled independently; the dot stays.
	if got := Normalize("1.5", "vi"); got != "một.năm" {
		t.Fatalf("got %q", got)
	}
}

func TestNormalizeCollapsesWhitespace(t *testing.T) {
	if got := Normalize("a   b\t c\n\nd", "en"); got != "a b c d" {
		t.Fatalf("got %q", got)
	}
}

func TestNormalizeLeavesHugeDigitRuns(t *testing.T) {
	huge := strings.Repeat("9", 25)
	if got := Normalize(huge, "vi"); got != huge {
		t.Fatalf("got %q", got)
	}
}

func TestViWords(t *testing.T) {
	cases := []struct {
		n    int64
		want string
	}{
		{0, "không"},
		{5, "năm"},
		{10, "mười"},
		{11, "mười một"},
		{15, "mười lăm"},
		{21, "hai mươi mốt"},
		{25, "hai mươi lăm"},
		{55, "năm mươi lăm"},
		{100, "một trăm"},
		{105, "một trăm lẻ năm"},
		{110, "một trăm mười"},
		{250, "hai trăm năm mươi"},
		{1000, "một nghìn"},
		{2024, "hai nghìn không trăm hai mươi bốn"},
		{1_000_000, "một triệu"},
		{1_000_005, "một triệu không trăm lẻ năm"},
	}
	for _, c := range cases {
		if got := NumberWords(c.n, "vi"); got != c.want {
			t.Fatalf("%d -> %q, want %q", c.n, got, c.want)
		}
	}
}

func TestEnWords(t *testing.T) {
	cases := []struct {
		n    int64
		want string
	}{
		{0, "zero"},
		{7, "seven"},
		{13, "thirteen"},
		{21, "twenty-one"},
		{40, "forty"},
		{100, "one hundred"},
		{105, "one hundred five"},
		{999, "nine hundred ninety-nine"},
		{1000, "one thousand"},
		{1234567, "one million two hundred thirty-four thousand five hundred sixty-seven"},
	}
	for _, c := range cases {
		if got := NumberWords(c.n, "en"); got != c.want {
			t.Fatalf("%d -> %q, want %q", c.n, got, c.want)
		}
	}
}

func TestNumberWordsUnknownLanguageFallsBack(t *testing.T) {
	if got := NumberWords(3, "fr"); got != "three" {
		t.Fatalf("got %q", got)
	}
}
