package text

import (
	"regexp"
	"strconv"
	"strings"
)

var digitRunRe = regexp.MustCompile(`\d+`)

// Normalize prepares raw text for the backend: collapses runs of whitespace
// and spells digit runs out as words in the target language. Digit runs too
// long for int64 are left untouched.
func Normalize(text, language string) string {
	t := strings.Join(strings.Fields(text), " ")
	return digitRunRe.ReplaceAllStringFunc(t, func(d string) string {
		n, err := strconv.ParseInt(d, 10, 64)
		if err != nil {
			return d
		}
		return NumberWords(n, language)
	})
}

// NumberWords spells n in the given language. Vietnamese and English are
// supported; anything else falls back to English.
func NumberWords(n int64, language string) string {
	if language == "vi" {
		return viWords(n)
	}
	return enWords(n)
}

var viDigits = [...]string{"không", "một", "hai", "ba", "bốn", "năm", "sáu", "bảy", "tám", "chín"}

// Thousand-group scale names, index = group position from the right.
var viScales = [...]string{"", "nghìn", "triệu", "tỷ", "nghìn tỷ", "triệu tỷ", "tỷ tỷ"}

func viWords(n int64) string {
	if n < 0 {
		return "âm " + viWords(-n)
	}
	if n == 0 {
		return viDigits[0]
	}
	var groups []int
	for m := n; m > 0; m /= 1000 {
		groups = append(groups, int(m%1000))
	}
	var parts []string
	for i := len(groups) - 1; i >= 0; i-- {
		g := groups[i]
		if g == 0 {
			continue
		}
		s := viGroup(g/100, g/10%10, g%10, i == len(groups)-1)
		if i > 0 {
			s += " " + viScales[i]
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, " ")
}

// viGroup renders one 0..999 group. Non-leading groups read the zero hundreds
// out ("không trăm") and bridge a zero tens place with "lẻ", the formal style.
func viGroup(h, t, u int, leading bool) string {
	var parts []string
	if h > 0 || !leading {
		parts = append(parts, viDigits[h], "trăm")
	}
	switch {
	case t == 0 && u == 0:
	case t == 0:
		if leading && h == 0 {
			parts = append(parts, viDigits[u])
		} else {
			parts = append(parts, "lẻ", viDigits[u])
		}
	case t == 1:
		parts = append(parts, "mười")
		switch u {
		case 0:
		case 5:
			parts = append(parts, "lăm")
		default:
			parts = append(parts, viDigits[u])
		}
	default:
		parts = append(parts, viDigits[t], "mươi")
		switch u {
		case 0:
		case 1:
			parts = append(parts, "mốt")
		case 5:
			parts = append(parts, "lăm")
		default:
			parts = append(parts, viDigits[u])
		}
	}
	return strings.Join(parts, " ")
}

var enOnes = [...]string{
	"zero", "one", "two", "three", "four", "five", "six", "seven", "eight", "nine",
	"ten", "eleven", "twelve", "thirteen", "fourteen", "fifteen", "sixteen",
	"seventeen", "eighteen", "nineteen",
}

var enTens = [...]string{"", "", "twenty", "thirty", "forty", "fifty", "sixty", "seventy", "eighty", "ninety"}

var enScales = []struct {
	div  int64
	name string
}{
	{1_000_000_000_000_000_000, "quintillion"},
	{1_000_000_000_000_000, "quadrillion"},
	{1_000_000_000_000, "trillion"},
	{1_000_000_000, "billion"},
	{1_000_000, "million"},
	{1_000, "thousand"},
}

func enWords(n int64) string {
	if n < 0 {
		return "minus " + enWords(-n)
	}
	switch {
	case n < 20:
		return enOnes[n]
	case n < 100:
		s := enTens[n/10]
		if n%10 != 0 {
			s += "-" + enOnes[n%10]
		}
		return s
	case n < 1000:
		s := enOnes[n/100] + " hundred"
		if n%100 != 0 {
			s += " " + enWords(n%100)
		}
		return s
	}
	for _, sc := range enScales {
		if n >= sc.div {
			s := enWords(n/sc.div) + " " + sc.name
			if rem := n % sc.div; rem != 0 {
				s += " " + enWords(rem)
			}
			return s
		}
	}
	return enOnes[0] // unreachable
}
