package estimator

import "unicode/utf16"

// Stats holds the base statistics every formula is computed from.
type Stats struct {
	// Words counts maximal runs of non-whitespace.
	Words int
	// GoogleWords counts the fields of an unfiltered whitespace split: one
	// more than the number of whitespace runs, so leading and trailing
	// whitespace each add an empty field.
	GoogleWords int
	// Chars is the text length in UTF-16 code units.
	Chars int
}

// Analyze computes Stats for text.
func Analyze(text string) Stats {
	var (
		s       Stats
		inWord  bool
		inSpace bool
		runs    int
	)
	for _, r := range text {
		n := utf16.RuneLen(r)
		if n < 0 {
			n = 1 // invalid runes decode to U+FFFD
		}
		s.Chars += n

		if isSpace(r) {
			if !inSpace {
				runs++
			}
			inSpace, inWord = true, false
			continue
		}
		if !inWord {
			s.Words++
		}
		inWord, inSpace = true, false
	}
	s.GoogleWords = runs + 1
	return s
}

// IsBlank reports whether text is empty or contains only whitespace.
func IsBlank(text string) bool {
	for _, r := range text {
		if !isSpace(r) {
			return false
		}
	}
	return true
}

// isSpace matches the ECMAScript \s class, which differs from unicode.IsSpace
// (U+FEFF is whitespace here, U+0085 is not).
func isSpace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\v', '\f', '\r',
		0x00A0, 0x1680, 0x2028, 0x2029, 0x202F, 0x205F, 0x3000, 0xFEFF:
		return true
	}
	return r >= 0x2000 && r <= 0x200A
}
