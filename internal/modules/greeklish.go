package modules

import "strings"

// greekToLatin is a best-effort Greek-to-Latin transliteration table
// covering the modern Greek alphabet (upper and lower case). It is not a
// full linguistic transliterator — it exists to turn Greek filenames into
// ASCII-safe fragments, not to round-trip Greek text.
var greekToLatin = map[rune]string{
	'α': "a", 'ά': "a", 'β': "v", 'γ': "g", 'δ': "d", 'ε': "e", 'έ': "e",
	'ζ': "z", 'η': "i", 'ή': "i", 'θ': "th", 'ι': "i", 'ί': "i", 'ϊ': "i",
	'ΐ': "i", 'κ': "k", 'λ': "l", 'μ': "m", 'ν': "n", 'ξ': "x", 'ο': "o",
	'ό': "o", 'π': "p", 'ρ': "r", 'σ': "s", 'ς': "s", 'τ': "t", 'υ': "y",
	'ύ': "y", 'ϋ': "y", 'ΰ': "y", 'φ': "f", 'χ': "ch", 'ψ': "ps", 'ω': "o",
	'ώ': "o",
	'Α': "A", 'Ά': "A", 'Β': "V", 'Γ': "G", 'Δ': "D", 'Ε': "E", 'Έ': "E",
	'Ζ': "Z", 'Η': "I", 'Ή': "I", 'Θ': "Th", 'Ι': "I", 'Ί': "I", 'Ϊ': "I",
	'Κ': "K", 'Λ': "L", 'Μ': "M", 'Ν': "N", 'Ξ': "X", 'Ο': "O", 'Ό': "O",
	'Π': "P", 'Ρ': "R", 'Σ': "S", 'Τ': "T", 'Υ': "Y", 'Ύ': "Y", 'Ϋ': "Y",
	'Φ': "F", 'Χ': "Ch", 'Ψ': "Ps", 'Ω': "O", 'Ώ': "O",
}

// Greeklish transliterates Greek letters in s to Latin equivalents,
// leaving all other characters untouched.
func Greeklish(s string) string {
	var b strings.Builder
	for _, r := range s {
		if latin, ok := greekToLatin[r]; ok {
			b.WriteString(latin)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
