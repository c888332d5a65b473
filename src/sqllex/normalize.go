package sqllex

import "strings"

// Normalize canonicalizes casing and whitespace: quoted regions pass through
// character-for-character, everything else is lower-cased, whitespace runs
// outside quotes collapse to a single space (with leading/trailing trim), and
// vocabulary words outside quotes are rewritten to upper case, longest entry
// first. Normalize is idempotent.
func Normalize(text string) string {
	return upcaseVocabulary(collapseSpaces(foldOutsideQuotes(text)))
}

// foldOutsideQuotes lower-cases every byte outside single- or double-quoted
// regions. Backslash-escaped quotes do not terminate a region. An unterminated
// quote swallows the rest of the input verbatim rather than failing.
func foldOutsideQuotes(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for i := 0; i < len(text); {
		c := text[i]
		if c == '\'' || c == '"' {
			end := skipQuoted(text, i)
			b.WriteString(text[i:end])
			i = end
			continue
		}
		if c >= 'A' && c <= 'Z' {
			c += 'a' - 'A'
		}
		b.WriteByte(c)
		i++
	}
	return b.String()
}

// collapseSpaces replaces each run of whitespace outside quotes with one ASCII
// space and trims the ends.
func collapseSpaces(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for i := 0; i < len(text); {
		c := text[i]
		if c == '\'' || c == '"' {
			end := skipQuoted(text, i)
			b.WriteString(text[i:end])
			i = end
			continue
		}
		if isSpaceByte(c) {
			for i < len(text) && isSpaceByte(text[i]) {
				i++
			}
			b.WriteByte(' ')
			continue
		}
		b.WriteByte(c)
		i++
	}
	return strings.Trim(b.String(), " ")
}

// upcaseVocabulary rewrites every maximal vocabulary match outside quotes to
// upper case. Matching is whole-word bounded and tries longer entries first,
// so "group by" becomes "GROUP BY" rather than "GROUP by". Text inside quotes
// that happens to look like a keyword is never altered.
func upcaseVocabulary(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for i := 0; i < len(text); {
		c := text[i]
		if c == '\'' || c == '"' {
			end := skipQuoted(text, i)
			b.WriteString(text[i:end])
			i = end
			continue
		}
		if isWordStart(c) {
			wordEnd := scanWord(text, i)
			if end, _, ok := matchVocabulary(text, i, wordEnd); ok {
				b.WriteString(strings.ToUpper(text[i:end]))
				i = end
				continue
			}
			b.WriteString(text[i:wordEnd])
			i = wordEnd
			continue
		}
		b.WriteByte(c)
		i++
	}
	return b.String()
}

// skipQuoted returns the offset one past the quoted region opening at start.
// The caller guarantees text[start] is a quote character.
func skipQuoted(text string, start int) int {
	quote := text[start]
	for i := start + 1; i < len(text); i++ {
		switch text[i] {
		case '\\':
			i++ // skip the escaped character
		case quote:
			return i + 1
		}
	}
	return len(text)
}
