package sqllex

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Tokenize converts text into an ordered sequence of classified tokens. It is
// total and deterministic: every byte of the input ends up inside exactly one
// token, except whitespace between tokens, which is recognized and discarded.
// Nothing Tokenize encounters is an error; a byte that matches no lexical
// class becomes a single-character Unknown token so that anonymization
// degrades instead of failing on malformed input.
//
// Match priority at each position: comments, then function names, then
// keywords (longest entry first, case-insensitive, whole-word bounded), then
// identifiers, literals and symbols, then the Unknown fallback.
func Tokenize(text string) []Token {
	var tokens []Token
	for i := 0; i < len(text); {
		c := text[i]

		if isSpaceByte(c) {
			i++
			continue
		}

		// Best-effort comment handling; the file helpers strip full-line
		// "--" comments before the core ever sees them.
		if c == '-' && i+1 < len(text) && text[i+1] == '-' {
			end := strings.IndexByte(text[i:], '\n')
			if end < 0 {
				end = len(text)
			} else {
				end += i
			}
			tokens = append(tokens, Token{CategoryComment, text[i:end]})
			i = end
			continue
		}
		if c == '/' && i+1 < len(text) && text[i+1] == '*' {
			end := strings.Index(text[i+2:], "*/")
			if end < 0 {
				end = len(text)
			} else {
				end += i + 2 + 2
			}
			tokens = append(tokens, Token{CategoryComment, text[i:end]})
			i = end
			continue
		}

		if c == '\'' || c == '"' {
			end := skipQuoted(text, i)
			tokens = append(tokens, Token{CategoryLiteral, text[i:end]})
			i = end
			continue
		}

		if isWordStart(c) {
			wordEnd := scanWord(text, i)
			if end, category, ok := matchVocabulary(text, i, wordEnd); ok {
				tokens = append(tokens, Token{category, text[i:end]})
				i = end
				continue
			}
			tokens = append(tokens, Token{CategoryIdentifier, text[i:wordEnd]})
			i = wordEnd
			continue
		}

		if c >= '0' && c <= '9' {
			end := scanNumber(text, i)
			tokens = append(tokens, Token{CategoryLiteral, text[i:end]})
			i = end
			continue
		}

		if sym, ok := matchSymbol(text, i); ok {
			tokens = append(tokens, Token{CategorySymbol, sym})
			i += len(sym)
			continue
		}

		_, size := utf8.DecodeRuneInString(text[i:])
		tokens = append(tokens, Token{CategoryUnknown, text[i : i+size]})
		i += size
	}
	return tokens
}

// scanNumber consumes digits with at most one decimal point.
func scanNumber(text string, start int) int {
	end := start
	seenDot := false
	for end < len(text) {
		c := text[end]
		if c >= '0' && c <= '9' {
			end++
			continue
		}
		if c == '.' && !seenDot && end+1 < len(text) && text[end+1] >= '0' && text[end+1] <= '9' {
			seenDot = true
			end++
			continue
		}
		break
	}
	return end
}

func matchSymbol(text string, start int) (string, bool) {
	for _, sym := range symbols {
		if strings.HasPrefix(text[start:], sym) {
			return sym, true
		}
	}
	return "", false
}

// Render serializes a token stream back to text with single spaces between
// tokens.
func Render(tokens []Token) string {
	parts := make([]string, len(tokens))
	for i, tok := range tokens {
		parts[i] = tok.Text
	}
	return strings.Join(parts, " ")
}

var qualifiedDotRE = regexp.MustCompile(`\s+\.\s+`)

// CollapseQualified tightens "alias . column" back to "alias.column" for
// display.
func CollapseQualified(text string) string {
	return qualifiedDotRE.ReplaceAllString(text, ".")
}

// Canonicalize produces the canonicalized rendering of a query: normalized
// casing and whitespace, with exactly one space between tokens.
func Canonicalize(text string) string {
	return Render(Tokenize(Normalize(text)))
}
