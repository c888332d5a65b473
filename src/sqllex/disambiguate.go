package sqllex

import "strings"

// Disambiguate refines raw token categories using positional context. It runs
// a fixed sequence of passes over the token slice; each pass produces new
// tokens by index without shifting or deleting elements, and a token rewritten
// by an earlier pass is never reconsidered by a later one. The pass order is
// load-bearing: alias declarations must be collected before qualified
// references are resolved.
func Disambiguate(tokens []Token) []Token {
	out := make([]Token, len(tokens))
	copy(out, tokens)

	// Pass 1: an Identifier immediately following a bare FROM/INTO keyword or
	// any JOIN form is a table name. The compound "INSERT INTO" keyword does
	// not qualify, so INSERT targets stay Identifier.
	for i := 1; i < len(out); i++ {
		if out[i].Category == CategoryIdentifier &&
			out[i-1].Category == CategoryKeyword &&
			introducesTable(out[i-1].Text) {
			out[i] = Token{CategoryTable, out[i].Text}
		}
	}

	// Pass 2: an Identifier immediately following a Table token is that
	// table's alias. Record it for qualified-reference resolution.
	knownAliases := make(map[string]bool)
	for i := 1; i < len(out); i++ {
		if out[i].Category == CategoryIdentifier &&
			out[i-1].Category == CategoryTable &&
			!IsReservedWord(out[i].Text) {
			out[i] = Token{CategoryTableAlias, out[i].Text}
			knownAliases[strings.ToLower(out[i].Text)] = true
		}
	}

	// Pass 3: explicit column alias after AS.
	for i := 1; i < len(out); i++ {
		if out[i].Category == CategoryIdentifier &&
			out[i-1].Category == CategoryKeyword &&
			strings.EqualFold(out[i-1].Text, "AS") &&
			!IsReservedWord(out[i].Text) {
			out[i] = Token{CategoryIdentifierAlias, out[i].Text}
		}
	}

	// Pass 4: implicit column alias. Covers "SELECT col aliasname FROM ..."
	// without an explicit AS: an Identifier squeezed between another
	// Identifier/Function and a comma or FROM.
	for i := 1; i+1 < len(out); i++ {
		if out[i].Category != CategoryIdentifier || IsReservedWord(out[i].Text) {
			continue
		}
		prev, next := out[i-1], out[i+1]
		if (prev.Category == CategoryIdentifier || prev.Category == CategoryFunction) &&
			(next.Text == "," || strings.EqualFold(next.Text, "FROM")) {
			out[i] = Token{CategoryIdentifierAlias, out[i].Text}
		}
	}

	// Pass 5: qualified references. A declared alias directly before "." is
	// kept as TableAlias so "alias.column" stays visually stable; the column
	// after the dot keeps its Identifier classification.
	for i := 0; i+1 < len(out); i++ {
		if out[i].Category == CategoryIdentifier &&
			out[i+1].Category == CategorySymbol && out[i+1].Text == "." &&
			knownAliases[strings.ToLower(out[i].Text)] {
			out[i] = Token{CategoryTableAlias, out[i].Text}
		}
	}

	return out
}

func introducesTable(keyword string) bool {
	kw := strings.ToUpper(keyword)
	return kw == "FROM" || kw == "INTO" || strings.HasSuffix(kw, "JOIN")
}
