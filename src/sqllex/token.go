package sqllex

import "fmt"

// TokenCategory classifies a lexeme in the token stream. The set is closed:
// every switch over it is expected to be exhaustive so that adding a category
// is a compile-time-checked change.
type TokenCategory int

const (
	CategoryFunction TokenCategory = iota
	CategoryKeyword
	CategoryTable
	CategoryTableAlias
	CategoryIdentifier
	CategoryIdentifierAlias
	CategoryLiteral
	CategorySymbol
	CategoryComment
	CategoryUnknown
)

var categoryNames = map[TokenCategory]string{
	CategoryFunction:        "function",
	CategoryKeyword:         "keyword",
	CategoryTable:           "table",
	CategoryTableAlias:      "table_alias",
	CategoryIdentifier:      "identifier",
	CategoryIdentifierAlias: "identifier_alias",
	CategoryLiteral:         "literal",
	CategorySymbol:          "symbol",
	CategoryComment:         "comment",
	CategoryUnknown:         "unknown",
}

func (c TokenCategory) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return fmt.Sprintf("TokenCategory(%d)", int(c))
}

// ParseTokenCategory is the inverse of String, used by the mapping
// persistence codec.
func ParseTokenCategory(name string) (TokenCategory, error) {
	for c, n := range categoryNames {
		if n == name {
			return c, nil
		}
	}
	return CategoryUnknown, fmt.Errorf("unknown token category %q", name)
}

// Token is an immutable (category, text) pair. Reclassification during
// disambiguation produces a new Token with the same text; token slices keep
// their length and index correspondence across passes.
type Token struct {
	Category TokenCategory
	Text     string
}
