package anon

import (
	"errors"

	"github.com/sqlcloak/sqlcloak/src/sqllex"
)

const (
	TABLE_PREFIX      = "table"
	IDENTIFIER_PREFIX = "identifier"
	LITERAL_PREFIX    = "literal"
)

// ErrNotAnonymizable reports a programming-contract violation: a placeholder
// prefix was requested for a category outside {Table, Identifier, Literal}.
// This is distinct from any data-quality condition, which never errors.
var ErrNotAnonymizable = errors.New("token category is not anonymizable")

// ErrCorruptState reports that persisted mapping bytes failed validation.
// Callers must not paper over it with an empty state: that would silently
// mask data loss.
var ErrCorruptState = errors.New("corrupt mapping state")

// interface to be implemented by any new anonymizer
type Anonymizer interface {
	Anonymize(input string) (string, error)
	DeAnonymize(input string) (string, error)
}

// AnonymizableCategories are the token categories rewritten to placeholders,
// in the fixed order used for reverse lookups.
var AnonymizableCategories = []sqllex.TokenCategory{
	sqllex.CategoryTable,
	sqllex.CategoryIdentifier,
	sqllex.CategoryLiteral,
}

// PlaceholderPrefix returns the placeholder prefix for an anonymizable
// category and ErrNotAnonymizable for anything else.
func PlaceholderPrefix(category sqllex.TokenCategory) (string, error) {
	switch category {
	case sqllex.CategoryTable:
		return TABLE_PREFIX, nil
	case sqllex.CategoryIdentifier:
		return IDENTIFIER_PREFIX, nil
	case sqllex.CategoryLiteral:
		return LITERAL_PREFIX, nil
	default:
		return "", ErrNotAnonymizable
	}
}
