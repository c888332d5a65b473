package anon

import (
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/sqlcloak/sqlcloak/src/sqllex"
)

// SqlAnonymizer rewrites the anonymizable tokens of a SQL statement to stable
// placeholders and back, against a caller-owned MappingState. Keywords,
// functions, symbols, comments and both alias categories render byte-identical
// in the output.
type SqlAnonymizer struct {
	state *MappingState
}

func NewSqlAnonymizer(state *MappingState) *SqlAnonymizer {
	return &SqlAnonymizer{state: state}
}

// State exposes the shared mapping state so the caller can persist or clear
// it after a run.
func (a *SqlAnonymizer) State() *MappingState {
	return a.state
}

// Anonymize tokenizes and disambiguates the input, replaces every Table,
// Identifier and Literal token with its placeholder, and re-joins the token
// texts with single spaces. Literal tokens inside a VALUES tuple pass through
// unchanged. New mappings are added to the shared state as a side effect; the
// caller decides whether to persist afterwards.
func (a *SqlAnonymizer) Anonymize(input string) (string, error) {
	tokens := sqllex.Disambiguate(sqllex.Tokenize(input))
	out := make([]sqllex.Token, len(tokens))

	inValuesTuple := false
	for i, tok := range tokens {
		switch tok.Category {
		case sqllex.CategoryKeyword:
			inValuesTuple = strings.EqualFold(tok.Text, "VALUES")
			out[i] = tok

		case sqllex.CategorySymbol:
			if tok.Text == ";" {
				inValuesTuple = false
			}
			out[i] = tok

		case sqllex.CategoryTable, sqllex.CategoryIdentifier:
			placeholder, err := a.state.AssignPlaceholder(tok.Category, tok.Text)
			if err != nil {
				return "", fmt.Errorf("anonymize %s %q: %w", tok.Category, tok.Text, err)
			}
			out[i] = sqllex.Token{Category: tok.Category, Text: placeholder}

		case sqllex.CategoryLiteral:
			if inValuesTuple {
				out[i] = tok
				continue
			}
			placeholder, err := a.state.AssignPlaceholder(tok.Category, tok.Text)
			if err != nil {
				return "", fmt.Errorf("anonymize literal %q: %w", tok.Text, err)
			}
			out[i] = sqllex.Token{Category: tok.Category, Text: placeholder}

		case sqllex.CategoryTableAlias:
			// Passthrough by contract; AssignPlaceholder only logs when the
			// alias shadows a mapped table name.
			text, err := a.state.AssignPlaceholder(tok.Category, tok.Text)
			if err != nil {
				return "", fmt.Errorf("anonymize alias %q: %w", tok.Text, err)
			}
			out[i] = sqllex.Token{Category: tok.Category, Text: text}

		case sqllex.CategoryFunction, sqllex.CategoryIdentifierAlias,
			sqllex.CategoryComment, sqllex.CategoryUnknown:
			out[i] = tok

		default:
			out[i] = tok
		}
	}

	result := sqllex.Render(out)
	log.Debugf("anonymized %d tokens, state size now %d", len(tokens), a.state.Size())
	return result, nil
}

// DeAnonymize re-tokenizes previously anonymized text and substitutes every
// token whose text is a known placeholder with its original value. The lookup
// deliberately ignores the token's fresh lexical category: a placeholder like
// "table_1" carries no positional cue that would let the disambiguator
// re-derive Table. Tokens with no reverse-map hit pass through unchanged; text
// anonymized under a superseded mapping session is not an error.
func (a *SqlAnonymizer) DeAnonymize(input string) (string, error) {
	tokens := sqllex.Tokenize(input)
	out := make([]sqllex.Token, len(tokens))
	for i, tok := range tokens {
		if original, category, ok := a.state.LookupOriginal(tok.Text); ok {
			out[i] = sqllex.Token{Category: category, Text: original}
			continue
		}
		out[i] = tok
	}
	return sqllex.Render(out), nil
}
