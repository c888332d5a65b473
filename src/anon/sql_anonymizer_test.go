//go:build unit

package anon

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sqlcloak/sqlcloak/src/sqllex"
)

func newTestAnonymizer() *SqlAnonymizer {
	return NewSqlAnonymizer(NewMappingState())
}

func TestAnonymizeSelectQuery(t *testing.T) {
	a := newTestAnonymizer()
	got, err := a.Anonymize("SELECT name, salary FROM employees WHERE salary > 50000;")
	require.NoError(t, err)
	assert.Equal(t,
		"SELECT identifier_1 , identifier_2 FROM table_1 WHERE identifier_2 > literal_1 ;",
		got)
}

func TestAnonymizeInsertQuery(t *testing.T) {
	// In the INSERT INTO form the table operand does not follow a bare
	// FROM/INTO/JOIN token, so it classifies as a plain identifier, and the
	// literals of the VALUES tuple pass through untouched.
	a := newTestAnonymizer()
	got, err := a.Anonymize("INSERT INTO orders (id, amount) VALUES (1, 100);")
	require.NoError(t, err)
	assert.Equal(t,
		"INSERT INTO identifier_1 ( identifier_2 , identifier_3 ) VALUES ( 1 , 100 ) ;",
		got)
}

func TestAnonymizeIsStable(t *testing.T) {
	a := newTestAnonymizer()
	first, err := a.Anonymize("SELECT name, age FROM users WHERE id = 1")
	require.NoError(t, err)
	second, err := a.Anonymize("SELECT name, age FROM users WHERE id = 1")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestAnonymizeAliasPassthrough(t *testing.T) {
	a := newTestAnonymizer()
	got, err := a.Anonymize("SELECT c . name FROM customers c WHERE c . id = 1")
	require.NoError(t, err)
	assert.Equal(t,
		"SELECT c . identifier_1 FROM table_1 c WHERE c . identifier_2 = literal_1",
		got)
	assert.Equal(t,
		"SELECT c.identifier_1 FROM table_1 c WHERE c.identifier_2 = literal_1",
		sqllex.CollapseQualified(got))
}

func TestAnonymizeSharedStateAcrossQueries(t *testing.T) {
	// Two queries against one state share placeholders for shared values and
	// keep counting where the first left off.
	a := newTestAnonymizer()
	first, err := a.Anonymize("SELECT name FROM users")
	require.NoError(t, err)
	assert.Equal(t, "SELECT identifier_1 FROM table_1", first)

	second, err := a.Anonymize("SELECT name , email FROM users")
	require.NoError(t, err)
	assert.Equal(t, "SELECT identifier_1 , identifier_2 FROM table_1", second)
}

func TestAnonymizeLiteralKinds(t *testing.T) {
	a := newTestAnonymizer()
	got, err := a.Anonymize("SELECT x FROM t WHERE status = 'active' AND qty IN ( 30 , 60 , 90 )")
	require.NoError(t, err)
	assert.Equal(t,
		"SELECT identifier_1 FROM table_1 WHERE identifier_2 = literal_1 AND identifier_3 IN ( literal_2 , literal_3 , literal_4 )",
		got)
}

func TestAnonymizeValuesPassthroughEndsAtStatementBoundary(t *testing.T) {
	a := newTestAnonymizer()
	got, err := a.Anonymize("INSERT INTO t ( a ) VALUES ( 7 ) ; SELECT x FROM t WHERE x > 7")
	require.NoError(t, err)
	assert.Equal(t,
		"INSERT INTO identifier_1 ( identifier_2 ) VALUES ( 7 ) ; SELECT identifier_3 FROM table_1 WHERE identifier_3 > literal_1",
		got)
}

func TestAnonymizePreservesStructuralTokens(t *testing.T) {
	input := "SELECT COUNT ( * ) AS cnt FROM users u WHERE u . age >= 21"
	a := newTestAnonymizer()
	got, err := a.Anonymize(input)
	require.NoError(t, err)

	before := sqllex.Disambiguate(sqllex.Tokenize(input))
	after := sqllex.Tokenize(got)
	require.Len(t, after, len(before))
	for i, tok := range before {
		switch tok.Category {
		case sqllex.CategoryKeyword, sqllex.CategoryFunction, sqllex.CategorySymbol,
			sqllex.CategoryTableAlias, sqllex.CategoryIdentifierAlias:
			assert.Equal(t, tok.Text, after[i].Text, "token %d", i)
		}
	}
}

func TestDeAnonymizeRoundTrip(t *testing.T) {
	inputs := []string{
		"SELECT name, salary FROM employees WHERE salary > 50000;",
		"SELECT c.name FROM customers c WHERE c.id = 1",
		"INSERT INTO orders (id, amount) VALUES (1, 100);",
		"select x from t where status = 'active' order by x",
	}
	for _, input := range inputs {
		a := newTestAnonymizer()
		canonical := sqllex.Canonicalize(input)

		anonymized, err := a.Anonymize(canonical)
		require.NoError(t, err, "input: %q", input)

		decoded, err := a.DeAnonymize(anonymized)
		require.NoError(t, err, "input: %q", input)
		assert.Equal(t, canonical, decoded, "input: %q", input)
	}
}

func TestDeAnonymizeUnknownPlaceholderPassesThrough(t *testing.T) {
	a := newTestAnonymizer()
	got, err := a.DeAnonymize("SELECT identifier_9 FROM table_9")
	require.NoError(t, err)
	assert.Equal(t, "SELECT identifier_9 FROM table_9", got)
}

func TestDeAnonymizeAfterClearLosesMappings(t *testing.T) {
	a := newTestAnonymizer()
	anonymized, err := a.Anonymize("SELECT name FROM users")
	require.NoError(t, err)

	a.State().Clear()
	decoded, err := a.DeAnonymize(anonymized)
	require.NoError(t, err)
	assert.Equal(t, anonymized, decoded)
}

func TestAnonymizeEmptyInput(t *testing.T) {
	a := newTestAnonymizer()
	got, err := a.Anonymize("")
	require.NoError(t, err)
	assert.Equal(t, "", got)
	assert.Zero(t, a.State().Size())
}
