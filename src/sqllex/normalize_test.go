//go:build unit

package sqllex

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeCasingAndWhitespace(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "keywords uppercased, identifiers lowercased",
			input: "SeLeCt NaMe FrOm UsErS",
			want:  "SELECT name FROM users",
		},
		{
			name:  "whitespace runs collapse to single spaces",
			input: "select  \t name\n\n from\tusers",
			want:  "SELECT name FROM users",
		},
		{
			name:  "leading and trailing whitespace trimmed",
			input: "   select 1   ",
			want:  "SELECT 1",
		},
		{
			name:  "compound keywords uppercase as a unit",
			input: "select a from t group by a order by a",
			want:  "SELECT a FROM t GROUP BY a ORDER BY a",
		},
		{
			name:  "function names uppercased",
			input: "select count(id), upper(name) from t",
			want:  "SELECT COUNT(id), UPPER(name) FROM t",
		},
		{
			name:  "insert into kept as one vocabulary phrase",
			input: "insert into orders values (1)",
			want:  "INSERT INTO orders VALUES (1)",
		},
		{
			name:  "empty input",
			input: "",
			want:  "",
		},
		{
			name:  "only whitespace",
			input: " \t\n ",
			want:  "",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Normalize(tc.input))
		})
	}
}

func TestNormalizePreservesQuotedRegions(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "single-quoted literal keeps casing and inner spaces",
			input: "select name from t where status = 'Active  User'",
			want:  "SELECT name FROM t WHERE status = 'Active  User'",
		},
		{
			name:  "keyword-looking text inside quotes is untouched",
			input: "select 'select from where' from t",
			want:  "SELECT 'select from where' FROM t",
		},
		{
			name:  "double-quoted identifier keeps casing",
			input: `select "MixedCase" from t`,
			want:  `SELECT "MixedCase" FROM t`,
		},
		{
			name:  "escaped quote does not terminate the literal",
			input: `select 'O\'Brien AND Sons' from t`,
			want:  `SELECT 'O\'Brien AND Sons' FROM t`,
		},
		{
			name:  "unterminated quote swallows the rest verbatim",
			input: "select 'Unfinished FROM x",
			want:  "SELECT 'Unfinished FROM x",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Normalize(tc.input))
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"SeLeCt NaMe FrOm UsErS  WHERE  id = 1;",
		"insert into orders (id) values (1)",
		"select count(*) from t group by x order by y",
		"select 'Literal  Spaces' from \"Quoted\"",
		"",
	}
	for _, input := range inputs {
		once := Normalize(input)
		assert.Equal(t, once, Normalize(once), "input: %q", input)
	}
}
