package sqllex

import (
	"strings"

	"github.com/samber/lo"
	"golang.org/x/exp/slices"
)

// The lexical grammar registry: reserved keywords, built-in function names and
// operator/punctuation symbols. Entries are stored upper-cased; all matching
// is case-insensitive and bounded at identifier-character edges.

var aggregateFunctions = []string{
	"GROUP_CONCAT", "STRING_AGG", "ARRAY_AGG", "FIRST", "LAST", "BIT_AND",
	"BIT_OR", "BIT_XOR", "CORR", "COVAR_POP", "COVAR_SAMP", "JSON_AGG",
	"JSONB_AGG", "XMLAGG", "LISTAGG",
}

var stringFunctions = []string{
	"UPPER", "LOWER", "SUBSTRING", "SUBSTR", "TRIM", "LENGTH", "LEN", "CONCAT",
	"REPLACE", "LEFT", "RIGHT", "LPAD", "RPAD", "SPLIT_PART", "CHAR_LENGTH",
	"CHARINDEX", "POSITION", "INITCAP", "TO_CHAR", "FORMAT", "REGEXP_REPLACE",
	"REGEXP_MATCHES", "REGEXP_SUBSTR", "TRANSLATE", "STRPOS", "OVERLAY",
	"BTRIM", "LTRIM", "RTRIM", "ASCII", "CHR", "SOUNDEX", "DIFFERENCE",
	"CONCAT_WS",
}

var dateFunctions = []string{
	"NOW", "GETDATE", "DATEADD", "DATEDIFF", "DATEPART", "CURRENT_DATE",
	"CURRENT_TIME", "CURRENT_TIMESTAMP", "EXTRACT", "TO_DATE", "TO_TIMESTAMP",
	"AGE", "TIMESTAMPDIFF", "TIMESTAMPADD", "DAY", "MONTH", "YEAR", "HOUR",
	"MINUTE", "SECOND", "WEEK", "QUARTER", "TIMEZONE", "TIMEZONE_HOUR",
	"TIMEZONE_MINUTE", "ISODOW", "ISOWEEK", "JULIANDAY", "STRFTIME",
	"TO_UNIXTIME", "FROM_UNIXTIME", "SYSDATE", "SYSTIMESTAMP",
	"LOCALTIMESTAMP", "CURRENT_TIMEZONE", "LOCALTIME",
}

var numericFunctions = []string{
	"COUNT", "SUM", "AVG", "MIN", "MAX", "ROUND", "CEIL", "FLOOR", "ABS",
	"POWER", "SQRT", "EXP", "LN", "LOG", "LOG10", "MOD", "RANDOM", "TRUNC",
	"SIGN", "GREATEST", "LEAST", "DIV", "BIT_LENGTH", "OCTET_LENGTH",
	"WIDTH_BUCKET", "CUME_DIST", "DENSE_RANK", "PERCENT_RANK", "RANK",
	"ROW_NUMBER", "NTILE", "VARIANCE", "STDDEV", "MEDIAN", "MODE",
}

// keywordList holds reserved words, including multi-word entries which must
// always match as a unit ("GROUP BY" never partially matches as "GROUP").
// "INSERT INTO" is deliberately a single compound entry: table detection only
// fires after a bare FROM/INTO/JOIN token, so the table operand of an INSERT
// keeps its Identifier classification.
var keywordList = []string{
	"SELECT", "INSERT INTO", "INSERT", "UPDATE", "DELETE", "DISTINCT",
	"UNIQUE", "AS", "FROM",
	"JOIN", "INNER JOIN", "OUTER JOIN", "LEFT JOIN", "RIGHT JOIN",
	"FULL JOIN", "FULL OUTER JOIN", "CROSS JOIN",
	"ON", "WHERE", "LIKE", "AND", "OR", "IN", "NOT", "BETWEEN", "IS", "NULL",

	"CASE", "WHEN", "THEN", "ELSE", "END", "UNION", "ALL",

	"GROUP BY", "ORDER BY", "IF", "EXISTS", "ELSEIF", "WITH", "HAVING",
	"LIMIT", "OFFSET", "CAST",
	"TRUE", "FALSE", "NULLIF", "COALESCE",

	"CREATE", "ALTER", "DROP", "INDEX", "VIEW", "TRIGGER", "TABLE", "COLUMN",
	"PRIMARY KEY", "FOREIGN KEY", "UNIQUE KEY", "CHECK",
	"DEFAULT", "REFERENCES", "EXCEPT", "INTERSECT", "RECURSIVE",

	"INTO", "VALUES",

	"GRANT", "REVOKE",
	"COMMIT", "ROLLBACK", "SAVEPOINT", "TRANSACTION", "LOCK",
	"BEGIN", "DECLARE", "CURSOR", "FETCH", "OPEN", "CLOSE",

	"SET", "SHOW", "DESCRIBE", "USE", "RETURNS",

	"DATABASE", "SCHEMA", "FUNCTION", "PROCEDURE",
	"TRUNCATE", "MERGE", "UPSERT",
	"ASSERT", "RAISE", "THROW",

	"LOOP", "EXIT", "CONTINUE", "FOR", "WHILE", "DO",
}

// symbols are tried in order; two-character operators come before their
// one-character prefixes.
var symbols = []string{
	"<=", ">=",
	"*", ",", "(", ")", "[", "]", ";", "=", "<", ">", "!", "%",
	"+", "-", "/", "^", "&", "|", "~", ".",
}

var (
	functionSet map[string]bool
	keywordSet  map[string]bool

	// compoundsByFirstWord indexes multi-word keywords by their first word,
	// longest entries first, so "FULL OUTER JOIN" is tried before "FULL JOIN".
	compoundsByFirstWord map[string][][]string
)

func init() {
	functions := lo.Flatten([][]string{
		aggregateFunctions, stringFunctions, dateFunctions, numericFunctions,
	})
	functionSet = lo.SliceToMap(functions, func(f string) (string, bool) { return f, true })
	keywordSet = lo.SliceToMap(keywordList, func(k string) (string, bool) { return k, true })

	compounds := lo.Filter(keywordList, func(k string, _ int) bool {
		return strings.Contains(k, " ")
	})
	compoundsByFirstWord = lo.MapValues(
		lo.GroupBy(compounds, func(k string) string {
			return strings.SplitN(k, " ", 2)[0]
		}),
		func(entries []string, _ string) [][]string {
			slices.SortFunc(entries, func(a, b string) int { return len(b) - len(a) })
			return lo.Map(entries, func(e string, _ int) []string { return strings.Split(e, " ") })
		},
	)
}

// IsFunctionName reports whether word is a built-in function name.
func IsFunctionName(word string) bool {
	return functionSet[strings.ToUpper(word)]
}

// IsKeyword reports whether word is a reserved keyword (single-word form).
func IsKeyword(word string) bool {
	return keywordSet[strings.ToUpper(word)]
}

// IsReservedWord reports whether word belongs to either vocabulary. The
// disambiguator uses it to keep keywords and function names out of the alias
// categories.
func IsReservedWord(word string) bool {
	return IsKeyword(word) || IsFunctionName(word)
}

func isWordStart(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func isWordChar(b byte) bool {
	return isWordStart(b) || (b >= '0' && b <= '9')
}

// scanWord returns the end offset of the identifier-shaped word starting at
// start. The caller guarantees isWordStart(s[start]).
func scanWord(s string, start int) int {
	end := start + 1
	for end < len(s) && isWordChar(s[end]) {
		end++
	}
	return end
}

// matchVocabulary matches the longest keyword or function phrase starting at
// the word s[start:wordEnd]. It returns the end offset of the match and the
// category (CategoryFunction or CategoryKeyword). Compound keywords may span
// runs of whitespace between their words and are tried before single-word
// entries: LEFT is a function name on its own but part of the keyword in
// "LEFT JOIN". ok is false when the word is not in the vocabulary at all.
func matchVocabulary(s string, start, wordEnd int) (end int, category TokenCategory, ok bool) {
	word := strings.ToUpper(s[start:wordEnd])
	for _, parts := range compoundsByFirstWord[word] {
		if end, matched := matchCompound(s, wordEnd, parts[1:]); matched {
			return end, CategoryKeyword, true
		}
	}
	if functionSet[word] {
		return wordEnd, CategoryFunction, true
	}
	if keywordSet[word] {
		return wordEnd, CategoryKeyword, true
	}
	return wordEnd, CategoryUnknown, false
}

// matchCompound tries to consume the remaining words of a compound keyword
// after the first word ended at pos.
func matchCompound(s string, pos int, rest []string) (int, bool) {
	for _, want := range rest {
		i := pos
		for i < len(s) && isSpaceByte(s[i]) {
			i++
		}
		if i == pos || i >= len(s) || !isWordStart(s[i]) {
			return 0, false
		}
		j := scanWord(s, i)
		if !strings.EqualFold(s[i:j], want) {
			return 0, false
		}
		pos = j
	}
	return pos, true
}

func isSpaceByte(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r' || b == '\v' || b == '\f'
}
