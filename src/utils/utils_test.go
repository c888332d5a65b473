//go:build unit

package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadSQLFile(t *testing.T) {
	cases := []struct {
		name     string
		contents string
		want     string
	}{
		{
			name:     "single statement",
			contents: "SELECT * FROM users;",
			want:     "SELECT * FROM users;",
		},
		{
			name:     "comment lines dropped",
			contents: "-- header comment\nSELECT name\n  -- indented comment\nFROM users;\n",
			want:     "SELECT name FROM users;",
		},
		{
			name:     "multi-line statement joined with spaces",
			contents: "SELECT name,\nsalary\nFROM employees",
			want:     "SELECT name, salary FROM employees",
		},
		{
			name:     "comments only",
			contents: "-- one\n-- two\n",
			want:     "",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			fpath := filepath.Join(t.TempDir(), "query.sql")
			require.NoError(t, os.WriteFile(fpath, []byte(tc.contents), 0644))

			got, err := ReadSQLFile(fpath)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestReadSQLFileMissing(t *testing.T) {
	_, err := ReadSQLFile(filepath.Join(t.TempDir(), "nope.sql"))
	assert.Error(t, err)
}

func TestFileOrFolderExists(t *testing.T) {
	dir := t.TempDir()
	assert.True(t, FileOrFolderExists(dir))
	assert.False(t, FileOrFolderExists(filepath.Join(dir, "missing")))
}
