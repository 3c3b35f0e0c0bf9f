package envfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseSimpleFile(t *testing.T) {
	path := writeEnvFile(t, "A=1\nB=hello\n")

	result, err := Parse(path)
	require.NoError(t, err)
	require.Empty(t, result.Warning)
	require.Equal(t, map[string]string{"A": "1", "B": "hello"}, result.Env)
}

func TestParseSkipsCommentsAndBlankLines(t *testing.T) {
	path := writeEnvFile(t, "# leading comment\n\nA=1\n   \n# another\nB=2\n")

	result, err := Parse(path)
	require.NoError(t, err)
	require.Empty(t, result.Warning)
	require.Equal(t, map[string]string{"A": "1", "B": "2"}, result.Env)
}

func TestParseRecordsMalformedLines(t *testing.T) {
	path := writeEnvFile(t, "A=1\nnot a variable\nB=2\n")

	result, err := Parse(path)
	require.NoError(t, err)
	require.Equal(t, map[string]string{"A": "1", "B": "2"}, result.Env)
	require.NotContains(t, result.Env, "", "a line without '=' must not become an empty-name variable")
	require.Contains(t, result.Warning, "not a variable")
	require.Contains(t, result.Warning, path)
}

func TestParseRejectsEmptyVariableName(t *testing.T) {
	path := writeEnvFile(t, "=orphan value\nA=1\n")

	result, err := Parse(path)
	require.NoError(t, err)
	require.Equal(t, map[string]string{"A": "1"}, result.Env)
	require.Contains(t, result.Warning, "=orphan value")
}

func TestParseStripsByteOrderMark(t *testing.T) {
	path := writeEnvFile(t, "\uFEFFA=1\n")

	result, err := Parse(path)
	require.NoError(t, err)
	require.Equal(t, map[string]string{"A": "1"}, result.Env)
}

func TestParseMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "does-not-exist.env")

	_, err := Parse(path)
	require.Error(t, err)
	require.Contains(t, err.Error(), path)
}

func TestMergeExistingEntriesWin(t *testing.T) {
	existing := map[string]string{"B": "2", "C": "existing"}
	fromFile := map[string]string{"A": "1", "C": "fromFile"}

	merged := Merge(existing, fromFile)
	require.Equal(t, map[string]string{"A": "1", "B": "2", "C": "existing"}, merged)
}

func TestMergeEmptyFileResult(t *testing.T) {
	existing := map[string]string{"B": "2"}
	require.Equal(t, existing, Merge(existing, nil))
}

func writeEnvFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}
