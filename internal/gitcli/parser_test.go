package gitcli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/repopulse/repopulse/internal/repostate"
)

func TestParseStatus_BranchAndEntries(t *testing.T) {
	out := []byte("## main...origin/main [ahead 1]\n" +
		" M modified.txt\n" +
		"A  added.txt\n" +
		" D deleted.txt\n" +
		"R  old.txt -> new.txt\n" +
		"?? untracked.txt\n")

	status, err := parseStatus(out)
	require.NoError(t, err)

	assert.Equal(t, "main", status.Branch)
	require.Len(t, status.Entries, 5)

	assert.Equal(t, repostate.StatusEntry{Path: "modified.txt", Code: repostate.StatusModified}, status.Entries[0])
	assert.Equal(t, repostate.StatusEntry{Path: "added.txt", Code: repostate.StatusAdded}, status.Entries[1])
	assert.Equal(t, repostate.StatusEntry{Path: "deleted.txt", Code: repostate.StatusDeleted}, status.Entries[2])
	assert.Equal(t, repostate.StatusEntry{Path: "new.txt", OrigPath: "old.txt", Code: repostate.StatusRenamed}, status.Entries[3])
	assert.Equal(t, repostate.StatusEntry{Path: "untracked.txt", Code: repostate.StatusUntracked}, status.Entries[4])
}

func TestParseStatus_EntryOrderIsSourceOrder(t *testing.T) {
	out := []byte("## main\n" +
		" M z.txt\n" +
		" M a.txt\n" +
		" M m.txt\n")

	status, err := parseStatus(out)
	require.NoError(t, err)

	paths := make([]string, 0, len(status.Entries))
	for _, e := range status.Entries {
		paths = append(paths, e.Path)
	}
	assert.Equal(t, []string{"z.txt", "a.txt", "m.txt"}, paths)
}

func TestParseStatus_DetachedHead(t *testing.T) {
	status, err := parseStatus([]byte("## HEAD (no branch)\n M a.txt\n"))
	require.NoError(t, err)
	assert.Empty(t, status.Branch)
	assert.Len(t, status.Entries, 1)
}

func TestParseStatus_UnbornBranch(t *testing.T) {
	status, err := parseStatus([]byte("## No commits yet on main\n?? a.txt\n"))
	require.NoError(t, err)
	assert.Equal(t, "main", status.Branch)
}

func TestParseStatus_Conflicts(t *testing.T) {
	out := []byte("## main\n" +
		"UU both.txt\n" +
		"DD both-deleted.txt\n" +
		"AA both-added.txt\n")

	status, err := parseStatus(out)
	require.NoError(t, err)
	for _, e := range status.Entries {
		assert.Equal(t, repostate.StatusConflict, e.Code, "entry %s", e.Path)
	}
}

func TestParseStatus_EmptyOutput(t *testing.T) {
	status, err := parseStatus(nil)
	require.NoError(t, err)
	assert.Empty(t, status.Branch)
	assert.Empty(t, status.Entries)
}

func TestParseStatus_MalformedLine(t *testing.T) {
	_, err := parseStatus([]byte("## main\nXY\n"))
	require.ErrorIs(t, err, ErrMalformedOutput)
}

func TestParseStatus_PathWithSpaces(t *testing.T) {
	status, err := parseStatus([]byte("## main\n M my file.txt\n"))
	require.NoError(t, err)
	require.Len(t, status.Entries, 1)
	assert.Equal(t, "my file.txt", status.Entries[0].Path)
}

func TestParseLocks_JSONListing(t *testing.T) {
	out := []byte(`[
		{"id":"42","path":"assets/hero.psd","owner":{"name":"X"},"locked_at":"2026-01-01T00:00:00Z"},
		{"id":"43","path":"assets/map.psd","owner":{"name":"Y"},"locked_at":"2026-01-02T00:00:00Z"}
	]`)

	locks, err := parseLocks(out)
	require.NoError(t, err)

	assert.Equal(t, []repostate.Lock{
		{Path: "assets/hero.psd", Owner: "X", ID: "42"},
		{Path: "assets/map.psd", Owner: "Y", ID: "43"},
	}, locks)
}

func TestParseLocks_EmptyListingIsValid(t *testing.T) {
	for _, out := range [][]byte{nil, []byte(""), []byte("[]"), []byte("\n")} {
		locks, err := parseLocks(out)
		require.NoError(t, err)
		assert.NotNil(t, locks)
		assert.Empty(t, locks)
	}
}

func TestParseLocks_MalformedJSON(t *testing.T) {
	_, err := parseLocks([]byte("{not json"))
	require.ErrorIs(t, err, ErrMalformedOutput)
}

func TestSplitLines(t *testing.T) {
	assert.Equal(t, []string{"main", "feature"}, splitLines([]byte("main\nfeature\n")))
	assert.Empty(t, splitLines([]byte("\n\n")))
	assert.Equal(t, []string{"main"}, splitLines([]byte("  main  \n")))
}
