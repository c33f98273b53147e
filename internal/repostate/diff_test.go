package repostate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fullSnapshot() Snapshot {
	return Snapshot{
		Status: Status{
			Branch: "main",
			Entries: []StatusEntry{
				{Path: "a.txt", Code: StatusModified},
				{Path: "b.psd", Code: StatusAdded, Lock: &Lock{Path: "b.psd", Owner: "X"}},
			},
		},
		Branch:         "main",
		Remote:         "origin",
		Head:           "0123abcd",
		LocalBranches:  []string{"main", "feature"},
		RemoteBranches: []string{"origin/main"},
		Tracking:       "origin/main",
		Identity:       Identity{Name: "Dev", Email: "dev@example.com"},
	}
}

func TestDiff_ReflexiveYieldsNoFacets(t *testing.T) {
	prev := fullSnapshot()
	next := fullSnapshot()

	changed, err := Diff(&prev, next)
	require.NoError(t, err)
	assert.Empty(t, changed)
}

func TestDiff_NilPreviousReportsAllFacets(t *testing.T) {
	changed, err := Diff(nil, fullSnapshot())
	require.NoError(t, err)
	assert.Equal(t, allFacets, changed)
}

func TestDiff_PerFacetSensitivity(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Snapshot)
		want   []Facet
	}{
		{
			name:   "remote only",
			mutate: func(s *Snapshot) { s.Remote = "upstream" },
			want:   []Facet{FacetRemote},
		},
		{
			name:   "branch only",
			mutate: func(s *Snapshot) { s.Branch = "feature" },
			want:   []Facet{FacetBranch},
		},
		{
			name:   "head only",
			mutate: func(s *Snapshot) { s.Head = "feedbeef" },
			want:   []Facet{FacetHead},
		},
		{
			name:   "tracking only",
			mutate: func(s *Snapshot) { s.Tracking = "origin/feature" },
			want:   []Facet{FacetTracking},
		},
		{
			name:   "local branch list only",
			mutate: func(s *Snapshot) { s.LocalBranches = append(s.LocalBranches, "hotfix") },
			want:   []Facet{FacetLocalBranches},
		},
		{
			name:   "remote branch list only",
			mutate: func(s *Snapshot) { s.RemoteBranches = append(s.RemoteBranches, "origin/dev") },
			want:   []Facet{FacetRemoteBranches},
		},
		{
			name: "status entry code only",
			mutate: func(s *Snapshot) {
				s.Status.Entries[0].Code = StatusDeleted
			},
			want: []Facet{FacetStatus},
		},
		{
			name: "lock annotation only",
			mutate: func(s *Snapshot) {
				s.Status.Entries[1].Lock = nil
			},
			want: []Facet{FacetStatus},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prev := fullSnapshot()
			next := fullSnapshot()
			tt.mutate(&next)

			changed, err := Diff(&prev, next)
			require.NoError(t, err)
			assert.Equal(t, tt.want, changed)
		})
	}
}

func TestDiff_EntryOrderIsSignificant(t *testing.T) {
	prev := fullSnapshot()
	next := fullSnapshot()
	next.Status.Entries[0], next.Status.Entries[1] = next.Status.Entries[1], next.Status.Entries[0]

	changed, err := Diff(&prev, next)
	require.NoError(t, err)
	assert.Equal(t, []Facet{FacetStatus}, changed)
}

func TestDiff_EmptyAndNilBranchListsAreEqual(t *testing.T) {
	prev := fullSnapshot()
	prev.LocalBranches = nil
	next := fullSnapshot()
	next.LocalBranches = []string{}

	changed, err := Diff(&prev, next)
	require.NoError(t, err)
	assert.Empty(t, changed)
}

func TestDiff_DuplicateStatusPathFailsLoudly(t *testing.T) {
	next := fullSnapshot()
	next.Status.Entries = append(next.Status.Entries, StatusEntry{Path: "a.txt", Code: StatusAdded})

	_, err := Diff(nil, next)
	require.ErrorIs(t, err, ErrDuplicateStatusPath)
}
