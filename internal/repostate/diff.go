package repostate

import (
	"fmt"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

// diffOpts makes nil and empty slices compare equal: a queried-but-empty
// branch list carries the same meaning as an absent one.
var diffOpts = []cmp.Option{cmpopts.EquateEmpty()}

// Diff compares two snapshots and returns the facets whose values differ,
// in the fixed facet order. Facets are independent: a status-only change
// never reports any other facet.
//
// A nil prev means this is the first refresh; every facet is reported
// changed so listeners receive an initial emission. A duplicate entry path
// in next's status is an upstream parsing bug and is returned as
// ErrDuplicateStatusPath.
func Diff(prev *Snapshot, next Snapshot) ([]Facet, error) {
	seen := make(map[string]struct{}, len(next.Status.Entries))
	for _, e := range next.Status.Entries {
		if _, dup := seen[e.Path]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateStatusPath, e.Path)
		}
		seen[e.Path] = struct{}{}
	}

	if prev == nil {
		changed := make([]Facet, len(allFacets))
		copy(changed, allFacets)
		return changed, nil
	}

	var changed []Facet
	for _, f := range allFacets {
		if !facetEqual(f, *prev, next) {
			changed = append(changed, f)
		}
	}
	return changed, nil
}

// facetEqual reports structural equality of one facet across two
// snapshots. Status entry order is significant: entries are kept in
// source order and never resorted before comparison.
func facetEqual(f Facet, prev, next Snapshot) bool {
	switch f {
	case FacetStatus:
		return cmp.Equal(prev.Status, next.Status, diffOpts...)
	case FacetBranch:
		return prev.Branch == next.Branch
	case FacetRemote:
		return prev.Remote == next.Remote
	case FacetHead:
		return prev.Head == next.Head
	case FacetLocalBranches:
		return cmp.Equal(prev.LocalBranches, next.LocalBranches, diffOpts...)
	case FacetRemoteBranches:
		return cmp.Equal(prev.RemoteBranches, next.RemoteBranches, diffOpts...)
	case FacetTracking:
		return prev.Tracking == next.Tracking
	default:
		return true
	}
}
