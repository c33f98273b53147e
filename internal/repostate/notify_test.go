package repostate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runBatch(fns []func()) {
	for _, fn := range fns {
		fn()
	}
}

func TestNotifier_DeliversInRegistrationOrder(t *testing.T) {
	n := NewNotifier()

	var order []string
	n.OnBranchChanged(func() { order = append(order, "first") })
	n.OnBranchChanged(func() { order = append(order, "second") })
	n.OnBranchChanged(func() { order = append(order, "third") })

	runBatch(n.batch([]Facet{FacetBranch}, Status{}))
	assert.Equal(t, []string{"first", "second", "third"}, order)
}

func TestNotifier_DetachStopsDelivery(t *testing.T) {
	n := NewNotifier()

	calls := 0
	detach := n.OnHeadChanged(func() { calls++ })

	runBatch(n.batch([]Facet{FacetHead}, Status{}))
	require.Equal(t, 1, calls)

	detach()
	runBatch(n.batch([]Facet{FacetHead}, Status{}))
	assert.Equal(t, 1, calls)

	// Detaching twice is harmless.
	detach()
}

func TestNotifier_RepositoryChangedCarriesStatus(t *testing.T) {
	n := NewNotifier()

	var got Status
	n.OnRepositoryChanged(func(s Status) { got = s })

	status := Status{
		Branch:  "main",
		Entries: []StatusEntry{{Path: "a.txt", Code: StatusModified}},
	}
	runBatch(n.batch([]Facet{FacetStatus}, status))
	assert.Equal(t, status, got)
}

func TestNotifier_BatchFollowsFacetOrder(t *testing.T) {
	n := NewNotifier()

	var order []Facet
	n.OnTrackingChanged(func() { order = append(order, FacetTracking) })
	n.OnRepositoryChanged(func(Status) { order = append(order, FacetStatus) })
	n.OnRemoteChanged(func() { order = append(order, FacetRemote) })

	runBatch(n.batch([]Facet{FacetStatus, FacetRemote, FacetTracking}, Status{}))
	assert.Equal(t, []Facet{FacetStatus, FacetRemote, FacetTracking}, order)
}

func TestNotifier_OnlyChangedFacetsFire(t *testing.T) {
	n := NewNotifier()

	fired := map[Facet]int{}
	n.OnRepositoryChanged(func(Status) { fired[FacetStatus]++ })
	n.OnBranchChanged(func() { fired[FacetBranch]++ })
	n.OnRemoteChanged(func() { fired[FacetRemote]++ })
	n.OnLocalBranchesChanged(func() { fired[FacetLocalBranches]++ })

	runBatch(n.batch([]Facet{FacetRemote}, Status{}))
	assert.Equal(t, map[Facet]int{FacetRemote: 1}, fired)
}
