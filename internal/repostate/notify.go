package repostate

import "sync"

// Notifier is the observer registry: one ordered callback list per
// notification kind. Callbacks are delivered in registration order, as a
// single batch per refresh, on the coordinator's dispatch context.
// Listeners are expected to attach before the manager starts.
type Notifier struct {
	mu     sync.Mutex
	nextID int

	repositoryChanged     []entry[func(Status)]
	branchChanged         []entry[func()]
	remoteChanged         []entry[func()]
	headChanged           []entry[func()]
	localBranchesChanged  []entry[func()]
	remoteBranchesChanged []entry[func()]
	trackingChanged       []entry[func()]
}

type entry[T any] struct {
	id int
	fn T
}

// NewNotifier creates an empty registry.
func NewNotifier() *Notifier {
	return &Notifier{}
}

func attach[T any](n *Notifier, list *[]entry[T], fn T) (detach func()) {
	n.mu.Lock()
	defer n.mu.Unlock()

	id := n.nextID
	n.nextID++
	*list = append(*list, entry[T]{id: id, fn: fn})

	return func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		for i, e := range *list {
			if e.id == id {
				*list = append((*list)[:i], (*list)[i+1:]...)
				return
			}
		}
	}
}

// OnRepositoryChanged fires when the status facet changed; the callback
// receives the full new working-tree status.
func (n *Notifier) OnRepositoryChanged(fn func(Status)) (detach func()) {
	return attach(n, &n.repositoryChanged, fn)
}

// OnBranchChanged fires when the active local branch changed.
func (n *Notifier) OnBranchChanged(fn func()) (detach func()) {
	return attach(n, &n.branchChanged, fn)
}

// OnRemoteChanged fires when the active remote changed.
func (n *Notifier) OnRemoteChanged(fn func()) (detach func()) {
	return attach(n, &n.remoteChanged, fn)
}

// OnHeadChanged fires when the HEAD commit changed.
func (n *Notifier) OnHeadChanged(fn func()) (detach func()) {
	return attach(n, &n.headChanged, fn)
}

// OnLocalBranchesChanged fires when the local branch list changed.
func (n *Notifier) OnLocalBranchesChanged(fn func()) (detach func()) {
	return attach(n, &n.localBranchesChanged, fn)
}

// OnRemoteBranchesChanged fires when the remote branch list changed.
func (n *Notifier) OnRemoteBranchesChanged(fn func()) (detach func()) {
	return attach(n, &n.remoteBranchesChanged, fn)
}

// OnTrackingChanged fires when the upstream tracking relationship changed.
func (n *Notifier) OnTrackingChanged(fn func()) (detach func()) {
	return attach(n, &n.trackingChanged, fn)
}

// batch assembles the callbacks to run for one refresh's changed facets,
// in facet order, each list in registration order. The returned closures
// capture the status value so later cache updates cannot leak into a
// pending delivery.
func (n *Notifier) batch(changed []Facet, status Status) []func() {
	n.mu.Lock()
	defer n.mu.Unlock()

	var fns []func()
	for _, f := range changed {
		switch f {
		case FacetStatus:
			for _, e := range n.repositoryChanged {
				fn := e.fn
				fns = append(fns, func() { fn(status) })
			}
		case FacetBranch:
			fns = appendPlain(fns, n.branchChanged)
		case FacetRemote:
			fns = appendPlain(fns, n.remoteChanged)
		case FacetHead:
			fns = appendPlain(fns, n.headChanged)
		case FacetLocalBranches:
			fns = appendPlain(fns, n.localBranchesChanged)
		case FacetRemoteBranches:
			fns = appendPlain(fns, n.remoteBranchesChanged)
		case FacetTracking:
			fns = appendPlain(fns, n.trackingChanged)
		}
	}
	return fns
}

func appendPlain(fns []func(), list []entry[func()]) []func() {
	for _, e := range list {
		fns = append(fns, e.fn)
	}
	return fns
}
