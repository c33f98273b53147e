package repostate

// StatusCode classifies a single working-tree change.
type StatusCode int

const (
	StatusUnmodified StatusCode = iota
	StatusModified
	StatusAdded
	StatusDeleted
	StatusRenamed
	StatusCopied
	StatusUntracked
	StatusIgnored
	StatusConflict
)

// String returns the lowercase name of the status code.
func (c StatusCode) String() string {
	switch c {
	case StatusUnmodified:
		return "unmodified"
	case StatusModified:
		return "modified"
	case StatusAdded:
		return "added"
	case StatusDeleted:
		return "deleted"
	case StatusRenamed:
		return "renamed"
	case StatusCopied:
		return "copied"
	case StatusUntracked:
		return "untracked"
	case StatusIgnored:
		return "ignored"
	case StatusConflict:
		return "conflict"
	default:
		return "unknown"
	}
}

// Lock is a held path lock, keyed by Path within one lock listing.
type Lock struct {
	Path        string // locked path, the matching key
	DisplayPath string // optional display form, never used for matching
	Owner       string // identity of the lock holder
	ID          string // tool-assigned lock identifier
}

// StatusEntry is one changed working-tree path. Equality is structural
// over all fields, including the attached lock.
type StatusEntry struct {
	Path     string     // current path, unique within one Status
	OrigPath string     // renamed-from path, empty unless Code is StatusRenamed/StatusCopied
	Code     StatusCode // type of change
	Lock     *Lock      // attached lock, nil when the path is not locked
}

// Status is a working-tree snapshot: the local branch (empty on detached
// HEAD) plus changed entries in source order. Entry order is preserved as
// reported by the tool and is significant for comparison.
type Status struct {
	Branch  string
	Entries []StatusEntry
}

// Identity is the configured committer identity, queried once on cold
// start and refreshed when the repository configuration changes.
type Identity struct {
	Name  string
	Email string
}

// Snapshot is the coordinator-owned view of the full repository state.
// It is replaced wholesale after each completed refresh and never
// persisted across process restarts.
type Snapshot struct {
	Status         Status
	Branch         string   // active local branch
	Remote         string   // active remote name
	Head           string   // current HEAD commit
	LocalBranches  []string // ordered local branch names
	RemoteBranches []string // ordered remote branch names
	Tracking       string   // upstream tracking ref, e.g. "origin/main"
	Identity       Identity
}

// Facet is one independently-trackable slice of a Snapshot.
type Facet string

const (
	FacetStatus         Facet = "status"
	FacetBranch         Facet = "branch"
	FacetRemote         Facet = "remote"
	FacetHead           Facet = "head"
	FacetLocalBranches  Facet = "local-branches"
	FacetRemoteBranches Facet = "remote-branches"
	FacetTracking       Facet = "tracking"
)

// allFacets is the differ's facet ordering; notification delivery for one
// refresh follows this order.
var allFacets = []Facet{
	FacetStatus,
	FacetBranch,
	FacetRemote,
	FacetHead,
	FacetLocalBranches,
	FacetRemoteBranches,
	FacetTracking,
}
