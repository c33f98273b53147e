package repostate

import "context"

// HeadInfo is the resolved position of the repository HEAD.
type HeadInfo struct {
	Branch   string // active local branch, empty when HEAD is detached
	Remote   string // active remote name
	Head     string // HEAD commit hash
	Tracking string // upstream tracking ref, e.g. "origin/main"
}

// BranchList enumerates local and remote branch names in tool order.
type BranchList struct {
	Local  []string
	Remote []string
}

// Runner invokes the version-control tool, one operation per query kind.
// Every operation honors context cancellation and returns either a
// structured result or an error describing the failed invocation. The
// production implementation lives in internal/gitcli; tests substitute
// fakes through the Manager constructor.
type Runner interface {
	Status(ctx context.Context, dir string) (Status, error)
	Locks(ctx context.Context, dir string) ([]Lock, error)
	Head(ctx context.Context, dir string) (HeadInfo, error)
	Branches(ctx context.Context, dir string) (BranchList, error)
	ConfigGet(ctx context.Context, dir, key string) (string, error)
}

// RepoWatcher delivers control-directory change events. Subscribe
// registers a callback and returns its detach function; callbacks may be
// invoked from the watcher's own goroutine at any time between Start and
// Stop.
type RepoWatcher interface {
	Subscribe(fn func(path string)) (unsubscribe func())
	Start(ctx context.Context) error
	Stop() error
}

// Dispatcher marshals notification callbacks onto the host application's
// designated thread. All listener delivery routes through it so listeners
// never need their own synchronization.
type Dispatcher interface {
	Dispatch(fn func())
}
