package repostate

import (
	"fmt"
	"strings"
)

// MatchMode selects how lock paths are matched against status entry paths.
type MatchMode int

const (
	// MatchExact compares paths byte for byte.
	MatchExact MatchMode = iota
	// MatchFoldCase compares paths case-insensitively, for hosts whose
	// filesystems do not preserve case reliably.
	MatchFoldCase
)

// MergeLocks returns a copy of status in which every entry whose path
// matches a lock's path carries that lock. Entry order is preserved.
// Locks that match no entry are dropped; an empty or nil lock listing
// yields the input status with no locks attached.
//
// Matching is against Lock.Path only, never DisplayPath. A duplicate
// entry path indicates a parsing bug upstream and is reported as
// ErrDuplicateStatusPath rather than silently merged.
func MergeLocks(status Status, locks []Lock, mode MatchMode) (Status, error) {
	key := func(p string) string {
		if mode == MatchFoldCase {
			return strings.ToLower(p)
		}
		return p
	}

	byPath := make(map[string]Lock, len(locks))
	for _, l := range locks {
		byPath[key(l.Path)] = l
	}

	seen := make(map[string]struct{}, len(status.Entries))
	merged := Status{Branch: status.Branch}
	if len(status.Entries) > 0 {
		merged.Entries = make([]StatusEntry, 0, len(status.Entries))
	}

	for _, e := range status.Entries {
		if _, dup := seen[e.Path]; dup {
			return Status{}, fmt.Errorf("%w: %s", ErrDuplicateStatusPath, e.Path)
		}
		seen[e.Path] = struct{}{}

		if l, ok := byPath[key(e.Path)]; ok {
			lock := l
			e.Lock = &lock
		}
		merged.Entries = append(merged.Entries, e)
	}

	return merged, nil
}
