package watcher

import (
	"path/filepath"
	"strings"

	"github.com/samber/lo"
)

// Only these paths feed refresh scheduling; everything else under the
// control directory (object packs, reflogs, hook output) is noise.
var (
	meaningfulNames = []string{
		"HEAD",
		"ORIG_HEAD",
		"MERGE_HEAD",
		"config",
		"index",
		"packed-refs",
	}
	meaningfulPrefixes = []string{
		"refs/heads/",
		"refs/remotes/",
		"lfs/",
	}
)

// Meaningful reports whether a path relative to the control directory is
// relevant to repository state. Git's transient "<path>.lock" files count
// as touching the path they guard, so a commit in progress is noticed.
func Meaningful(rel string) bool {
	rel = filepath.ToSlash(rel)
	rel = strings.TrimSuffix(rel, ".lock")
	if rel == "" {
		return false
	}

	if lo.Contains(meaningfulNames, rel) {
		return true
	}

	return lo.SomeBy(meaningfulPrefixes, func(prefix string) bool {
		return strings.HasPrefix(rel, prefix)
	})
}
