package gitcli

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/repopulse/repopulse/internal/repostate"
)

// parseStatus parses `git status --porcelain=v1 --branch` output. The
// leading "## " line carries the branch; "## HEAD (no branch)" marks a
// detached HEAD. Entries keep the order git printed them in.
func parseStatus(out []byte) (repostate.Status, error) {
	var status repostate.Status

	scanner := bufio.NewScanner(bytes.NewReader(out))
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "## ") {
			status.Branch = parseBranchHeader(line[3:])
			continue
		}

		if len(line) < 4 {
			return repostate.Status{}, fmt.Errorf("%w: status line %q", ErrMalformedOutput, line)
		}

		entry, err := parseStatusLine(line)
		if err != nil {
			return repostate.Status{}, err
		}
		status.Entries = append(status.Entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return repostate.Status{}, fmt.Errorf("%w: %w", ErrMalformedOutput, err)
	}

	return status, nil
}

// parseBranchHeader extracts the local branch from a porcelain branch
// header such as "main...origin/main [ahead 1]" or "No commits yet on main".
func parseBranchHeader(header string) string {
	if strings.HasPrefix(header, "HEAD (no branch)") {
		return ""
	}
	if rest, ok := strings.CutPrefix(header, "No commits yet on "); ok {
		header = rest
	}

	branch, _, _ := strings.Cut(header, "...")
	branch, _, _ = strings.Cut(branch, " ")
	return branch
}

// parseStatusLine parses one "XY path" porcelain entry, including the
// "XY orig -> dest" rename form.
func parseStatusLine(line string) (repostate.StatusEntry, error) {
	x, y := line[0], line[1]
	if line[2] != ' ' {
		return repostate.StatusEntry{}, fmt.Errorf("%w: status line %q", ErrMalformedOutput, line)
	}

	path := line[3:]
	entry := repostate.StatusEntry{Code: codeFor(x, y)}

	if entry.Code == repostate.StatusRenamed || entry.Code == repostate.StatusCopied {
		orig, dest, ok := strings.Cut(path, " -> ")
		if !ok {
			return repostate.StatusEntry{}, fmt.Errorf("%w: rename entry %q", ErrMalformedOutput, line)
		}
		entry.OrigPath = orig
		path = dest
	}
	entry.Path = path

	return entry, nil
}

// codeFor maps a porcelain XY pair to a change code. The staged column
// wins when both are set; conflict markers take precedence over both.
func codeFor(x, y byte) repostate.StatusCode {
	switch {
	case x == 'U' || y == 'U', x == 'D' && y == 'D', x == 'A' && y == 'A':
		return repostate.StatusConflict
	case x == '?' && y == '?':
		return repostate.StatusUntracked
	case x == '!' && y == '!':
		return repostate.StatusIgnored
	}

	code := x
	if code == ' ' || code == '.' {
		code = y
	}

	switch code {
	case 'M', 'T':
		return repostate.StatusModified
	case 'A':
		return repostate.StatusAdded
	case 'D':
		return repostate.StatusDeleted
	case 'R':
		return repostate.StatusRenamed
	case 'C':
		return repostate.StatusCopied
	default:
		return repostate.StatusUnmodified
	}
}

// lfsLock mirrors one element of `git lfs locks --json` output.
type lfsLock struct {
	ID    string `json:"id"`
	Path  string `json:"path"`
	Owner struct {
		Name string `json:"name"`
	} `json:"owner"`
}

// parseLocks parses `git lfs locks --json` output. An empty listing is a
// valid result meaning nothing is locked.
func parseLocks(out []byte) ([]repostate.Lock, error) {
	trimmed := bytes.TrimSpace(out)
	if len(trimmed) == 0 {
		return []repostate.Lock{}, nil
	}

	var raw []lfsLock
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return nil, fmt.Errorf("%w: lock listing: %w", ErrMalformedOutput, err)
	}

	locks := make([]repostate.Lock, 0, len(raw))
	for _, l := range raw {
		locks = append(locks, repostate.Lock{
			Path:  l.Path,
			Owner: l.Owner.Name,
			ID:    l.ID,
		})
	}

	return locks, nil
}

// splitLines splits command output into trimmed, non-empty lines.
func splitLines(out []byte) []string {
	var lines []string
	for _, line := range strings.Split(string(out), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
