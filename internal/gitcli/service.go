package gitcli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"go.uber.org/zap"

	"github.com/repopulse/repopulse/internal/repostate"
)

// Service runs the git and git-lfs command-line tools and parses their
// output into structured results. It implements repostate.Runner. The
// service holds no per-repository state; every invocation is independent.
type Service struct {
	cfg    Config
	logger *zap.Logger
}

// NewService creates a new git CLI runner.
func NewService(cfg Config, logger *zap.Logger) *Service {
	if cfg.Binary == "" {
		cfg.Binary = DefaultConfig().Binary
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultConfig().Timeout
	}

	return &Service{
		cfg:    cfg,
		logger: logger,
	}
}

// Status reports the working-tree status with the current branch.
func (s *Service) Status(ctx context.Context, dir string) (repostate.Status, error) {
	out, err := s.run(ctx, dir, "status", "--porcelain=v1", "--branch", "--untracked-files=all")
	if err != nil {
		return repostate.Status{}, err
	}

	status, err := parseStatus(out)
	if err != nil {
		return repostate.Status{}, err
	}

	s.logger.Debug("status queried",
		zap.String("dir", dir),
		zap.String("branch", status.Branch),
		zap.Int("entries", len(status.Entries)))

	return status, nil
}

// Locks lists held LFS path locks.
func (s *Service) Locks(ctx context.Context, dir string) ([]repostate.Lock, error) {
	out, err := s.run(ctx, dir, "lfs", "locks", "--json")
	if err != nil {
		if strings.Contains(err.Error(), "not a git command") {
			return nil, fmt.Errorf("%w: %w", repostate.ErrLockingUnsupported, err)
		}
		return nil, err
	}

	locks, err := parseLocks(out)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("locks queried",
		zap.String("dir", dir),
		zap.Int("count", len(locks)))

	return locks, nil
}

// Head resolves the current branch, remote, HEAD commit, and upstream
// tracking ref. A detached HEAD yields an empty branch; a branch without
// an upstream yields an empty tracking ref.
func (s *Service) Head(ctx context.Context, dir string) (repostate.HeadInfo, error) {
	var info repostate.HeadInfo

	// Exits 1 quietly on an unborn HEAD (fresh repository, no commits
	// yet); that is an empty head hash, not a failure.
	head, err := s.run(ctx, dir, "rev-parse", "--verify", "--quiet", "HEAD")
	switch {
	case err == nil:
		info.Head = strings.TrimSpace(string(head))
	case exitCode(err) != 1:
		return repostate.HeadInfo{}, err
	}

	// Exits non-zero on detached HEAD; that is an empty branch, not a
	// failure.
	if branch, berr := s.run(ctx, dir, "symbolic-ref", "--short", "-q", "HEAD"); berr == nil {
		info.Branch = strings.TrimSpace(string(branch))
	}

	if tracking, terr := s.run(ctx, dir, "rev-parse", "--abbrev-ref", "--symbolic-full-name", "@{upstream}"); terr == nil {
		info.Tracking = strings.TrimSpace(string(tracking))
	}

	if remote, _, ok := strings.Cut(info.Tracking, "/"); ok {
		info.Remote = remote
	} else if remotes, rerr := s.run(ctx, dir, "remote"); rerr == nil {
		if names := splitLines(remotes); len(names) > 0 {
			info.Remote = names[0]
		}
	}

	s.logger.Debug("head resolved",
		zap.String("dir", dir),
		zap.String("branch", info.Branch),
		zap.String("remote", info.Remote),
		zap.String("tracking", info.Tracking))

	return info, nil
}

// Branches enumerates local and remote branch names.
func (s *Service) Branches(ctx context.Context, dir string) (repostate.BranchList, error) {
	local, err := s.run(ctx, dir, "branch", "--format=%(refname:short)")
	if err != nil {
		return repostate.BranchList{}, err
	}

	remote, err := s.run(ctx, dir, "branch", "--remotes", "--format=%(refname:short)")
	if err != nil {
		return repostate.BranchList{}, err
	}

	list := repostate.BranchList{
		Local:  splitLines(local),
		Remote: splitLines(remote),
	}

	s.logger.Debug("branches enumerated",
		zap.String("dir", dir),
		zap.Int("local", len(list.Local)),
		zap.Int("remote", len(list.Remote)))

	return list, nil
}

// ConfigGet reads one configuration value. An unset key returns an empty
// value, not an error.
func (s *Service) ConfigGet(ctx context.Context, dir, key string) (string, error) {
	out, err := s.run(ctx, dir, "config", "--get", key)
	if err != nil {
		// Exit status 1 means the key is unset; anything else (timeout,
		// broken repository) is a real failure.
		if exitCode(err) == 1 {
			return "", nil
		}
		return "", err
	}

	return strings.TrimSpace(string(out)), nil
}

// run executes one git invocation against the repository at dir.
func (s *Service) run(ctx context.Context, dir string, args ...string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	full := append([]string{"-C", dir}, args...)
	cmd := exec.CommandContext(ctx, s.cfg.Binary, full...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrToolNotFound, s.cfg.Binary)
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("%w: git %s: %w", ErrQueryFailed, args[0], ctxErr)
		}
		return nil, fmt.Errorf("%w: git %s: %w: %s",
			ErrQueryFailed, args[0], err, strings.TrimSpace(stderr.String()))
	}

	return stdout.Bytes(), nil
}

// exitCode extracts the tool's exit status from a wrapped run error, or
// -1 when the invocation never produced one (tool missing, timeout).
func exitCode(err error) int {
	var exit *exec.ExitError
	if errors.As(err, &exit) {
		return exit.ExitCode()
	}
	return -1
}
