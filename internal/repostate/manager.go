package repostate

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/go-git/go-git/v6"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

type managerState int

const (
	stateUninitialized managerState = iota
	stateInitialized
	stateStarted
	stateStopped
)

// Paths identifies the repository. Resolved once during Initialize and
// never mutated.
type Paths struct {
	Root       string // absolute path to the repository root
	ControlDir string // absolute path to the .git directory
}

// Manager is the stateful coordinator. It owns the cached snapshot,
// subscribes to the repository watcher, debounces and coalesces refresh
// requests, enforces single-flight execution, and raises per-facet change
// notifications through the dispatch context.
//
// Lifecycle: Initialize, then Start, then Refresh or watcher events,
// then Stop.
// At most one refresh executes at a time per manager; a request arriving
// mid-flight schedules exactly one follow-up refresh.
type Manager struct {
	cfg      Config
	runner   Runner
	watch    RepoWatcher
	disp     Dispatcher
	clock    clockwork.Clock
	notifier *Notifier
	metrics  *metrics
	logger   *zap.Logger

	mu            sync.Mutex
	state         managerState
	paths         Paths
	orch          *orchestrator
	snap          *Snapshot
	identity      *Identity
	identityStale bool
	inFlight      bool
	pending       bool
	cancelRefresh context.CancelFunc
	unsub         func()
	debounce      clockwork.Timer
}

// NewManager wires the coordinator. The watcher, runner, dispatcher and
// clock are capabilities: tests substitute fakes here instead of touching
// globals.
func NewManager(
	cfg Config,
	runner Runner,
	watch RepoWatcher,
	disp Dispatcher,
	clock clockwork.Clock,
	reg prometheus.Registerer,
	logger *zap.Logger,
) *Manager {
	if cfg.Debounce <= 0 {
		cfg.Debounce = DefaultConfig().Debounce
	}

	return &Manager{
		cfg:      cfg,
		runner:   runner,
		watch:    watch,
		disp:     disp,
		clock:    clock,
		notifier: NewNotifier(),
		metrics:  newMetrics(reg),
		logger:   logger,
	}
}

// Notifier exposes the listener registry. Listeners should attach before
// Start; no notification fires before the first requested refresh.
func (m *Manager) Notifier() *Notifier {
	return m.notifier
}

// Snapshot returns a copy of the cached snapshot, or nil before the
// first completed refresh.
func (m *Manager) Snapshot() *Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.snap == nil {
		return nil
	}
	snap := *m.snap
	return &snap
}

// Initialize resolves the repository paths and constructs the watcher
// subscription without starting to watch. Calling it again before Start
// is a no-op; calling it after Start fails.
func (m *Manager) Initialize() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch m.state {
	case stateInitialized:
		return nil
	case stateStarted:
		return ErrAlreadyStarted
	case stateStopped:
		return ErrStopped
	case stateUninitialized:
	}

	paths, err := resolvePaths(m.cfg.Dir)
	if err != nil {
		return err
	}

	m.paths = paths
	m.orch = &orchestrator{runner: m.runner, dir: paths.Root, logger: m.logger}
	m.unsub = m.watch.Subscribe(m.onWatchEvent)
	m.state = stateInitialized

	m.logger.Info("manager initialized",
		zap.String("root", paths.Root),
		zap.String("control_dir", paths.ControlDir))

	return nil
}

// Start begins listening to the repository watcher. It does not trigger
// a refresh.
func (m *Manager) Start() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch m.state {
	case stateUninitialized:
		return ErrNotInitialized
	case stateStarted:
		return ErrAlreadyStarted
	case stateStopped:
		return ErrStopped
	case stateInitialized:
	}

	if err := m.watch.Start(context.Background()); err != nil {
		return err
	}
	m.state = stateStarted

	m.logger.Info("manager started", zap.String("root", m.paths.Root))
	return nil
}

// Refresh requests a refresh. A request arriving while a refresh is in
// flight coalesces into a single follow-up executed immediately after
// the current one completes.
func (m *Manager) Refresh() error {
	m.mu.Lock()
	switch m.state {
	case stateUninitialized, stateInitialized:
		m.mu.Unlock()
		return ErrNotStarted
	case stateStopped:
		m.mu.Unlock()
		return ErrStopped
	case stateStarted:
	}
	m.mu.Unlock()

	m.requestRefresh()
	return nil
}

// Stop unsubscribes from the watcher, cancels any in-flight refresh, and
// permanently stops the manager. Idempotent.
func (m *Manager) Stop() error {
	m.mu.Lock()
	if m.state == stateStopped {
		m.mu.Unlock()
		return nil
	}
	prev := m.state
	m.state = stateStopped

	if m.debounce != nil {
		m.debounce.Stop()
		m.debounce = nil
	}
	if m.cancelRefresh != nil {
		m.cancelRefresh()
	}
	unsub := m.unsub
	m.unsub = nil
	m.mu.Unlock()

	if unsub != nil {
		unsub()
	}

	var err error
	if prev == stateStarted {
		err = m.watch.Stop()
	}

	m.logger.Info("manager stopped")
	return err
}

// resolvePaths validates that dir is a repository root and locates its
// control directory.
func resolvePaths(dir string) (Paths, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return Paths{}, fmt.Errorf("%w: %s: %w", ErrNotRepository, dir, err)
	}

	if _, err := git.PlainOpen(abs); err != nil {
		return Paths{}, fmt.Errorf("%w: %s: %w", ErrNotRepository, abs, err)
	}

	ctl := filepath.Join(abs, git.GitDirName)
	info, err := os.Stat(ctl)
	if err != nil || !info.IsDir() {
		return Paths{}, fmt.Errorf("%w: unreadable control directory %s", ErrNotRepository, ctl)
	}

	return Paths{Root: abs, ControlDir: ctl}, nil
}

// onWatchEvent handles one filtered control-directory event. Bursts are
// debounced into a single refresh through the injected clock.
func (m *Manager) onWatchEvent(path string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != stateStarted {
		return
	}

	if filepath.ToSlash(path) == "config" {
		m.identityStale = true
	}

	if m.debounce != nil {
		m.debounce.Reset(m.cfg.Debounce)
		return
	}

	m.debounce = m.clock.AfterFunc(m.cfg.Debounce, func() {
		m.mu.Lock()
		m.debounce = nil
		started := m.state == stateStarted
		m.mu.Unlock()

		if started {
			m.requestRefresh()
		}
	})
}

// requestRefresh is the coalescing entry point shared by Refresh and the
// debounced watcher path.
func (m *Manager) requestRefresh() {
	m.mu.Lock()
	if m.state != stateStarted {
		m.mu.Unlock()
		return
	}
	if m.inFlight {
		m.pending = true
		m.mu.Unlock()
		return
	}
	m.inFlight = true

	ctx, cancel := context.WithCancel(context.Background())
	m.cancelRefresh = cancel
	m.mu.Unlock()

	go m.refreshLoop(ctx, cancel)
}

// refreshLoop executes refreshes until no follow-up request is pending.
func (m *Manager) refreshLoop(ctx context.Context, cancel context.CancelFunc) {
	defer cancel()

	for {
		m.runRefresh(ctx)

		m.mu.Lock()
		if m.pending && m.state == stateStarted && ctx.Err() == nil {
			m.pending = false
			m.mu.Unlock()
			continue
		}
		m.pending = false
		m.inFlight = false
		m.cancelRefresh = nil
		m.mu.Unlock()
		return
	}
}

// runRefresh performs one full refresh cycle: orchestrate queries, merge
// locks, build the next snapshot, diff against the cache, and dispatch
// notifications for changed facets. A cycle that cannot produce a
// self-consistent snapshot is abandoned without mutating the cache or
// notifying anyone.
func (m *Manager) runRefresh(ctx context.Context) {
	started := m.clock.Now()
	defer func() {
		m.metrics.refreshDuration.Observe(m.clock.Since(started).Seconds())
	}()

	m.mu.Lock()
	orch := m.orch
	withIdentity := m.identity == nil || m.identityStale
	m.mu.Unlock()

	raw := orch.fetch(ctx, fetchOptions{
		withLocks:    m.cfg.LocksEnabled,
		withIdentity: withIdentity,
	})
	m.metrics.observeFailures(raw.Failures)

	if ctx.Err() != nil {
		m.logger.Debug("refresh cancelled")
		m.metrics.observeOutcome(outcomeAbandoned)
		return
	}

	if raw.ResultCount() == 0 {
		m.logger.Warn("refresh abandoned, no query results",
			zap.Error(raw.Err()))
		m.metrics.observeOutcome(outcomeAbandoned)
		return
	}

	if raw.Status == nil || raw.Head == nil || raw.Branches == nil {
		m.logger.Warn("refresh abandoned, required query failed",
			zap.Error(raw.Err()))
		m.metrics.observeOutcome(outcomeAbandoned)
		return
	}

	locks, ok := m.resolveLocks(raw)
	if !ok {
		m.metrics.observeOutcome(outcomeAbandoned)
		return
	}

	merged, err := MergeLocks(*raw.Status, locks, m.cfg.LockMatch)
	if err != nil {
		m.logger.Error("refresh abandoned, state invariant violated",
			zap.Error(err))
		m.metrics.observeOutcome(outcomeAbandoned)
		return
	}

	m.mu.Lock()
	identity := m.identity
	if raw.Identity != nil {
		identity = raw.Identity
	}

	next := Snapshot{
		Status:         merged,
		Branch:         raw.Head.Branch,
		Remote:         raw.Head.Remote,
		Head:           raw.Head.Head,
		LocalBranches:  raw.Branches.Local,
		RemoteBranches: raw.Branches.Remote,
		Tracking:       raw.Head.Tracking,
	}
	if identity != nil {
		next.Identity = *identity
	}

	changed, err := Diff(m.snap, next)
	if err != nil {
		m.mu.Unlock()
		m.logger.Error("refresh abandoned, state invariant violated",
			zap.Error(err))
		m.metrics.observeOutcome(outcomeAbandoned)
		return
	}

	if m.state == stateStopped {
		m.mu.Unlock()
		return
	}

	m.snap = &next
	m.identity = identity
	if raw.Identity != nil {
		m.identityStale = false
	}

	var batch []func()
	if len(changed) > 0 {
		batch = m.notifier.batch(changed, merged)
	}
	m.mu.Unlock()

	if len(changed) == 0 {
		m.logger.Debug("refresh completed, no facet changed")
		m.metrics.observeOutcome(outcomeUnchanged)
		return
	}

	m.logger.Info("repository state changed",
		zap.Strings("facets", lo.Map(changed, func(f Facet, _ int) string {
			return string(f)
		})))
	m.metrics.observeOutcome(outcomeChanged)

	// Deliver the whole batch on the dispatch context, and hold the
	// refresh slot until delivery finishes so refresh N+1 can never
	// overtake refresh N's notifications. The context arm also unblocks
	// the cycle when a stopped dispatcher dropped the batch.
	done := make(chan struct{})
	m.disp.Dispatch(func() {
		defer close(done)
		for _, fn := range batch {
			fn()
		}
	})

	select {
	case <-done:
	case <-ctx.Done():
	}
}

// resolveLocks decides what lock listing this cycle uses. A failed lock
// query is never papered over with an earlier successful listing; the
// refresh is abandoned instead. Missing tool lock support counts as an
// empty listing.
func (m *Manager) resolveLocks(raw RawSnapshot) ([]Lock, bool) {
	if !m.cfg.LocksEnabled {
		return []Lock{}, true
	}
	if raw.Locks != nil {
		return *raw.Locks, true
	}
	if errors.Is(raw.FailureFor(QueryLocks), ErrLockingUnsupported) {
		return []Lock{}, true
	}

	m.logger.Warn("refresh abandoned, lock listing failed",
		zap.Error(raw.FailureFor(QueryLocks)))
	return nil, false
}
