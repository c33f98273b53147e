package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Service watches the repository control directory through fsnotify and
// fans filtered change events out to subscribers. It implements
// repostate.RepoWatcher.
//
// fsnotify does not recurse, so the service watches the control directory
// plus the refs tree, and adds directories created under refs/ on the
// fly (git creates refs/heads subdirectories for slash-named branches).
type Service struct {
	cfg    Config
	logger *zap.Logger

	mu      sync.Mutex
	subs    []subscription
	nextID  int
	fw      *fsnotify.Watcher
	done    chan struct{}
	running bool
}

type subscription struct {
	id int
	fn func(path string)
}

// NewService creates a watcher for the configured control directory.
func NewService(cfg Config, logger *zap.Logger) *Service {
	return &Service{
		cfg:    cfg,
		logger: logger,
	}
}

// Subscribe registers a callback invoked with the changed path, relative
// to the control directory, for every meaningful event. Callbacks fire in
// registration order. The returned function detaches the subscription.
func (s *Service) Subscribe(fn func(path string)) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.subs = append(s.subs, subscription{id: id, fn: fn})

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, sub := range s.subs {
			if sub.id == id {
				s.subs = append(s.subs[:i], s.subs[i+1:]...)
				return
			}
		}
	}
}

// Start begins watching. Events arriving before Start are never seen;
// events after Stop are discarded.
func (s *Service) Start(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return ErrAlreadyStarted
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrWatchFailed, err)
	}

	for _, dir := range s.watchRoots() {
		if err := fw.Add(dir); err != nil {
			s.logger.Warn("failed to watch directory",
				zap.String("dir", dir), zap.Error(err))
		}
	}
	if len(fw.WatchList()) == 0 {
		_ = fw.Close()
		return fmt.Errorf("%w: %s", ErrWatchFailed, s.cfg.Dir)
	}

	s.fw = fw
	s.done = make(chan struct{})
	s.running = true

	go s.loop(fw, s.done)

	s.logger.Info("watching control directory", zap.String("dir", s.cfg.Dir))
	return nil
}

// Stop ends watching. Subscriptions survive a Stop and receive events
// again after a subsequent Start.
func (s *Service) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return ErrNotStarted
	}

	close(s.done)
	err := s.fw.Close()
	s.fw = nil
	s.running = false

	s.logger.Info("stopped watching control directory", zap.String("dir", s.cfg.Dir))
	return err
}

// watchRoots lists the directories to register with fsnotify: the
// control directory itself and every directory under refs/.
func (s *Service) watchRoots() []string {
	roots := []string{s.cfg.Dir}

	refs := filepath.Join(s.cfg.Dir, "refs")
	_ = filepath.WalkDir(refs, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil //nolint:nilerr // unreadable subtrees are skipped, not fatal
		}
		if d.IsDir() {
			roots = append(roots, path)
		}
		return nil
	})

	return roots
}

func (s *Service) loop(fw *fsnotify.Watcher, done chan struct{}) {
	for {
		select {
		case <-done:
			return
		case err, ok := <-fw.Errors:
			if !ok {
				return
			}
			s.logger.Warn("watch error", zap.Error(err))
		case ev, ok := <-fw.Events:
			if !ok {
				return
			}
			s.handle(fw, ev)
		}
	}
}

func (s *Service) handle(fw *fsnotify.Watcher, ev fsnotify.Event) {
	rel, err := filepath.Rel(s.cfg.Dir, ev.Name)
	if err != nil {
		return
	}
	rel = filepath.ToSlash(rel)

	// New directories under refs/ need their own watch.
	if ev.Op.Has(fsnotify.Create) {
		if info, statErr := os.Stat(ev.Name); statErr == nil && info.IsDir() {
			if err := fw.Add(ev.Name); err != nil {
				s.logger.Warn("failed to watch new directory",
					zap.String("dir", ev.Name), zap.Error(err))
			}
			return
		}
	}

	if !Meaningful(rel) {
		return
	}

	s.logger.Debug("control directory changed",
		zap.String("path", rel),
		zap.String("op", ev.Op.String()))

	s.mu.Lock()
	subs := make([]subscription, len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()

	for _, sub := range subs {
		sub.fn(rel)
	}
}
