package repostate

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Query names, used in failure reports and metric labels.
const (
	QueryStatus   = "status"
	QueryLocks    = "locks"
	QueryHead     = "head"
	QueryBranches = "branches"
	QueryIdentity = "identity"
)

// QueryError records one failed external query within a refresh cycle.
type QueryError struct {
	Query string
	Err   error
}

func (e QueryError) Error() string {
	return fmt.Sprintf("query %s: %v", e.Query, e.Err)
}

func (e QueryError) Unwrap() error { return e.Err }

// RawSnapshot holds the results of one refresh cycle's queries. Each
// result is a pointer so that absent-due-to-failure (nil, with a matching
// entry in Failures) stays distinct from present-but-empty. A raw
// snapshot is never merged with results of an earlier cycle.
type RawSnapshot struct {
	Status   *Status
	Locks    *[]Lock
	Head     *HeadInfo
	Branches *BranchList
	Identity *Identity

	Failures []QueryError
}

// ResultCount is the number of queries that returned a result.
func (r RawSnapshot) ResultCount() int {
	count := 0
	for _, ok := range []bool{
		r.Status != nil,
		r.Locks != nil,
		r.Head != nil,
		r.Branches != nil,
		r.Identity != nil,
	} {
		if ok {
			count++
		}
	}
	return count
}

// FailureFor returns the recorded failure for a query, or nil.
func (r RawSnapshot) FailureFor(query string) error {
	for _, f := range r.Failures {
		if f.Query == query {
			return f
		}
	}
	return nil
}

// Err aggregates all recorded failures.
func (r RawSnapshot) Err() error {
	var err error
	for _, f := range r.Failures {
		err = multierr.Append(err, f)
	}
	return err
}

// orchestrator issues the external queries for one refresh cycle. Queries
// run concurrently under a single cancellable context; one failing query
// never aborts its siblings.
type orchestrator struct {
	runner Runner
	dir    string
	logger *zap.Logger
}

// fetchOptions tunes one fetch cycle.
type fetchOptions struct {
	// withLocks issues the lock-listing query.
	withLocks bool
	// withIdentity issues the identity query (cold start, or after a
	// configuration change).
	withIdentity bool
}

// fetch runs the cycle's queries and assembles the raw snapshot. It
// returns once every issued query has completed or the context is done.
func (o *orchestrator) fetch(ctx context.Context, opts fetchOptions) RawSnapshot {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		raw RawSnapshot
		wg  sync.WaitGroup

		statusErr, locksErr, headErr, branchesErr, identityErr error
	)

	run := func(fn func()) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			fn()
		}()
	}

	run(func() {
		if status, err := o.runner.Status(ctx, o.dir); err != nil {
			statusErr = err
		} else {
			raw.Status = &status
		}
	})
	run(func() {
		if info, err := o.runner.Head(ctx, o.dir); err != nil {
			headErr = err
		} else {
			raw.Head = &info
		}
	})
	run(func() {
		if list, err := o.runner.Branches(ctx, o.dir); err != nil {
			branchesErr = err
		} else {
			raw.Branches = &list
		}
	})
	if opts.withLocks {
		run(func() {
			if locks, err := o.runner.Locks(ctx, o.dir); err != nil {
				locksErr = err
			} else {
				raw.Locks = &locks
			}
		})
	}
	if opts.withIdentity {
		run(func() {
			name, nameErr := o.runner.ConfigGet(ctx, o.dir, "user.name")
			email, emailErr := o.runner.ConfigGet(ctx, o.dir, "user.email")
			if err := multierr.Append(nameErr, emailErr); err != nil {
				identityErr = err
				return
			}
			raw.Identity = &Identity{Name: name, Email: email}
		})
	}

	wg.Wait()

	for _, failure := range []struct {
		query string
		err   error
	}{
		{QueryStatus, statusErr},
		{QueryLocks, locksErr},
		{QueryHead, headErr},
		{QueryBranches, branchesErr},
		{QueryIdentity, identityErr},
	} {
		if failure.err == nil {
			continue
		}
		raw.Failures = append(raw.Failures, QueryError{Query: failure.query, Err: failure.err})
		o.logger.Warn("query failed",
			zap.String("query", failure.query),
			zap.Error(failure.err))
	}

	return raw
}
