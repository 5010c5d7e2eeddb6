package filtmgr

import (
	"github.com/bloomd/filtmgr/pkg/bfilter"
	filtmgrerrors "github.com/bloomd/filtmgr/pkg/errors"
)

// CheckKeys implements spec.md §4.3: takes the wrapper's rw-lock in
// shared mode, tests each key in order, and stops at the first internal
// error — earlier slots in results are valid, later ones are unspecified.
func (m *Manager) CheckKeys(name string, keys [][]byte, results []bool) error {
	w, ok := takeFilter(m.latest.Load(), name)
	if !ok {
		return &filtmgrerrors.FilterNotFoundError{Name: name}
	}

	w.rwlock.RLock()
	defer w.rwlock.RUnlock()

	for i, key := range keys {
		present, err := w.filter.Contains(key)
		if err != nil {
			return filtmgrerrors.WrapInternal("CheckKeys", err)
		}
		results[i] = present
	}
	w.isHot.Store(true)
	m.loadHooks().OnBatch("check_keys", len(keys))
	return nil
}

// SetKeys implements spec.md §4.3: like CheckKeys, but exclusive mode and
// "add" semantics — each result slot reports whether the key was newly
// set (true) or already present (false).
func (m *Manager) SetKeys(name string, keys [][]byte, results []bool) error {
	w, ok := takeFilter(m.latest.Load(), name)
	if !ok {
		return &filtmgrerrors.FilterNotFoundError{Name: name}
	}

	w.rwlock.Lock()
	defer w.rwlock.Unlock()

	for i, key := range keys {
		added, err := w.filter.Add(key)
		if err != nil {
			return filtmgrerrors.WrapInternal("SetKeys", err)
		}
		results[i] = added
	}
	w.isHot.Store(true)
	m.loadHooks().OnBatch("set_keys", len(keys))
	return nil
}

// Flush implements spec.md §4.3: resolves the wrapper and calls the
// underlying filter's flush with no rw-lock held — the underlying filter
// is responsible for being internally safe against concurrent
// Contains/Add (see pkg/bfilter.DiskFilter, which takes its own mutex).
func (m *Manager) Flush(name string) error {
	w, ok := takeFilter(m.latest.Load(), name)
	if !ok {
		return &filtmgrerrors.FilterNotFoundError{Name: name}
	}
	if err := w.filter.Flush(); err != nil {
		return filtmgrerrors.WrapInternal("Flush", err)
	}
	return nil
}

// FilterCallback is invoked by FilterCB with no manager lock held, so it
// must treat filter as read-only metadata and must not call
// Add/Contains/Flush/Close/Delete on it.
type FilterCallback func(name string, filter bfilter.Filter)

// FilterCB implements spec.md §4.3: resolves the wrapper and invokes cb
// with no lock held. Correctness depends on the caller having
// checkpointed — that keeps latest, and therefore this wrapper, alive for
// the duration of the callback.
func (m *Manager) FilterCB(name string, cb FilterCallback) error {
	w, ok := takeFilter(m.latest.Load(), name)
	if !ok {
		return &filtmgrerrors.FilterNotFoundError{Name: name}
	}
	cb(name, w.filter)
	return nil
}
