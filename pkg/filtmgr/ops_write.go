package filtmgr

import (
	"github.com/bloomd/filtmgr/pkg/bfilter"
	filtmgrerrors "github.com/bloomd/filtmgr/pkg/errors"
	"github.com/bloomd/filtmgr/pkg/filtmgrlog"
)

// Create implements spec.md §4.4. Under the write lock it rejects an
// existing name outright, then under the vacuum lock walks the chain
// looking for a pending delete under the same name (preventing a new
// filter from resurrecting an old incarnation's on-disk files under an
// ambiguous identity), then builds and installs exactly one new version.
func (m *Manager) Create(name string, customConfig *bfilter.Config) error {
	m.writeLock.Lock()
	defer m.writeLock.Unlock()

	cur := m.latest.Load()
	if _, found := cur.index.Search([]byte(name)); found {
		m.loadHooks().OnCreate(name, false)
		return &filtmgrerrors.FilterExistsError{Name: name}
	}

	m.vacuumLock.Lock()
	for v := cur.prev; v != nil; v = v.prev {
		if v.deleted != nil && v.deleted.name == name {
			m.vacuumLock.Unlock()
			filtmgrlog.Op().Warn("pending delete conflict on create", "filter", name)
			m.loadHooks().OnCreate(name, false)
			return &filtmgrerrors.PendingDeleteError{Name: name}
		}
	}
	m.vacuumLock.Unlock()

	config := m.config.DefaultFilterConfig
	if customConfig != nil {
		config = *customConfig
	}

	next := createNewVersion(cur)
	if _, err := addFilter(next, name, config, true, m.config.DefaultFilterConfig, m.config.DataDir); err != nil {
		filtmgrlog.Op().Error("add_filter failed during create", "filter", name, "error", err)
		m.loadHooks().OnCreate(name, false)
		return filtmgrerrors.WrapInternal("Create", err)
	}

	m.latest.Store(next)
	filtmgrlog.Op().Debug("version created", "vsn", next.vsn, "op", "create", "filter", name)
	m.loadHooks().OnCreate(name, true)
	return nil
}

// Drop implements spec.md §4.4: marks the wrapper inactive and
// should_delete, then installs a new version with the name removed from
// its index. Per spec.md §3's version invariants, the deleted slot is
// parked on cur (the predecessor), not on the newly installed version:
// cur is the version whose successor is the one that can no longer reach
// the wrapper, so cur is what the vacuum worker will eventually destroy
// alongside reclaiming the wrapper — parking deleted on next would pin
// the wrapper alive for as long as next happens to remain latest.
func (m *Manager) Drop(name string) error {
	m.writeLock.Lock()
	defer m.writeLock.Unlock()

	cur := m.latest.Load()
	w, ok := takeFilter(cur, name)
	if !ok {
		m.loadHooks().OnDrop(name, false)
		return &filtmgrerrors.FilterNotFoundError{Name: name}
	}

	w.isActive.Store(false)
	w.shouldDelete = true

	next := createNewVersion(cur)
	next.index.Delete([]byte(name))
	cur.deleted = w
	m.latest.Store(next)

	filtmgrlog.Op().Debug("version created", "vsn", next.vsn, "op", "drop", "filter", name)
	m.loadHooks().OnDrop(name, true)
	return nil
}

// Clear implements spec.md §4.4: like Drop, but only a proxied filter may
// be cleared, should_delete is false (reclamation closes, never deletes
// files), and the wrapper still ends up parked on cur's deleted slot for
// the same reason as Drop — its underlying filter is the one actually
// reset in place by a caller that wants to reuse it; the manager's
// contract is only about index/version bookkeeping.
func (m *Manager) Clear(name string) error {
	m.writeLock.Lock()
	defer m.writeLock.Unlock()

	cur := m.latest.Load()
	w, ok := takeFilter(cur, name)
	if !ok {
		m.loadHooks().OnClear(name, false)
		return &filtmgrerrors.FilterNotFoundError{Name: name}
	}
	if !w.filter.IsProxied() {
		m.loadHooks().OnClear(name, false)
		return &filtmgrerrors.NotProxiedError{Name: name}
	}

	w.isActive.Store(false)
	w.shouldDelete = false

	next := createNewVersion(cur)
	next.index.Delete([]byte(name))
	cur.deleted = w
	m.latest.Store(next)

	filtmgrlog.Op().Debug("version created", "vsn", next.vsn, "op", "clear", "filter", name)
	m.loadHooks().OnClear(name, true)
	return nil
}

// Unmap implements spec.md §4.4: if the filter's config says it is not
// kept in memory, releases the underlying filter's memory (keeping its
// on-disk files) without touching the index. Creates no new version.
func (m *Manager) Unmap(name string) error {
	cur := m.latest.Load()
	w, ok := takeFilter(cur, name)
	if !ok {
		return &filtmgrerrors.FilterNotFoundError{Name: name}
	}

	if w.custom != nil && w.custom.InMemory {
		return nil
	}
	if w.custom == nil && m.config.DefaultFilterConfig.InMemory {
		return nil
	}

	w.rwlock.Lock()
	defer w.rwlock.Unlock()
	if err := w.filter.Close(); err != nil {
		return filtmgrerrors.WrapInternal("Unmap", err)
	}
	return nil
}
