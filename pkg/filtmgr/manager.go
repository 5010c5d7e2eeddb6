package filtmgr

import (
	"fmt"
	"sync"
	"sync/atomic"

	filtmgrerrors "github.com/bloomd/filtmgr/pkg/errors"
	"github.com/bloomd/filtmgr/pkg/filtmgrlog"
)

// Manager is the filter manager: the single root holding the current
// version pointer, the write-serialization lock, the vacuum lock, the
// client registry, the background vacuum goroutine, and the global
// configuration. Grounded on the teacher's StorageEngine, which plays the
// analogous role for its table directory.
type Manager struct {
	config Config

	// Lock acquisition order (never acquire a higher index while holding
	// a lower one): writeLock, vacuumLock, per-wrapper rwlock,
	// clientsLock. See spec.md §5.
	writeLock  sync.Mutex
	vacuumLock sync.Mutex

	clientsLock spinLock
	clientsHead atomic.Pointer[clientRecord]

	latest atomic.Pointer[version]

	done     chan struct{}
	vacuumWG sync.WaitGroup

	hooks atomic.Pointer[Hooks]
}

// Init allocates the manager, creates version 0 with an empty index,
// invokes the Loader to populate it from the data directory, and spawns
// the vacuum goroutine. Loader failures on individual filters are logged
// and do not abort Init; only version-0 allocation or a failure to spawn
// the vacuum goroutine does, in which case the partially constructed
// manager is torn down before the error is returned.
func Init(config Config) (m *Manager, err error) {
	m = &Manager{config: config, done: make(chan struct{})}
	m.latest.Store(newEmptyVersion())

	defer func() {
		if r := recover(); r != nil {
			m.Destroy()
			m = nil
			err = filtmgrerrors.WrapInternal("filtmgr.Init", fmt.Errorf("panic during init: %v", r))
		}
	}()

	n, loadErr := m.runLoader()
	if loadErr != nil {
		filtmgrlog.Op().Error("loader scan failed", "error", loadErr)
	}
	filtmgrlog.Op().Info("found existing filters", "count", n)

	m.vacuumWG.Add(1)
	go m.vacuumLoop()

	return m, nil
}

// Destroy signals the vacuum goroutine to stop and joins it, closes every
// wrapper in latest.index (in memory only — should_delete is never
// honored here), then walks the version chain from latest backward,
// honoring should_delete for each version's deleted wrapper before
// freeing the version itself.
func (m *Manager) Destroy() {
	select {
	case <-m.done:
		// already closed
	default:
		close(m.done)
	}
	m.vacuumWG.Wait()

	latest := m.latest.Load()
	if latest != nil {
		latest.index.Iterate(func(_ []byte, w *wrapper) bool {
			w.shouldDelete = false
			if err := deleteFilter(w); err != nil {
				filtmgrlog.Op().Error("close failed during destroy", "filter", w.name, "error", err)
			}
			return true
		})
	}

	for v := latest; v != nil; v = v.prev {
		if v.deleted != nil {
			if err := deleteFilter(v.deleted); err != nil {
				filtmgrlog.Op().Error("delete_filter failed during destroy", "filter", v.deleted.name, "error", err)
			}
		}
	}

	m.clientsHead.Store(nil)
}

// takeFilter resolves name against v's index, returning the wrapper iff
// it is both present and active. Every read/write operation shares this
// prologue (spec.md §4.3).
func takeFilter(v *version, name string) (*wrapper, bool) {
	w, ok := v.index.Search([]byte(name))
	if !ok || !w.isActive.Load() {
		return nil, false
	}
	return w, true
}
