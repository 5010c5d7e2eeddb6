// Package filtmgr is the filter manager: the concurrency discipline, the
// multi-version registry, the vacuum protocol, and the lifecycle rules
// that link name to wrapper to underlying filter. This is the core the
// rest of the module exists to exercise.
package filtmgr

import (
	"sync"
	"sync/atomic"

	"github.com/bloomd/filtmgr/pkg/bfilter"
)

// wrapper binds one underlying filter with its reader/writer lock and
// lifecycle flags. Mutated either through rwlock (filter traffic) or under
// the manager's write lock (isActive/shouldDelete), never both at once.
type wrapper struct {
	name string

	// isActive is observed without rwlock; only ever flipped under the
	// manager's write lock, and published atomically so a concurrent
	// reader resolving this wrapper from latest.index never sees a torn
	// value.
	isActive atomic.Bool

	// isHot is set on any successful traffic and cleared only by the
	// cold-listing sweep. A lost update merely delays cold classification
	// by one cycle, so a plain atomic (no CAS retry) is sufficient.
	isHot atomic.Bool

	// shouldDelete says whether delete_filter must remove on-disk files
	// when this wrapper is finally reclaimed. Only ever read/written
	// under the manager's write lock, from the vacuum path, or by Destroy
	// at shutdown; the vacuum path by construction never overlaps a
	// write-lock holder for the same wrapper (a wrapper is parked as
	// `deleted` before vacuum can see it).
	shouldDelete bool

	// rwlock guards add/contains/close/delete calls against filter; flush
	// is called without it (see Manager.Flush).
	rwlock sync.RWMutex
	filter bfilter.Filter

	// custom is non-nil only if this wrapper was created with a config
	// distinct from the manager's default.
	custom *bfilter.Config
}

func newWrapper(name string, filter bfilter.Filter, isHot bool, custom *bfilter.Config) *wrapper {
	w := &wrapper{name: name, filter: filter, custom: custom}
	w.isActive.Store(true)
	w.isHot.Store(isHot)
	return w
}

// deleteFilter honors shouldDelete: removes on-disk files iff true,
// otherwise closes in memory only; either way the underlying filter
// object is then destroyed and the wrapper itself becomes garbage.
// Grounded on the teacher's StorageEngine.Vacuum, which similarly tears
// down superseded heap files once no transaction can still see them.
func deleteFilter(w *wrapper) error {
	w.rwlock.Lock()
	defer w.rwlock.Unlock()

	if w.shouldDelete {
		if err := w.filter.Delete(); err != nil {
			return err
		}
	} else {
		if err := w.filter.Close(); err != nil {
			return err
		}
	}
	return w.filter.Destroy()
}
