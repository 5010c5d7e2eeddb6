package filtmgr

// Hooks lets an observer (pkg/filtmetrics in this module) react to
// manager events without filtmgr importing a metrics library itself. The
// manager holds at most one Hooks implementation and calls it
// synchronously: OnCreate/OnDrop/OnClear run while the write lock is held,
// OnBatch while the wrapper's rw-lock is held, and OnVacuumCycle under the
// vacuum lock when called from Vacuum; only the background cycle's
// OnVacuumCycle runs with no manager lock held. An observer that blocks
// therefore blocks the manager.
type Hooks interface {
	OnCreate(name string, ok bool)
	OnDrop(name string, ok bool)
	OnClear(name string, ok bool)
	OnBatch(op string, n int)
	OnVacuumCycle(reclaimed int, chainDepth uint64)
}

// noopHooks is installed by default so call sites never need a nil check.
type noopHooks struct{}

func (noopHooks) OnCreate(string, bool)     {}
func (noopHooks) OnDrop(string, bool)       {}
func (noopHooks) OnClear(string, bool)      {}
func (noopHooks) OnBatch(string, int)       {}
func (noopHooks) OnVacuumCycle(int, uint64) {}

// SetHooks installs an observer. Intended to be called once, right after
// Init, before concurrent traffic begins.
func (m *Manager) SetHooks(h Hooks) {
	if h == nil {
		h = noopHooks{}
	}
	m.hooks.Store(&h)
}

func (m *Manager) loadHooks() Hooks {
	if p := m.hooks.Load(); p != nil {
		return *p
	}
	return noopHooks{}
}
