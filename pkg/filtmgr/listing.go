package filtmgr

// List implements spec.md §4.5: materializes the names of every active
// filter in latest.index, optionally scoped to a prefix. Order is
// unspecified, matching the name index's own iteration contract.
func (m *Manager) List(prefix []byte) []string {
	v := m.latest.Load()
	var names []string

	collect := func(key []byte, w *wrapper) bool {
		if w.isActive.Load() {
			names = append(names, string(key))
		}
		return true
	}

	if prefix == nil {
		v.index.Iterate(collect)
	} else {
		v.index.IteratePrefix(prefix, collect)
	}
	return names
}

// ListCold implements spec.md §4.5: a sampled demotion sweep. A wrapper
// currently marked hot is demoted to cold and skipped this round; a
// wrapper already cold is emitted unless its underlying filter is
// proxied. Two consecutive calls are required to classify a freshly
// quiet filter as cold (spec.md §8 property 7).
func (m *Manager) ListCold() []string {
	v := m.latest.Load()
	var names []string

	v.index.Iterate(func(key []byte, w *wrapper) bool {
		if !w.isActive.Load() {
			return true
		}
		if w.isHot.CompareAndSwap(true, false) {
			return true
		}
		if w.filter.IsProxied() {
			return true
		}
		names = append(names, string(key))
		return true
	})
	return names
}
