package filtmgr

import (
	"time"

	"github.com/bloomd/filtmgr/pkg/filtmgrlog"
)

// vacuumLoop implements spec.md §4.6: ticks roughly once a second, computes
// the minimum version any checkpointed client (or latest itself) still
// references, warns on excessive backlog, then reclaims everything
// strictly older under the vacuum lock.
func (m *Manager) vacuumLoop() {
	defer m.vacuumWG.Done()

	interval := m.config.VacuumInterval
	if interval <= 0 {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-m.done:
			return
		case <-ticker.C:
			m.runVacuumCycle()
		}
	}
}

// runVacuumCycle performs exactly one cycle of §4.6's algorithm, honoring
// client checkpoints. Vacuum is a separate forced pass that does not call
// it and ignores client checkpoints.
func (m *Manager) runVacuumCycle() {
	latest := m.latest.Load()
	if latest.prev == nil {
		return
	}

	minVsn := latest.vsn
	if clientMin := m.minClientVsn(); clientMin < minVsn {
		minVsn = clientMin
	}

	if latest.vsn-minVsn > m.config.WarnThreshold {
		filtmgrlog.Op().Warn("many concurrent versions", "backlog", latest.vsn-minVsn, "threshold", m.config.WarnThreshold)
	}

	m.vacuumLock.Lock()
	reclaimed := 0
	newPrev, destroyed := m.cleanOldVersions(latest.prev, minVsn, &reclaimed)
	if destroyed {
		latest.prev = nil
	} else {
		latest.prev = newPrev
	}
	m.vacuumLock.Unlock()

	m.loadHooks().OnVacuumCycle(reclaimed, latest.vsn-minVsn)
}

// Vacuum is the forced entry point spec.md §4.6 reserves for test
// environments: it supplies latest.vsn as the threshold, so every version
// strictly older than latest is reclaimed (latest itself always survives
// since minVsn <= latest.vsn never satisfies latest.vsn < minVsn) — see
// DESIGN.md's resolution of §9 open question 2.
func (m *Manager) Vacuum() {
	latest := m.latest.Load()
	if latest.prev == nil {
		return
	}

	m.vacuumLock.Lock()
	defer m.vacuumLock.Unlock()

	reclaimed := 0
	_, destroyed := m.cleanOldVersions(latest.prev, latest.vsn, &reclaimed)
	if destroyed {
		latest.prev = nil
	}
	m.loadHooks().OnVacuumCycle(reclaimed, 0)
}

// cleanOldVersions implements clean_old_versions recursively, leaf-first:
// it recurses into v.prev first so the oldest reclaimable version is freed
// before its successor, matching spec.md §4.6. Returns the (possibly
// unchanged) version pointer the caller should keep linking to, and
// whether v itself was destroyed.
func (m *Manager) cleanOldVersions(v *version, minVsn uint64, reclaimed *int) (*version, bool) {
	if v == nil {
		return nil, false
	}

	if v.prev != nil {
		newPrev, prevDestroyed := m.cleanOldVersions(v.prev, minVsn, reclaimed)
		if prevDestroyed {
			v.prev = nil
		} else {
			v.prev = newPrev
		}
	}

	if v.vsn >= minVsn {
		return v, false
	}

	if v.deleted != nil {
		if err := deleteFilter(v.deleted); err != nil {
			filtmgrlog.Op().Error("delete_filter failed during vacuum", "filter", v.deleted.name, "error", err)
		}
		v.deleted = nil
		*reclaimed++
	}
	v.index = nil
	return nil, true
}
