package filtmgr

import (
	"runtime"
	"sync/atomic"

	"github.com/google/uuid"
)

// spinLock is the short-critical-section lock spec.md §5 calls for
// guarding the client list: a test-and-test-and-set spin, appropriate
// because every critical section under it is a pointer splice, never I/O.
type spinLock struct {
	held atomic.Bool
}

func (s *spinLock) Lock() {
	for {
		if !s.held.Load() && s.held.CompareAndSwap(false, true) {
			return
		}
		runtime.Gosched()
	}
}

func (s *spinLock) Unlock() {
	s.held.Store(false)
}

// clientRecord is one participating client's identity and last observed
// version, linked into the manager's flat client list. next is an
// atomic.Pointer (not a plain pointer) so the vacuum worker's lock-free
// traversal (spec.md §9 point 3) is race-free under the Go memory model,
// not merely "safe on platforms with atomic pointer writes."
type clientRecord struct {
	id   string
	vsn  atomic.Uint64
	next atomic.Pointer[clientRecord]
}

// NewClientID mints an opaque client identity token. Go doesn't expose
// goroutine IDs, so — as the teacher's GenerateKey mints primary keys —
// callers manage their own identity across a unit of work.
func NewClientID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// Checkpoint publishes "clientID is currently using version latest.vsn".
// Scans the client list (O(n), n expected small) without the spin lock —
// both the traversal and the matched record's update are plain atomic
// operations, so the scan is lock-free per spec.md §4.2/§5 point 4
// ("held only across pointer splices, never across I/O" — and never
// across an O(n) scan either). Only allocating and linking a brand-new
// record takes clientsLock, and only for the splice itself; the list is
// re-scanned once under the lock first, since a concurrent Checkpoint for
// the same clientID could have raced in and linked a record between the
// unlocked scan and acquiring the lock.
// The initial read of latest.vsn happens outside the spin lock too: any
// older-but-valid version observed is still a safe lower bound, since
// vacuum only reclaims versions strictly below the computed minimum.
func (m *Manager) Checkpoint(clientID string) {
	vsn := m.latest.Load().vsn

	for c := m.clientsHead.Load(); c != nil; c = c.next.Load() {
		if c.id == clientID {
			c.vsn.Store(vsn)
			return
		}
	}

	rec := &clientRecord{id: clientID}
	rec.vsn.Store(vsn)

	m.clientsLock.Lock()
	defer m.clientsLock.Unlock()
	for c := m.clientsHead.Load(); c != nil; c = c.next.Load() {
		if c.id == clientID {
			c.vsn.Store(vsn)
			return
		}
	}
	rec.next.Store(m.clientsHead.Load())
	m.clientsHead.Store(rec)
}

// Leave unlinks and frees the record for clientID, if any. Safe to call
// for a client that never checkpointed.
func (m *Manager) Leave(clientID string) {
	m.clientsLock.Lock()
	defer m.clientsLock.Unlock()

	var prev *clientRecord
	for c := m.clientsHead.Load(); c != nil; c = c.next.Load() {
		if c.id == clientID {
			next := c.next.Load()
			if prev == nil {
				m.clientsHead.Store(next)
			} else {
				prev.next.Store(next)
			}
			return
		}
		prev = c
	}
}

// minClientVsn returns the minimum vsn among all checkpointed clients, or
// the all-ones sentinel if there are none (meaning: no lower bound from
// clients, so min_vsn collapses to latest.vsn). Read without the spin lock
// by the vacuum worker (spec.md §9 point 3): both the list traversal
// (atomic.Pointer) and each record's vsn (atomic.Uint64) use explicit
// atomics, so no torn read is possible even without the lock — a portable
// substitute for relying on platform pointer-write atomicity.
func (m *Manager) minClientVsn() uint64 {
	const noClients = ^uint64(0)
	min := noClients
	for c := m.clientsHead.Load(); c != nil; c = c.next.Load() {
		v := c.vsn.Load()
		if v < min {
			min = v
		}
	}
	return min
}
