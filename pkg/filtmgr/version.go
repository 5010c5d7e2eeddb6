package filtmgr

import "github.com/bloomd/filtmgr/pkg/nameindex"

// version is an immutable snapshot of the name index plus the monotonic
// counter and the at-most-one wrapper that its successor removed from the
// index (parked here by Drop/Clear until this version is reclaimed).
// Grounded on the teacher's StorageEngine/Transaction SnapshotLSN pattern,
// generalized from a per-transaction read snapshot into a per-destructive-
// operation directory snapshot.
type version struct {
	vsn     uint64
	index   *nameindex.Tree[*wrapper]
	deleted *wrapper
	prev    *version
}

func newEmptyVersion() *version {
	return &version{vsn: 0, index: nameindex.New[*wrapper]()}
}

// createNewVersion produces the next version by structurally copying
// prev's index: new index nodes, the same wrapper pointers. The caller
// installs it as latest with a single pointer store; this function never
// does that itself.
func createNewVersion(prev *version) *version {
	return &version{
		vsn:   prev.vsn + 1,
		index: prev.index.Clone(),
		prev:  prev,
	}
}
