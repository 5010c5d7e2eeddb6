package filtmgr

import (
	"os"
	"strings"

	"github.com/bloomd/filtmgr/pkg/filtmgrlog"
)

// loaderPrefix mirrors bfilter's on-disk directory naming convention
// (bfilter.dirPrefix is unexported, so the loader keeps its own copy —
// both must name filters under "bloomd.<name>").
const loaderPrefix = "bloomd."

// minLoaderEntryLen is spec.md §4.7/§9 point 1's boundary. The original C
// (filter_bloomd_folders in original_source/src/bloomd/filter_manager.c)
// computes name_len via strlen, which never counts the terminator, and
// rejects anything under 8 — so it never admits a bare "bloomd." (7
// visible bytes) at all; that folder is simply skipped. spec.md's S5 text
// allows either reading as compliant, and this implementation takes the
// more permissive one deliberately: len(entryName) >= 7 admits "bloomd."
// with an empty filter name, matching S5's {"x", "y", ""} listing, rather
// than mirroring the original's stricter rejection.
const minLoaderEntryLen = 7

// runLoader implements spec.md §4.7: scans manager.config.DataDir for
// directory entries prefixed "bloomd." and installs a discovered wrapper
// for each into version 0. Individual failures are logged and skipped;
// the loader never fails init. Returns the count of filters installed.
func (m *Manager) runLoader() (int, error) {
	entries, err := os.ReadDir(m.config.DataDir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, err
	}

	v := m.latest.Load()
	n := 0
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		entryName := entry.Name()
		if len(entryName) < minLoaderEntryLen {
			continue
		}
		if !strings.HasPrefix(entryName, loaderPrefix) {
			continue
		}
		name := strings.TrimPrefix(entryName, loaderPrefix)

		if _, err := addFilter(v, name, m.config.DefaultFilterConfig, false, m.config.DefaultFilterConfig, m.config.DataDir); err != nil {
			filtmgrlog.Op().Error("loader failed to add filter", "filter", name, "error", err)
			continue
		}
		n++
	}
	return n, nil
}
