package filtmgr

import (
	"github.com/bloomd/filtmgr/pkg/bfilter"
	filtmgrerrors "github.com/bloomd/filtmgr/pkg/errors"
)

// addFilter is the §4.8 helper: allocates a wrapper, constructs the
// underlying filter (fresh=isHot: true means create on disk, false means
// discover an existing folder), and inserts it into v's index keyed by
// name. Never installs a new version as latest — callers do that. Returns
// the wrapper on success; on failure nothing is inserted.
func addFilter(v *version, name string, config bfilter.Config, isHot bool, defaultConfig bfilter.Config, dataDir string) (*wrapper, error) {
	f, err := bfilter.Init(config, dataDir, name, isHot)
	if err != nil {
		return nil, filtmgrerrors.WrapInternal("addFilter", err)
	}

	var custom *bfilter.Config
	if config != defaultConfig {
		c := config
		custom = &c
	}

	w := newWrapper(name, f, isHot, custom)
	v.index.Insert([]byte(name), w)
	return w, nil
}
