package fetch

import (
	"context"
	"fmt"
	"maps"

	"github.com/depforge/depforge/internal/manifest"
)

// All loads the manifest at path and fetches every entry in file order.
// It depends only on the filesystem and the network, so it can run with
// no surrounding build state (cache warming in CI). The returned map holds
// the <name>_SOURCE_DIR / <name>_VERSION bindings for every entry.
func (c *Cache) All(ctx context.Context, manifestPath string, vars map[string]string) (map[string]string, error) {
	m, err := manifest.Load(manifestPath, vars)
	if err != nil {
		return nil, err
	}
	return c.Entries(ctx, m.Entries)
}

// Entries fetches the given entries in order, stopping at the first failure.
func (c *Cache) Entries(ctx context.Context, entries []manifest.Entry) (map[string]string, error) {
	bindings := make(map[string]string, 2*len(entries))
	for _, e := range entries {
		var res Result
		var err error
		switch e.Kind {
		case manifest.PackageEntry:
			res, err = c.FetchPackage(ctx, e.Name, e.Version, ArchiveSource{URL: e.URL, Hash: e.Hash})
		case manifest.FileEntry:
			res, err = c.FetchFile(ctx, e.Name, e.Version, FileSource{URL: e.URL, Filename: e.Filename, Hash: e.Hash})
		default:
			err = fmt.Errorf("unknown entry kind %d", e.Kind)
		}
		if err != nil {
			return nil, err
		}
		maps.Copy(bindings, res.Bindings(e.Name))
	}
	return bindings, nil
}
