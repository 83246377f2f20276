// Package fetch materializes pinned third-party sources into an on-disk
// cache root. A package is fetched at most once: the existence of its
// canonical source path is the sole cache-hit signal, and no hash or URL
// revalidation happens once that path exists. In-flight downloads and
// extractions happen in a staging area and are promoted with a rename,
// so an interrupted fetch never leaves a partial tree at the canonical
// path.
package fetch

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/depforge/depforge/internal/errs"
	"github.com/depforge/depforge/internal/layout"
	"github.com/depforge/depforge/internal/manifest"
)

// ArchiveSource pins an archive by URL and algorithm-tagged content hash.
type ArchiveSource struct {
	URL  string
	Hash string // "<ALGO>=<hex>"
}

// FileSource pins a single file by URL, destination filename and hash.
type FileSource struct {
	URL      string
	Filename string
	Hash     string
}

// Result is the resolved binding of a fetched package.
type Result struct {
	SourceDir string
	Version   string
}

// Bindings returns the scope bindings a downstream build consumes.
func (r Result) Bindings(name string) map[string]string {
	return map[string]string{
		name + "_SOURCE_DIR": r.SourceDir,
		name + "_VERSION":    r.Version,
	}
}

// Cache is a fetch cache rooted at a single directory.
type Cache struct {
	root   string
	client *http.Client
}

// New creates a Cache over root.
func New(root string) *Cache {
	return &Cache{
		root: root,
		client: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// Root returns the cache root directory.
func (c *Cache) Root() string { return c.root }

// FetchPackage ensures the archive source for (name, version) is extracted
// at the canonical source directory. If that directory already exists the
// call returns immediately with no network access or hash check.
func (c *Cache) FetchPackage(ctx context.Context, name, version string, src ArchiveSource) (Result, error) {
	dir := layout.SourceDir(c.root, name, version)
	res := Result{SourceDir: dir, Version: version}

	if _, err := os.Stat(dir); err == nil {
		logrus.WithField("package", name).Debug("source cached, skipping fetch")
		return res, nil
	}

	h, err := manifest.ParseHash(src.Hash)
	if err != nil {
		return Result{}, &errs.ConfigError{Err: err}
	}

	staging := layout.StagingDir(c.root, name, version)
	if err := os.RemoveAll(staging); err != nil {
		return Result{}, err
	}
	if err := os.MkdirAll(staging, 0o755); err != nil {
		return Result{}, err
	}
	defer os.RemoveAll(staging)

	logrus.WithFields(logrus.Fields{"package": name, "url": src.URL}).Info("fetching")

	archivePath := filepath.Join(staging, "download"+archiveExt(src.URL))
	if err := c.download(ctx, name, src.URL, archivePath, h); err != nil {
		return Result{}, err
	}

	extractDir := filepath.Join(staging, "src")
	if err := extract(archivePath, extractDir); err != nil {
		return Result{}, &errs.FetchError{Package: name, URL: src.URL, Err: err}
	}

	// Promote atomically; only a fully extracted tree ever lands at dir.
	if err := os.Rename(stripSingleRoot(extractDir), dir); err != nil {
		return Result{}, err
	}
	return res, nil
}

// FetchFile ensures the single-file source for (name, version) exists at
// <sourceDir>/<filename>. The cache-hit test is the existence of that
// exact file, not the directory.
func (c *Cache) FetchFile(ctx context.Context, name, version string, src FileSource) (Result, error) {
	dir := layout.SourceDir(c.root, name, version)
	dest := filepath.Join(dir, src.Filename)
	res := Result{SourceDir: dir, Version: version}

	if _, err := os.Stat(dest); err == nil {
		logrus.WithField("package", name).Debug("file cached, skipping fetch")
		return res, nil
	}

	h, err := manifest.ParseHash(src.Hash)
	if err != nil {
		return Result{}, &errs.ConfigError{Err: err}
	}

	staging := layout.StagingDir(c.root, name, version)
	if err := os.MkdirAll(staging, 0o755); err != nil {
		return Result{}, err
	}
	defer os.RemoveAll(staging)

	logrus.WithFields(logrus.Fields{"package": name, "url": src.URL}).Info("fetching")

	tmp := filepath.Join(staging, src.Filename)
	if err := c.download(ctx, name, src.URL, tmp, h); err != nil {
		return Result{}, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Result{}, err
	}
	if err := os.Rename(tmp, dest); err != nil {
		return Result{}, err
	}
	return res, nil
}

// archiveExt returns the archive suffix of a URL path, keeping compound
// suffixes like ".tar.gz" intact.
func archiveExt(url string) string {
	base := filepath.Base(url)
	for _, suffix := range []string{
		".tar.gz", ".tgz", ".tar.xz", ".tar.zst", ".tar", ".zip",
	} {
		if len(base) > len(suffix) && base[len(base)-len(suffix):] == suffix {
			return suffix
		}
	}
	return filepath.Ext(base)
}
