// Package layout computes the on-disk layout of a dependency cache root.
// All functions are pure: the same inputs always produce the same path,
// across calls and across process restarts.
//
// Cache root layout:
//
//	root/
//	  <name>-<version>/          # extracted or downloaded source (SourceDir)
//	  <name>_<version>_install/  # external build install prefix (InstallDir)
//	  .staging/                  # scratch area for in-flight fetches
package layout

import "path/filepath"

// SourceDir returns the canonical source directory for a package.
// Its existence is the sole cache-hit signal for the fetch layer.
func SourceDir(root, name, version string) string {
	return filepath.Join(root, name+"-"+version)
}

// InstallDir returns the install prefix an external build of the package
// targets. Name and version must be path-safe; no sanitizing is performed
// and malformed input yields a malformed path.
func InstallDir(root, name, version string) string {
	return filepath.Join(root, name+"_"+version+"_install")
}

// StagingDir returns the scratch directory used while materializing a
// package, kept apart from SourceDir so an interrupted fetch never leaves
// a partial tree at the canonical path.
func StagingDir(root, name, version string) string {
	return filepath.Join(root, ".staging", name+"-"+version)
}
