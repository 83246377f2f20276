// Package errs defines the error taxonomy shared by the fetch, build and
// link layers. Every error here is fatal to the current run: callers abort,
// they never retry or downgrade.
package errs

import "fmt"

// ConfigError reports a malformed manifest or configuration input. It is
// raised before any network or filesystem mutation takes place.
type ConfigError struct {
	Path string // manifest or config file path, if known
	Err  error
}

func (e *ConfigError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("config %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("config: %v", e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// FetchError reports a network or transport failure while downloading a
// package source. The package remains unresolved.
type FetchError struct {
	Package string
	URL     string
	Err     error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s from %s: %v", e.Package, e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// IntegrityError reports a digest mismatch on downloaded bytes. The partial
// download is discarded and never promoted to the canonical cache path.
type IntegrityError struct {
	Package string
	URL     string
	Algo    string
	Want    string // declared hex digest
	Got     string // computed hex digest
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("integrity check failed for %s (%s): %s mismatch: want %s, got %s",
		e.Package, e.URL, e.Algo, e.Want, e.Got)
}

// ExternalBuildError reports a failed configure, build or install stage of
// an external package build. It propagates as a fatal build failure.
type ExternalBuildError struct {
	Package string
	Stage   string // "configure", "build" or "install"
	Err     error
}

func (e *ExternalBuildError) Error() string {
	return fmt.Sprintf("external build of %s failed at %s: %v", e.Package, e.Stage, e.Err)
}

func (e *ExternalBuildError) Unwrap() error { return e.Err }

// UnresolvedDependencyError reports a dependency name that is neither an
// external build record nor a known ordinary target.
type UnresolvedDependencyError struct {
	Target string
}

func (e *UnresolvedDependencyError) Error() string {
	return fmt.Sprintf("unresolved dependency: %q is neither an external package nor a known target", e.Target)
}
