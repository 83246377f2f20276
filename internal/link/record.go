// Package link resolves dependency target names against externally built
// packages and applies the per-platform, per-configuration linking
// directives a consumer needs.
package link

import "sync"

// BuildStep is an opaque handle to the build-graph step that produces an
// external artifact. Consumers order themselves after it.
type BuildStep interface {
	ID() string
}

// Record holds everything known about one externally built artifact
// target. Records are written by the external build driver (or directly
// by the caller for hand-integrated packages) and read here.
type Record struct {
	External bool
	Step     BuildStep

	LibDebug   string
	LibRelease string

	// Windows shared libraries only: the import library linked at build
	// time, distinct from the runtime DLL recorded in Lib*.
	ImplibDebug   string
	ImplibRelease string

	IncludeDirs []string
	CompileDefs []string
}

// Registry is the explicit mapping from artifact target name to Record.
type Registry struct {
	mu      sync.Mutex
	records map[string]Record
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{records: make(map[string]Record)}
}

// Register stores the record for target, overwriting any previous one.
func (r *Registry) Register(target string, rec Record) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records[target] = rec
}

// Lookup returns the record for target, if one was registered.
func (r *Registry) Lookup(target string) (Record, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[target]
	return rec, ok
}
