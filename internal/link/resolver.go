package link

import (
	"path/filepath"
	"strings"

	"github.com/depforge/depforge/internal/errs"
)

// Scope is the visibility of a link directive on the consumer.
type Scope string

const (
	Private   Scope = "PRIVATE"
	Public    Scope = "PUBLIC"
	Interface Scope = "INTERFACE"
)

// Consumer is the host build system's target handle, reduced to the
// directives this resolver may apply.
type Consumer interface {
	// LinkTarget links an ordinary in-tree target by name (pass-through).
	LinkTarget(scope Scope, name string)
	// LinkLibrary links a library file by path.
	LinkLibrary(scope Scope, path string)
	// AddOrderDependency orders the consumer after an external build step.
	AddOrderDependency(step BuildStep)
	AddIncludeDirs(scope Scope, dirs []string)
	AddCompileDefinitions(scope Scope, defs []string)
	// AddRuntimeSearchPath extends the consumer's runtime library search
	// path (RPATH or equivalent).
	AddRuntimeSearchPath(dir string)
}

// Resolver classifies dependencies as external or ordinary and applies
// the matching directives. All platform and configuration inputs are
// explicit fields, never ambient state.
type Resolver struct {
	Registry *Registry
	// BuildType is the active configuration name. Exactly "Debug" selects
	// the debug artifact variant; every other value, including empty,
	// falls through to release.
	BuildType string
	// WindowsLinking selects the import-library linking model.
	WindowsLinking bool
	// Ordinary reports whether a name is a valid in-tree target.
	Ordinary func(name string) bool
}

// LinkTargets applies each dependency to consumer. External dependencies
// get the full directive set; ordinary targets pass through unchanged.
// Mixed lists are handled in a single call.
func (r *Resolver) LinkTargets(consumer Consumer, scope Scope, deps []string) error {
	for _, dep := range deps {
		rec, ok := r.Registry.Lookup(dep)
		if !ok || !rec.External {
			if r.Ordinary != nil && r.Ordinary(dep) {
				consumer.LinkTarget(scope, dep)
				continue
			}
			return &errs.UnresolvedDependencyError{Target: dep}
		}
		r.linkExternal(consumer, scope, rec)
	}
	return nil
}

func (r *Resolver) linkExternal(consumer Consumer, scope Scope, rec Record) {
	if rec.Step != nil {
		consumer.AddOrderDependency(rec.Step)
	}

	lib, implib := rec.LibRelease, rec.ImplibRelease
	if r.BuildType == "Debug" {
		lib, implib = rec.LibDebug, rec.ImplibDebug
	}

	if r.WindowsLinking && implib != "" {
		// Two distinct files: link the import library, the recorded lib
		// path is the runtime-loaded DLL.
		consumer.LinkLibrary(scope, implib)
	} else if lib != "" {
		consumer.LinkLibrary(scope, lib)
		if !r.WindowsLinking && runtimeLoaded(lib) {
			consumer.AddRuntimeSearchPath(filepath.Dir(lib))
		}
	}

	if len(rec.IncludeDirs) > 0 {
		consumer.AddIncludeDirs(scope, rec.IncludeDirs)
	}
	if len(rec.CompileDefs) > 0 {
		consumer.AddCompileDefinitions(scope, rec.CompileDefs)
	}
}

// runtimeLoaded reports whether a Unix library path names a dynamically
// loaded artifact, including versioned shared objects like libfoo.so.1.2.
func runtimeLoaded(path string) bool {
	base := filepath.Base(path)
	if strings.HasSuffix(base, ".dylib") {
		return true
	}
	if strings.HasSuffix(base, ".so") || strings.Contains(base, ".so.") {
		return true
	}
	return false
}
