// Package extbuild drives isolated configure/build/install cycles for
// packages that carry their own build system, and records the produced
// artifact locations so the link resolver can consume them.
package extbuild

import (
	"fmt"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/depforge/depforge/internal/errs"
	"github.com/depforge/depforge/internal/layout"
	"github.com/depforge/depforge/internal/link"
	"github.com/depforge/depforge/pkgs/buildsys"
	"github.com/depforge/depforge/pkgs/buildsys/autotools"
	"github.com/depforge/depforge/pkgs/buildsys/cmake"
)

// Request describes one external build to register.
type Request struct {
	Name      string
	Version   string
	SourceDir string

	// ExtraArgs are appended after the propagated configuration so the
	// caller can override any propagated argument.
	ExtraArgs []string

	// ArtifactTargets are the names under which the build's artifacts are
	// registered for link resolution.
	ArtifactTargets []string

	// System selects the build system wrapper: "cmake" (default) or
	// "autotools".
	System string

	// Shared marks the artifacts as shared libraries, which changes their
	// conventional locations and, on Windows, splits them into an import
	// library and a runtime DLL.
	Shared bool
}

// Step is one registered configure+build+install cycle. It executes in
// its own process, strictly ordered before any consumer.
type Step struct {
	name       string
	version    string
	sys        buildsys.BuildSystem
	extraArgs  []string
	installDir string
	refresh    func()
}

var _ link.BuildStep = (*Step)(nil)

// ID identifies the step within the build graph.
func (s *Step) ID() string { return s.name + "@" + s.version }

// InstallDir returns the install prefix the step targets.
func (s *Step) InstallDir() string { return s.installDir }

// Run executes configure, build and install in order. Any stage failure
// is fatal; no retry happens at this layer.
func (s *Step) Run() error {
	log := logrus.WithField("package", s.ID())

	log.Info("configuring external build")
	if err := s.sys.Configure(s.extraArgs...); err != nil {
		return &errs.ExternalBuildError{Package: s.ID(), Stage: "configure", Err: err}
	}
	log.Info("building")
	if err := s.sys.Build(); err != nil {
		return &errs.ExternalBuildError{Package: s.ID(), Stage: "build", Err: err}
	}
	log.Info("installing")
	if err := s.sys.Install(); err != nil {
		return &errs.ExternalBuildError{Package: s.ID(), Stage: "install", Err: err}
	}
	// The install prefix is now populated; re-read the exported interface.
	if s.refresh != nil {
		s.refresh()
	}
	return nil
}

// Options configures a Driver.
type Options struct {
	// Root is the build root install directories are derived from.
	Root     string
	Settings Settings
	// Registry receives the artifact records. Required.
	Registry *link.Registry
	// WindowsLinking selects Windows artifact naming. Defaults to the
	// current platform.
	WindowsLinking *bool
	// NewSystem overrides build system construction (tests).
	NewSystem func(system, sourceDir, buildDir, installDir string, settings Settings, shared bool) buildsys.BuildSystem
}

// Driver registers external build steps and their artifact records.
type Driver struct {
	root      string
	settings  Settings
	registry  *link.Registry
	windows   bool
	newSystem func(system, sourceDir, buildDir, installDir string, settings Settings, shared bool) buildsys.BuildSystem

	mu    sync.Mutex
	steps map[string]*Step // keyed by name@version; re-registration overwrites
}

// NewDriver creates a Driver over the given build root.
func NewDriver(opts Options) *Driver {
	windows := runtime.GOOS == "windows"
	if opts.WindowsLinking != nil {
		windows = *opts.WindowsLinking
	}
	newSystem := opts.NewSystem
	if newSystem == nil {
		newSystem = defaultNewSystem
	}
	return &Driver{
		root:      opts.Root,
		settings:  opts.Settings,
		registry:  opts.Registry,
		windows:   windows,
		newSystem: newSystem,
		steps:     make(map[string]*Step),
	}
}

// BuildExternal registers the isolated configure/build/install step for a
// package and an artifact record for each requested target. Re-invoking
// with the same (name, version) redefines the step and overwrites the
// records; the host build graph's own deduplication prevents duplicate
// step execution within one run.
//
// Exported include dirs and definitions are read from each artifact's
// installed pkg-config file. Before the step has installed anything the
// records carry the conventional <install>/include fallback; a successful
// Run re-reads the exports and overwrites the records.
func (d *Driver) BuildExternal(req Request) (*Step, error) {
	if len(req.ArtifactTargets) == 0 {
		return nil, fmt.Errorf("external build %s@%s: no artifact targets", req.Name, req.Version)
	}
	system := req.System
	if system == "" {
		system = "cmake"
	}
	if system != "cmake" && system != "autotools" {
		return nil, fmt.Errorf("external build %s@%s: unknown build system %q", req.Name, req.Version, system)
	}

	installDir := layout.InstallDir(d.root, req.Name, req.Version)
	buildDir := filepath.Join(d.root, ".build", req.Name+"-"+req.Version)

	sys := d.newSystem(system, req.SourceDir, buildDir, installDir, d.settings, req.Shared)

	step := &Step{
		name:       req.Name,
		version:    req.Version,
		sys:        sys,
		extraArgs:  req.ExtraArgs,
		installDir: installDir,
	}

	step.refresh = func() { d.registerArtifacts(step, req.ArtifactTargets, req.Shared) }

	d.mu.Lock()
	d.steps[step.ID()] = step
	d.mu.Unlock()

	d.registerArtifacts(step, req.ArtifactTargets, req.Shared)
	return step, nil
}

// registerArtifacts writes one record per artifact target, reading each
// target's own exported interface from the install prefix.
func (d *Driver) registerArtifacts(step *Step, targets []string, shared bool) {
	for _, target := range targets {
		includeDirs, defs := readExports(step.installDir, target)
		libD, implibD := artifactPaths(step.installDir, target, shared, d.windows, true)
		libR, implibR := artifactPaths(step.installDir, target, shared, d.windows, false)
		d.registry.Register(target, link.Record{
			External:      true,
			Step:          step,
			LibDebug:      libD,
			LibRelease:    libR,
			ImplibDebug:   implibD,
			ImplibRelease: implibR,
			IncludeDirs:   includeDirs,
			CompileDefs:   defs,
		})
	}
}

// Step returns the registered step for (name, version), if any.
func (d *Driver) Step(name, version string) (*Step, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	s, ok := d.steps[name+"@"+version]
	return s, ok
}

// defaultNewSystem builds the real cmake/autotools wrappers with the
// settings propagated. Sanitizer flags ride on the compiler flags
// byte-for-byte.
func defaultNewSystem(system, sourceDir, buildDir, installDir string, s Settings, shared bool) buildsys.BuildSystem {
	switch system {
	case "autotools":
		a := autotools.New(sourceDir, buildDir, installDir)
		cc, cxx := s.CCompiler, s.CXXCompiler
		if s.CacheLauncher != "" {
			if cc != "" {
				cc = s.CacheLauncher + " " + cc
			}
			if cxx != "" {
				cxx = s.CacheLauncher + " " + cxx
			}
		}
		a.Compilers(cc, cxx)
		cflags, cxxflags := s.EffectiveCFlags(), s.EffectiveCXXFlags()
		if s.PositionIndependentCode {
			cflags = joinFlags(cflags, "-fPIC")
			cxxflags = joinFlags(cxxflags, "-fPIC")
		}
		a.Flags(cflags, cxxflags)
		return a
	default:
		c := cmake.New(sourceDir, buildDir, installDir)
		c.BuildType(s.BuildType)
		c.Compilers(s.CCompiler, s.CXXCompiler)
		c.Flags(s.EffectiveCFlags(), s.EffectiveCXXFlags())
		c.Launcher(s.CacheLauncher)
		c.PositionIndependent(s.PositionIndependentCode)
		if s.Generator != "" {
			c.Generator(s.Generator)
		}
		c.DefineBool("BUILD_SHARED_LIBS", shared)
		return c
	}
}

// artifactPaths returns the conventional library and import-library
// locations for an artifact under the install prefix. Debug variants take
// a "d" suffix. The import library exists only for Windows shared
// libraries; elsewhere there is a single linkable artifact.
func artifactPaths(installDir, artifact string, shared, windows, debug bool) (lib, implib string) {
	suffix := ""
	if debug {
		suffix = "d"
	}
	if windows {
		if shared {
			lib = filepath.Join(installDir, "bin", artifact+suffix+".dll")
			implib = filepath.Join(installDir, "lib", artifact+suffix+".lib")
			return
		}
		lib = filepath.Join(installDir, "lib", artifact+suffix+".lib")
		return
	}
	ext := ".a"
	if shared {
		ext = ".so"
	}
	lib = filepath.Join(installDir, "lib", "lib"+artifact+suffix+ext)
	return
}
