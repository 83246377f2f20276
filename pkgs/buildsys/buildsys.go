// Package buildsys defines the common surface of the configure/build/install
// wrappers the external build driver delegates to.
package buildsys

// BuildSystem captures shared capabilities of build helpers (CMake,
// Autotools). It keeps the common lifecycle and dependency/env setup;
// implementations add their own extras.
type BuildSystem interface {
	// Use makes a previously installed dependency rooted at installRoot
	// visible to this build (search paths, pkg-config).
	Use(installRoot string)

	// Basic paths.
	Source(dir string)
	InstallDir(dir string)

	// Env sets an environment variable for the spawned build commands.
	Env(key, val string)

	// Lifecycle.
	Configure(args ...string) error
	Build(args ...string) error
	Install(args ...string) error

	// Where artifacts land.
	OutputDir() string
}
