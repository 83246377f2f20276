// Package autotools wraps the ./configure && make && make install workflow.
package autotools

import (
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"github.com/depforge/depforge/pkgs/buildsys"
)

// AutoTools drives autotools-based builds out of tree: configure is run
// from a separate build directory against the source tree's configure
// script. Configuration flows through the child environment only.
type AutoTools struct {
	sourceDir  string
	buildDir   string
	installDir string
	env        map[string]string
}

var _ buildsys.BuildSystem = (*AutoTools)(nil)

// New returns a ready-to-use AutoTools.
func New(sourceDir, buildDir, installDir string) *AutoTools {
	return &AutoTools{
		sourceDir:  sourceDir,
		buildDir:   buildDir,
		installDir: installDir,
		env:        make(map[string]string),
	}
}

// Source overrides the source directory.
func (a *AutoTools) Source(dir string) { a.sourceDir = dir }

// InstallDir overrides the install prefix.
func (a *AutoTools) InstallDir(dir string) { a.installDir = dir }

// Env sets an environment variable for the spawned build commands.
func (a *AutoTools) Env(key, value string) {
	a.env[key] = value
}

// Compilers sets CC and CXX for the spawned configure/make.
func (a *AutoTools) Compilers(cc, cxx string) {
	if cc != "" {
		a.env["CC"] = cc
	}
	if cxx != "" {
		a.env["CXX"] = cxx
	}
}

// Flags sets CFLAGS and CXXFLAGS for the spawned configure/make.
func (a *AutoTools) Flags(cflags, cxxflags string) {
	if cflags != "" {
		a.env["CFLAGS"] = cflags
	}
	if cxxflags != "" {
		a.env["CXXFLAGS"] = cxxflags
	}
}

// Use makes a dependency installed at root visible to this build through
// pkg-config and preprocessor/linker search flags.
func (a *AutoTools) Use(root string) {
	includeDir := filepath.Join(root, "include")
	libDir := filepath.Join(root, "lib")
	pkgconfigDir := filepath.Join(libDir, "pkgconfig")

	if _, err := os.Stat(pkgconfigDir); err == nil {
		a.prependPath("PKG_CONFIG_PATH", pkgconfigDir)
	}
	if _, err := os.Stat(includeDir); err == nil {
		a.appendFlag("CPPFLAGS", "-I"+includeDir)
	}
	if _, err := os.Stat(libDir); err == nil {
		a.appendFlag("LDFLAGS", "-L"+libDir)
	}
}

// Configure runs the source tree's configure script from the build
// directory with --prefix and any extra args.
func (a *AutoTools) Configure(args ...string) error {
	if err := os.MkdirAll(a.buildDir, 0o755); err != nil {
		return err
	}
	configArgs := []string{}
	if a.installDir != "" {
		configArgs = append(configArgs, "--prefix="+a.installDir)
	}
	configArgs = append(configArgs, args...)
	script := filepath.Join(a.sourceDir, "configure")
	return a.run(script, configArgs)
}

// Build runs make in the build directory.
func (a *AutoTools) Build(args ...string) error {
	return a.run("make", args)
}

// Install runs make install in the build directory.
func (a *AutoTools) Install(args ...string) error {
	return a.run("make", append([]string{"install"}, args...))
}

// OutputDir returns installDir if set, otherwise buildDir.
func (a *AutoTools) OutputDir() string {
	if a.installDir != "" {
		return a.installDir
	}
	return a.buildDir
}

func (a *AutoTools) run(name string, args []string) error {
	cmd := exec.Command(name, args...)
	cmd.Dir = a.buildDir
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if len(a.env) > 0 {
		cmd.Env = mergeEnv(os.Environ(), a.env)
	}
	return cmd.Run()
}

func (a *AutoTools) prependPath(key, value string) {
	if cur, ok := a.env[key]; ok && cur != "" {
		value += ":" + cur
	}
	a.env[key] = value
}

func (a *AutoTools) appendFlag(key, flag string) {
	if cur, ok := a.env[key]; ok && cur != "" {
		flag = cur + " " + flag
	}
	a.env[key] = flag
}

func mergeEnv(base []string, override map[string]string) []string {
	envMap := make(map[string]string, len(base))
	for _, kv := range base {
		if k, v, ok := strings.Cut(kv, "="); ok {
			envMap[k] = v
		}
	}
	for k, v := range override {
		envMap[k] = v
	}
	keys := make([]string, 0, len(envMap))
	for k := range envMap {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, k+"="+envMap[k])
	}
	return out
}
