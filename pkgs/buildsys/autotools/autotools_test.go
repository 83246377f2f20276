package autotools

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func TestCompilersAndFlags(t *testing.T) {
	a := New("/src", "/build", "/install")
	a.Compilers("ccache clang", "ccache clang++")
	a.Flags("-O2 -fPIC", "-O2 -std=c++17 -fPIC")

	want := map[string]string{
		"CC":       "ccache clang",
		"CXX":      "ccache clang++",
		"CFLAGS":   "-O2 -fPIC",
		"CXXFLAGS": "-O2 -std=c++17 -fPIC",
	}
	for k, v := range want {
		if got := a.env[k]; got != v {
			t.Errorf("env[%s] = %q, want %q", k, got, v)
		}
	}
}

func TestEmptyCompilersSkipped(t *testing.T) {
	a := New("/src", "/build", "/install")
	a.Compilers("", "")
	a.Flags("", "")
	if len(a.env) != 0 {
		t.Errorf("env = %v, want empty", a.env)
	}
}

func TestUse(t *testing.T) {
	root := t.TempDir()
	for _, dir := range []string{"include", "lib/pkgconfig"} {
		if err := os.MkdirAll(filepath.Join(root, filepath.FromSlash(dir)), 0o755); err != nil {
			t.Fatal(err)
		}
	}

	a := New("/src", "/build", "/install")
	a.Use(root)

	if got, want := a.env["PKG_CONFIG_PATH"], filepath.Join(root, "lib", "pkgconfig"); got != want {
		t.Errorf("PKG_CONFIG_PATH = %q, want %q", got, want)
	}
	if got, want := a.env["CPPFLAGS"], "-I"+filepath.Join(root, "include"); got != want {
		t.Errorf("CPPFLAGS = %q, want %q", got, want)
	}
	if got, want := a.env["LDFLAGS"], "-L"+filepath.Join(root, "lib"); got != want {
		t.Errorf("LDFLAGS = %q, want %q", got, want)
	}

	// A second dependency appends to the flag vars.
	other := t.TempDir()
	if err := os.MkdirAll(filepath.Join(other, "include"), 0o755); err != nil {
		t.Fatal(err)
	}
	a.Use(other)
	cpp := a.env["CPPFLAGS"]
	if !strings.Contains(cpp, root) || !strings.HasSuffix(cpp, "-I"+filepath.Join(other, "include")) {
		t.Errorf("CPPFLAGS after second Use = %q", cpp)
	}
}

func TestConfigureRunsScriptOutOfTree(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell script stub")
	}

	sourceDir := t.TempDir()
	buildDir := filepath.Join(t.TempDir(), "build")
	argsFile := filepath.Join(t.TempDir(), "args")
	envFile := filepath.Join(t.TempDir(), "env")

	script := "#!/bin/sh\n" +
		"printf '%s\\n' \"$@\" > " + argsFile + "\n" +
		"printf '%s\\n' \"$CC\" \"$CFLAGS\" \"$PWD\" > " + envFile + "\n"
	if err := os.WriteFile(filepath.Join(sourceDir, "configure"), []byte(script), 0o755); err != nil {
		t.Fatal(err)
	}

	a := New(sourceDir, buildDir, "/opt/pkg")
	a.Compilers("clang", "")
	a.Flags("-O2", "")
	if err := a.Configure("--disable-shared"); err != nil {
		t.Fatalf("Configure: %v", err)
	}

	args, err := os.ReadFile(argsFile)
	if err != nil {
		t.Fatalf("read args: %v", err)
	}
	got := strings.Split(strings.TrimSpace(string(args)), "\n")
	want := []string{"--prefix=/opt/pkg", "--disable-shared"}
	if len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("configure args = %q, want %q", got, want)
	}

	envOut, err := os.ReadFile(envFile)
	if err != nil {
		t.Fatalf("read env: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(envOut)), "\n")
	if len(lines) != 3 || lines[0] != "clang" || lines[1] != "-O2" {
		t.Errorf("configure env = %q", lines)
	}
	// Ran from the build dir, not the source tree.
	if resolved, err := filepath.EvalSymlinks(buildDir); err != nil || lines[2] != resolved {
		t.Errorf("configure cwd = %q, want %q", lines[2], buildDir)
	}
}

func TestOutputDir(t *testing.T) {
	if got := New("/src", "/build", "/install").OutputDir(); got != "/install" {
		t.Errorf("OutputDir = %q, want /install", got)
	}
	if got := New("/src", "/build", "").OutputDir(); got != "/build" {
		t.Errorf("OutputDir = %q, want /build", got)
	}
}
