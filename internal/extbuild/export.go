package extbuild

import (
	"os"
	"path/filepath"
	"strings"
)

// readExports reads the include directories and compile definitions a
// package exports. The pkg-config file under the install prefix is the
// authoritative source when present (a previous build installed it);
// otherwise the conventional <install>/include directory is recorded and
// the definition set stays empty.
func readExports(installDir, artifact string) (includeDirs, defs []string) {
	pc := filepath.Join(installDir, "lib", "pkgconfig", artifact+".pc")
	if inc, d, ok := parsePkgConfig(pc); ok {
		return inc, d
	}
	return []string{filepath.Join(installDir, "include")}, nil
}

// parsePkgConfig extracts -I and -D entries from the Cflags line of a
// pkg-config file, resolving simple ${var} references against the file's
// own variable definitions.
func parsePkgConfig(path string) (includeDirs, defs []string, ok bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, false
	}

	vars := make(map[string]string)
	var cflags string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if name, value, found := strings.Cut(line, "="); found && !strings.Contains(name, ":") {
			vars[strings.TrimSpace(name)] = expandPC(strings.TrimSpace(value), vars)
			continue
		}
		if name, value, found := strings.Cut(line, ":"); found && strings.TrimSpace(name) == "Cflags" {
			cflags = expandPC(strings.TrimSpace(value), vars)
		}
	}

	for _, tok := range strings.Fields(cflags) {
		switch {
		case strings.HasPrefix(tok, "-I"):
			includeDirs = append(includeDirs, tok[2:])
		case strings.HasPrefix(tok, "-D"):
			defs = append(defs, tok[2:])
		}
	}
	return includeDirs, defs, true
}

// expandPC substitutes ${name} references from vars.
func expandPC(s string, vars map[string]string) string {
	return os.Expand(s, func(name string) string {
		return vars[name]
	})
}
