// Package manifest loads the declarative dependency manifest.
//
// A manifest is an ordered sequence of package and file blocks:
//
//	package "zlib" {
//	  version = "1.3.1"
//	  url     = "https://example.com/zlib-1.3.1.tar.gz"
//	  hash    = "SHA256=<hex>"
//	}
//
//	file "stb_image" {
//	  version  = "2.30"
//	  url      = "${var.mirror}/stb_image.h"
//	  filename = "stb_image.h"
//	  hash     = "SHA256=<hex>"
//	}
//
// Entry order is preserved. Any malformed input is rejected as a
// ConfigError before the caller performs network activity.
package manifest

import (
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"

	"github.com/depforge/depforge/internal/errs"
)

// EntryKind discriminates the two source descriptor forms.
type EntryKind int

const (
	PackageEntry EntryKind = iota // archive form
	FileEntry                     // single-file form
)

// Entry is one declarative fetch invocation.
type Entry struct {
	Kind     EntryKind
	Name     string
	Version  string
	URL      string
	Hash     string // algorithm-tagged digest, "<ALGO>=<hex>"
	Filename string // file form only: destination filename
	Build    *BuildSpec
}

// BuildSpec describes the optional external configure/build/install cycle
// of a package entry.
type BuildSpec struct {
	System    string // "cmake" (default) or "autotools"
	Args      []string
	Artifacts []string
	Shared    bool
}

// Manifest is an ordered list of entries loaded from a single file.
type Manifest struct {
	Path    string
	Entries []Entry
}

type packageBlock struct {
	Version string      `hcl:"version"`
	URL     string      `hcl:"url"`
	Hash    string      `hcl:"hash"`
	Build   *buildBlock `hcl:"build,block"`
}

type fileBlock struct {
	Version  string `hcl:"version"`
	URL      string `hcl:"url"`
	Filename string `hcl:"filename"`
	Hash     string `hcl:"hash"`
}

type buildBlock struct {
	System    string   `hcl:"system,optional"`
	Args      []string `hcl:"args,optional"`
	Artifacts []string `hcl:"artifacts"`
	Shared    bool     `hcl:"shared,optional"`
}

// Load parses and validates the manifest at path. Values in vars are
// exposed to manifest expressions as var.<key>.
func Load(path string, vars map[string]string) (*Manifest, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, &errs.ConfigError{Path: path, Err: err}
	}

	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, &errs.ConfigError{Path: path, Err: diags}
	}

	body, ok := hclFile.Body.(*hclsyntax.Body)
	if !ok {
		return nil, &errs.ConfigError{Path: path, Err: fmt.Errorf("not a native HCL syntax file")}
	}

	evalCtx := evalContext(vars)

	m := &Manifest{Path: path}
	seen := make(map[string]struct{})
	for _, block := range body.Blocks {
		entry, err := decodeBlock(block, evalCtx)
		if err != nil {
			return nil, &errs.ConfigError{Path: path, Err: err}
		}
		if _, dup := seen[entry.Name]; dup {
			return nil, &errs.ConfigError{Path: path, Err: fmt.Errorf("duplicate entry %q", entry.Name)}
		}
		seen[entry.Name] = struct{}{}
		m.Entries = append(m.Entries, entry)
	}
	return m, nil
}

func decodeBlock(block *hclsyntax.Block, evalCtx *hcl.EvalContext) (Entry, error) {
	if len(block.Labels) != 1 {
		return Entry{}, fmt.Errorf("%s block needs exactly one label (the package name)", block.Type)
	}
	name := block.Labels[0]

	switch block.Type {
	case "package":
		var pb packageBlock
		if diags := gohcl.DecodeBody(block.Body, evalCtx, &pb); diags.HasErrors() {
			return Entry{}, fmt.Errorf("package %q: %w", name, diags)
		}
		if _, err := ParseHash(pb.Hash); err != nil {
			return Entry{}, fmt.Errorf("package %q: %w", name, err)
		}
		e := Entry{
			Kind:    PackageEntry,
			Name:    name,
			Version: pb.Version,
			URL:     pb.URL,
			Hash:    pb.Hash,
		}
		if pb.Build != nil {
			if len(pb.Build.Artifacts) == 0 {
				return Entry{}, fmt.Errorf("package %q: build block declares no artifacts", name)
			}
			system := pb.Build.System
			if system == "" {
				system = "cmake"
			}
			if system != "cmake" && system != "autotools" {
				return Entry{}, fmt.Errorf("package %q: unknown build system %q", name, system)
			}
			e.Build = &BuildSpec{
				System:    system,
				Args:      pb.Build.Args,
				Artifacts: pb.Build.Artifacts,
				Shared:    pb.Build.Shared,
			}
		}
		return e, nil

	case "file":
		var fb fileBlock
		if diags := gohcl.DecodeBody(block.Body, evalCtx, &fb); diags.HasErrors() {
			return Entry{}, fmt.Errorf("file %q: %w", name, diags)
		}
		if _, err := ParseHash(fb.Hash); err != nil {
			return Entry{}, fmt.Errorf("file %q: %w", name, err)
		}
		return Entry{
			Kind:     FileEntry,
			Name:     name,
			Version:  fb.Version,
			URL:      fb.URL,
			Hash:     fb.Hash,
			Filename: fb.Filename,
		}, nil

	default:
		return Entry{}, fmt.Errorf("unknown block type %q", block.Type)
	}
}

// evalContext builds the expression scope with caller-provided variables
// reachable as var.<key>.
func evalContext(vars map[string]string) *hcl.EvalContext {
	vals := make(map[string]cty.Value, len(vars))
	for k, v := range vars {
		vals[k] = cty.StringVal(v)
	}
	scope := cty.EmptyObjectVal
	if len(vals) > 0 {
		scope = cty.ObjectVal(vals)
	}
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{"var": scope},
	}
}
