package layout

import (
	"path/filepath"
	"testing"
)

func TestSourceDir(t *testing.T) {
	got := SourceDir("/root", "zlib", "1.3.1")
	want := filepath.Join("/root", "zlib-1.3.1")
	if got != want {
		t.Errorf("SourceDir = %q, want %q", got, want)
	}
}

func TestInstallDir(t *testing.T) {
	got := InstallDir("/root", "zlib", "1.3.1")
	want := filepath.Join("/root", "zlib_1.3.1_install")
	if got != want {
		t.Errorf("InstallDir = %q, want %q", got, want)
	}
}

func TestDeterministic(t *testing.T) {
	for i := 0; i < 3; i++ {
		if got := InstallDir("/r", "a", "1"); got != InstallDir("/r", "a", "1") {
			t.Fatalf("InstallDir not deterministic: %q", got)
		}
		if got := SourceDir("/r", "a", "1"); got != SourceDir("/r", "a", "1") {
			t.Fatalf("SourceDir not deterministic: %q", got)
		}
	}
}

func TestStagingDirDistinctFromSourceDir(t *testing.T) {
	src := SourceDir("/r", "a", "1")
	staging := StagingDir("/r", "a", "1")
	if src == staging {
		t.Errorf("staging dir %q must differ from source dir", staging)
	}
	if filepath.Dir(staging) == "/r" {
		t.Errorf("staging dir %q should live under a scratch subdirectory", staging)
	}
}
