package fsl

import (
	"errors"
	"path/filepath"
	"testing"
)

func TestSplitFilename(t *testing.T) {
	tests := []struct {
		path           string
		dir, stem, ext string
	}{
		{"foo.nii", "", "foo", ".nii"},
		{"/data/foo.nii.gz", "/data", "foo", ".nii.gz"},
		{"/data/FOO.NII.GZ", "/data", "FOO", ".NII.GZ"},
		{"rel/dir/archive.tar.gz", "rel/dir", "archive", ".tar.gz"},
		{"surf.niml.dset", "", "surf", ".niml.dset"},
		{"/data/foo_flirt.mat", "/data", "foo_flirt", ".mat"},
		{"/data/noext", "/data", "noext", ""},
		{".hidden", "", ".hidden", ""},
		{"/a.b/c.d.img", "/a.b", "c.d", ".img"},
	}
	for _, tt := range tests {
		dir, stem, ext := SplitFilename(tt.path)
		if dir != tt.dir || stem != tt.stem || ext != tt.ext {
			t.Fatalf("SplitFilename(%q) = (%q, %q, %q), want (%q, %q, %q)", tt.path, dir, stem, ext, tt.dir, tt.stem, tt.ext)
		}
	}
}

func TestDeriveKeepsExtensionInGivenDir(t *testing.T) {
	dir := t.TempDir()
	got, err := Derive(filepath.Join(dir, "bar.nii"), DeriveOptions{Suffix: "_mcf", KeepExt: true, Dir: dir})
	if err != nil {
		t.Fatalf("Derive error: %v", err)
	}
	if want := filepath.Join(dir, "bar_mcf.nii"); got != want {
		t.Fatalf("Derive = %q, want %q", got, want)
	}
}

func TestDeriveDefaultsToWorkingDirectory(t *testing.T) {
	cwd := workdir(t)
	got, err := Derive("/elsewhere/foo.nii.gz", DeriveOptions{Suffix: "_brain", Ext: ".nii"})
	if err != nil {
		t.Fatalf("Derive error: %v", err)
	}
	if want := filepath.Join(cwd, "foo_brain.nii"); got != want {
		t.Fatalf("Derive = %q, want %q", got, want)
	}
}

func TestDeriveResolvesRelativeDir(t *testing.T) {
	cwd := workdir(t)
	got, err := Derive("foo.img", DeriveOptions{Suffix: "_x", Ext: ".img.gz", Dir: "sub"})
	if err != nil {
		t.Fatalf("Derive error: %v", err)
	}
	if want := filepath.Join(cwd, "sub", "foo_x.img.gz"); got != want {
		t.Fatalf("Derive = %q, want %q", got, want)
	}
	if !filepath.IsAbs(got) {
		t.Fatalf("expected absolute path, got %q", got)
	}
}

func TestDeriveRejectsEmptyBasename(t *testing.T) {
	if _, err := Derive("  ", DeriveOptions{Suffix: "_x"}); !errors.Is(err, errEmptyBasename) {
		t.Fatalf("expected errEmptyBasename, got %v", err)
	}
}
