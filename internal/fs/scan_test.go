package fs

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func writeFile(t *testing.T, path string, mode os.FileMode) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"), mode); err != nil {
		t.Fatal(err)
	}
}

func TestPathDirs(t *testing.T) {
	testCases := []struct {
		env      string
		expected []string
	}{
		{"", []string{DefaultPath}},
		{"/usr/bin:/bin", []string{"/usr/bin", "/bin"}},
		{"/usr/bin::/bin:", []string{"/usr/bin", "/bin"}},
	}
	for _, tc := range testCases {
		if got := PathDirs(tc.env); !reflect.DeepEqual(got, tc.expected) {
			t.Errorf("PathDirs(%q): expected %v, got %v", tc.env, tc.expected, got)
		}
	}
}

func TestListExecutables(t *testing.T) {
	a := t.TempDir()
	b := t.TempDir()

	writeFile(t, filepath.Join(a, "zsh"), 0o755)
	writeFile(t, filepath.Join(a, "bash"), 0o755)
	writeFile(t, filepath.Join(a, "README"), 0o644)
	writeFile(t, filepath.Join(a, "sub", "nested"), 0o755)
	writeFile(t, filepath.Join(b, "bash"), 0o755)
	if err := os.Symlink(filepath.Join(a, "zsh"), filepath.Join(b, "sh")); err != nil {
		t.Fatal(err)
	}
	if err := os.Symlink(filepath.Join(a, "missing"), filepath.Join(b, "dangling")); err != nil {
		t.Fatal(err)
	}

	got := ListExecutables(context.Background(), []string{a, b, a, filepath.Join(a, "nope")})

	expected := []Executable{
		{"bash", filepath.Join(a, "bash")},
		{"zsh", filepath.Join(a, "zsh")},
		{"bash", filepath.Join(b, "bash")},
		{"sh", filepath.Join(b, "sh")},
	}
	if !reflect.DeepEqual(got, expected) {
		t.Errorf("ListExecutables: expected %v, got %v", expected, got)
	}
}

func TestFindDesktopFiles(t *testing.T) {
	home := t.TempDir()
	system := t.TempDir()

	writeFile(t, filepath.Join(home, "firefox.desktop"), 0o644)
	writeFile(t, filepath.Join(system, "firefox.desktop"), 0o644)
	writeFile(t, filepath.Join(system, "kde", "konsole.desktop"), 0o644)
	writeFile(t, filepath.Join(system, "notes.txt"), 0o644)

	got := FindDesktopFiles(context.Background(), []string{home, system, filepath.Join(home, "missing")})

	expected := []DesktopFile{
		{ID: "firefox.desktop", Path: filepath.Join(home, "firefox.desktop"), Priority: 0},
		{ID: "kde-konsole.desktop", Path: filepath.Join(system, "kde", "konsole.desktop"), Priority: 1},
	}
	if !reflect.DeepEqual(got, expected) {
		t.Errorf("FindDesktopFiles: expected %v, got %v", expected, got)
	}
}

func TestListExecutablesCancelled(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "tool"), 0o755)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if got := ListExecutables(ctx, []string{dir}); len(got) != 0 {
		t.Errorf("cancelled scan returned %v", got)
	}
}
