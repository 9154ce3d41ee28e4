package cli

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "")

	dir, err := defaultCacheDir()
	if err != nil {
		t.Fatalf("defaultCacheDir() error: %v", err)
	}
	home, _ := os.UserHomeDir()
	if want := filepath.Join(home, ".cache", appName); dir != want {
		t.Errorf("defaultCacheDir() = %q, want %q", dir, want)
	}
}

func TestDefaultCacheDirXDG(t *testing.T) {
	custom := filepath.Join(t.TempDir(), "xdg")
	t.Setenv("XDG_CACHE_HOME", custom)

	dir, err := defaultCacheDir()
	if err != nil {
		t.Fatalf("defaultCacheDir() error: %v", err)
	}
	if want := filepath.Join(custom, appName); dir != want {
		t.Errorf("defaultCacheDir() = %q, want %q", dir, want)
	}
}

func TestCacheDirFromConfig(t *testing.T) {
	c := New(os.Stderr, LogInfo)
	c.Config.Cache.Dir = "/var/cache/scynet"

	dir, err := c.cacheDir()
	if err != nil {
		t.Fatal(err)
	}
	if dir != "/var/cache/scynet" {
		t.Errorf("cacheDir() = %q", dir)
	}
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		output, input, stage, want string
	}{
		{"", "model.json", "community", "model.community.json"},
		{"", "dir/model.community.json", "layout", "dir/model.community.layout.json"},
		{"", "nodes.tsv", "scynet", "nodes.scynet.json"},
		{"out.tsv", "model.json", "community", "out.tsv"},
	}
	for _, tt := range tests {
		if got := outputPath(tt.output, tt.input, tt.stage); got != tt.want {
			t.Errorf("outputPath(%q, %q, %q) = %q, want %q", tt.output, tt.input, tt.stage, got, tt.want)
		}
	}
}
