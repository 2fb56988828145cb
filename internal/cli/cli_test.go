package cli

import (
	"io"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/mhersch/treeline/pkg/pipeline"
)

func TestRootCommandRegistersSubcommands(t *testing.T) {
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()

	want := map[string]bool{
		"layout":     false,
		"render":     false,
		"view":       false,
		"serve":      false,
		"cache":      false,
		"completion": false,
	}
	for _, cmd := range root.Commands() {
		if _, ok := want[cmd.Name()]; ok {
			want[cmd.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("missing subcommand %q", name)
		}
	}
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", []string{pipeline.FormatSVG}},
		{"svg", []string{"svg"}},
		{"svg,json,dot", []string{"svg", "json", "dot"}},
	}
	for _, tt := range tests {
		if got := parseFormats(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("parseFormats(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseIDList(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"a", []string{"a"}},
		{"a, b ,c", []string{"a", "b", "c"}},
		{",,", nil},
	}
	for _, tt := range tests {
		if got := parseIDList(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("parseIDList(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		output string
		input  string
		suffix string
		want   string
	}{
		{"out.json", "doc.json", ".frame.json", "out.json"},
		{"", "doc.json", ".frame.json", "doc.frame.json"},
		{"", "plan.treeline.json", ".svg", "plan.treeline.svg"},
		{"", "https://example.com/doc.json", ".svg", "treeline.svg"},
	}
	for _, tt := range tests {
		if got := outputPath(tt.output, tt.input, tt.suffix); got != tt.want {
			t.Errorf("outputPath(%q, %q, %q) = %q, want %q",
				tt.output, tt.input, tt.suffix, got, tt.want)
		}
	}
}

func TestCacheDirDefault(t *testing.T) {
	oldXdg := os.Getenv("XDG_CACHE_HOME")
	os.Unsetenv("XDG_CACHE_HOME")
	defer func() {
		if oldXdg != "" {
			os.Setenv("XDG_CACHE_HOME", oldXdg)
		}
	}()

	c := New(io.Discard, LogInfo)
	dir, err := c.cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}

	home, _ := os.UserHomeDir()
	if want := filepath.Join(home, ".cache", appName); dir != want {
		t.Errorf("cacheDir() = %q, want %q", dir, want)
	}
}

func TestCacheDirXDG(t *testing.T) {
	oldXdg := os.Getenv("XDG_CACHE_HOME")
	os.Setenv("XDG_CACHE_HOME", "/tmp/custom-cache")
	defer func() {
		if oldXdg != "" {
			os.Setenv("XDG_CACHE_HOME", oldXdg)
		} else {
			os.Unsetenv("XDG_CACHE_HOME")
		}
	}()

	c := New(io.Discard, LogInfo)
	dir, err := c.cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	if want := filepath.Join("/tmp/custom-cache", appName); dir != want {
		t.Errorf("cacheDir() = %q, want %q", dir, want)
	}
}

func TestCacheDirConfigOverride(t *testing.T) {
	c := New(io.Discard, LogInfo)
	c.Config.Cache.Dir = "/var/cache/treeline"

	dir, err := c.cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	if dir != "/var/cache/treeline" {
		t.Errorf("cacheDir() = %q, want config override", dir)
	}
}

func TestLoadConfigMissingDefaultIsFine(t *testing.T) {
	c := New(io.Discard, LogInfo)
	if err := c.LoadConfig(filepath.Join(t.TempDir(), "config.toml")); err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}
	if c.Config.Server.Addr != ":8080" {
		t.Errorf("Server.Addr = %q, want default", c.Config.Server.Addr)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := "[server]\naddr = \":9090\"\n\n[cache]\nbackend = \"none\"\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	c := New(io.Discard, LogInfo)
	if err := c.LoadConfig(path); err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}
	if c.Config.Server.Addr != ":9090" {
		t.Errorf("Server.Addr = %q, want :9090", c.Config.Server.Addr)
	}
	if c.Config.Cache.Backend != "none" {
		t.Errorf("Cache.Backend = %q, want none", c.Config.Cache.Backend)
	}
}
