package cli

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestInit_WritesSampleConfig(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	var stdout bytes.Buffer
	root := NewRootCmd()
	root.SetOut(&stdout)
	root.SetErr(io.Discard)
	root.SetArgs([]string{"init", "--out", path})

	if err := root.Execute(); err != nil {
		t.Fatalf("init execute: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read config: %v", err)
	}
	s := string(data)
	if !strings.Contains(s, "apib2postman configuration") {
		t.Fatalf("unexpected config contents: %s", s)
	}
	if !strings.Contains(stdout.String(), "Wrote sample config to") {
		t.Fatalf("expected confirmation on stdout, got %q", stdout.String())
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != "config.yaml" {
		t.Fatalf("expected only config.yaml in %s, got %v", dir, entries)
	}
}

func TestInit_StaleTempNameIgnored(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	// A directory squatting on the old fixed temp name must not block init.
	if err := os.Mkdir(path+".tmp", 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	root := NewRootCmd()
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	root.SetArgs([]string{"init", "--out", path})
	if err := root.Execute(); err != nil {
		t.Fatalf("init execute: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("config not written: %v", err)
	}
}

// Uncommenting every key of the sample must give a config the convert
// command accepts.
func TestInit_SampleKeysAreKnown(t *testing.T) {
	t.Parallel()
	var lines []string
	for _, line := range strings.Split(sampleConfigYAML, "\n") {
		if strings.HasPrefix(line, "# ") && strings.Contains(line, ": ") && !strings.Contains(line, "(") {
			lines = append(lines, strings.TrimPrefix(line, "# "))
		}
	}
	var raw map[string]any
	if err := yaml.Unmarshal([]byte(strings.Join(lines, "\n")), &raw); err != nil {
		t.Fatalf("sample keys do not form valid YAML: %v", err)
	}
	if len(raw) != 7 {
		t.Fatalf("expected 7 documented keys, got %d: %v", len(raw), raw)
	}

	path := filepath.Join(t.TempDir(), "uncommented.yaml")
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg := defaultConvertConfig()
	if err := applyConvertConfigFromFile(&cfg, path); err != nil {
		t.Fatalf("sample config rejected: %v", err)
	}
	cfg.normalize()
	if err := cfg.validate(); err != nil {
		t.Fatalf("sample config invalid: %v", err)
	}
}

func TestInit_ExistingWithoutForce(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("x"), 0o600); err != nil {
		t.Fatalf("prewrite: %v", err)
	}

	root := NewRootCmd()
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	root.SetArgs([]string{"init", "--out", path})

	err := root.Execute()
	if err == nil {
		t.Fatalf("expected error for existing file without --force")
	}
	if _, ok := err.(usageError); !ok {
		t.Fatalf("expected usage error, got %T: %v", err, err)
	}

	root = NewRootCmd()
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	root.SetArgs([]string{"init", "--out", path, "--force"})
	if err := root.Execute(); err != nil {
		t.Fatalf("init --force: %v", err)
	}
}
