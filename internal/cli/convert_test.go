package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mark3labs/apib2postman/internal/blueprint"
	"github.com/mark3labs/apib2postman/internal/source"
)

const demoAST = `{
  "name": "Demo",
  "description": "",
  "metadata": [{"name": "HOST", "value": "https://d.test"}],
  "resourceGroups": [{
    "name": "Items",
    "description": "",
    "resources": [{
      "name": "Items",
      "uriTemplate": "/items",
      "parameters": [],
      "actions": [{
        "name": "List",
        "method": "GET",
        "parameters": [],
        "attributes": {"uriTemplate": ""},
        "examples": [{
          "requests": [{"headers": [], "body": ""}],
          "responses": [{"headers": [{"name": "Content-Type", "value": "application/json"}], "body": "[]"}]
        }]
      }]
    }]
  }]
}`

func captureConfig(t *testing.T, args ...string) (*ConvertConfig, error) {
	t.Helper()
	root := NewRootCmd()
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)

	var captured *ConvertConfig
	convertRunner = func(ctx context.Context, cfg *ConvertConfig, stdout io.Writer) error {
		captured = cfg
		return nil
	}
	t.Cleanup(func() { convertRunner = runConvert })

	if args == nil {
		// nil makes cobra fall back to os.Args.
		args = []string{}
	}
	root.SetArgs(args)
	err := root.Execute()
	return captured, err
}

func TestConvertConfigFromArgsAndFlags(t *testing.T) {
	cfg, err := captureConfig(t,
		"--verbose",
		"--format", "ast",
		"--drafter", "/opt/bin/drafter",
		"--output-version", "2.1.0",
		"--host", "https://override.test",
		"api.json", "dump.json",
	)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if cfg == nil {
		t.Fatalf("expected config to be captured")
	}
	want := ConvertConfig{
		Input:         "api.json",
		Output:        "dump.json",
		Format:        "ast",
		Drafter:       "/opt/bin/drafter",
		OutputVersion: "2.1.0",
		Host:          "https://override.test",
		Verbose:       true,
	}
	if *cfg != want {
		t.Fatalf("config mismatch:\nwant %+v\ngot  %+v", want, *cfg)
	}
}

func TestConvertConfigDefaults(t *testing.T) {
	cfg, err := captureConfig(t, "api.apib")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if cfg.Format != "auto" || cfg.Drafter != "drafter" || cfg.OutputVersion != "1.0.0" || cfg.Output != "" {
		t.Fatalf("unexpected defaults: %+v", *cfg)
	}
}

func TestConvertConfigPrecedence(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	configContent := strings.TrimSpace(`input: from-config.apib
output: from-config.json
format: apib
drafter: cfg-drafter
output_version: 2.0.0
host: https://cfg.test
verbose: "yes"
`) + "\n"
	if err := os.WriteFile(configPath, []byte(configContent), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := captureConfig(t, "--config", configPath, "--host", "https://flag.test", "from-args.apib")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if cfg.Input != "from-args.apib" {
		t.Errorf("input: want from-args.apib got %q", cfg.Input)
	}
	if cfg.Output != "from-config.json" {
		t.Errorf("output: want from-config.json got %q", cfg.Output)
	}
	if cfg.Format != "apib" || cfg.Drafter != "cfg-drafter" || cfg.OutputVersion != "2.0.0" {
		t.Errorf("config file values lost: %+v", *cfg)
	}
	if cfg.Host != "https://flag.test" {
		t.Errorf("host: flag should win, got %q", cfg.Host)
	}
	if !cfg.Verbose {
		t.Errorf("expected verbose true from config file")
	}
	if cfg.ConfigPath != configPath {
		t.Errorf("config path mismatch: got %q", cfg.ConfigPath)
	}
}

func TestConvertConfigUsageErrors(t *testing.T) {
	badConfig := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(badConfig, []byte("unknown: value\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	tests := []struct {
		name string
		args []string
		msg  string
	}{
		{"missing input", nil, "input is required"},
		{"too many args", []string{"a", "b", "c"}, "accepts at most 2 arg"},
		{"unknown format", []string{"--format", "raml", "a"}, "unknown format"},
		{"unsupported version", []string{"--output-version", "3.0.0", "a"}, "unsupported --output-version"},
		{"unknown config key", []string{"--config", badConfig, "a"}, "unknown field"},
		{"missing config file", []string{"--config", filepath.Join(t.TempDir(), "nope.yaml"), "a"}, "read config file"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := captureConfig(t, tt.args...)
			if err == nil {
				t.Fatalf("expected an error, got config %+v", cfg)
			}
			if !errors.Is(err, ErrUsage) {
				t.Fatalf("expected usage error, got %v", err)
			}
			if ExitCode(err) != 2 {
				t.Fatalf("usage errors exit with 2, got %d", ExitCode(err))
			}
			if !strings.Contains(err.Error(), tt.msg) {
				t.Fatalf("unexpected error message: %v", err)
			}
		})
	}
}

func writeInput(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, []byte(content), 0o600); err != nil {
		t.Fatalf("write input: %v", err)
	}
	return p
}

func TestRunConvert_Stdout(t *testing.T) {
	t.Parallel()
	input := writeInput(t, "demo.json", demoAST)

	var out bytes.Buffer
	cfg := &ConvertConfig{Input: input, Format: "auto", Drafter: "drafter", OutputVersion: "2.0.0"}
	if err := runConvert(context.Background(), cfg, &out); err != nil {
		t.Fatalf("convert: %v", err)
	}

	var doc struct {
		Version     int `json:"version"`
		Collections []struct {
			Info struct {
				Name string `json:"name"`
			} `json:"info"`
			Item []struct {
				Item []struct {
					Request struct {
						URL struct {
							Raw string `json:"raw"`
						} `json:"url"`
					} `json:"request"`
				} `json:"item"`
			} `json:"item"`
		} `json:"collections"`
		Environments []struct {
			Name string `json:"name"`
		} `json:"environments"`
	}
	if err := json.Unmarshal(out.Bytes(), &doc); err != nil {
		t.Fatalf("decode dump: %v\n%s", err, out.String())
	}
	if doc.Version != 1 || len(doc.Collections) != 1 || doc.Collections[0].Info.Name != "Demo" {
		t.Fatalf("unexpected dump header: %+v", doc)
	}
	if got := doc.Collections[0].Item[0].Item[0].Request.URL.Raw; got != "{{HOST}}/items" {
		t.Fatalf("unexpected raw url %q", got)
	}
	if len(doc.Environments) != 1 || doc.Environments[0].Name != "Demo" {
		t.Fatalf("unexpected environments: %+v", doc.Environments)
	}
}

func TestRunConvert_HostOverride(t *testing.T) {
	t.Parallel()
	input := writeInput(t, "demo.json", demoAST)

	var out bytes.Buffer
	cfg := &ConvertConfig{Input: input, Format: "ast", Drafter: "drafter", OutputVersion: "1.0.0", Host: "https://other.test"}
	if err := runConvert(context.Background(), cfg, &out); err != nil {
		t.Fatalf("convert: %v", err)
	}
	if !strings.Contains(out.String(), `"https://other.test"`) || strings.Contains(out.String(), `"https://d.test"`) {
		t.Fatalf("HOST override not applied:\n%s", out.String())
	}
}

func TestRunConvert_FailureWritesNothing(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	output := filepath.Join(dir, "dump.json")
	input := writeInput(t, "noname.json", `{"resourceGroups": []}`)

	cfg := &ConvertConfig{Input: input, Output: output, Format: "ast", Drafter: "drafter", OutputVersion: "1.0.0"}
	err := runConvert(context.Background(), cfg, io.Discard)
	if err == nil {
		t.Fatalf("expected parse error for missing API name")
	}
	if ExitCode(err) != 1 {
		t.Fatalf("runtime failures exit with 1, got %d", ExitCode(err))
	}
	if _, err := os.Stat(output); !os.IsNotExist(err) {
		t.Fatalf("expected no output file, stat err=%v", err)
	}
}

func TestRunConvert_UsesParserForFormat(t *testing.T) {
	input := writeInput(t, "api.apib", "FORMAT: 1A\n\n# Stub API\n")

	var gotFormat source.Format
	var gotDrafter string
	parserFor = func(format source.Format, drafter string) (blueprint.Parser, error) {
		gotFormat, gotDrafter = format, drafter
		return blueprint.ParserFunc(func(ctx context.Context, text []byte, opts blueprint.ParseOptions) (*blueprint.Description, error) {
			if !opts.RequireName {
				t.Errorf("expected the API name to be required")
			}
			return &blueprint.Description{
				Name: "Stub API",
				Metadata: []blueprint.Metadata{
					{Name: "HOST", Value: "https://stub.test"},
					{Name: "AUTH.type", Value: "basic"},
				},
			}, nil
		}), nil
	}
	t.Cleanup(func() { parserFor = source.ParserFor })

	var out bytes.Buffer
	cfg := &ConvertConfig{Input: input, Format: "auto", Drafter: "/opt/drafter", OutputVersion: "2.0.0", Verbose: true}
	if err := runConvert(context.Background(), cfg, &out); err != nil {
		t.Fatalf("convert: %v", err)
	}
	if gotFormat != source.FormatAPIB || gotDrafter != "/opt/drafter" {
		t.Fatalf("parser chosen for %q with drafter %q", gotFormat, gotDrafter)
	}
	if !strings.Contains(out.String(), `"Stub API"`) || !strings.Contains(out.String(), `"basic"`) {
		t.Fatalf("dump does not reflect the parsed description:\n%s", out.String())
	}
}
