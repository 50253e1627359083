package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/mark3labs/apib2postman/internal/source"
	"github.com/mark3labs/apib2postman/internal/transform"
)

// ConvertConfig captures all inputs that influence a conversion after
// merging defaults, config file values, flags and positional arguments.
type ConvertConfig struct {
	Input         string
	Output        string
	Format        string
	Drafter       string
	OutputVersion string
	Host          string
	ConfigPath    string
	Verbose       bool
}

func defaultConvertConfig() ConvertConfig {
	return ConvertConfig{
		Format:        string(source.FormatAuto),
		Drafter:       "drafter",
		OutputVersion: "1.0.0",
	}
}

func applyConvertConfigFromFile(cfg *ConvertConfig, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return newUsageError(fmt.Sprintf("read config file %q: %v", path, err))
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return newUsageError(fmt.Sprintf("parse config file %q: %v", path, err))
	}

	for key, value := range raw {
		var target *string
		switch normalizeKey(key) {
		case "input":
			target = &cfg.Input
		case "output":
			target = &cfg.Output
		case "format":
			target = &cfg.Format
		case "drafter":
			target = &cfg.Drafter
		case "outputversion":
			target = &cfg.OutputVersion
		case "host":
			target = &cfg.Host
		case "verbose":
			val, err := valueAsBool(value)
			if err != nil {
				return newUsageError(fmt.Sprintf("config field %q: %v", key, err))
			}
			cfg.Verbose = val
			continue
		default:
			return newUsageError(fmt.Sprintf("config file %q: unknown field %q", path, key))
		}
		str, err := valueAsString(value)
		if err != nil {
			return newUsageError(fmt.Sprintf("config field %q: %v", key, err))
		}
		*target = str
	}

	return nil
}

func applyConvertFlagOverrides(flags *pflag.FlagSet, cfg *ConvertConfig) error {
	for name, target := range map[string]*string{
		"format":         &cfg.Format,
		"drafter":        &cfg.Drafter,
		"output-version": &cfg.OutputVersion,
		"host":           &cfg.Host,
	} {
		if !flags.Changed(name) {
			continue
		}
		value, err := flags.GetString(name)
		if err != nil {
			return err
		}
		*target = strings.TrimSpace(value)
	}
	if flags.Changed("verbose") {
		value, err := flags.GetBool("verbose")
		if err != nil {
			return err
		}
		cfg.Verbose = value
	}
	return nil
}

func applyConvertArgs(args []string, cfg *ConvertConfig) {
	if len(args) > 0 {
		cfg.Input = strings.TrimSpace(args[0])
	}
	if len(args) > 1 {
		cfg.Output = strings.TrimSpace(args[1])
	}
}

func (c *ConvertConfig) normalize() {
	c.Input = strings.TrimSpace(c.Input)
	c.Output = strings.TrimSpace(c.Output)
	c.Format = strings.ToLower(strings.TrimSpace(c.Format))
	c.Drafter = strings.TrimSpace(c.Drafter)
	c.OutputVersion = strings.TrimSpace(c.OutputVersion)
	c.Host = strings.TrimSpace(c.Host)
	if c.Drafter == "" {
		c.Drafter = "drafter"
	}
	if c.OutputVersion == "" {
		c.OutputVersion = "1.0.0"
	}
}

func (c *ConvertConfig) validate() error {
	if c.Input == "" {
		return newUsageError("input is required (first argument or `input` in the config file)")
	}
	if _, err := source.ParseFormat(c.Format); err != nil {
		return newUsageError(fmt.Sprintf("--format: %v", err))
	}
	if !transform.Supported(c.OutputVersion) {
		return newUsageError(fmt.Sprintf("unsupported --output-version %q (allowed: 1.0.0, 2.0.0, 2.1.0)", c.OutputVersion))
	}
	return nil
}

func normalizeKey(raw string) string {
	lowered := strings.ToLower(strings.TrimSpace(raw))
	lowered = strings.ReplaceAll(lowered, "-", "")
	lowered = strings.ReplaceAll(lowered, "_", "")
	return lowered
}

func valueAsString(v any) (string, error) {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val), nil
	case nil:
		return "", nil
	default:
		return "", fmt.Errorf("expected string, got %T", v)
	}
}

func valueAsBool(v any) (bool, error) {
	switch val := v.(type) {
	case bool:
		return val, nil
	case string:
		switch strings.ToLower(strings.TrimSpace(val)) {
		case "true", "t", "1", "yes", "y":
			return true, nil
		case "false", "f", "0", "no", "n", "":
			return false, nil
		default:
			return false, fmt.Errorf("invalid boolean value %q", val)
		}
	case nil:
		return false, nil
	default:
		return false, fmt.Errorf("expected boolean, got %T", v)
	}
}
