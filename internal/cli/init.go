package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mark3labs/apib2postman/internal/ctxlog"
	"github.com/mark3labs/apib2postman/internal/dump"
)

// InitConfig captures the options for the init command.
type InitConfig struct {
	OutputPath string
	Force      bool
	Verbose    bool
}

var initRunner = runInit

func newInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Scaffold a sample apib2postman configuration file",
		Long:  "Scaffold a commented apib2postman configuration file that documents available options.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := cmd.Flags().GetString("out")
			if err != nil {
				return err
			}
			force, err := cmd.Flags().GetBool("force")
			if err != nil {
				return err
			}
			verbose, err := cmd.Flags().GetBool("verbose")
			if err != nil {
				return err
			}
			cfg := &InitConfig{
				OutputPath: out,
				Force:      force,
				Verbose:    verbose,
			}
			ctx := ctxlog.WithLogger(cmd.Context(), ctxlog.New(cmd.ErrOrStderr(), verbose))
			return initRunner(ctx, cfg, cmd.OutOrStdout())
		},
	}

	cmd.Flags().String("out", "apib2postman.yaml", "Where to write the sample config file")
	cmd.Flags().Bool("force", false, "Overwrite the target file if it already exists")

	return cmd
}

func runInit(ctx context.Context, cfg *InitConfig, stdout io.Writer) error {
	out := strings.TrimSpace(cfg.OutputPath)
	if out == "" {
		out = "apib2postman.yaml"
	}
	absPath, err := filepath.Abs(out)
	if err != nil {
		return fmt.Errorf("init: resolve output path: %w", err)
	}

	if st, err := os.Stat(absPath); err == nil && !cfg.Force {
		if st.Mode().IsRegular() {
			return newUsageError(fmt.Sprintf("init: %q already exists (use --force to overwrite)", absPath))
		}
	}

	content := strings.TrimSpace(sampleConfigYAML) + "\n"
	if err := dump.WriteAtomic(absPath, []byte(content), 0o644); err != nil {
		return newUsageError(fmt.Sprintf("init: %v\nHint: choose a different --out or check directory permissions.", err))
	}
	ctxlog.FromContext(ctx).Debug("wrote sample config", "path", absPath, "bytes", len(content))
	fmt.Fprintf(stdout, "Wrote sample config to %s\n", absPath)
	return nil
}

// sampleConfigYAML documents every key accepted by --config.
const sampleConfigYAML = `# apib2postman configuration (YAML)
# All fields are optional. Flags and positional arguments override config values.

# Path or http/https URL of the API description.
# input: ./api.apib

# Where to write the dump. Printed to stdout when omitted.
# output: ./dump.json

# Input format (auto|ast|apib|openapi). auto sniffs the document.
# format: auto

# drafter executable used to parse raw API Blueprint text.
# drafter: drafter

# Collection schema version to emit (1.0.0|2.0.0|2.1.0).
# outputVersion: 1.0.0

# Replaces the HOST collection variable taken from the description.
# host: https://api.example.com

# Enable verbose logging.
# verbose: false
`
