package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mark3labs/apib2postman/internal/ctxlog"
)

// Execute runs the apib2postman CLI.
func Execute() error {
	return NewRootCmd().Execute()
}

// NewRootCmd constructs the root command so tests can exercise the CLI easily.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apib2postman <input> [output]",
		Short: "Convert API descriptions into Postman collection dumps",
		Long: "apib2postman converts an API Blueprint (raw, or a rendered drafter AST) or an " +
			"OpenAPI/Swagger document into a Postman dump holding one collection and the " +
			"environments derived from the description metadata.",
		Example: strings.TrimSpace(`  apib2postman api.apib dump.json
  apib2postman --output-version 2.1.0 ast.json > dump.json
  apib2postman --config apib2postman.yaml`),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConvertConfig(cmd, args)
			if err != nil {
				return err
			}
			logger := ctxlog.New(cmd.ErrOrStderr(), cfg.Verbose)
			ctx := ctxlog.WithLogger(cmd.Context(), logger)
			return convertRunner(ctx, cfg, cmd.OutOrStdout())
		},
	}

	// Convert Cobra flag and argument errors into usage errors that also show
	// the command's help text.
	flagErr := func(c *cobra.Command, err error) error {
		return newUsageError(fmt.Sprintf("%v\n\n%s", err, c.UsageString()))
	}
	cmd.SetFlagErrorFunc(flagErr)
	cmd.Args = func(c *cobra.Command, args []string) error {
		if err := cobra.MaximumNArgs(2)(c, args); err != nil {
			return flagErr(c, err)
		}
		return nil
	}

	cmd.PersistentFlags().StringP("config", "c", "", "Config file path (YAML or JSON)")
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging output")

	flags := cmd.Flags()
	flags.String("format", "", "Input format (auto|ast|apib|openapi); defaults to auto")
	flags.String("drafter", "", "Path to the drafter executable used for API Blueprint text")
	flags.String("output-version", "", "Collection schema version to emit (1.0.0|2.0.0|2.1.0); defaults to 1.0.0")
	flags.String("host", "", "Override the HOST collection variable")

	i := newInitCmd()
	i.SetFlagErrorFunc(flagErr)
	cmd.AddCommand(i)

	return cmd
}
