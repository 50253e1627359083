package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mark3labs/apib2postman/internal/blueprint"
	"github.com/mark3labs/apib2postman/internal/collection"
	"github.com/mark3labs/apib2postman/internal/ctxlog"
	"github.com/mark3labs/apib2postman/internal/dump"
	"github.com/mark3labs/apib2postman/internal/metadata"
	"github.com/mark3labs/apib2postman/internal/source"
	"github.com/mark3labs/apib2postman/internal/transform"
)

var (
	convertRunner = runConvert
	parserFor     = source.ParserFor
)

func resolveConvertConfig(cmd *cobra.Command, args []string) (*ConvertConfig, error) {
	cfg := defaultConvertConfig()

	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	configPath = strings.TrimSpace(configPath)
	if configPath != "" {
		cfg.ConfigPath = configPath
		if err := applyConvertConfigFromFile(&cfg, configPath); err != nil {
			return nil, err
		}
	}

	if err := applyConvertFlagOverrides(cmd.Flags(), &cfg); err != nil {
		return nil, err
	}
	applyConvertArgs(args, &cfg)

	cfg.normalize()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// runConvert reads the input, parses it into a description, builds the
// collection and environments, converts the collection to the requested
// schema version and writes the dump to cfg.Output or stdout.
func runConvert(ctx context.Context, cfg *ConvertConfig, stdout io.Writer) error {
	log := ctxlog.FromContext(ctx)

	data, err := source.Read(ctx, cfg.Input)
	if err != nil {
		return err
	}

	format, _ := source.ParseFormat(cfg.Format)
	if format == source.FormatAuto {
		format = source.Detect(data)
	}
	parser, err := parserFor(format, cfg.Drafter)
	if err != nil {
		return err
	}
	log.Debug("parsing input", "format", format, "bytes", len(data))

	desc, err := parser.Parse(ctx, data, blueprint.ParseOptions{RequireName: true})
	if err != nil {
		return err
	}

	tree := metadata.Build(desc.Metadata)
	if cfg.Host != "" {
		tree = tree.With("HOST", cfg.Host)
	}
	if scheme, ok := tree.Lookup(collection.AuthKey + ".type"); ok {
		log.Debug("collection auth", "type", scheme.Value())
	}

	col, err := collection.Assemble(desc, tree)
	if err != nil {
		return fmt.Errorf("build collection: %w", err)
	}
	envs := collection.Environments(desc.Name, tree)
	log.Debug("assembled collection", "name", desc.Name, "folders", len(col.Item), "environments", len(envs))

	versions := transform.Versions{From: collection.Version, To: cfg.OutputVersion}
	converted, err := transform.New().Convert(ctx, col, versions)
	if err != nil {
		return err
	}
	log.Debug("converted collection", "from", versions.From, "to", versions.To)

	doc := dump.New(converted, envs)
	if cfg.Output == "" {
		if stdout == nil {
			stdout = os.Stdout
		}
		return dump.WriteTo(stdout, doc)
	}
	if err := dump.WriteFile(cfg.Output, doc); err != nil {
		return err
	}
	log.Info("wrote dump", "path", cfg.Output)
	return nil
}
