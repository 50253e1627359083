package main

import (
	"log/slog"
	"os"

	"github.com/mark3labs/apib2postman/internal/cli"
)

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	if err := cli.Execute(); err != nil {
		slog.Error("convert failed", "err", err)
		os.Exit(cli.ExitCode(err))
	}
}
