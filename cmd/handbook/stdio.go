package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/somabay/handbook/internal/log"
	"github.com/somabay/handbook/internal/mcp"
)

func stdioCmd() *cobra.Command {
	var envFile string

	cmd := &cobra.Command{
		Use:   "stdio",
		Short: "Start MCP server on stdio",
		Long: `Start the MCP (Model Context Protocol) server on stdio.

This lets AI assistants browse the published handbook, list pages and
derive slugs. Configuration is loaded from environment variables and .env file.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStdio(envFile)
		},
	}

	cmd.Flags().StringVar(&envFile, "env-file", "", "Path to .env file")

	return cmd
}

func runStdio(envFile string) error {
	cfg, err := loadConfig(envFile)
	if err != nil {
		return err
	}

	// Logs go to stderr; stdout carries the protocol.
	slogger := log.NewLogger(cfg)

	slogger.Info("starting MCP server",
		slog.String("version", version),
		slog.String("data_dir", cfg.DataDir()),
	)

	client, err := openClient(cfg, clientOptions(cfg, slogger))
	if err != nil {
		return err
	}
	defer closeClient(client, slogger)

	return mcp.NewServer(client.Pages, client.Menus, version, slogger).ServeStdio()
}
