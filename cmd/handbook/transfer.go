package main

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/somabay/handbook/domain/tree"
	"github.com/somabay/handbook/infrastructure/persistence"
	"github.com/somabay/handbook/internal/log"
)

func importCmd() *cobra.Command {
	var envFile string

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Replace the stored sidebar with a JSON or YAML document",
		Long: `Replace the stored sidebar with the forest in a JSON or YAML document.

The format is chosen from the file extension (.yaml, .yml or .json). The
document is validated as a whole: duplicate ids, duplicate slugs or pages
that own children reject the import and leave the store unchanged.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd.Context(), envFile, args[0])
		},
	}

	cmd.Flags().StringVar(&envFile, "env-file", "", "Path to .env file")

	return cmd
}

func runImport(ctx context.Context, envFile, path string) error {
	cfg, err := loadConfig(envFile)
	if err != nil {
		return err
	}
	slogger := log.Configure(cfg)

	forest, err := persistence.ReadForestFile(path)
	if err != nil {
		return err
	}

	client, err := openClient(cfg, clientOptions(cfg, slogger))
	if err != nil {
		return err
	}
	defer closeClient(client, slogger)

	if err := client.Pages.Import(ctx, forest); err != nil {
		return err
	}
	slogger.Info("import complete", slog.String("file", path), slog.Int("nodes", tree.Count(forest)))
	return nil
}

func exportCmd() *cobra.Command {
	var (
		envFile string
		output  string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the stored sidebar to a JSON or YAML file",
		Long: `Write the stored sidebar to a JSON or YAML file.

Without --output the forest is written to pages.json in the export
directory, which the public site serves under /data.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd.Context(), envFile, output)
		},
	}

	cmd.Flags().StringVar(&envFile, "env-file", "", "Path to .env file")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default: {data_dir}/data/pages.json)")

	return cmd
}

func runExport(ctx context.Context, envFile, output string) error {
	cfg, err := loadConfig(envFile)
	if err != nil {
		return err
	}
	slogger := log.Configure(cfg)

	if output == "" {
		output = filepath.Join(cfg.ExportDir(), "pages.json")
	}

	client, err := openClient(cfg, clientOptions(cfg, slogger))
	if err != nil {
		return err
	}
	defer closeClient(client, slogger)

	forest, err := client.Pages.Sidebar(ctx)
	if err != nil {
		return err
	}
	if err := persistence.WriteForestFile(output, forest); err != nil {
		return fmt.Errorf("export sidebar: %w", err)
	}
	slogger.Info("export complete", slog.String("file", output), slog.Int("nodes", tree.Count(forest)))
	return nil
}
