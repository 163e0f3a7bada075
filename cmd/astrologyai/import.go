package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vedavani/astrology-ai/internal/rule"
)

func importCmd() *cobra.Command {
	var strategy string
	cmd := &cobra.Command{
		Use:   "import <bundle.json>",
		Short: "Import a previously exported rule bundle",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd, args[0], rule.MergeStrategy(strategy))
		},
	}
	cmd.Flags().StringVar(&strategy, "strategy", string(rule.MergeSkipDuplicates),
		"replace, append, or skip_duplicates")
	return cmd
}

func runImport(cmd *cobra.Command, path string, strategy rule.MergeStrategy) error {
	ctx := context.Background()

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading bundle %q: %w", path, err)
	}

	var bundle rule.Bundle
	if err := json.Unmarshal(data, &bundle); err != nil {
		return fmt.Errorf("decoding bundle %q: %w", path, err)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	p, err := openPipeline(ctx, cfg)
	if err != nil {
		return err
	}
	defer p.Store.Close(ctx)

	report, err := p.Import(ctx, bundle, strategy)
	if err != nil {
		return err
	}

	fmt.Fprintln(os.Stdout, "Import complete.")
	fmt.Fprintf(os.Stdout, "  Sources imported: %d\n", report.SourcesImported)
	fmt.Fprintf(os.Stdout, "  Rules imported:   %d\n", report.RulesImported)
	fmt.Fprintf(os.Stdout, "  Rules skipped:    %d\n", report.RulesSkipped)
	return nil
}
