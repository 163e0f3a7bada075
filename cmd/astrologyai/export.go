package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vedavani/astrology-ai/internal/rule"
)

func exportCmd() *cobra.Command {
	var sourceTitle, out string
	var minConfidence float64
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export rules as a bundle, optionally filtered by source",
		RunE: func(cmd *cobra.Command, args []string) error {
			filters := rule.SearchFilters{
				SourceTitle:   sourceTitle,
				MinConfidence: minConfidence,
			}
			return runExport(cmd, filters, out)
		},
	}
	cmd.Flags().StringVar(&sourceTitle, "source", "", "Restrict export to one source")
	cmd.Flags().Float64Var(&minConfidence, "min-confidence", 0, "Minimum confidence 0-1")
	cmd.Flags().StringVar(&out, "out", "", "Write bundle to this path instead of stdout")
	return cmd
}

func runExport(cmd *cobra.Command, filters rule.SearchFilters, out string) error {
	ctx := context.Background()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	p, err := openPipeline(ctx, cfg)
	if err != nil {
		return err
	}
	defer p.Store.Close(ctx)

	bundle, err := p.Export(ctx, filters)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(bundle, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding bundle: %w", err)
	}

	if out == "" {
		fmt.Fprintln(os.Stdout, string(data))
		return nil
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return fmt.Errorf("writing bundle to %q: %w", out, err)
	}
	fmt.Fprintf(os.Stdout, "Wrote %d rules across %d sources to %s\n", bundle.TotalRules, len(bundle.Sources), out)
	return nil
}
