package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vedavani/astrology-ai/internal/pipeline"
	"github.com/vedavani/astrology-ai/internal/rule"
)

func ingestCmd() *cobra.Command {
	var sourceTitle, author string
	var authorityLevel int
	cmd := &cobra.Command{
		Use:   "ingest <path-to-pdf>",
		Short: "Extract and store rules from a source PDF",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIngest(cmd, args[0], sourceTitle, author, authorityLevel)
		},
	}
	cmd.Flags().StringVar(&sourceTitle, "source", "", "Title to register the source under (required)")
	cmd.Flags().StringVar(&author, "author", "", "Source author")
	cmd.Flags().IntVar(&authorityLevel, "authority", 0, "1=classical, 2=traditional, 3=modern (required)")
	cmd.MarkFlagRequired("source")
	cmd.MarkFlagRequired("authority")
	return cmd
}

func runIngest(cmd *cobra.Command, path, sourceTitle, author string, authorityLevel int) error {
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

	report, err := p.IngestBook(ctx, path, pipeline.IngestOptions{
		SourceTitle:    sourceTitle,
		Author:         author,
		AuthorityLevel: rule.AuthorityLevel(authorityLevel),
	})
	if err != nil {
		return err
	}

	fmt.Fprintln(os.Stdout, "Ingestion complete.")
	fmt.Fprintf(os.Stdout, "  Sentences scanned:      %d\n", report.SentencesTotal)
	fmt.Fprintf(os.Stdout, "  Sentences astrological: %d\n", report.SentencesAstro)
	fmt.Fprintf(os.Stdout, "  Rules stored:           %d\n", report.RulesStored)
	fmt.Fprintf(os.Stdout, "  Average confidence:     %.2f\n", report.AverageConfidence)

	if len(report.Warnings) > 0 {
		fmt.Fprintf(os.Stdout, "\nWarnings (%d):\n", len(report.Warnings))
		for _, w := range report.Warnings {
			fmt.Fprintf(os.Stdout, "  - %s\n", w)
		}
	}
	return nil
}
