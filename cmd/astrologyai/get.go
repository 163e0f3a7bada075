package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

func getCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <rule-id>",
		Short: "Retrieve a single rule by id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGet(cmd, args[0])
		},
	}
}

func runGet(cmd *cobra.Command, id string) error {
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

	r, err := p.Store.GetRule(ctx, id)
	if err != nil {
		return err
	}
	if r == nil {
		return fmt.Errorf("rule %q not found", id)
	}

	fmt.Fprintf(os.Stdout, "ID:        %s\n", r.ID)
	fmt.Fprintf(os.Stdout, "Original:  %s\n", r.OriginalText)
	if r.CorrectedText != "" {
		fmt.Fprintf(os.Stdout, "Corrected: %s\n", r.CorrectedText)
	}
	fmt.Fprintf(os.Stdout, "Effects:   %s\n", strings.Join(r.Effects, "; "))
	fmt.Fprintf(os.Stdout, "Polarity:  %s\n", r.Polarity)
	fmt.Fprintf(os.Stdout, "Category:  %s\n", r.Category)
	fmt.Fprintf(os.Stdout, "Source:    %s (authority %d)\n", r.SourceTitle, r.AuthorityLevel)
	fmt.Fprintf(os.Stdout, "Confidence: %.2f (%s)\n", r.Confidence, r.ExtractionMethod)
	return nil
}
