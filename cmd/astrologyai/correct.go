package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func correctCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "correct",
		Short: "Run the local-model correction pass over pending rules",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCorrect(cmd, limit)
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 50, "Maximum rules to process")
	return cmd
}

func runCorrect(cmd *cobra.Command, limit int) error {
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

	report, err := p.CorrectPending(ctx, limit)
	if err != nil {
		return err
	}

	fmt.Fprintln(os.Stdout, "Correction pass complete.")
	fmt.Fprintf(os.Stdout, "  Attempted: %d\n", report.Attempted)
	fmt.Fprintf(os.Stdout, "  Accepted:  %d\n", report.Accepted)
	fmt.Fprintf(os.Stdout, "  Rejected:  %d\n", report.Rejected)
	return nil
}
