package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vedavani/astrology-ai/internal/rule"
)

func searchCmd() *cobra.Command {
	var planet, sign, nakshatra, ascendant, sourceTitle, category, effectContains, orderBy string
	var house, lordOf, limit int
	var minConfidence float64

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search stored rules by condition",
		RunE: func(cmd *cobra.Command, args []string) error {
			filters := rule.SearchFilters{
				Planet:         planet,
				House:          house,
				Sign:           sign,
				Nakshatra:      nakshatra,
				Ascendant:      ascendant,
				LordOf:         lordOf,
				SourceTitle:    sourceTitle,
				Category:       rule.Category(category),
				MinConfidence:  minConfidence,
				EffectContains: effectContains,
				Limit:          limit,
				OrderBy:        rule.OrderBy(orderBy),
			}
			return runSearch(cmd, filters)
		},
	}
	cmd.Flags().StringVar(&planet, "planet", "", "Planet name")
	cmd.Flags().IntVar(&house, "house", 0, "House number 1-12")
	cmd.Flags().StringVar(&sign, "sign", "", "Zodiac sign")
	cmd.Flags().StringVar(&nakshatra, "nakshatra", "", "Nakshatra name")
	cmd.Flags().StringVar(&ascendant, "ascendant", "", "Ascendant sign")
	cmd.Flags().IntVar(&lordOf, "lord-of", 0, "House whose lord is placed")
	cmd.Flags().StringVar(&sourceTitle, "source", "", "Restrict to one source")
	cmd.Flags().StringVar(&category, "category", "", "Rule category")
	cmd.Flags().Float64Var(&minConfidence, "min-confidence", 0, "Minimum confidence 0-1")
	cmd.Flags().StringVar(&effectContains, "effect-contains", "", "Substring to match in effects")
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum results")
	cmd.Flags().StringVar(&orderBy, "order-by", "relevance", "relevance, confidence, authority, or created_at")
	return cmd
}

func runSearch(cmd *cobra.Command, filters rule.SearchFilters) error {
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

	results, err := p.Search(ctx, filters)
	if err != nil {
		return err
	}
	if len(results) == 0 {
		fmt.Fprintln(os.Stdout, "No rules found.")
		return nil
	}

	for _, r := range results {
		fmt.Fprintf(os.Stdout, "[%s] (%.2f) %s\n", r.ID[:12], r.Confidence, r.OriginalText)
		fmt.Fprintf(os.Stdout, "  %s\n", strings.Join(r.Effects, "; "))
		fmt.Fprintf(os.Stdout, "  source=%q authority=%d category=%s\n\n", r.SourceTitle, r.AuthorityLevel, r.Category)
	}
	return nil
}
