package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vedavani/astrology-ai/internal/rule"
)

func sourcesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sources",
		Short: "List and register source books",
	}
	cmd.AddCommand(sourcesListCmd())
	cmd.AddCommand(sourcesRegisterCmd())
	return cmd
}

func sourcesListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all registered sources",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSourcesList(cmd)
		},
	}
}

func runSourcesList(cmd *cobra.Command) error {
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

	sources, err := p.Store.ListSources(ctx)
	if err != nil {
		return err
	}
	if len(sources) == 0 {
		fmt.Fprintln(os.Stdout, "No sources registered.")
		return nil
	}
	for _, s := range sources {
		fmt.Fprintf(os.Stdout, "%-40s author=%-20q authority=%d registered=%s\n",
			s.Title, s.Author, s.AuthorityLevel, s.RegisteredAt.Format("2006-01-02"))
	}
	return nil
}

func sourcesRegisterCmd() *cobra.Command {
	var author string
	var authorityLevel int
	cmd := &cobra.Command{
		Use:   "register <title>",
		Short: "Register a source book without ingesting a PDF",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSourcesRegister(cmd, args[0], author, authorityLevel)
		},
	}
	cmd.Flags().StringVar(&author, "author", "", "Source author")
	cmd.Flags().IntVar(&authorityLevel, "authority", 0, "1=classical, 2=traditional, 3=modern (required)")
	cmd.MarkFlagRequired("authority")
	return cmd
}

func runSourcesRegister(cmd *cobra.Command, title, author string, authorityLevel int) error {
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

	source, err := p.RegisterSource(ctx, rule.SourceBook{
		Title:          title,
		Author:         author,
		AuthorityLevel: rule.AuthorityLevel(authorityLevel),
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "Registered %q (authority %d)\n", source.Title, source.AuthorityLevel)
	return nil
}
