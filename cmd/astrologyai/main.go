package main

import (
	"os"

	"github.com/spf13/cobra"
)

// logMode controls the structured logger's encoding: "development"
// (console, debug level) or "production" (JSON, info level).
var logMode string

func main() {
	root := &cobra.Command{
		Use:   "astrologyai",
		Short: "Vedic astrology rule extraction and knowledge base",
	}
	root.Version = version
	root.SetVersionTemplate("{{.Version}}\n")
	root.PersistentFlags().StringVar(&logMode, "log-mode", "development", "development or production")
	root.AddCommand(ingestCmd())
	root.AddCommand(searchCmd())
	root.AddCommand(getCmd())
	root.AddCommand(correctCmd())
	root.AddCommand(sourcesCmd())
	root.AddCommand(exportCmd())
	root.AddCommand(importCmd())
	root.AddCommand(serveCmd())
	root.AddCommand(versionCmd())
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
