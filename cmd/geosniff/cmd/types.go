package cmd

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spatialworks/geosniff/internal/catalog"
	"github.com/spatialworks/geosniff/internal/core/config"
	"github.com/spf13/cobra"
)

var typesCmd = &cobra.Command{
	Use:   "types",
	Short: "List the type catalog as a tree",
	RunE:  runTypes,
}

func init() {
	rootCmd.AddCommand(typesCmd)
}

func runTypes(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	cat, err := buildCatalog(cfg)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	bold := color.New(color.Bold)
	gray := color.New(color.FgHiBlack)

	var walk func(rec *catalog.Record, depth int)
	walk = func(rec *catalog.Record, depth int) {
		indent := strings.Repeat("  ", depth)
		marker := ""
		if rec.Detectable() {
			marker = " *"
		}
		bold.Fprintf(out, "%s%s%s", indent, rec.Label, marker)
		gray.Fprintf(out, "  %s\n", rec.ID)
		for _, sub := range rec.Subtypes {
			walk(sub, depth+1)
		}
	}

	for _, rec := range cat.Records() {
		if rec.Parent == nil {
			walk(rec, 0)
		}
	}
	gray.Fprintln(out, "\n* detected by content inspection")
	return nil
}
