// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/answer-engine/internal/classify"
	"github.com/pdiddy/answer-engine/internal/dispatch"
)

// routeEntry is one catalogue row as printed by the routes command.
type routeEntry struct {
	Order     int      `yaml:"order"`
	Name      string   `yaml:"name"`
	Predicate string   `yaml:"predicate"`
	Keywords  []string `yaml:"keywords"`
}

var routesCmd = &cobra.Command{
	Use:   "routes",
	Short: "List the classification catalogue in match order",
	Long: `Routes prints the binding table. Questions are tested against the rows
from top to bottom and the first row whose predicate holds answers the
question; questions no row matches go to the fallback provider.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(viper.GetViper(), loadedSecrets)
		if err != nil {
			return err
		}
		catalogue, err := dispatch.DefaultCatalogue(dispatch.Deps{Config: cfg})
		if err != nil {
			return err
		}

		entries := routeEntries(catalogue)
		if asYAML, _ := cmd.Flags().GetBool("yaml"); asYAML {
			return writeRoutesYAML(cmd.OutOrStdout(), entries)
		}
		writeRoutesTable(cmd.OutOrStdout(), entries, string(cfg.Fallback.Provider))
		return nil
	},
}

func routeEntries(c *classify.Catalogue) []routeEntry {
	bindings := c.Bindings()
	entries := make([]routeEntry, len(bindings))
	for i, b := range bindings {
		entries[i] = routeEntry{
			Order:     i + 1,
			Name:      b.Name,
			Predicate: b.Predicate.String(),
			Keywords:  b.Predicate.Keywords(),
		}
	}
	return entries
}

func writeRoutesYAML(w io.Writer, entries []routeEntry) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(entries); err != nil {
		return fmt.Errorf("encoding routes: %w", err)
	}
	return enc.Close()
}

func writeRoutesTable(w io.Writer, entries []routeEntry, provider string) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"#", "Name", "Predicate"})
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetBorder(false)
	for _, e := range entries {
		table.Append([]string{strconv.Itoa(e.Order), e.Name, e.Predicate})
	}
	table.Append([]string{"-", dispatch.RouteFallback, "otherwise (" + provider + ")"})
	table.Render()
}

func init() {
	routesCmd.Flags().Bool("yaml", false, "output the catalogue as YAML")

	rootCmd.AddCommand(routesCmd)
}
