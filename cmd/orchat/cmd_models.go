package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/blossomz37/orchat/internal/catalog"
)

func init() {
	rootCmd.AddCommand(modelsCmd)
}

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List the selectable models",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()

		cat, err := catalog.Load(cfg.ModelCatalog)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tLABEL\tKIND")
		for _, m := range cat.Models() {
			marker := ""
			if m.ID == cfg.Chat.DefaultModel {
				marker = " (default)"
			}
			fmt.Fprintf(w, "%s\t%s\t%s%s\n", m.ID, m.Label, m.Kind, marker)
		}
		return w.Flush()
	},
}
