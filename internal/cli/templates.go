package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cbrunet/conforma/internal/template"
)

var templatesCategory string

// templatesCmd represents the templates command
var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "List registered document templates",
	Long: `Templates lists the registered product categories and their control
points. Use --category to see the full checklist of one template.

Example:
  conforma templates
  conforma templates --category agro`,
	RunE: runTemplates,
}

func init() {
	rootCmd.AddCommand(templatesCmd)

	templatesCmd.Flags().StringVar(&templatesCategory, "category", "", "show the full checklist of one category")
}

func runTemplates(cmd *cobra.Command, args []string) error {
	registry := template.NewRegistry()

	if templatesCategory != "" {
		tpl, err := registry.Get(templatesCategory)
		if err != nil {
			return err
		}

		fmt.Printf("%s (%s)\n", tpl.Name, tpl.Category)
		if tpl.Description != "" {
			fmt.Printf("%s\n", tpl.Description)
		}
		fmt.Printf("\nPoints de contrôle (%d):\n\n", len(tpl.Points))
		for i, p := range tpl.Points {
			fmt.Printf("%2d. %s [%s]", i+1, p.Name, p.Criticity)
			if p.Required {
				fmt.Print(" (requis)")
			}
			fmt.Println()
			if p.Description != "" {
				fmt.Printf("    %s\n", p.Description)
			}
			if len(p.Synonyms) > 0 {
				fmt.Printf("    Synonymes: %v\n", p.Synonyms)
			}
		}
		return nil
	}

	for _, tpl := range registry.List() {
		fmt.Printf("%-14s %s (%d points)\n", tpl.Category, tpl.Name, len(tpl.Points))
	}
	return nil
}
