package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gravitrone/testbuilder/internal/printer"
	"github.com/gravitrone/testbuilder/internal/store"
)

// ImportCmd returns the `testbuilder import` command.
func ImportCmd(flags *StoreFlags) *cobra.Command {
	var itemsPath, catalogPath string
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import a legacy question list and catalog into the local store",
		RunE: func(c *cobra.Command, _ []string) error {
			p := printer.New(c.OutOrStdout(), c.ErrOrStderr())

			itemsFile, err := os.Open(itemsPath)
			if err != nil {
				return fmt.Errorf("open items: %w", err)
			}
			defer itemsFile.Close()
			catalogFile, err := os.Open(catalogPath)
			if err != nil {
				return fmt.Errorf("open catalog: %w", err)
			}
			defer catalogFile.Close()

			p.Step("reading %s and %s\n", itemsPath, catalogPath)
			bank, err := store.DecodeLegacy(itemsFile, catalogFile)
			if err != nil {
				return err
			}

			s, err := OpenStore(c.Context(), flags)
			if err != nil {
				return p.Error("store unavailable", err.Error(), []string{"check --driver and --db"})
			}
			defer s.Close()

			res, err := s.ImportBank(c.Context(), bank)
			if err != nil {
				return fmt.Errorf("import: %w", err)
			}
			p.Success("imported %d items, %d answer options\n", res.Items, res.Options)
			p.Muted("  %d categories, %d tags, %d contexts\n", res.Categories, res.Tags, res.Contexts)
			return nil
		},
	}
	cmd.Flags().StringVar(&itemsPath, "items", "", "question list JSON file")
	cmd.Flags().StringVar(&catalogPath, "catalog", "", "tags, categories, contexts and answer options JSON file")
	_ = cmd.MarkFlagRequired("items")
	_ = cmd.MarkFlagRequired("catalog")
	return cmd
}
