package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gravitrone/testbuilder/internal/pool"
	"github.com/gravitrone/testbuilder/internal/printer"
)

// ItemsCmd returns the `testbuilder items` command.
func ItemsCmd(flags *StoreFlags) *cobra.Command {
	var category int
	cmd := &cobra.Command{
		Use:   "items",
		Short: "Print the item bank by category",
		RunE: func(c *cobra.Command, _ []string) error {
			p := printer.New(c.OutOrStdout(), c.ErrOrStderr())
			backend, closeFn, err := OpenBackend(c.Context(), flags)
			if err != nil {
				return p.Error("no item bank", err.Error(), []string{
					"run `testbuilder login` to use a server",
					"pass --db to use a local database",
				})
			}
			defer closeFn()

			bank, err := pool.LoadBank(c.Context(), backend)
			if err != nil {
				return fmt.Errorf("load bank: %w", err)
			}
			return printBank(p, bank, pool.CategoryID(category))
		},
	}
	cmd.Flags().IntVarP(&category, "category", "c", 0, "only print one category")
	return cmd
}

func printBank(p *printer.Printer, bank pool.Bank, only pool.CategoryID) error {
	cats := bank.Catalog.Categories
	if len(cats) == 0 {
		cats = pool.DefaultCategories
	}
	index := pool.NewCategoryIndex(cats)
	if only != 0 && !index.Known(only) {
		return fmt.Errorf("%w: %d", pool.ErrUnknownCategory, only)
	}

	buckets, err := index.Recompute(bank.Items)
	if err != nil {
		p.Warning("%v\n", err)
	}

	for _, cat := range index.Categories() {
		if only != 0 && cat.ID != only {
			continue
		}
		items := buckets[cat.ID]
		p.Heading("%s (%d)\n", cat.Name, len(items))
		if len(items) == 0 {
			p.Muted("  no items\n")
			continue
		}
		for _, it := range items {
			p.Info("  #%-5d %s", it.ID, it.Text)
			if it.ContextID != nil {
				source, ok := bank.Catalog.ContextSource(*it.ContextID)
				if !ok {
					source = fmt.Sprintf("context %d", *it.ContextID)
				}
				p.Muted("  [%s]", source)
			}
			p.Info("\n")
		}
	}
	return nil
}
