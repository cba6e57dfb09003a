package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gravitrone/testbuilder/internal/pool"
	"github.com/gravitrone/testbuilder/internal/printer"
)

// TestsCmd returns the `testbuilder tests` command group.
func TestsCmd(flags *StoreFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tests",
		Short: "Inspect saved tests",
	}
	cmd.AddCommand(testsListCmd(flags))
	cmd.AddCommand(testsShowCmd(flags))
	return cmd
}

func testsListCmd(flags *StoreFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved tests, newest first",
		RunE: func(c *cobra.Command, _ []string) error {
			p := printer.New(c.OutOrStdout(), c.ErrOrStderr())
			backend, closeFn, err := OpenBackend(c.Context(), flags)
			if err != nil {
				return fmt.Errorf("not logged in: %w", err)
			}
			defer closeFn()

			tests, err := backend.ListTests(c.Context())
			if err != nil {
				return fmt.Errorf("list tests: %w", err)
			}
			if len(tests) == 0 {
				p.Info("no saved tests\n")
				return nil
			}
			for _, t := range tests {
				p.Info("  %s  %-30s  %2d items  ", t.ID, t.Title, len(t.ItemIDs))
				p.Muted("%s\n", t.CreatedAt.Local().Format("2006-01-02 15:04"))
			}
			return nil
		},
	}
}

func testsShowCmd(flags *StoreFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "show <test-id>",
		Short: "Print a saved test in order",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			p := printer.New(c.OutOrStdout(), c.ErrOrStderr())
			backend, closeFn, err := OpenBackend(c.Context(), flags)
			if err != nil {
				return fmt.Errorf("not logged in: %w", err)
			}
			defer closeFn()

			test, err := backend.GetTest(c.Context(), args[0])
			if err != nil {
				return fmt.Errorf("get test: %w", err)
			}
			items, err := backend.Items(c.Context())
			if err != nil {
				return fmt.Errorf("load items: %w", err)
			}
			byID := make(map[pool.ItemID]pool.Item, len(items))
			for _, it := range items {
				byID[it.ID] = it
			}

			p.Heading("%s\n", test.Title)
			p.Muted("%s  %d items\n\n", test.ID, len(test.ItemIDs))
			for i, id := range test.ItemIDs {
				text := "(missing from bank)"
				if it, ok := byID[id]; ok {
					text = strings.TrimSpace(it.Text)
				}
				p.Info("%3d. #%-5d %s\n", i+1, id, text)
			}
			return nil
		},
	}
}
