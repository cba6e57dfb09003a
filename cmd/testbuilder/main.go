package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/gravitrone/testbuilder/internal/cmd"
	"github.com/gravitrone/testbuilder/internal/config"
	"github.com/gravitrone/testbuilder/internal/pool"
	"github.com/gravitrone/testbuilder/internal/ui"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	// Force truecolor so hex colors render correctly
	// Must be set before any lipgloss style initialization
	os.Setenv("COLORTERM", "truecolor")
}

func newRootCmd() *cobra.Command {
	flags := &cmd.StoreFlags{}
	opts := ui.Options{}

	root := &cobra.Command{
		Use:   "testbuilder",
		Short: "testbuilder - assemble tests from a question bank",
		Long:  "testbuilder: pick questions from the item bank by category, order them, and save the test.",
		RunE: func(c *cobra.Command, _ []string) error {
			return runTUI(c.Context(), flags, opts)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&flags.Driver, "driver", "", "local database driver (sqlite or pgx)")
	root.PersistentFlags().StringVar(&flags.DSN, "db", "", "local database DSN or sqlite file")
	root.Flags().StringVar(&opts.TestID, "test", "", "saved test to resume")
	root.Flags().StringVar(&opts.Title, "title", "", "default title when saving")

	root.AddCommand(cmd.LoginCmd())
	root.AddCommand(cmd.ItemsCmd(flags))
	root.AddCommand(cmd.TestsCmd(flags))
	root.AddCommand(cmd.ImportCmd(flags))
	root.AddCommand(cmd.ServeCmd(flags))
	return root
}

func runTUI(ctx context.Context, flags *cmd.StoreFlags, opts ui.Options) error {
	if cfg, err := config.Load(); err == nil {
		opts.VimKeys = cfg.VimKeys
		if opts.Category == 0 {
			opts.Category = pool.CategoryID(cfg.DefaultCategory)
		}
		if cfg.DebugLog != "" {
			f, err := tea.LogToFile(cfg.DebugLog, "testbuilder")
			if err != nil {
				return fmt.Errorf("debug log: %w", err)
			}
			defer f.Close()
		} else {
			log.SetOutput(io.Discard)
		}
	} else {
		log.SetOutput(io.Discard)
	}

	backend, closeBackend, err := cmd.OpenBackend(ctx, flags)
	defer closeBackend()
	if err != nil {
		if !errors.Is(err, cmd.ErrNoBackend) {
			return err
		}
		if !isInteractiveTerminal(os.Stdin) || !isInteractiveTerminal(os.Stdout) {
			fmt.Println("not logged in. run 'testbuilder login' first.")
			return err
		}
	}

	// A nil backend shows the not-configured screen.
	app := ui.NewApp(backend, opts)

	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui error: %w", err)
	}
	return nil
}

func isInteractiveTerminal(file *os.File) bool {
	if file == nil {
		return false
	}
	info, err := file.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
