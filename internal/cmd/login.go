package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/gravitrone/testbuilder/internal/api"
	"github.com/gravitrone/testbuilder/internal/config"
)

// RunInteractiveLogin prompts for the API URL and key, verifies them, and
// persists config. Existing preferences in the config are kept.
func RunInteractiveLogin(ctx context.Context, in io.Reader, out io.Writer) error {
	reader := bufio.NewReader(in)

	fmt.Fprintf(out, "api url [%s]: ", api.DefaultBaseURL)
	apiURL, _ := reader.ReadString('\n')
	apiURL = strings.TrimSpace(apiURL)
	if apiURL == "" {
		apiURL = api.DefaultBaseURL
	}
	if !strings.HasPrefix(apiURL, "http://") && !strings.HasPrefix(apiURL, "https://") {
		return fmt.Errorf("api url must start with http:// or https://")
	}

	fmt.Fprint(out, "api key (empty for none): ")
	apiKey, _ := reader.ReadString('\n')
	apiKey = strings.TrimSpace(apiKey)

	client := api.NewClient(apiURL, apiKey, 10*time.Second)
	health, err := client.Health(ctx)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}
	// Health is public; the catalog checks the key.
	if _, err := client.Catalog(ctx); err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	cfg, err := config.Load()
	if err != nil {
		cfg = &config.Config{VimKeys: true}
	}
	cfg.APIURL = apiURL
	cfg.APIKey = apiKey
	cfg.Store = config.Store{}

	if err := cfg.Save(); err != nil {
		return fmt.Errorf("save config: %w", err)
	}

	fmt.Fprintf(out, "connected to %s (%d items)\n", client.BaseURL(), health.Items)
	fmt.Fprintf(out, "config saved to %s\n", config.Path())
	return nil
}

// LoginCmd returns the `testbuilder login` command.
func LoginCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Connect to an item bank server",
		RunE: func(c *cobra.Command, _ []string) error {
			return RunInteractiveLogin(c.Context(), os.Stdin, c.OutOrStdout())
		},
	}
}
