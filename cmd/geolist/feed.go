package main

import (
	"encoding/json"
	"fmt"
	"net/url"

	"geolist/internal/domain/site"
	"geolist/internal/serve"

	"github.com/spf13/cobra"
)

var feedCategory string

var feedCmd = &cobra.Command{
	Use:   "feed <path>",
	Short: "Print the JSON page for a listing path",
	Long: `Build one listing page without starting a server and print it as JSON.

Example:
  geolist feed /blog/usa/texas --category seo`,
	Args: cobra.ExactArgs(1),
	RunE: runFeed,
}

func init() {
	feedCmd.Flags().StringVar(&feedCategory, "category", "", "Apply a category filter")
}

func runFeed(cmd *cobra.Command, args []string) error {
	u, err := url.Parse(args[0])
	if err != nil {
		return fmt.Errorf("feed: bad path %q: %w", args[0], err)
	}
	q := u.Query()
	if feedCategory != "" {
		q.Set("category", feedCategory)
	}

	pages, err := serve.NewPages(cfg, logger)
	if err != nil {
		return err
	}
	defer pages.Close()

	route := site.ParseListing("", u.Path, q)
	page, _, err := pages.Build(cmd.Context(), route)
	if err != nil {
		return fmt.Errorf("feed %s: %w", u.Path, err)
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(page)
}
