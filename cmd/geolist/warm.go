package main

import (
	"fmt"
	"text/tabwriter"

	"geolist/internal/serve"

	"github.com/spf13/cobra"
)

var warmWorkers int

var warmCmd = &cobra.Command{
	Use:   "warm",
	Short: "Fetch every section once and report the listing pages it yields",
	Long: `Load each configured section from the content API, filling the response
cache when api.cache_path is set, and print how many items and listing pages
each section produced.`,
	Args: cobra.NoArgs,
	RunE: runWarm,
}

func init() {
	warmCmd.Flags().IntVarP(&warmWorkers, "workers", "j", 0, "Concurrent section reads (default: GOMAXPROCS)")
}

func runWarm(cmd *cobra.Command, args []string) error {
	pages, err := serve.NewPages(cfg, logger)
	if err != nil {
		return err
	}
	defer pages.Close()

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SECTION\tITEMS\tPAGES")
	for _, res := range pages.Warm(cmd.Context(), warmWorkers) {
		fmt.Fprintf(tw, "%s\t%d\t%d\n", res.Section, res.Items, len(res.Routes))
	}
	return tw.Flush()
}
