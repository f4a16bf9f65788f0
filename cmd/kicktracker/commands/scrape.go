package commands

import (
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ytget/kicktracker/internal/scraper"
)

func init() {
	rootCmd.AddCommand(scrapeCmd)
}

var scrapeCmd = &cobra.Command{
	Use:   "scrape <creator/slug>...",
	Short: "Scrapes the given projects and prints their funding state.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, log, err := newClient()
		if err != nil {
			return err
		}
		defer func() { _ = log.Sync() }()

		results := make([]projectResult, 0, len(args))
		for _, arg := range args {
			id, ok := scraper.NormalizeID(arg)
			if !ok {
				id = arg
			}
			record, err := client.Scrape(cmd.Context(), id)
			if err != nil {
				log.Warn("scrape failed", zap.String("project", id), zap.Error(err))
			}
			results = append(results, projectResult{ID: id, Record: record, Err: err})
		}

		renderProjects(cmd.OutOrStdout(), results, time.Now().UTC())
		return nil
	},
}
