package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ytget/kicktracker/internal/config"
	"github.com/ytget/kicktracker/internal/logger"
	"github.com/ytget/kicktracker/internal/scraper"
)

var (
	baseURL  string
	logLevel string
)

var rootCmd = &cobra.Command{
	Use:          "kicktracker",
	Short:        "kicktracker inspects crowdfunding project pages without the GUI.",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&baseURL, "base-url", "", "Site to scrape, overrides the config file.")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level, overrides the config file.")
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newClient builds a scraper from the runtime config and the global flags
func newClient() (*scraper.Client, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	if baseURL != "" {
		cfg.Site.BaseURL = baseURL
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}

	log, err := logger.New(cfg.Log.Level)
	if err != nil {
		return nil, nil, err
	}
	locale, err := scraper.ParseLocale(cfg.Locale.Tag, cfg.Locale.Symbol)
	if err != nil {
		return nil, nil, err
	}
	client, err := scraper.NewClient(scraper.Options{
		BaseURL:   cfg.Site.BaseURL,
		Timeout:   cfg.Site.Timeout,
		UserAgent: cfg.Site.UserAgent,
		Locale:    locale,
		Logger:    log,
	})
	if err != nil {
		return nil, nil, err
	}
	return client, log, nil
}
