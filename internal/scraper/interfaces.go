package scraper

import (
	"context"

	"github.com/ytget/kicktracker/internal/model"
)

// Scraper defines the interface for the page scraper.
type Scraper interface {
	// Scrape fetches one project page. Errors wrap ErrTransport or ErrMissingField.
	Scrape(ctx context.Context, id string) (model.ProjectRecord, error)

	// ProfileProjects lists the project identifiers linked from a profile page
	ProfileProjects(ctx context.Context, profile string) ([]string, error)
}
