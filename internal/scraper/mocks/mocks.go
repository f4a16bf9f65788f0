package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/ytget/kicktracker/internal/model"
)

// Scraper is a mock for scraper.Scraper.
type Scraper struct {
	mock.Mock
}

func (m *Scraper) Scrape(ctx context.Context, id string) (model.ProjectRecord, error) {
	args := m.Called(ctx, id)
	if record, ok := args.Get(0).(model.ProjectRecord); ok {
		return record, args.Error(1)
	}
	return model.ProjectRecord{}, args.Error(1)
}

func (m *Scraper) ProfileProjects(ctx context.Context, profile string) ([]string, error) {
	args := m.Called(ctx, profile)
	if ids, ok := args.Get(0).([]string); ok {
		return ids, args.Error(1)
	}
	return nil, args.Error(1)
}
