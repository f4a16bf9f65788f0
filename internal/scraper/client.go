package scraper

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/ytget/kicktracker/internal/logger"
	"github.com/ytget/kicktracker/internal/model"
)

// Client defaults
const (
	DefaultBaseURL   = "https://www.kickstarter.com"
	DefaultTimeout   = 15 * time.Second
	DefaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36"
)

// URL templates relative to the base URL
const (
	ProjectPathTemplate = "/projects/%s"
	ProfilePathTemplate = "/profile/%s"
)

var tracer = otel.Tracer("kicktracker/scraper")

// Options configures a Client
type Options struct {
	BaseURL   string
	Timeout   time.Duration
	UserAgent string
	Locale    Locale
	Logger    *zap.Logger
}

// Client scrapes project and profile pages over HTTP
type Client struct {
	http    *resty.Client
	baseURL *url.URL
	locale  Locale
	log     *zap.Logger
}

// NewClient creates a scraper client; zero options fall back to defaults
func NewClient(opts Options) (*Client, error) {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}

	baseURL, err := url.Parse(strings.TrimRight(opts.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", opts.BaseURL, err)
	}
	if baseURL.Scheme == "" || baseURL.Host == "" {
		return nil, fmt.Errorf("base URL must be absolute: %q", opts.BaseURL)
	}

	client := resty.New()
	client.SetTimeout(opts.Timeout)
	client.SetHeader("User-Agent", opts.UserAgent)
	client.SetHeader("Accept", "text/html")

	return &Client{
		http:    client,
		baseURL: baseURL,
		locale:  opts.Locale,
		log:     logger.OrNop(opts.Logger),
	}, nil
}

// ProjectURL returns the page URL of a project identifier
func (c *Client) ProjectURL(id string) string {
	segments := strings.Split(id, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return c.baseURL.String() + fmt.Sprintf(ProjectPathTemplate, strings.Join(segments, "/"))
}

// ProfileURL returns the listing page of a profile
func (c *Client) ProfileURL(profile string) string {
	return c.baseURL.String() + fmt.Sprintf(ProfilePathTemplate, url.PathEscape(profile))
}

// Scrape fetches and parses one project page
func (c *Client) Scrape(ctx context.Context, id string) (model.ProjectRecord, error) {
	ctx, span := tracer.Start(ctx, "scraper:Scrape", trace.WithAttributes(attribute.String("project", id)))
	defer span.End()

	normalized, ok := NormalizeID(id)
	if !ok {
		err := fmt.Errorf("invalid project identifier %q", id)
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid identifier")
		return model.ProjectRecord{}, err
	}

	link := c.ProjectURL(normalized)
	doc, err := c.fetch(ctx, link)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch")
		return model.ProjectRecord{}, err
	}

	record, err := ParseProject(doc, c.locale)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse project page")
		c.log.Warn("project page missing fields", zap.String("project", normalized), zap.Error(err))
		return model.ProjectRecord{}, err
	}

	c.log.Debug("scraped project",
		zap.String("project", normalized),
		zap.Float64("percent_raised", record.PercentRaised),
		zap.Time("end_time", record.EndTime),
	)
	return record, nil
}

// ProfileProjects fetches a profile page and lists the projects it links to
func (c *Client) ProfileProjects(ctx context.Context, profile string) ([]string, error) {
	ctx, span := tracer.Start(ctx, "scraper:ProfileProjects", trace.WithAttributes(attribute.String("profile", profile)))
	defer span.End()

	profile = strings.TrimSpace(profile)
	if profile == "" {
		return nil, nil
	}

	doc, err := c.fetch(ctx, c.ProfileURL(profile))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch")
		return nil, err
	}

	ids := ParseProfile(doc, c.baseURL.Host)
	span.SetAttributes(attribute.Int("projects", len(ids)))
	c.log.Debug("scraped profile", zap.String("profile", profile), zap.Int("projects", len(ids)))
	return ids, nil
}

// fetch performs a bounded GET and parses the body as HTML
func (c *Client) fetch(ctx context.Context, link string) (*goquery.Document, error) {
	res, err := c.http.R().
		SetContext(ctx).
		Get(link)
	if err != nil {
		return nil, &TransportError{URL: link, Err: err}
	}
	if res.StatusCode() < http.StatusOK || res.StatusCode() >= http.StatusMultipleChoices {
		return nil, &TransportError{URL: link, Status: res.StatusCode()}
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(res.Body()))
	if err != nil {
		return nil, &TransportError{URL: link, Err: fmt.Errorf("read html: %w", err)}
	}
	return doc, nil
}
