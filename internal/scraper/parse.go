package scraper

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/ytget/kicktracker/internal/model"
)

// Element locators on a project page
const (
	TitleSelector     = "h1#title"
	PledgeSelector    = "div#pledged"
	DurationSelector  = "span#project_duration_data"
	BackersSelector   = "#backers_count"
	UpdatesSelector   = "#updates_nav .count"
	PercentAttr       = "data-percent-raised"
	PledgedAttr       = "data-pledged"
	EndTimeAttr       = "data-end_time"
	BackersAttr       = "data-backers-count"
	ProfileLinkFilter = "a[href]"
)

// EndTimeLayout is the format of the deadline attribute, offset included
const EndTimeLayout = "Mon, 02 Jan 2006 15:04:05 -0700"

// Field names reported in FieldError
const (
	FieldTitle   = "title"
	FieldPercent = "percent_raised"
	FieldPledged = "pledged"
	FieldEndTime = "end_time"
	FieldBackers = "backer_count"
	FieldUpdates = "update_count"
)

// URL path prefix of project pages
const ProjectsPathPrefix = "projects/"

// ParseProject extracts a complete record from a project page
func ParseProject(doc *goquery.Document, locale Locale) (model.ProjectRecord, error) {
	var record model.ProjectRecord

	title := doc.Find(TitleSelector).First()
	if title.Length() == 0 {
		return model.ProjectRecord{}, missing(FieldTitle, nil)
	}
	record.Title = cleanText(title.Find("a").First().Text())
	if record.Title == "" {
		record.Title = cleanText(title.Text())
	}
	if record.Title == "" {
		return model.ProjectRecord{}, missing(FieldTitle, nil)
	}

	pledge := doc.Find(PledgeSelector).First()
	percent, err := floatAttr(pledge, PercentAttr)
	if err != nil {
		return model.ProjectRecord{}, missing(FieldPercent, err)
	}
	if percent < 0 || math.IsInf(percent, 0) {
		return model.ProjectRecord{}, missing(FieldPercent, fmt.Errorf("out of range: %v", percent))
	}
	record.PercentRaised = percent

	pledged, err := floatAttr(pledge, PledgedAttr)
	if err != nil {
		return model.ProjectRecord{}, missing(FieldPledged, err)
	}
	record.Pledged = pledged
	record.PledgedAmount = locale.FormatCurrency(pledged)

	rawEnd, ok := doc.Find(DurationSelector).First().Attr(EndTimeAttr)
	if !ok {
		return model.ProjectRecord{}, missing(FieldEndTime, nil)
	}
	end, err := ParseEndTime(rawEnd)
	if err != nil {
		return model.ProjectRecord{}, missing(FieldEndTime, err)
	}
	record.EndTime = end

	backers, ok := doc.Find(BackersSelector).First().Attr(BackersAttr)
	backers = strings.TrimSpace(backers)
	if !ok || backers == "" {
		return model.ProjectRecord{}, missing(FieldBackers, nil)
	}
	record.BackerCount = backers

	updates := cleanText(doc.Find(UpdatesSelector).First().Text())
	if updates == "" {
		return model.ProjectRecord{}, missing(FieldUpdates, nil)
	}
	record.UpdateCount = updates

	return record, nil
}

// ParseEndTime parses the deadline attribute and normalizes it to UTC
func ParseEndTime(raw string) (time.Time, error) {
	t, err := time.Parse(EndTimeLayout, strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

// ParseProfile returns the project identifiers linked from a profile page, in
// page order and without duplicates. Links to other hosts are ignored.
func ParseProfile(doc *goquery.Document, host string) []string {
	seen := make(map[string]bool)
	ids := make([]string, 0)

	doc.Find(ProfileLinkFilter).Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		u, err := url.Parse(strings.TrimSpace(href))
		if err != nil {
			return
		}
		if u.Host != "" && host != "" && !strings.EqualFold(u.Host, host) {
			return
		}
		if !strings.HasPrefix(strings.TrimPrefix(u.Path, "/"), ProjectsPathPrefix) {
			return
		}
		id, ok := NormalizeID(u.Path)
		if !ok || seen[id] {
			return
		}
		seen[id] = true
		ids = append(ids, id)
	})

	return ids
}

// NormalizeID turns a project path segment, a "/projects/..." path or a full
// URL into the canonical "creator/slug" identifier.
func NormalizeID(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", false
	}

	rooted := strings.HasPrefix(u.Path, "/")
	p := strings.Trim(u.Path, "/")
	switch {
	case strings.HasPrefix(p, ProjectsPathPrefix):
		p = strings.TrimPrefix(p, ProjectsPathPrefix)
	case u.IsAbs() || rooted:
		return "", false
	}

	segments := strings.Split(p, "/")
	if len(segments) < 2 || segments[0] == "" || segments[1] == "" {
		return "", false
	}
	return segments[0] + "/" + segments[1], true
}

func floatAttr(sel *goquery.Selection, attr string) (float64, error) {
	raw, ok := sel.Attr(attr)
	if !ok {
		return 0, fmt.Errorf("attribute %s not found", attr)
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) {
		return 0, fmt.Errorf("attribute %s is NaN", attr)
	}
	return v, nil
}

// cleanText collapses whitespace the same way the row widgets expect
func cleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
