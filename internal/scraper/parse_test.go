package scraper

import (
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/ytget/kicktracker/internal/model"
)

func loadDoc(t *testing.T, name string) *goquery.Document {
	t.Helper()
	f, err := os.Open("testdata/" + name)
	require.NoError(t, err)
	defer f.Close()
	doc, err := goquery.NewDocumentFromReader(f)
	require.NoError(t, err)
	return doc
}

func docFromString(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func TestParseProject(t *testing.T) {
	doc := loadDoc(t, "project.html")

	record, err := ParseProject(doc, DefaultLocale)
	require.NoError(t, err)

	want := model.ProjectRecord{
		Title:         "Killer Bunnies Quest Deluxe",
		PercentRaised: 1.37,
		Pledged:       1234567.5,
		PledgedAmount: "$1,234,567.50",
		BackerCount:   "4213",
		UpdateCount:   "12",
		EndTime:       time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	if diff := cmp.Diff(want, record); diff != "" {
		t.Errorf("ParseProject() mismatch (-want +got):\n%s", diff)
	}

	require.Equal(t, "137.00%", record.PrettyPercent())
	require.Equal(t, 1.0, record.Fraction())
	require.Equal(t, time.UTC, record.EndTime.Location())
}

func TestParseProject_MissingFields(t *testing.T) {
	const full = `<h1 id="title">T</h1>
<div id="pledged" data-percent-raised="0.5" data-pledged="10"></div>
<span id="project_duration_data" data-end_time="Mon, 01 Jan 2024 00:00:00 +0000"></span>
<div id="backers_count" data-backers-count="3"></div>
<li id="updates_nav"><span class="count">1</span></li>`

	_, err := ParseProject(docFromString(t, full), DefaultLocale)
	require.NoError(t, err)

	cases := []struct {
		name  string
		html  string
		field string
	}{
		{"no title", strings.Replace(full, `<h1 id="title">T</h1>`, "", 1), FieldTitle},
		{"empty title", strings.Replace(full, `<h1 id="title">T</h1>`, `<h1 id="title">  </h1>`, 1), FieldTitle},
		{"no percent", strings.Replace(full, `data-percent-raised="0.5"`, "", 1), FieldPercent},
		{"bad percent", strings.Replace(full, `data-percent-raised="0.5"`, `data-percent-raised="lots"`, 1), FieldPercent},
		{"negative percent", strings.Replace(full, `data-percent-raised="0.5"`, `data-percent-raised="-0.1"`, 1), FieldPercent},
		{"no pledged", strings.Replace(full, `data-pledged="10"`, "", 1), FieldPledged},
		{"no end time", strings.Replace(full, `data-end_time="Mon, 01 Jan 2024 00:00:00 +0000"`, "", 1), FieldEndTime},
		{"bad end time", strings.Replace(full, `Mon, 01 Jan 2024 00:00:00 +0000`, "2024-01-01", 1), FieldEndTime},
		{"no backers", strings.Replace(full, `data-backers-count="3"`, "", 1), FieldBackers},
		{"no updates", strings.Replace(full, `<span class="count">1</span>`, "", 1), FieldUpdates},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			record, err := ParseProject(docFromString(t, c.html), DefaultLocale)
			require.Error(t, err)
			require.True(t, errors.Is(err, ErrMissingField))
			require.True(t, IsRecoverable(err))

			var fieldErr *FieldError
			require.True(t, errors.As(err, &fieldErr))
			require.Equal(t, c.field, fieldErr.Field)
			require.Equal(t, model.ProjectRecord{}, record, "no partial record")
		})
	}
}

func TestParseProject_TitleWithoutAnchor(t *testing.T) {
	html := `<h1 id="title">  Plain
  Title </h1>
<div id="pledged" data-percent-raised="0" data-pledged="0"></div>
<span id="project_duration_data" data-end_time="Mon, 01 Jan 2024 00:00:00 +0000"></span>
<div id="backers_count" data-backers-count="0"></div>
<li id="updates_nav"><span class="count">0</span></li>`

	record, err := ParseProject(docFromString(t, html), DefaultLocale)
	require.NoError(t, err)
	require.Equal(t, "Plain Title", record.Title)
	require.Equal(t, "$0.00", record.PledgedAmount)
}

func TestParseEndTime_KeepsInstant(t *testing.T) {
	got, err := ParseEndTime("Thu, 16 Aug 2012 22:59:59 -0400")
	require.NoError(t, err)
	require.Equal(t, time.UTC, got.Location())
	require.True(t, got.Equal(time.Date(2012, 8, 17, 2, 59, 59, 0, time.UTC)))
}

func TestParseProfile(t *testing.T) {
	doc := loadDoc(t, "profile.html")

	ids := ParseProfile(doc, "www.kickstarter.com")
	require.Equal(t, []string{
		"playroom/killer-bunnies-quest-deluxe",
		"hiddenpath/defense-grid-2",
		"ouya/ouya-a-new-kind-of-video-game-console",
	}, ids)
}

func TestNormalizeID(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"playroom/killer-bunnies-quest-deluxe", "playroom/killer-bunnies-quest-deluxe", true},
		{" 597507018/pebble-e-paper-watch-for-iphone-and-android ", "597507018/pebble-e-paper-watch-for-iphone-and-android", true},
		{"/projects/hiddenpath/defense-grid-2", "hiddenpath/defense-grid-2", true},
		{"http://www.kickstarter.com/projects/ouya/ouya?ref=home", "ouya/ouya", true},
		{"https://www.kickstarter.com/projects/a/b/posts", "a/b", true},
		{"/profile/jdoe", "", false},
		{"https://www.kickstarter.com/discover", "", false},
		{"justone", "", false},
		{"", "", false},
	}

	for _, c := range cases {
		got, ok := NormalizeID(c.in)
		require.Equal(t, c.ok, ok, c.in)
		require.Equal(t, c.want, got, c.in)
	}
}
