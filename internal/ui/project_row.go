package ui

import (
	"fmt"
	"image/color"
	"math"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/ytget/kicktracker/internal/model"
)

// ProjectRow shows one tracked project: title, funding bar, pledged amount,
// backer and update counts, countdown and a staleness marker.
type ProjectRow struct {
	widget.BaseWidget

	projectID    string
	localization *Localization

	// UI components
	titleLabel    *widget.Label
	progressBar   *widget.ProgressBar
	pledgedLabel  *widget.Label
	backersLabel  *widget.Label
	updatesLabel  *widget.Label
	timeLeftLabel *widget.Label
	staleMarker   *canvas.Text
	openBtn       *widget.Button

	texts    map[model.Field]string
	fraction float64
	stale    bool

	onOpen func(projectID string)
}

// NewProjectRow creates a row for the project with the given identifier
func NewProjectRow(projectID string, localization *Localization) *ProjectRow {
	pr := &ProjectRow{
		projectID:    projectID,
		localization: localization,
		texts:        make(map[model.Field]string),
	}
	pr.ExtendBaseWidget(pr)
	pr.createUI()
	return pr
}

// SetOnOpen sets the callback of the open button
func (pr *ProjectRow) SetOnOpen(onOpen func(projectID string)) {
	pr.onOpen = onOpen
}

// ProjectID returns the identifier the row was created for
func (pr *ProjectRow) ProjectID() string {
	return pr.projectID
}

func (pr *ProjectRow) createUI() {
	pr.titleLabel = widget.NewLabel(pr.projectID)
	pr.titleLabel.TextStyle = fyne.TextStyle{Bold: true}
	pr.titleLabel.Truncation = fyne.TextTruncateEllipsis

	pr.progressBar = widget.NewProgressBar()
	pr.progressBar.Min = 0
	pr.progressBar.Max = 1
	pr.progressBar.TextFormatter = func() string {
		if text := pr.texts[model.FieldPercent]; text != "" {
			return text
		}
		return DashPlaceholder
	}

	pr.pledgedLabel = widget.NewLabel("")
	pr.backersLabel = widget.NewLabel("")
	pr.updatesLabel = widget.NewLabel("")
	pr.timeLeftLabel = widget.NewLabel("")
	pr.timeLeftLabel.TextStyle = fyne.TextStyle{Monospace: true}
	pr.timeLeftLabel.Alignment = fyne.TextAlignTrailing

	pr.staleMarker = canvas.NewText(IconStale+" "+pr.localization.GetText(KeyStale), colorStale)
	pr.staleMarker.TextSize = theme.CaptionTextSize()
	pr.staleMarker.Hide()

	pr.openBtn = widget.NewButton(IconOpen+" "+pr.localization.GetText(KeyOpen), func() {
		if pr.onOpen != nil {
			pr.onOpen(pr.projectID)
		}
	})
	pr.openBtn.Importance = widget.LowImportance

	pr.updateLabels()
}

// SetText sets one text field and refreshes the widget that shows it
func (pr *ProjectRow) SetText(field model.Field, text string) {
	pr.texts[field] = text
	pr.updateLabels()
	if field == model.FieldPercent {
		pr.progressBar.Refresh()
	}
}

// Text returns the raw value of a field as last set
func (pr *ProjectRow) Text(field model.Field) string {
	return pr.texts[field]
}

// SetFraction sets the bar position; values outside [0, 1] are clamped
func (pr *ProjectRow) SetFraction(fraction float64) {
	if math.IsNaN(fraction) || fraction < 0 {
		fraction = 0
	}
	if fraction > 1 {
		fraction = 1
	}
	pr.fraction = fraction
	pr.progressBar.SetValue(fraction)
}

// Fraction returns the bar position
func (pr *ProjectRow) Fraction() float64 {
	return pr.fraction
}

// SetStale toggles the failed refresh marker
func (pr *ProjectRow) SetStale(stale bool) {
	pr.stale = stale
	if stale {
		pr.staleMarker.Show()
	} else {
		pr.staleMarker.Hide()
	}
	pr.Refresh()
}

// IsStale reports whether the marker is shown
func (pr *ProjectRow) IsStale() bool {
	return pr.stale
}

// RefreshTexts re-applies localized strings after a language change
func (pr *ProjectRow) RefreshTexts() {
	pr.openBtn.SetText(IconOpen + " " + pr.localization.GetText(KeyOpen))
	pr.staleMarker.Text = IconStale + " " + pr.localization.GetText(KeyStale)
	pr.staleMarker.Refresh()
}

func (pr *ProjectRow) updateLabels() {
	title := pr.texts[model.FieldTitle]
	if title == "" {
		title = pr.projectID
	}
	pr.titleLabel.SetText(title)
	pr.pledgedLabel.SetText(withIcon(IconPledged, pr.texts[model.FieldPledged]))
	pr.backersLabel.SetText(withIcon(IconBackers, pr.texts[model.FieldBackers]))
	pr.updatesLabel.SetText(withIcon(IconUpdates, pr.texts[model.FieldUpdates]))
	pr.timeLeftLabel.SetText(withIcon(IconClock, pr.texts[model.FieldTimeLeft]))
}

func withIcon(icon, text string) string {
	if text == "" {
		text = DashPlaceholder
	}
	return fmt.Sprintf(IconTextFormat, icon, text)
}

// CreateRenderer creates the widget renderer
func (pr *ProjectRow) CreateRenderer() fyne.WidgetRenderer {
	return &projectRowRenderer{row: pr}
}

type projectRowRenderer struct {
	row    *ProjectRow
	layout *fyne.Container
}

func (r *projectRowRenderer) Layout(size fyne.Size) {
	if r.layout == nil {
		r.createLayout()
	}
	if size.Width < RowMinWidth {
		size.Width = RowMinWidth
	}
	r.layout.Resize(size)
}

func (r *projectRowRenderer) MinSize() fyne.Size {
	if r.layout == nil {
		r.createLayout()
	}
	size := r.layout.MinSize()
	return fyne.NewSize(fyne.Max(size.Width, RowMinWidth), fyne.Max(size.Height, RowMinHeight))
}

func (r *projectRowRenderer) Refresh() {
	if r.layout == nil {
		r.createLayout()
	}
	r.layout.Refresh()
}

func (r *projectRowRenderer) Objects() []fyne.CanvasObject {
	if r.layout == nil {
		r.createLayout()
	}
	return []fyne.CanvasObject{r.layout}
}

func (r *projectRowRenderer) Destroy() {}

func (r *projectRowRenderer) createLayout() {
	pr := r.row

	fixedWidth := func(w float32, obj fyne.CanvasObject) fyne.CanvasObject {
		spacer := canvas.NewRectangle(color.Transparent)
		spacer.SetMinSize(fyne.NewSize(w, obj.MinSize().Height))
		return container.NewStack(spacer, obj)
	}

	header := container.NewBorder(nil, nil, nil, pr.openBtn, pr.titleLabel)
	stats := container.NewBorder(nil, nil,
		container.NewHBox(
			fixedWidth(PledgedLabelWidth, pr.pledgedLabel),
			fixedWidth(CountLabelWidth, pr.backersLabel),
			fixedWidth(CountLabelWidth, pr.updatesLabel),
		),
		fixedWidth(TimeLeftLabelWidth, pr.timeLeftLabel),
	)

	r.layout = container.NewVBox(
		header,
		pr.progressBar,
		stats,
		pr.staleMarker,
		widget.NewSeparator(),
	)
}
