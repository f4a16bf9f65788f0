package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	"go.uber.org/zap"

	"github.com/ytget/kicktracker/internal/logger"
	"github.com/ytget/kicktracker/internal/model"
	"github.com/ytget/kicktracker/internal/registry"
)

// Board holds the Active and Completed lists and implements registry.Surface.
// Surface calls arrive from worker goroutines; each one copies what it needs
// from the project and hands the widget work to fyne.Do.
type Board struct {
	localization *Localization
	log          *zap.Logger

	// touched only on the UI goroutine
	rows  map[string]*ProjectRow // by entry id
	lists map[model.Container]*fyne.Container
	empty map[model.Container]*widget.Label

	onOpen func(projectID string)
}

// NewBoard creates an empty board
func NewBoard(localization *Localization, log *zap.Logger) *Board {
	b := &Board{
		localization: localization,
		log:          logger.OrNop(log),
		rows:         make(map[string]*ProjectRow),
		lists: map[model.Container]*fyne.Container{
			model.ContainerActive:    container.NewVBox(),
			model.ContainerCompleted: container.NewVBox(),
		},
		empty: map[model.Container]*widget.Label{
			model.ContainerActive:    widget.NewLabel(localization.GetText(KeyNoActive)),
			model.ContainerCompleted: widget.NewLabel(localization.GetText(KeyNoCompleted)),
		},
	}
	for _, l := range b.empty {
		l.Alignment = fyne.TextAlignCenter
		l.Importance = widget.LowImportance
	}
	return b
}

// SetOnOpen sets the callback used by every row's open button
func (b *Board) SetOnOpen(onOpen func(projectID string)) {
	b.onOpen = onOpen
}

// View returns the scrollable list for container c
func (b *Board) View(c model.Container) fyne.CanvasObject {
	return container.NewVScroll(container.NewVBox(b.empty[c], b.lists[c]))
}

// Attach implements registry.Surface
func (b *Board) Attach(p *model.TrackedProject, c model.Container) {
	entryID, projectID := p.EntryID, p.ID
	fyne.Do(func() {
		list, ok := b.lists[c]
		if !ok {
			b.log.Warn("attach to unknown container", zap.String("project", projectID), zap.Stringer("container", c))
			return
		}
		row, ok := b.rows[entryID]
		if !ok {
			row = NewProjectRow(projectID, b.localization)
			row.SetOnOpen(b.open)
			b.rows[entryID] = row
		}
		b.remove(row)
		list.Add(row)
		b.updateEmpty()
	})
}

// Detach implements registry.Surface
func (b *Board) Detach(p *model.TrackedProject) {
	entryID := p.EntryID
	fyne.Do(func() {
		row, ok := b.rows[entryID]
		if !ok {
			return
		}
		b.remove(row)
		delete(b.rows, entryID)
		b.updateEmpty()
	})
}

// SetText implements registry.Surface
func (b *Board) SetText(p *model.TrackedProject, field model.Field, text string) {
	entryID := p.EntryID
	fyne.Do(func() {
		if row, ok := b.rows[entryID]; ok {
			row.SetText(field, text)
		}
	})
}

// SetFraction implements registry.Surface
func (b *Board) SetFraction(p *model.TrackedProject, fraction float64) {
	entryID := p.EntryID
	fyne.Do(func() {
		if row, ok := b.rows[entryID]; ok {
			row.SetFraction(fraction)
		}
	})
}

// SetStale implements registry.Surface
func (b *Board) SetStale(p *model.TrackedProject, stale bool) {
	entryID := p.EntryID
	fyne.Do(func() {
		if row, ok := b.rows[entryID]; ok {
			row.SetStale(stale)
		}
	})
}

// Row returns the row of an entry. Call from the UI goroutine.
func (b *Board) Row(entryID string) (*ProjectRow, bool) {
	row, ok := b.rows[entryID]
	return row, ok
}

// ProjectIDs lists the projects shown in c, top to bottom. Call from the UI goroutine.
func (b *Board) ProjectIDs(c model.Container) []string {
	list, ok := b.lists[c]
	if !ok {
		return nil
	}
	ids := make([]string, 0, len(list.Objects))
	for _, obj := range list.Objects {
		if row, ok := obj.(*ProjectRow); ok {
			ids = append(ids, row.ProjectID())
		}
	}
	return ids
}

// RefreshTexts re-applies localized strings. Call from the UI goroutine.
func (b *Board) RefreshTexts() {
	b.empty[model.ContainerActive].SetText(b.localization.GetText(KeyNoActive))
	b.empty[model.ContainerCompleted].SetText(b.localization.GetText(KeyNoCompleted))
	for _, row := range b.rows {
		row.RefreshTexts()
	}
}

func (b *Board) open(projectID string) {
	if b.onOpen != nil {
		b.onOpen(projectID)
	}
}

func (b *Board) remove(row *ProjectRow) {
	for _, list := range b.lists {
		list.Remove(row)
	}
}

func (b *Board) updateEmpty() {
	for c, label := range b.empty {
		if len(b.lists[c].Objects) == 0 {
			label.Show()
		} else {
			label.Hide()
		}
	}
}

var _ registry.Surface = (*Board)(nil)
