package ui

import (
	"fmt"
	"sort"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/ytget/kicktracker/internal/config"
)

// SettingsPage edits the tracker settings file and the UI language
type SettingsPage struct {
	store        *config.TrackerStore
	settings     *config.Settings
	localization *Localization
	window       fyne.Window

	// UI components
	profileLabel   *widget.Label
	profileEntry   *widget.Entry
	otherLabel     *widget.Label
	otherEntry     *widget.Entry
	hideAfterLabel *widget.Label
	hideAfterEntry *widget.Entry
	hideAfterHint  *widget.Label
	languageLabel  *widget.Label
	languageSelect *widget.Select
	saveBtn        *widget.Button
	content        fyne.CanvasObject

	onSaved          func(config.TrackerSettings)
	onLanguageChange func(lang string)
}

// NewSettingsPage creates the settings tab content
func NewSettingsPage(store *config.TrackerStore, settings *config.Settings, localization *Localization, window fyne.Window) *SettingsPage {
	sp := &SettingsPage{
		store:        store,
		settings:     settings,
		localization: localization,
		window:       window,
	}

	sp.createUI()
	sp.Load()
	return sp
}

// SetCallbacks sets what happens after a successful save and on language change
func (sp *SettingsPage) SetCallbacks(onSaved func(config.TrackerSettings), onLanguageChange func(lang string)) {
	sp.onSaved = onSaved
	sp.onLanguageChange = onLanguageChange
}

// Content returns the page widget tree
func (sp *SettingsPage) Content() fyne.CanvasObject {
	return sp.content
}

func (sp *SettingsPage) createUI() {
	sp.profileLabel = widget.NewLabel("")
	sp.profileEntry = widget.NewEntry()

	sp.otherLabel = widget.NewLabel("")
	sp.otherEntry = widget.NewMultiLineEntry()
	sp.otherEntry.Wrapping = fyne.TextWrapWord
	sp.otherEntry.SetMinRowsVisible(3)

	sp.hideAfterLabel = widget.NewLabel("")
	sp.hideAfterEntry = widget.NewEntry()
	sp.hideAfterHint = widget.NewLabel("")
	sp.hideAfterHint.Importance = widget.LowImportance
	sp.hideAfterHint.Wrapping = fyne.TextWrapWord

	sp.languageLabel = widget.NewLabel("")
	languageOptions := make([]string, 0)
	for code := range sp.settings.GetLanguageOptions() {
		languageOptions = append(languageOptions, code)
	}
	sort.Strings(languageOptions)
	sp.languageSelect = widget.NewSelect(languageOptions, func(lang string) {
		if lang == "" || lang == sp.settings.GetLanguage() {
			return
		}
		sp.settings.SetLanguage(lang)
		if sp.onLanguageChange != nil {
			sp.onLanguageChange(lang)
		}
	})

	sp.saveBtn = widget.NewButton("", sp.onSave)
	sp.saveBtn.Importance = widget.HighImportance

	form := container.NewVBox(
		sp.profileLabel,
		sp.profileEntry,
		sp.otherLabel,
		sp.otherEntry,
		sp.hideAfterLabel,
		sp.hideAfterEntry,
		sp.hideAfterHint,
		widget.NewSeparator(),
		sp.languageLabel,
		sp.languageSelect,
		widget.NewSeparator(),
		container.NewHBox(sp.saveBtn),
	)
	sp.content = container.NewVScroll(container.NewPadded(form))

	sp.RefreshTexts()
}

// RefreshTexts re-applies localized strings
func (sp *SettingsPage) RefreshTexts() {
	sp.profileLabel.SetText(sp.localization.GetText(KeyProfile))
	sp.profileEntry.SetPlaceHolder(sp.localization.GetText(KeyProfilePlaceholder))
	sp.otherLabel.SetText(sp.localization.GetText(KeyOtherProjects))
	sp.otherEntry.SetPlaceHolder(sp.localization.GetText(KeyOtherPlaceholder))
	sp.hideAfterLabel.SetText(sp.localization.GetText(KeyHideAfter))
	sp.hideAfterHint.SetText(sp.localization.GetText(KeyHideAfterHint))
	sp.languageLabel.SetText(IconLanguage + " " + sp.localization.GetText(KeyLanguage))
	sp.saveBtn.SetText(sp.localization.GetText(KeySave))
}

// Load copies the stored values into the form
func (sp *SettingsPage) Load() {
	current := sp.store.Get()
	sp.profileEntry.SetText(current.Profile)
	sp.otherEntry.SetText(config.JoinList(current.Other))
	sp.hideAfterEntry.SetText(current.HideAfter)
	sp.languageSelect.SetSelected(sp.settings.GetLanguage())
}

// Values returns what the form currently holds
func (sp *SettingsPage) Values() config.TrackerSettings {
	return config.TrackerSettings{
		Profile:   sp.profileEntry.Text,
		Other:     config.SplitList(strings.ReplaceAll(sp.otherEntry.Text, "\n", ",")),
		HideAfter: sp.hideAfterEntry.Text,
	}
}

// Save writes the form to the settings file
func (sp *SettingsPage) Save() error {
	values := sp.Values()
	sp.store.Set(values)
	if err := sp.store.Save(); err != nil {
		return err
	}
	saved := sp.store.Get()
	sp.Load()
	if sp.onSaved != nil {
		sp.onSaved(saved)
	}
	return nil
}

func (sp *SettingsPage) onSave() {
	if err := sp.Save(); err != nil {
		dialog.ShowError(fmt.Errorf("%s: %w", sp.localization.GetText(KeySettingsError), err), sp.window)
		return
	}
	dialog.ShowInformation(sp.localization.GetText(KeySettings), sp.localization.GetText(KeySettingsSaved), sp.window)
}
