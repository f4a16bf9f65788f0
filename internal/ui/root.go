package ui

import (
	"fmt"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
	"go.uber.org/zap"

	"github.com/ytget/kicktracker/internal/config"
	"github.com/ytget/kicktracker/internal/logger"
	"github.com/ytget/kicktracker/internal/model"
	"github.com/ytget/kicktracker/internal/platform"
	"github.com/ytget/kicktracker/internal/registry"
)

// Deps are the collaborators of the main window
type Deps struct {
	Store      *config.TrackerStore
	Board      *Board
	ProjectURL func(projectID string) string
	// Refresh runs a data refresh and blocks until it is done
	Refresh func()
	Logger  *zap.Logger
}

// RootUI represents the main UI structure
type RootUI struct {
	window       fyne.Window
	settings     *config.Settings
	localization *Localization
	board        *Board
	store        *config.TrackerStore
	projectURL   func(string) string
	refresh      func()
	log          *zap.Logger

	tabs         *container.AppTabs
	activeTab    *container.TabItem
	completedTab *container.TabItem
	settingsTab  *container.TabItem
	settingsPage *SettingsPage

	summaryLabel *widget.Label
	hiddenLabel  *widget.Label
	refreshBtn   *widget.Button

	summary registry.Summary

	// Notification panel
	notificationContainer *fyne.Container
	notificationLabel     *widget.Label
	notificationSpinner   *widget.ProgressBarInfinite
	notificationTimer     *time.Timer
}

// NewRootUI creates and initializes the main UI
func NewRootUI(window fyne.Window, settings *config.Settings, localization *Localization, deps Deps) *RootUI {
	ui := &RootUI{
		window:       window,
		settings:     settings,
		localization: localization,
		board:        deps.Board,
		store:        deps.Store,
		projectURL:   deps.ProjectURL,
		refresh:      deps.Refresh,
		log:          logger.OrNop(deps.Logger),
	}

	window.SetTitle(localization.GetText(KeyAppTitle))
	ui.board.SetOnOpen(ui.onOpenProject)

	ui.setupUI()
	return ui
}

// setupUI creates and arranges all UI components
func (ui *RootUI) setupUI() {
	ui.createMenu()

	ui.summaryLabel = widget.NewLabel("")
	ui.summaryLabel.TextStyle = fyne.TextStyle{Italic: true}

	ui.refreshBtn = widget.NewButton(ui.localization.GetText(KeyRefreshNow), ui.onRefreshClick)
	ui.refreshBtn.Importance = widget.LowImportance

	var topPanel *fyne.Container
	if icon, err := LoadIconResource(); err == nil {
		logo := canvas.NewImageFromResource(icon)
		logo.SetMinSize(fyne.NewSize(24, 24))
		logo.FillMode = canvas.ImageFillContain
		topPanel = container.NewBorder(nil, nil, logo, ui.refreshBtn, ui.summaryLabel)
	} else {
		topPanel = container.NewBorder(nil, nil, nil, ui.refreshBtn, ui.summaryLabel)
	}

	// Notification panel (hidden by default)
	ui.notificationLabel = widget.NewLabel("")
	ui.notificationSpinner = widget.NewProgressBarInfinite()
	ui.notificationSpinner.Hide()
	ui.notificationContainer = container.NewHBox(ui.notificationSpinner, container.NewPadded(ui.notificationLabel))
	ui.notificationContainer.Hide()

	ui.hiddenLabel = widget.NewLabel("")
	ui.hiddenLabel.Importance = widget.LowImportance
	ui.hiddenLabel.Hide()

	ui.settingsPage = NewSettingsPage(ui.store, ui.settings, ui.localization, ui.window)
	ui.settingsPage.SetCallbacks(ui.onSettingsSaved, ui.onLanguageChange)

	ui.activeTab = container.NewTabItem("", ui.board.View(model.ContainerActive))
	ui.completedTab = container.NewTabItem("", container.NewBorder(
		ui.hiddenLabel, nil, nil, nil,
		ui.board.View(model.ContainerCompleted),
	))
	ui.settingsTab = container.NewTabItem("", ui.settingsPage.Content())

	ui.tabs = container.NewAppTabs(ui.activeTab, ui.completedTab, ui.settingsTab)
	ui.tabs.SetTabLocation(container.TabLocationTop)
	if last := ui.settings.GetLastTab(); last < len(ui.tabs.Items) {
		ui.tabs.SelectIndex(last)
	}
	ui.tabs.OnSelected = func(*container.TabItem) {
		ui.settings.SetLastTab(ui.tabs.SelectedIndex())
	}

	ui.refreshTabTitles()

	content := container.NewBorder(
		container.NewVBox(topPanel, ui.notificationContainer),
		nil, nil, nil,
		ui.tabs,
	)
	ui.window.SetContent(content)
}

// createMenu creates the application menu
func (ui *RootUI) createMenu() {
	settingsItem := fyne.NewMenuItem(ui.localization.GetText(KeySettings), func() {
		ui.tabs.Select(ui.settingsTab)
	})
	refreshItem := fyne.NewMenuItem(ui.localization.GetText(KeyRefreshNow), ui.onRefreshClick)

	languageMenu := fyne.NewMenu(ui.localization.GetText(KeyLanguage))
	for code, name := range ui.localization.GetAvailableLanguages() {
		langCode := code
		langItem := fyne.NewMenuItem(name, func() {
			ui.settings.SetLanguage(langCode)
			ui.onLanguageChange(langCode)
		})
		langItem.Checked = ui.localization.GetCurrentLanguage() == code
		languageMenu.Items = append(languageMenu.Items, langItem)
	}

	ui.window.SetMainMenu(fyne.NewMainMenu(
		fyne.NewMenu(ui.localization.GetText(KeyFile), refreshItem, settingsItem),
		languageMenu,
	))
}

// onLanguageChange handles language change
func (ui *RootUI) onLanguageChange(langCode string) {
	ui.localization.SetLanguage(langCode)
	ui.refreshUITexts()
	ui.createMenu()
}

// refreshUITexts updates all UI texts with current language
func (ui *RootUI) refreshUITexts() {
	ui.window.SetTitle(ui.localization.GetText(KeyAppTitle))
	ui.refreshBtn.SetText(ui.localization.GetText(KeyRefreshNow))
	ui.settingsPage.RefreshTexts()
	ui.board.RefreshTexts()
	ui.renderSummary()
}

func (ui *RootUI) refreshTabTitles() {
	ui.activeTab.Text = fmt.Sprintf("%s (%d)", ui.localization.GetText(KeyActive), ui.summary.Active)
	ui.completedTab.Text = fmt.Sprintf("%s (%d)", ui.localization.GetText(KeyCompleted), ui.summary.Completed)
	ui.settingsTab.Text = IconSettings + " " + ui.localization.GetText(KeySettings)
	ui.tabs.Refresh()
}

// OnSummary receives registry counts; safe to call from any goroutine
func (ui *RootUI) OnSummary(s registry.Summary) {
	fyne.Do(func() {
		ui.summary = s
		ui.renderSummary()
	})
}

func (ui *RootUI) renderSummary() {
	ui.summaryLabel.SetText(fmt.Sprintf(ui.localization.GetText(KeySummary), ui.summary.Active, ui.summary.Completed))
	if ui.summary.Hidden > 0 {
		ui.hiddenLabel.SetText(IconHidden + " " + fmt.Sprintf(ui.localization.GetText(KeyHiddenCount), ui.summary.Hidden))
		ui.hiddenLabel.Show()
	} else {
		ui.hiddenLabel.Hide()
	}
	ui.refreshTabTitles()
}

// OnReconcile reports partial reconcile failures; safe to call from any goroutine
func (ui *RootUI) OnReconcile(_ registry.Plan, err error) {
	if err == nil {
		return
	}
	ui.showNotification(IconStale+" "+ui.localization.GetText(KeyReconcileFailed), false)
	ui.hideNotificationAfter(ToastAutoHide)
}

// onRefreshClick runs a data refresh in the background
func (ui *RootUI) onRefreshClick() {
	if ui.refresh == nil {
		return
	}
	ui.refreshBtn.Disable()
	ui.showNotification(ui.localization.GetText(KeyRefreshing), true)
	go func() {
		ui.refresh()
		ui.hideNotification()
		fyne.Do(ui.refreshBtn.Enable)
	}()
}

// onSettingsSaved applies saved settings right away
func (ui *RootUI) onSettingsSaved(saved config.TrackerSettings) {
	ui.log.Info("settings saved",
		zap.String("profile", saved.Profile),
		zap.Int("other", len(saved.Other)),
		zap.String("hide_after", saved.HideAfter),
	)
	ui.onRefreshClick()
}

// onOpenProject opens the project page in the system browser
func (ui *RootUI) onOpenProject(projectID string) {
	if ui.projectURL == nil {
		return
	}
	link := ui.projectURL(projectID)
	if err := platform.OpenInBrowser(link); err != nil {
		ui.log.Warn("failed to open project page", zap.String("url", link), zap.Error(err))
		dialog.ShowError(fmt.Errorf("%s: %w", ui.localization.GetText(KeyErrorOpeningPage), err), ui.window)
	}
}

// showNotification displays a message in the notification panel under the summary.
// When spinning is true, a spinner is shown to indicate background activity.
func (ui *RootUI) showNotification(message string, spinning bool) {
	fyne.Do(func() {
		if ui.notificationTimer != nil {
			ui.notificationTimer.Stop()
		}
		ui.notificationLabel.SetText(message)
		if spinning {
			ui.notificationSpinner.Show()
		} else {
			ui.notificationSpinner.Hide()
		}
		ui.notificationContainer.Show()
		ui.notificationContainer.Refresh()
	})
}

// hideNotification hides the notification panel.
func (ui *RootUI) hideNotification() {
	fyne.Do(func() {
		ui.notificationSpinner.Hide()
		ui.notificationContainer.Hide()
	})
}

func (ui *RootUI) hideNotificationAfter(d time.Duration) {
	fyne.Do(func() {
		if ui.notificationTimer != nil {
			ui.notificationTimer.Stop()
		}
		ui.notificationTimer = time.AfterFunc(d, ui.hideNotification)
	})
}

// SaveState remembers the window size and selected tab for the next start
func (ui *RootUI) SaveState() {
	ui.settings.SetWindowSize(ui.window.Canvas().Size())
	ui.settings.SetLastTab(ui.tabs.SelectedIndex())
}

// Tabs exposes the tab container
func (ui *RootUI) Tabs() *container.AppTabs {
	return ui.tabs
}

// SettingsForm exposes the settings tab
func (ui *RootUI) SettingsForm() *SettingsPage {
	return ui.settingsPage
}
