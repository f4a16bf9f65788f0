package ui

import "time"

// UI-wide constants to avoid magic numbers/strings scattered across the codebase.

// Icons (emojis/symbols)
const (
	IconSettings = "⚙"
	IconOpen     = "↗"
	IconPledged  = "💰"
	IconBackers  = "👥"
	IconUpdates  = "📝"
	IconClock    = "⏱"
	IconStale    = "⚠"
	IconHidden   = "🙈"
	IconLanguage = "🌐"
)

// Text fragments
const (
	MiddleDotSeparator = " · "
	DashPlaceholder    = "—"
	IconTextFormat     = "%s %s"
)

// Layout sizing (ProjectRow / lists)
const (
	PledgedLabelWidth  float32 = 120
	CountLabelWidth    float32 = 72
	TimeLeftLabelWidth float32 = 132

	RowMinWidth  float32 = 360
	RowMinHeight float32 = 84
	RowDefaultH  float32 = 96

	SettingsEntryWidth float32 = 320
)

// Tab order of the main window
const (
	TabActive = iota
	TabCompleted
	TabSettings
)

// Toast notification behavior
const (
	ToastAutoHide = 4 * time.Second
)
