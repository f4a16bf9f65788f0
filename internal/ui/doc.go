package ui

// Package ui contains the Fyne-based desktop user interface for the application.
// It renders tracked projects on an Active and a Completed tab, implements the
// registry's presentation surface, and edits the tracker settings. All UI
// strings are localized via Localization.
