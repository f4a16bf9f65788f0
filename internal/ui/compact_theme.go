package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// Palette shared by the theme and the row widgets
var (
	colorFunded  = color.NRGBA{R: 5, G: 206, B: 120, A: 255}   // progress fill
	colorStale   = color.NRGBA{R: 255, G: 160, B: 0, A: 255}   // failed refresh marker
	colorError   = color.NRGBA{R: 198, G: 40, B: 40, A: 255}   // error toasts
	colorPrimary = color.NRGBA{R: 2, G: 122, B: 91, A: 255}    // buttons, selected tab
	colorLight   = color.NRGBA{R: 248, G: 248, B: 246, A: 255} // light background
	colorDark    = color.NRGBA{R: 20, G: 22, B: 21, A: 255}    // dark background
)

// CompactTheme keeps the default look but with tighter spacing, so a small
// desktop window shows several project rows at once.
type CompactTheme struct {
	base fyne.Theme
}

// NewCompactTheme creates a new compact theme
func NewCompactTheme() fyne.Theme {
	return &CompactTheme{base: theme.DefaultTheme()}
}

// Color returns theme colors
func (t *CompactTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	switch name {
	case theme.ColorNameSuccess:
		return colorFunded
	case theme.ColorNameWarning:
		return colorStale
	case theme.ColorNameError:
		return colorError
	case theme.ColorNamePrimary, theme.ColorNameFocus:
		return colorPrimary
	case theme.ColorNameBackground:
		if variant == theme.VariantDark {
			return colorDark
		}
		return colorLight
	}
	return t.base.Color(name, variant)
}

// Font returns theme fonts
func (t *CompactTheme) Font(style fyne.TextStyle) fyne.Resource {
	return t.base.Font(style)
}

// Icon returns theme icons
func (t *CompactTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return t.base.Icon(name)
}

// Size returns theme sizes with compact adjustments
func (t *CompactTheme) Size(name fyne.ThemeSizeName) float32 {
	switch name {
	case theme.SizeNamePadding:
		return 3
	case theme.SizeNameInnerPadding:
		return 6
	case theme.SizeNameLineSpacing:
		return 2
	case theme.SizeNameScrollBar:
		return 10
	case theme.SizeNameText:
		return 13
	case theme.SizeNameHeadingText:
		return 17
	case theme.SizeNameSubHeadingText:
		return 14
	case theme.SizeNameCaptionText:
		return 10
	case theme.SizeNameInputRadius:
		return 3
	case theme.SizeNameSelectionRadius:
		return 2
	}
	return t.base.Size(name)
}
