package ui

import (
	"fmt"

	"fyne.io/fyne/v2"

	"github.com/ytget/kicktracker/internal/platform"
)

// LoadIconResource loads the window icon found next to the executable
func LoadIconResource() (fyne.Resource, error) {
	path := platform.FindIcon()
	if path == "" {
		return nil, fmt.Errorf("icon %s not found", platform.IconFileName)
	}
	return fyne.LoadResourceFromPath(path)
}
