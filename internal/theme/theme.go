package theme

import (
	"image/color"
)

// Theme defines the colours used by the editor and its desktop host.
type Theme struct {
	Name string

	// Host window
	Background        color.RGBA // behind the canvas
	Foreground        color.RGBA // toolbar and message text
	ToolbarBackground color.RGBA
	ButtonBackground  color.RGBA
	ButtonActive      color.RGBA // the selected tool
	ButtonBorder      color.RGBA
	MessageBackground color.RGBA

	// Canvas
	Canvas    color.RGBA // fill of a freshly created surface
	Selection color.RGBA // dashed outline around the selected object
	Caret     color.RGBA // text entry caret
}

// Default returns the hardcoded default light theme (fallback).
func Default() *Theme {
	return &Theme{
		Name:              "Default",
		Background:        color.RGBA{220, 220, 220, 255},
		Foreground:        color.RGBA{0, 0, 0, 255},
		ToolbarBackground: color.RGBA{200, 200, 200, 255},
		ButtonBackground:  color.RGBA{230, 230, 230, 255},
		ButtonActive:      color.RGBA{150, 190, 240, 255},
		ButtonBorder:      color.RGBA{0, 0, 0, 255},
		MessageBackground: color.RGBA{255, 255, 255, 230},
		Canvas:            color.RGBA{255, 255, 255, 255},
		Selection:         color.RGBA{0x00, 0xa8, 0xff, 255},
		Caret:             color.RGBA{0, 0, 0, 255},
	}
}
