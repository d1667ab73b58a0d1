package ui

import "image/color"

// Toast colors. The rest of the window is painted with the configured
// palette.
var (
	colToastText    = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	colToastErrorBg = color.NRGBA{R: 200, G: 50, B: 50, A: 240}
)
