package render

import "image/color"

// Panel palette, deep navy background with a blue accent.
var (
	colorBG     = color.RGBA{R: 12, G: 17, B: 27, A: 255}
	colorFG     = color.RGBA{R: 230, G: 235, B: 245, A: 255}
	colorAccent = color.RGBA{R: 62, G: 136, B: 248, A: 255}
	colorWarn   = color.RGBA{R: 255, G: 179, B: 71, A: 255}
	colorErr    = color.RGBA{R: 255, G: 99, B: 99, A: 255}

	colorInfo       = color.RGBA{R: 180, G: 195, B: 210, A: 255}
	colorQueueLabel = color.RGBA{R: 160, G: 175, B: 190, A: 255}
	colorFooter     = color.RGBA{R: 140, G: 150, B: 165, A: 255}
	colorOtherState = color.RGBA{R: 200, G: 120, B: 140, A: 255}
)

const (
	padding  = 16
	lineStep = 22

	subPt       = 20
	bigPt       = 56
	headerMaxPt = 36
	headerMinPt = 18

	heartbeatRadius = 6
)
