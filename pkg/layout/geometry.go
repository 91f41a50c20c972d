package layout

import "math"

const (
	HourHeight    = 48 // px per hour row
	MinHeight     = 24 // px, so short events stay clickable
	GutterPercent = 2  // horizontal gap kept free on the right of each block
)

// Box is the pixel geometry of a timed event inside the time grid. The block
// is anchored in the row of the hour it starts in; Top is relative to that
// row and Offset to midnight.
type Box struct {
	Hour         int     `json:"hour"`
	Top          float64 `json:"top"`
	Offset       float64 `json:"offset"`
	Height       float64 `json:"height"`
	LeftPercent  float64 `json:"leftPercent"`
	WidthPercent float64 `json:"widthPercent"`
}

func Geometry(l EventLayout) Box {
	start := l.Event.StartMinutes()
	duration := l.Event.EndMinutes() - start
	return Box{
		Hour:         start / 60,
		Top:          float64(start%60) / 60 * HourHeight,
		Offset:       float64(start) / 60 * HourHeight,
		Height:       math.Max(float64(duration)/60*HourHeight, MinHeight),
		LeftPercent:  l.Left * 100,
		WidthPercent: math.Max(l.Width*100-GutterPercent, 0),
	}
}
