package display

import (
	"image/color"

	"coolerdash/config"
)

// ColorFor maps a temperature to one of the four configured gradient
// buckets. Boundary values belong to the lower bucket: a reading exactly at
// threshold_green is still green. There is no interpolation between buckets.
func ColorFor(tempC float64, cfg *config.Config) config.RGB {
	switch {
	case tempC <= cfg.Temperature.ThresholdGreen:
		return cfg.Colors.Green
	case tempC <= cfg.Temperature.ThresholdOrange:
		return cfg.Colors.Orange
	case tempC <= cfg.Temperature.ThresholdRed:
		return cfg.Colors.HotOrange
	default:
		return cfg.Colors.Red
	}
}

func toColor(c config.RGB) color.RGBA {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: 255}
}
