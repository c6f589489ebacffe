package display

import (
	"testing"

	"coolerdash/config"
)

func TestColorForBucketBoundaries(t *testing.T) {
	cfg := config.Default()
	cfg.Temperature.ThresholdGreen = 55
	cfg.Temperature.ThresholdOrange = 65
	cfg.Temperature.ThresholdRed = 75

	cases := []struct {
		temp float64
		want config.RGB
	}{
		{54.9, cfg.Colors.Green},
		{55.0, cfg.Colors.Green}, // boundary belongs to the lower bucket
		{55.1, cfg.Colors.Orange},
		{64.9, cfg.Colors.Orange},
		{65.0, cfg.Colors.Orange},
		{68.0, cfg.Colors.HotOrange},
		{75.0, cfg.Colors.HotOrange},
		{75.1, cfg.Colors.Red},
	}
	for _, tc := range cases {
		if got := ColorFor(tc.temp, cfg); got != tc.want {
			t.Fatalf("ColorFor(%v): expected %+v; got %+v", tc.temp, tc.want, got)
		}
	}
}

func TestColorForExtremes(t *testing.T) {
	cfg := config.Default()
	if got := ColorFor(-10, cfg); got != cfg.Colors.Green {
		t.Fatalf("expected green for sub-zero reading, got %+v", got)
	}
	if got := ColorFor(150, cfg); got != cfg.Colors.Red {
		t.Fatalf("expected red for extreme reading, got %+v", got)
	}
}
