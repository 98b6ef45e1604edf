package metrics

import "github.com/san-kum/vehiclerig/internal/sim"

// Standard returns the metrics recorded for every drive run. lower and
// upper are the suspension travel bounds of the rig.
func Standard(channels []string, lower, upper float64) []sim.Metric {
	travel := Select(channels, ".travel")
	spin := Select(channels, ".spin")
	return []sim.Metric{
		NewMeanAbs("mean_travel", travel),
		NewPeak("peak_travel", travel),
		NewMeanAbs("mean_spin", spin),
		NewPeak("peak_spin", spin),
		NewStability(travel, lower, upper),
	}
}
