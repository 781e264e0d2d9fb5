// Package heatmap turns hazard records into weighted points for per-kind heat layers.
package heatmap

import "github.com/UnknownOlympus/hazardmap/internal/models"

// Intensity bounds of a heat point.
const (
	MinIntensity = 10.0
	MaxIntensity = 100.0

	landslideIntensity = 100.0
	floodIntensity     = 90.0
)

// Point is a heat layer entry: latitude, longitude, intensity.
type Point [3]float64

// Layers groups heat points by hazard kind.
type Layers map[string][]Point

// Build creates one layer per hazard kind. Landslides and floods get a fixed intensity;
// other kinds are weighted by frequency relative to the most frequent hazard of that kind.
func Build(hazards []models.Hazard) Layers {
	layers := make(Layers)
	if len(hazards) == 0 {
		return layers
	}

	bounds := frequencyBounds(hazards)
	for _, hazard := range hazards {
		var intensity float64
		switch hazard.Kind {
		case models.KindLandslide:
			intensity = landslideIntensity
		case models.KindFlood:
			intensity = floodIntensity
		default:
			b := bounds[hazard.Kind]
			intensity = scale(hazard.Frequency, b.lo, b.hi)
		}
		layers[hazard.Kind] = append(layers[hazard.Kind], Point{hazard.Latitude, hazard.Longitude, intensity})
	}

	return layers
}

type span struct {
	lo, hi int
}

func frequencyBounds(hazards []models.Hazard) map[string]span {
	bounds := make(map[string]span)
	for _, hazard := range hazards {
		b, ok := bounds[hazard.Kind]
		if !ok {
			bounds[hazard.Kind] = span{lo: hazard.Frequency, hi: hazard.Frequency}
			continue
		}
		b.lo = min(b.lo, hazard.Frequency)
		b.hi = max(b.hi, hazard.Frequency)
		bounds[hazard.Kind] = b
	}

	return bounds
}

// scale maps frequency linearly from [lo, hi] onto [MinIntensity, MaxIntensity].
func scale(frequency, lo, hi int) float64 {
	if hi <= lo {
		return MaxIntensity
	}
	ratio := float64(frequency-lo) / float64(hi-lo)

	return MinIntensity + ratio*(MaxIntensity-MinIntensity)
}
