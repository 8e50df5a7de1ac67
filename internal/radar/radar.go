// Package radar projects raw measurements onto dimensionless ratios against fixed
// reference ceilings, for comparison with a boundary of 1.0.
package radar

import "github.com/Veraticus/potability/internal/model"

var ceilings = [model.ParameterCount]float64{
	model.PH:              8.5,
	model.Hardness:        300,
	model.Solids:          25000,
	model.Chloramines:     10,
	model.Sulfate:         400,
	model.Conductivity:    600,
	model.OrganicCarbon:   20,
	model.Trihalomethanes: 100,
	model.Turbidity:       5,
}

// Ceilings returns a copy of the reference ceilings in parameter order.
func Ceilings() [model.ParameterCount]float64 {
	return ceilings
}

// Boundary is the normalized value that sits exactly at a ceiling.
const Boundary = 1.0

// DisplayCeiling is where renderers clip the radial axis. Normalize never clips.
const DisplayCeiling = 2.0

// Normalizer divides raw values by a ceiling table.
type Normalizer struct {
	ceilings [model.ParameterCount]float64
}

// NewNormalizer builds a normalizer over a ceiling table.
func NewNormalizer(ceilings [model.ParameterCount]float64) Normalizer {
	return Normalizer{ceilings: ceilings}
}

// Normalize returns the profile for record. A zero ceiling is treated as 1.
func (n Normalizer) Normalize(record model.MeasurementRecord) model.RadarProfile {
	profile := model.RadarProfile{
		Categories:             make([]string, model.ParameterCount),
		NormalizedUserValues:   make([]float64, model.ParameterCount),
		NormalizedSafeBoundary: make([]float64, model.ParameterCount),
	}

	for _, p := range model.Parameters() {
		ceiling := n.ceilings[p]
		if ceiling == 0 {
			ceiling = 1
		}
		profile.Categories[p] = p.String()
		profile.NormalizedUserValues[p] = record.Value(p) / ceiling
		profile.NormalizedSafeBoundary[p] = Boundary
	}

	return profile
}

// Normalize uses the reference ceilings.
func Normalize(record model.MeasurementRecord) model.RadarProfile {
	return NewNormalizer(ceilings).Normalize(record)
}

// Clip limits v to [0, DisplayCeiling] for drawing.
func Clip(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > DisplayCeiling:
		return DisplayCeiling
	default:
		return v
	}
}
