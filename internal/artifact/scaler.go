package artifact

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"

	"github.com/Veraticus/potability/internal/common"
	"github.com/Veraticus/potability/internal/model"
	"github.com/Veraticus/potability/internal/service"
)

// KindMinMaxScaler tags a scaler artifact document.
const KindMinMaxScaler = "minmax_scaler"

type scalerDoc struct {
	Kind         string      `json:"kind"`
	FeatureNames []string    `json:"feature_names,omitempty"`
	DataMin      []float64   `json:"data_min"`
	DataMax      []float64   `json:"data_max"`
	FeatureRange *[2]float64 `json:"feature_range,omitempty"`
}

// MinMaxScaler applies a fitted per-feature affine transform. It is read-only
// after construction.
type MinMaxScaler struct {
	names   []string
	min     [model.ParameterCount]float64
	max     [model.ParameterCount]float64
	rangeLo float64
	rangeHi float64
}

var _ service.Scaler = (*MinMaxScaler)(nil)

// LoadScaler reads and parses the scaler artifact at location.
func LoadScaler(ctx context.Context, loader *Loader, location string) (*MinMaxScaler, error) {
	data, err := loader.Load(ctx, location)
	if err != nil {
		return nil, err
	}

	scaler, err := ParseScaler(data)
	if err != nil {
		return nil, fmt.Errorf("scaler artifact %s: %w", location, err)
	}

	slog.Info("Loaded scaler artifact", "location", location, "features", model.ParameterCount)
	return scaler, nil
}

// ParseScaler decodes a scaler artifact. Malformed input wraps ErrResourceUnavailable.
func ParseScaler(data []byte) (*MinMaxScaler, error) {
	var doc scalerDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, common.Unavailable("scaler artifact is not valid JSON", err)
	}

	if doc.Kind != KindMinMaxScaler {
		return nil, common.Unavailable(fmt.Sprintf("scaler artifact kind %q, want %q", doc.Kind, KindMinMaxScaler), nil)
	}
	if len(doc.DataMin) != model.ParameterCount || len(doc.DataMax) != model.ParameterCount {
		return nil, common.Unavailable(fmt.Sprintf("scaler artifact has %d/%d bounds, want %d",
			len(doc.DataMin), len(doc.DataMax), model.ParameterCount), nil)
	}
	if len(doc.FeatureNames) != 0 && len(doc.FeatureNames) != model.ParameterCount {
		return nil, common.Unavailable(fmt.Sprintf("scaler artifact names %d features, want %d",
			len(doc.FeatureNames), model.ParameterCount), nil)
	}

	s := &MinMaxScaler{
		names:   doc.FeatureNames,
		rangeLo: 0,
		rangeHi: 1,
	}
	if doc.FeatureRange != nil {
		s.rangeLo, s.rangeHi = doc.FeatureRange[0], doc.FeatureRange[1]
		if !finite(s.rangeLo) || !finite(s.rangeHi) || s.rangeLo >= s.rangeHi {
			return nil, common.Unavailable(fmt.Sprintf("scaler artifact feature_range %v is invalid", *doc.FeatureRange), nil)
		}
	}

	for i := range model.ParameterCount {
		lo, hi := doc.DataMin[i], doc.DataMax[i]
		if !finite(lo) || !finite(hi) || hi < lo {
			return nil, common.Unavailable(fmt.Sprintf("scaler artifact bounds for %s are invalid: [%v, %v]",
				model.Parameter(i), lo, hi), nil)
		}
		s.min[i], s.max[i] = lo, hi
	}

	return s, nil
}

// Scale maps raw measurements into the fitted feature range.
// A feature whose fitted min equals its max is divided by 1.
func (s *MinMaxScaler) Scale(record model.MeasurementRecord) service.ScaledVector {
	var out service.ScaledVector
	raw := record.Values()
	for i := range out {
		span := s.max[i] - s.min[i]
		if span == 0 {
			span = 1
		}
		out[i] = (raw[i]-s.min[i])/span*(s.rangeHi-s.rangeLo) + s.rangeLo
	}
	return out
}

// Bounds returns the fitted [min, max] for p.
func (s *MinMaxScaler) Bounds(p model.Parameter) (float64, float64) {
	return s.min[p], s.max[p]
}

// FeatureNames returns the names recorded at fit time, if any.
func (s *MinMaxScaler) FeatureNames() []string {
	return append([]string(nil), s.names...)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
