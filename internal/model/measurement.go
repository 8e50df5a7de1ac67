// Package model defines the core domain models used throughout the application.
package model

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"github.com/Veraticus/potability/internal/common"
)

// Parameter identifies one of the nine lab measurements.
type Parameter int

// Parameters in their fixed evaluation order.
const (
	PH Parameter = iota
	Hardness
	Solids
	Chloramines
	Sulfate
	Conductivity
	OrganicCarbon
	Trihalomethanes
	Turbidity
)

// ParameterCount is the arity of every measurement vector.
const ParameterCount = 9

// Domain is the closed interval a measurement must fall into.
type Domain struct {
	Min float64
	Max float64
}

// Contains reports whether v lies inside the domain.
func (d Domain) Contains(v float64) bool {
	return v >= d.Min && v <= d.Max
}

type parameterInfo struct {
	name   string
	key    string
	unit   string
	domain Domain
}

var parameters = [ParameterCount]parameterInfo{
	PH:              {name: "pH", key: "ph", unit: "", domain: Domain{0, 14}},
	Hardness:        {name: "Hardness", key: "hardness", unit: "mg/L", domain: Domain{0, 400}},
	Solids:          {name: "Solids", key: "solids", unit: "ppm", domain: Domain{0, 60000}},
	Chloramines:     {name: "Chloramines", key: "chloramines", unit: "ppm", domain: Domain{0, 14}},
	Sulfate:         {name: "Sulfate", key: "sulfate", unit: "mg/L", domain: Domain{0, 500}},
	Conductivity:    {name: "Conductivity", key: "conductivity", unit: "μS/cm", domain: Domain{0, 800}},
	OrganicCarbon:   {name: "OrganicCarbon", key: "organicCarbon", unit: "ppm", domain: Domain{0, 30}},
	Trihalomethanes: {name: "Trihalomethanes", key: "trihalomethanes", unit: "μg/L", domain: Domain{0, 125}},
	Turbidity:       {name: "Turbidity", key: "turbidity", unit: "NTU", domain: Domain{0, 7}},
}

// DefaultValues are the initial values offered by input surfaces.
func DefaultValues() [ParameterCount]float64 {
	return [ParameterCount]float64{
		Chloramines:     7.15,
		Sulfate:         336,
		Conductivity:    428,
		OrganicCarbon:   14,
		Trihalomethanes: 66,
		Turbidity:       3.96,
	}
}

// Parameters returns all parameters in evaluation order.
func Parameters() []Parameter {
	out := make([]Parameter, ParameterCount)
	for i := range out {
		out[i] = Parameter(i)
	}
	return out
}

// Valid reports whether p names one of the nine measurements.
func (p Parameter) Valid() bool {
	return p >= 0 && int(p) < ParameterCount
}

func (p Parameter) String() string {
	if !p.Valid() {
		return "Parameter(" + strconv.Itoa(int(p)) + ")"
	}
	return parameters[p].name
}

// Key is the camelCase identifier used in JSON documents and flags.
func (p Parameter) Key() string {
	return parameters[p].key
}

// Unit is the display unit; pH is dimensionless and returns "".
func (p Parameter) Unit() string {
	return parameters[p].unit
}

// Domain is the accepted input range.
func (p Parameter) Domain() Domain {
	return parameters[p].domain
}

// ParameterByKey looks a parameter up by its JSON key.
func ParameterByKey(key string) (Parameter, bool) {
	for i, info := range parameters {
		if info.key == key {
			return Parameter(i), true
		}
	}
	return 0, false
}

// MeasurementError describes a rejected measurement.
type MeasurementError struct {
	Parameter Parameter
	Value     float64
}

func (e *MeasurementError) Error() string {
	d := e.Parameter.Domain()
	return fmt.Sprintf("%s value %s outside [%s, %s]",
		e.Parameter,
		strconv.FormatFloat(e.Value, 'f', -1, 64),
		strconv.FormatFloat(d.Min, 'f', -1, 64),
		strconv.FormatFloat(d.Max, 'f', -1, 64))
}

func (e *MeasurementError) Unwrap() error {
	return common.ErrInvalidMeasurement
}

// ValidateMeasurement checks a single value against its parameter domain.
func ValidateMeasurement(p Parameter, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || !p.Domain().Contains(v) {
		return &MeasurementError{Parameter: p, Value: v}
	}
	return nil
}

// MeasurementRecord is one validated set of lab measurements.
// The zero value is a record of all zeros, which is inside every domain.
type MeasurementRecord struct {
	values [ParameterCount]float64
}

// NewMeasurementRecord validates values (in parameter order) and builds a record.
func NewMeasurementRecord(values [ParameterCount]float64) (MeasurementRecord, error) {
	for i, v := range values {
		if err := ValidateMeasurement(Parameter(i), v); err != nil {
			return MeasurementRecord{}, err
		}
	}
	return MeasurementRecord{values: values}, nil
}

// Value returns the raw measurement for p.
func (r MeasurementRecord) Value(p Parameter) float64 {
	return r.values[p]
}

// Values returns a copy of the raw measurements in parameter order.
func (r MeasurementRecord) Values() [ParameterCount]float64 {
	return r.values
}

// MarshalJSON writes the record as an object keyed by parameter key.
func (r MeasurementRecord) MarshalJSON() ([]byte, error) {
	return json.Marshal(measurementDoc{
		PH:              r.values[PH],
		Hardness:        r.values[Hardness],
		Solids:          r.values[Solids],
		Chloramines:     r.values[Chloramines],
		Sulfate:         r.values[Sulfate],
		Conductivity:    r.values[Conductivity],
		OrganicCarbon:   r.values[OrganicCarbon],
		Trihalomethanes: r.values[Trihalomethanes],
		Turbidity:       r.values[Turbidity],
	})
}

// UnmarshalJSON reads a record and applies domain validation.
// All nine fields are required.
func (r *MeasurementRecord) UnmarshalJSON(data []byte) error {
	var raw map[string]*float64
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decode measurement record: %w", err)
	}

	var values [ParameterCount]float64
	for _, p := range Parameters() {
		v, ok := raw[p.Key()]
		if !ok || v == nil {
			return fmt.Errorf("%w: missing field %q", common.ErrInvalidMeasurement, p.Key())
		}
		values[p] = *v
	}
	for key := range raw {
		if _, ok := ParameterByKey(key); !ok {
			return fmt.Errorf("%w: unknown field %q", common.ErrInvalidMeasurement, key)
		}
	}

	rec, err := NewMeasurementRecord(values)
	if err != nil {
		return err
	}
	*r = rec
	return nil
}

type measurementDoc struct {
	PH              float64 `json:"ph"`
	Hardness        float64 `json:"hardness"`
	Solids          float64 `json:"solids"`
	Chloramines     float64 `json:"chloramines"`
	Sulfate         float64 `json:"sulfate"`
	Conductivity    float64 `json:"conductivity"`
	OrganicCarbon   float64 `json:"organicCarbon"`
	Trihalomethanes float64 `json:"trihalomethanes"`
	Turbidity       float64 `json:"turbidity"`
}
