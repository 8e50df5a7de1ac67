package model

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/Veraticus/potability/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scenarioA() [ParameterCount]float64 {
	return [ParameterCount]float64{7.0, 150, 500, 7.15, 336, 428, 14, 66, 3.96}
}

func TestParameters_Order(t *testing.T) {
	want := []string{
		"pH", "Hardness", "Solids", "Chloramines", "Sulfate",
		"Conductivity", "OrganicCarbon", "Trihalomethanes", "Turbidity",
	}

	params := Parameters()
	require.Len(t, params, ParameterCount)
	for i, p := range params {
		assert.Equal(t, want[i], p.String())
		got, ok := ParameterByKey(p.Key())
		assert.True(t, ok)
		assert.Equal(t, p, got)
	}
	assert.Equal(t, "Parameter(12)", Parameter(12).String())
}

func TestNewMeasurementRecord(t *testing.T) {
	tests := []struct {
		mutate    func(*[ParameterCount]float64)
		name      string
		wantParam Parameter
		wantErr   bool
	}{
		{name: "scenario A is valid", mutate: func(*[ParameterCount]float64) {}},
		{name: "lower bounds are inclusive", mutate: func(v *[ParameterCount]float64) {
			for i := range v {
				v[i] = 0
			}
		}},
		{name: "upper bounds are inclusive", mutate: func(v *[ParameterCount]float64) {
			for _, p := range Parameters() {
				v[p] = p.Domain().Max
			}
		}},
		{
			name:      "pH above 14",
			mutate:    func(v *[ParameterCount]float64) { v[PH] = 14.01 },
			wantErr:   true,
			wantParam: PH,
		},
		{
			name:      "negative hardness",
			mutate:    func(v *[ParameterCount]float64) { v[Hardness] = -1 },
			wantErr:   true,
			wantParam: Hardness,
		},
		{
			name:      "solids above 60000",
			mutate:    func(v *[ParameterCount]float64) { v[Solids] = 60000.5 },
			wantErr:   true,
			wantParam: Solids,
		},
		{
			name:      "turbidity NaN",
			mutate:    func(v *[ParameterCount]float64) { v[Turbidity] = math.NaN() },
			wantErr:   true,
			wantParam: Turbidity,
		},
		{
			name:      "sulfate infinite",
			mutate:    func(v *[ParameterCount]float64) { v[Sulfate] = math.Inf(1) },
			wantErr:   true,
			wantParam: Sulfate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values := scenarioA()
			tt.mutate(&values)

			rec, err := NewMeasurementRecord(values)
			if tt.wantErr {
				require.ErrorIs(t, err, common.ErrInvalidMeasurement)
				var mErr *MeasurementError
				require.ErrorAs(t, err, &mErr)
				assert.Equal(t, tt.wantParam, mErr.Parameter)
				assert.Contains(t, err.Error(), tt.wantParam.String())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, values, rec.Values())
		})
	}
}

func TestMeasurementRecord_ValuesIsACopy(t *testing.T) {
	rec, err := NewMeasurementRecord(scenarioA())
	require.NoError(t, err)

	values := rec.Values()
	values[PH] = 13

	assert.Equal(t, 7.0, rec.Value(PH))
}

func TestMeasurementRecord_JSON(t *testing.T) {
	rec, err := NewMeasurementRecord(scenarioA())
	require.NoError(t, err)

	data, err := json.Marshal(rec)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"ph": 7, "hardness": 150, "solids": 500, "chloramines": 7.15, "sulfate": 336,
		"conductivity": 428, "organicCarbon": 14, "trihalomethanes": 66, "turbidity": 3.96
	}`, string(data))

	var decoded MeasurementRecord
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, rec, decoded)
}

func TestMeasurementRecord_UnmarshalRejects(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{
			name: "missing field",
			doc:  `{"ph": 7, "hardness": 150, "solids": 500, "chloramines": 7, "sulfate": 336, "conductivity": 428, "organicCarbon": 14, "trihalomethanes": 66}`,
		},
		{
			name: "null field",
			doc:  `{"ph": null, "hardness": 150, "solids": 500, "chloramines": 7, "sulfate": 336, "conductivity": 428, "organicCarbon": 14, "trihalomethanes": 66, "turbidity": 3}`,
		},
		{
			name: "unknown field",
			doc:  `{"ph": 7, "hardness": 150, "solids": 500, "chloramines": 7, "sulfate": 336, "conductivity": 428, "organicCarbon": 14, "trihalomethanes": 66, "turbidity": 3, "lead": 1}`,
		},
		{
			name: "out of domain",
			doc:  `{"ph": 7, "hardness": 150, "solids": 500, "chloramines": 7, "sulfate": 336, "conductivity": 428, "organicCarbon": 14, "trihalomethanes": 66, "turbidity": 9}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var rec MeasurementRecord
			err := json.Unmarshal([]byte(tt.doc), &rec)
			assert.ErrorIs(t, err, common.ErrInvalidMeasurement)
		})
	}
}

func TestLabelFromClass(t *testing.T) {
	assert.Equal(t, LabelPotable, LabelFromClass(1))
	assert.Equal(t, LabelNotPotable, LabelFromClass(0))
	assert.True(t, ClassificationResult{Label: LabelPotable}.Potable())
	assert.False(t, ClassificationResult{Label: LabelNotPotable}.Potable())
}

func TestEvaluation_Warnings(t *testing.T) {
	eval := Evaluation{PhysicalReport: []PhysicalReportEntry{
		{ParameterName: "pH", Status: StatusOK},
		{ParameterName: "Solids", Status: StatusWarn},
		{ParameterName: "Turbidity", Status: StatusWarn},
	}}
	assert.Equal(t, 2, eval.Warnings())
}

func TestDefaultValues(t *testing.T) {
	values := DefaultValues()
	assert.Equal(t, 0.0, values[PH])
	assert.Equal(t, 7.15, values[Chloramines])
	assert.Equal(t, 3.96, values[Turbidity])

	_, err := NewMeasurementRecord(values)
	assert.NoError(t, err)
}
