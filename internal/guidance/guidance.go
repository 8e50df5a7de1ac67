// Package guidance holds the advisory water-quality reference table shown to users.
// The values are informational text; no verdict is computed from them.
package guidance

import "github.com/Veraticus/potability/internal/model"

// Entry is one row of the reference table.
type Entry struct {
	Range       string
	Explanation string
	Parameter   model.Parameter
}

// Table lists all nine parameters in evaluation order.
var Table = []Entry{
	{
		Parameter:   model.PH,
		Range:       "6.5 - 8.5",
		Explanation: "Acidity. Below 6 is corrosive, above 8.5 tastes bitter.",
	},
	{
		Parameter:   model.Hardness,
		Range:       "< 300 mg/L",
		Explanation: "Hard water leaves scale and stops soap from lathering.",
	},
	{
		Parameter:   model.Solids,
		Range:       "< 500 ppm",
		Explanation: "Total dissolved solids. High values make water cloudy, salty or metallic.",
	},
	{
		Parameter:   model.Chloramines,
		Range:       "< 4.0 ppm",
		Explanation: "Disinfectant. Excess causes a sharp smell and irritation.",
	},
	{
		Parameter:   model.Sulfate,
		Range:       "< 250 mg/L",
		Explanation: "Natural mineral. High values taste bitter and can cause diarrhoea.",
	},
	{
		Parameter:   model.Conductivity,
		Range:       "< 400 μS/cm",
		Explanation: "Electrical conductivity, an indicator of mineral content.",
	},
	{
		Parameter:   model.OrganicCarbon,
		Range:       "< 2.0 ppm",
		Explanation: "Residual organic material. Indicates possible bacteria.",
	},
	{
		Parameter:   model.Trihalomethanes,
		Range:       "< 80 μg/L",
		Explanation: "Chlorination by-product. Long-term exposure is linked to cancer.",
	},
	{
		Parameter:   model.Turbidity,
		Range:       "< 5.0 NTU",
		Explanation: "Cloudiness from silt or dust where bacteria can hide.",
	},
}
