package model

// Label is the binary potability verdict.
type Label string

// Label constants.
const (
	LabelPotable    Label = "POTABLE"
	LabelNotPotable Label = "NOT_POTABLE"
)

// LabelFromClass maps the classifier's class index to a verdict: class 1 is potable.
func LabelFromClass(class int) Label {
	if class == 1 {
		return LabelPotable
	}
	return LabelNotPotable
}

// ClassificationResult is the verdict of one evaluation.
type ClassificationResult struct {
	Label      Label   `json:"label"`
	Confidence float64 `json:"confidence"`
}

// Potable reports whether the sample was classified as safe to drink.
func (c ClassificationResult) Potable() bool {
	return c.Label == LabelPotable
}
