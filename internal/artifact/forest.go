package artifact

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/Veraticus/potability/internal/common"
	"github.com/Veraticus/potability/internal/model"
	"github.com/Veraticus/potability/internal/service"
)

// KindRandomForest tags a forest artifact document.
const KindRandomForest = "random_forest"

const leaf = -1

type treeDoc struct {
	ChildrenLeft  []int        `json:"children_left"`
	ChildrenRight []int        `json:"children_right"`
	Feature       []int        `json:"feature"`
	Threshold     []float64    `json:"threshold"`
	Value         [][2]float64 `json:"value"`
}

type forestDoc struct {
	Kind      string    `json:"kind"`
	Classes   []int     `json:"classes"`
	Trees     []treeDoc `json:"trees"`
	NFeatures int       `json:"n_features"`
}

type tree struct {
	left      []int
	right     []int
	feature   []int
	threshold []float64
	// leafProba holds per-node class proportions, indexed by class value.
	leafProba [][2]float64
}

// Forest evaluates an exported tree ensemble. Trees are flat node arrays: an
// internal node routes a sample left when its feature is <= the threshold.
type Forest struct {
	trees []tree
	nodes int
}

var _ service.Classifier = (*Forest)(nil)

// LoadForest reads and parses the classifier artifact at location.
func LoadForest(ctx context.Context, loader *Loader, location string) (*Forest, error) {
	data, err := loader.Load(ctx, location)
	if err != nil {
		return nil, err
	}

	forest, err := ParseForest(data)
	if err != nil {
		return nil, fmt.Errorf("classifier artifact %s: %w", location, err)
	}

	slog.Info("Loaded classifier artifact",
		"location", location,
		"trees", forest.Trees(),
		"nodes", forest.Nodes())
	return forest, nil
}

// ParseForest decodes and validates a forest artifact. Malformed input wraps
// ErrResourceUnavailable.
func ParseForest(data []byte) (*Forest, error) {
	var doc forestDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, common.Unavailable("classifier artifact is not valid JSON", err)
	}

	if doc.Kind != KindRandomForest {
		return nil, common.Unavailable(fmt.Sprintf("classifier artifact kind %q, want %q", doc.Kind, KindRandomForest), nil)
	}
	if doc.NFeatures != model.ParameterCount {
		return nil, common.Unavailable(fmt.Sprintf("classifier artifact expects %d features, want %d",
			doc.NFeatures, model.ParameterCount), nil)
	}
	if !binaryClasses(doc.Classes) {
		return nil, common.Unavailable(fmt.Sprintf("classifier artifact classes %v, want a permutation of [0 1]", doc.Classes), nil)
	}
	if len(doc.Trees) == 0 {
		return nil, common.Unavailable("classifier artifact has no trees", nil)
	}

	f := &Forest{trees: make([]tree, 0, len(doc.Trees))}
	for i, td := range doc.Trees {
		t, err := buildTree(td, doc.Classes)
		if err != nil {
			return nil, common.Unavailable(fmt.Sprintf("classifier artifact tree %d", i), err)
		}
		f.trees = append(f.trees, t)
		f.nodes += len(t.left)
	}

	return f, nil
}

func binaryClasses(classes []int) bool {
	if len(classes) != 2 {
		return false
	}
	return (classes[0] == 0 && classes[1] == 1) || (classes[0] == 1 && classes[1] == 0)
}

func buildTree(td treeDoc, classes []int) (tree, error) {
	n := len(td.ChildrenLeft)
	if n == 0 {
		return tree{}, fmt.Errorf("tree has no nodes")
	}
	if len(td.ChildrenRight) != n || len(td.Feature) != n || len(td.Threshold) != n || len(td.Value) != n {
		return tree{}, fmt.Errorf("node arrays have mismatched lengths")
	}

	t := tree{
		left:      td.ChildrenLeft,
		right:     td.ChildrenRight,
		feature:   td.Feature,
		threshold: td.Threshold,
		leafProba: make([][2]float64, n),
	}

	for node := range n {
		l, r := td.ChildrenLeft[node], td.ChildrenRight[node]
		if l == leaf || r == leaf {
			if l != r {
				return tree{}, fmt.Errorf("node %d has exactly one child", node)
			}
			counts := td.Value[node]
			total := counts[0] + counts[1]
			if counts[0] < 0 || counts[1] < 0 || total <= 0 {
				return tree{}, fmt.Errorf("leaf %d has invalid class weights %v", node, counts)
			}
			// Artifact columns follow the classes order; store by class value.
			t.leafProba[node][classes[0]] = counts[0] / total
			t.leafProba[node][classes[1]] = counts[1] / total
			continue
		}
		// Children always carry larger ids, which rules out cycles.
		if l <= node || l >= n || r <= node || r >= n {
			return tree{}, fmt.Errorf("node %d has out-of-range children %d/%d", node, l, r)
		}
		if f := td.Feature[node]; f < 0 || f >= model.ParameterCount {
			return tree{}, fmt.Errorf("node %d splits on unknown feature %d", node, f)
		}
	}

	return t, nil
}

// Classify averages the leaf class proportions of every tree. The predicted class
// is the one with the larger mean probability; class 0 wins an exact tie.
func (f *Forest) Classify(_ context.Context, vector service.ScaledVector) (service.Prediction, error) {
	var sum [2]float64
	for i := range f.trees {
		p := f.trees[i].predict(vector)
		sum[0] += p[0]
		sum[1] += p[1]
	}

	n := float64(len(f.trees))
	pred := service.Prediction{Probabilities: [2]float64{sum[0] / n, sum[1] / n}}
	if pred.Probabilities[1] > pred.Probabilities[0] {
		pred.Class = 1
	}
	return pred, nil
}

func (t *tree) predict(x service.ScaledVector) [2]float64 {
	node := 0
	for t.left[node] != leaf {
		// Trees are fitted on float32 features.
		if float64(float32(x[t.feature[node]])) <= t.threshold[node] {
			node = t.left[node]
		} else {
			node = t.right[node]
		}
	}
	return t.leafProba[node]
}

// Trees is the ensemble size.
func (f *Forest) Trees() int {
	return len(f.trees)
}

// Nodes is the total node count across trees.
func (f *Forest) Nodes() int {
	return f.nodes
}
