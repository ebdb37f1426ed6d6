package model

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/Skufu/diabetes-risk/internal/features"
)

// Node is one decision tree node. Leaves have Left and Right set to -1 and
// carry the positive-class fraction in Value.
type Node struct {
	Feature   int     `json:"feature"`
	Threshold float64 `json:"threshold"`
	Left      int     `json:"left"`
	Right     int     `json:"right"`
	Value     float64 `json:"value"`
}

func (n Node) leaf() bool { return n.Left < 0 && n.Right < 0 }

// Tree is a flat node list rooted at index 0.
type Tree struct {
	Nodes []Node `json:"nodes"`
}

type ensemble struct {
	trees []Tree
}

func newEnsemble(trees []Tree) (*ensemble, error) {
	if len(trees) == 0 {
		return nil, fmt.Errorf("tree ensemble has no trees")
	}
	for ti, t := range trees {
		if err := t.check(); err != nil {
			return nil, fmt.Errorf("tree %d: %w", ti, err)
		}
	}
	return &ensemble{trees: trees}, nil
}

func (t Tree) check() error {
	if len(t.Nodes) == 0 {
		return fmt.Errorf("no nodes")
	}
	for i, n := range t.Nodes {
		if n.leaf() {
			if n.Value < 0 || n.Value > 1 {
				return fmt.Errorf("leaf %d value %v outside [0,1]", i, n.Value)
			}
			continue
		}
		if n.Feature < 0 || n.Feature >= features.Width {
			return fmt.Errorf("node %d splits on unknown feature %d", i, n.Feature)
		}
		// children must point forward so evaluation always terminates
		for _, c := range []int{n.Left, n.Right} {
			if c <= i || c >= len(t.Nodes) {
				return fmt.Errorf("node %d has dangling child %d", i, c)
			}
		}
	}
	return nil
}

func (t Tree) eval(x []float64) float64 {
	i := 0
	for {
		n := t.Nodes[i]
		if n.leaf() {
			return n.Value
		}
		if x[n.Feature] <= n.Threshold {
			i = n.Left
		} else {
			i = n.Right
		}
	}
}

func (e *ensemble) probability(x []float64) float64 {
	votes := make([]float64, len(e.trees))
	for i, t := range e.trees {
		votes[i] = t.eval(x)
	}
	return floats.Sum(votes) / float64(len(votes))
}
