// Package scorer turns extracted facts into a weighted complexity score.
package scorer

import (
	"math"

	"legacy-modernizer/internal/model"
)

// Scorer holds an immutable copy of the weights for one session.
type Scorer struct {
	weights model.Weights
}

func New(w model.Weights) *Scorer {
	return &Scorer{weights: w}
}

// Weights returns the weights the scorer was built with.
func (s *Scorer) Weights() model.Weights {
	return s.weights
}

// Score computes the weighted sum of the fact's counts, rounded to two
// decimals with halves rounded away from zero.
func (s *Scorer) Score(f model.SourceFact) float64 {
	w := s.weights
	raw := float64(f.LineCount)*w.LineWeight +
		float64(len(f.Variables))*w.VarWeight +
		float64(len(f.SQLBlocks))*w.SQLWeight +
		float64(len(f.Calls))*w.CallWeight +
		float64(f.LogicPoints)*w.LogicWeight
	return round2(raw)
}

// Apply returns a copy of f with ComplexityScore set.
func (s *Scorer) Apply(f model.SourceFact) model.SourceFact {
	f.ComplexityScore = s.Score(f)
	return f
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
