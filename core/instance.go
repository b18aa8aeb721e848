package core

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
)

// ProblemInstance is the immutable per-episode input of the simulator.
//
// Costs may be zero padded; the real items are the leading strictly positive
// prefix. CriticalGroups uses 0 for non-critical items and k >= 1 for replica
// group k. Communications[s][r] is true when item s sends to item r.
type ProblemInstance struct {
	Costs          []float64
	Capacities     []float64
	CriticalGroups []int
	Communications [][]bool
}

// Edge is a directed communication edge between two items.
type Edge struct {
	Sender   int
	Receiver int
}

// CriticalGroupsFromMask converts the provider mask encoding, where 0 and 1
// mark non-critical items and k > 1 marks membership in replica group k.
func CriticalGroupsFromMask(mask []int) []int {
	out := make([]int, len(mask))
	for i, m := range mask {
		if m > 1 {
			out[i] = m
		}
	}
	return out
}

// CommunicationsFromEdges builds an n x n adjacency matrix.
func CommunicationsFromEdges(n int, edges []Edge) [][]bool {
	out := make([][]bool, n)
	for i := range out {
		out[i] = make([]bool, n)
	}
	for _, e := range edges {
		if e.Sender >= 0 && e.Sender < n && e.Receiver >= 0 && e.Receiver < n {
			out[e.Sender][e.Receiver] = true
		}
	}
	return out
}

// NumItems returns the number of real (non padding) items.
func (p *ProblemInstance) NumItems() int {
	n := 0
	for n < len(p.Costs) && p.Costs[n] > 0 {
		n++
	}
	return n
}

// Edges lists the communication edges in sender-major order.
func (p *ProblemInstance) Edges() []Edge {
	edges := make([]Edge, 0)
	for s, row := range p.Communications {
		for r, set := range row {
			if set {
				edges = append(edges, Edge{Sender: s, Receiver: r})
			}
		}
	}
	return edges
}

// Validate checks the instance shape against the configured maxima.
func (p *ProblemInstance) Validate(maxItems, maxBins int) error {
	if p == nil {
		return errors.Wrap(ErrInvalidInstance, "nil instance")
	}
	if len(p.Costs) == 0 || len(p.Costs) > maxItems {
		return errors.Wrapf(ErrInvalidInstance, "item count %d outside [1,%d]", len(p.Costs), maxItems)
	}
	n := p.NumItems()
	if n == 0 {
		return errors.Wrap(ErrInvalidInstance, "no item with positive cost")
	}
	for i, c := range p.Costs {
		if math.IsNaN(c) || math.IsInf(c, 0) || c < 0 {
			return errors.Wrapf(ErrInvalidInstance, "item %d has invalid cost %v", i, c)
		}
		if i >= n && c != 0 {
			return errors.Wrapf(ErrInvalidInstance, "item %d has positive cost after padding", i)
		}
	}

	if len(p.Capacities) == 0 || len(p.Capacities) > maxBins {
		return errors.Wrapf(ErrInvalidInstance, "bin count %d outside [1,%d]", len(p.Capacities), maxBins)
	}
	for b, c := range p.Capacities {
		if math.IsNaN(c) || math.IsInf(c, 0) || c <= 0 {
			return errors.Wrapf(ErrInvalidInstance, "bin %d has non-positive capacity %v", b, c)
		}
	}
	// an item larger than every bin can never be placed and would observe
	// outside [0,1]
	largest := floats.Max(p.Capacities)
	for i, c := range p.Costs {
		if c > largest {
			return errors.Wrapf(ErrInvalidInstance, "item %d cost %v exceeds largest bin capacity %v", i, c, largest)
		}
	}

	if p.CriticalGroups != nil {
		if len(p.CriticalGroups) != len(p.Costs) {
			return errors.Wrapf(ErrInvalidInstance, "critical group vector has length %d, want %d", len(p.CriticalGroups), len(p.Costs))
		}
		for i, g := range p.CriticalGroups {
			if g < 0 {
				return errors.Wrapf(ErrInvalidInstance, "item %d has negative critical group", i)
			}
		}
	}

	if p.Communications != nil {
		if len(p.Communications) != len(p.Costs) {
			return errors.Wrapf(ErrInvalidInstance, "communication matrix has %d rows, want %d", len(p.Communications), len(p.Costs))
		}
		for s, row := range p.Communications {
			if len(row) != len(p.Costs) {
				return errors.Wrapf(ErrInvalidInstance, "communication row %d has length %d, want %d", s, len(row), len(p.Costs))
			}
			for r, set := range row {
				if !set {
					continue
				}
				if s == r {
					return errors.Wrapf(ErrInvalidInstance, "self loop on item %d", s)
				}
				if s >= n || r >= n {
					return errors.Wrapf(ErrInvalidInstance, "edge %d->%d touches a padding slot", s, r)
				}
			}
		}
	}
	return nil
}
