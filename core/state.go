package core

import (
	"math"
	"sort"

	"github.com/zeu5/cades/util"
)

// TerminationCause is the reason an episode ended.
type TerminationCause int

const (
	CauseNone TerminationCause = iota
	CauseSuccess
	CauseBinOverflow
	CauseDuplicateCriticalPick
)

func (c TerminationCause) String() string {
	switch c {
	case CauseSuccess:
		return "success"
	case CauseBinOverflow:
		return "bin_overflow"
	case CauseDuplicateCriticalPick:
		return "duplicate_critical_pick"
	default:
		return "none"
	}
}

const unassigned = -1

// CapacityTolerance absorbs float rounding when items exactly fill a bin.
const CapacityTolerance = 1e-9

// EpisodeState is the mutable state of a single episode. It is derived from a
// ProblemInstance on reset and owned by exactly one Simulator.
type EpisodeState struct {
	// item arrays are padded to the configured max item count
	costs          []float64
	origCosts      []float64
	groups         []int
	location       []int
	capacities     []float64
	origCapacities []float64
	// assignments[b] lists the items placed in bin b in placement order
	assignments [][]int

	// adjacency lists, ascending item order
	receiversOf [][]int
	sendersOf   [][]int
	numEdges    int
	credited    map[Edge]struct{}

	numItems       int
	stepCount      int
	duplicatePicks int
	totalReward    float64
	cause          TerminationCause
	success        bool
}

func newEpisodeState(inst *ProblemInstance, maxItems int) *EpisodeState {
	n := inst.NumItems()
	s := &EpisodeState{
		costs:          make([]float64, maxItems),
		origCosts:      make([]float64, maxItems),
		groups:         make([]int, maxItems),
		location:       make([]int, maxItems),
		capacities:     make([]float64, len(inst.Capacities)),
		origCapacities: make([]float64, len(inst.Capacities)),
		assignments:    make([][]int, len(inst.Capacities)),
		receiversOf:    make([][]int, maxItems),
		sendersOf:      make([][]int, maxItems),
		credited:       make(map[Edge]struct{}),
		numItems:       n,
	}
	copy(s.costs, inst.Costs[:n])
	copy(s.origCosts, inst.Costs[:n])
	if inst.CriticalGroups != nil {
		copy(s.groups, inst.CriticalGroups[:n])
	}
	for i := range s.location {
		s.location[i] = unassigned
	}
	copy(s.capacities, inst.Capacities)
	copy(s.origCapacities, inst.Capacities)
	for b := range s.assignments {
		s.assignments[b] = make([]int, 0, n)
	}
	for _, e := range inst.Edges() {
		s.receiversOf[e.Sender] = append(s.receiversOf[e.Sender], e.Receiver)
		s.sendersOf[e.Receiver] = append(s.sendersOf[e.Receiver], e.Sender)
		s.numEdges++
	}
	return s
}

func (s *EpisodeState) isOpen(item int) bool {
	return s.costs[item] > 0
}

func (s *EpisodeState) openItems() []int {
	open := make([]int, 0, s.numItems)
	for i := 0; i < s.numItems; i++ {
		if s.isOpen(i) {
			open = append(open, i)
		}
	}
	return open
}

func (s *EpisodeState) allPlaced() bool {
	for _, c := range s.costs {
		if c != 0 {
			return false
		}
	}
	return true
}

// groupInBin reports whether bin already holds an item of the critical group.
func (s *EpisodeState) groupInBin(bin, group int) bool {
	if group == 0 {
		return false
	}
	for _, i := range s.assignments[bin] {
		if s.groups[i] == group {
			return true
		}
	}
	return false
}

func (s *EpisodeState) isCredited(e Edge) bool {
	_, ok := s.credited[e]
	return ok
}

func (s *EpisodeState) fits(item, bin int) bool {
	return s.costs[item] <= s.capacities[bin]+CapacityTolerance
}

// place recomputes the remaining capacity from the original values so that
// rounding does not accumulate across placements.
func (s *EpisodeState) place(item, bin int) {
	s.costs[item] = 0
	s.location[item] = bin
	s.assignments[bin] = append(s.assignments[bin], item)
	used := 0.0
	for _, i := range s.assignments[bin] {
		used += s.origCosts[i]
	}
	s.capacities[bin] = math.Max(s.origCapacities[bin]-used, 0)
	s.stepCount++
}

func (s *EpisodeState) assignmentsCopy() [][]int {
	out := make([][]int, len(s.assignments))
	for b, items := range s.assignments {
		out[b] = util.CopyIntSlice(items)
	}
	return out
}

// Snapshot is a read-only copy of the episode state.
type Snapshot struct {
	Costs              []float64
	OriginalCosts      []float64
	CriticalGroups     []int
	Capacities         []float64
	OriginalCapacities []float64
	Assignments        [][]int
	CreditedPairs      []Edge
	NumEdges           int
	StepCount          int
	DuplicatePicks     int
	TotalReward        float64
	TerminationCause   TerminationCause
	IsSuccess          bool
}

func (s *EpisodeState) snapshot() *Snapshot {
	out := &Snapshot{
		Costs:              append([]float64(nil), s.costs...),
		OriginalCosts:      append([]float64(nil), s.origCosts...),
		CriticalGroups:     util.CopyIntSlice(s.groups),
		Capacities:         append([]float64(nil), s.capacities...),
		OriginalCapacities: append([]float64(nil), s.origCapacities...),
		Assignments:        s.assignmentsCopy(),
		CreditedPairs:      make([]Edge, 0, len(s.credited)),
		NumEdges:           s.numEdges,
		StepCount:          s.stepCount,
		DuplicatePicks:     s.duplicatePicks,
		TotalReward:        s.totalReward,
		TerminationCause:   s.cause,
		IsSuccess:          s.success,
	}
	for e := range s.credited {
		out.CreditedPairs = append(out.CreditedPairs, e)
	}
	sort.Slice(out.CreditedPairs, func(i, j int) bool {
		a, b := out.CreditedPairs[i], out.CreditedPairs[j]
		if a.Sender != b.Sender {
			return a.Sender < b.Sender
		}
		return a.Receiver < b.Receiver
	})
	return out
}
