package analysis

import (
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/zeu5/cades/core"
)

// Violation is a broken placement invariant observed in a trace.
type Violation struct {
	Run      int
	Episode  int
	Step     int
	Property string
	Detail   string
}

// InvariantAnalyzer replays traces and checks the placement invariants on
// every step: capacity, single assignment, critical exclusivity, credit
// monotonicity, normalization bounds, termination correctness and episode
// length.
type InvariantAnalyzer struct {
	violations []Violation
}

var _ core.Analyzer = &InvariantAnalyzer{}

func NewInvariantAnalyzer() *InvariantAnalyzer {
	return &InvariantAnalyzer{violations: make([]Violation, 0)}
}

func (a *InvariantAnalyzer) Reset() {
	a.violations = make([]Violation, 0)
}

func (a *InvariantAnalyzer) DataSet() core.DataSet {
	return append([]Violation(nil), a.violations...)
}

func (a *InvariantAnalyzer) Violations() []Violation {
	return a.violations
}

func (a *InvariantAnalyzer) Analyze(eCtx *core.EpisodeContext, trace *core.Trace) {
	initial := trace.Initial()
	if initial == nil {
		return
	}
	report := func(step int, property, detail string) {
		v := Violation{Run: eCtx.Run, Episode: eCtx.Episode, Step: step, Property: property, Detail: detail}
		a.violations = append(a.violations, v)
		log.WithFields(log.Fields{
			"run":      v.Run,
			"episode":  v.Episode,
			"step":     v.Step,
			"property": v.Property,
		}).Warn(v.Detail)
	}

	numEdges := 0
	for _, row := range initial.Communications {
		for _, set := range row {
			if set {
				numEdges++
			}
		}
	}

	credits := 0
	for i := 0; i < trace.Len(); i++ {
		result := trace.Step(i).Result
		obs, info := result.Observation, result.Info

		for t, v := range obs.Tasks {
			if v < 0 || v > 1 {
				report(i, "normalization", fmt.Sprintf("task %d = %v", t, v))
			}
		}
		for b, v := range obs.Nodes {
			if v < 0 || v > 1 {
				report(i, "normalization", fmt.Sprintf("node %d = %v", b, v))
			}
		}

		seen := make(map[int]int)
		for b, items := range info.Assignments {
			used := 0.0
			groups := make(map[int]bool)
			for _, item := range items {
				if prev, ok := seen[item]; ok {
					report(i, "single_assignment", fmt.Sprintf("item %d in bins %d and %d", item, prev, b))
				}
				seen[item] = b
				used += initial.Tasks[item]
				if g := initial.CriticalMask[item]; g != 0 {
					if groups[g] {
						report(i, "critical_exclusivity", fmt.Sprintf("bin %d holds two items of group %d", b, g))
					}
					groups[g] = true
				}
			}
			if used > initial.Nodes[b]+core.CapacityTolerance {
				report(i, "capacity", fmt.Sprintf("bin %d uses %v of %v", b, used, initial.Nodes[b]))
			}
		}

		if info.CreditedPairs < credits || info.CreditedPairs > numEdges {
			report(i, "credit_uniqueness", fmt.Sprintf("credited pairs went from %d to %d with %d edges", credits, info.CreditedPairs, numEdges))
		}
		credits = info.CreditedPairs

		allPlaced := true
		for _, v := range obs.Tasks {
			if v != 0 {
				allPlaced = false
				break
			}
		}
		isSuccessCause := info.TerminationCause == core.CauseSuccess
		if isSuccessCause != allPlaced || info.IsSuccess != isSuccessCause {
			report(i, "termination", fmt.Sprintf("cause %s, success %v, all placed %v", info.TerminationCause, info.IsSuccess, allPlaced))
		}
		if info.EpisodeLen > len(initial.Tasks) {
			report(i, "episode_length", fmt.Sprintf("%d placements with %d item slots", info.EpisodeLen, len(initial.Tasks)))
		}
	}
}

type InvariantAnalyzerConstructor struct{}

var _ core.AnalyzerConstructor = &InvariantAnalyzerConstructor{}

func (c *InvariantAnalyzerConstructor) NewAnalyzer(_ string, _ int) core.Analyzer {
	return NewInvariantAnalyzer()
}

// InvariantComparator logs an error for every experiment with violations.
type InvariantComparator struct {
	run int
}

var _ core.Comparator = &InvariantComparator{}

func (c *InvariantComparator) Compare(experiments []string, datasets []core.DataSet) {
	for i, name := range experiments {
		violations, _ := datasets[i].([]Violation)
		if len(violations) == 0 {
			continue
		}
		log.WithFields(log.Fields{
			"run":        c.run,
			"experiment": name,
			"violations": len(violations),
		}).Error("Placement invariants violated")
	}
}

type InvariantComparatorConstructor struct{}

var _ core.ComparatorConstructor = &InvariantComparatorConstructor{}

func (c *InvariantComparatorConstructor) NewComparator(run int) core.Comparator {
	return &InvariantComparator{run: run}
}
