package analysis

import (
	log "github.com/sirupsen/logrus"

	"github.com/zeu5/cades/core"
)

// BugSpec flags traces that match Check.
type BugSpec struct {
	Name  string
	Check func(*core.Trace) bool
}

// BugAnalyzer counts the episodes matching each BugSpec and logs the trace
// of the first match.
type BugAnalyzer struct {
	bugs   []BugSpec
	exp    string
	counts map[string]int
}

var _ core.Analyzer = &BugAnalyzer{}

func NewBugAnalyzer(bugs ...BugSpec) *BugAnalyzer {
	return &BugAnalyzer{
		bugs:   bugs,
		counts: make(map[string]int),
	}
}

func (ba *BugAnalyzer) Analyze(eCtx *core.EpisodeContext, trace *core.Trace) {
	for _, bug := range ba.bugs {
		if !bug.Check(trace) {
			continue
		}
		ba.counts[bug.Name]++
		if ba.counts[bug.Name] == 1 {
			log.WithFields(log.Fields{
				"experiment": ba.exp,
				"run":        eCtx.Run,
				"episode":    eCtx.Episode,
				"bug":        bug.Name,
			}).Info("Bug found\n" + traceToString(trace))
		}
	}
}

func (ba *BugAnalyzer) DataSet() core.DataSet {
	out := make(map[string]int, len(ba.counts))
	for k, v := range ba.counts {
		out[k] = v
	}
	return out
}

func (ba *BugAnalyzer) Reset() {
	ba.counts = make(map[string]int)
}

type BugAnalyzerConstructor struct {
	Bugs []BugSpec
}

var _ core.AnalyzerConstructor = &BugAnalyzerConstructor{}

func NewBugAnalyzerConstructor(bugs ...BugSpec) *BugAnalyzerConstructor {
	return &BugAnalyzerConstructor{
		Bugs: bugs,
	}
}

func (e *BugAnalyzerConstructor) NewAnalyzer(exp string, _ int) core.Analyzer {
	return &BugAnalyzer{
		exp:    exp,
		bugs:   e.Bugs,
		counts: make(map[string]int),
	}
}

// DuplicatePickBug matches episodes where the policy picked an already
// placed item at least once.
var DuplicatePickBug = BugSpec{
	Name: "duplicate_pick",
	Check: func(t *core.Trace) bool {
		last := t.Last()
		return last != nil && last.Result.Info.DuplicatePicks > 0
	},
}

// CriticalCollisionBug matches episodes that ended by co-locating two
// replicas of the same critical group.
var CriticalCollisionBug = BugSpec{
	Name: "critical_collision",
	Check: func(t *core.Trace) bool {
		last := t.Last()
		return last != nil && last.Result.Info.TerminationCause == core.CauseDuplicateCriticalPick
	},
}
