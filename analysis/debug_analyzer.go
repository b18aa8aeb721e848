package analysis

import (
	"bytes"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/zeu5/cades/core"
)

// DebugAnalyzer logs whole traces at debug level once the episode number
// reaches thresholdEpisode.
type DebugAnalyzer struct {
	exp              string
	thresholdEpisode int
}

var _ core.Analyzer = &DebugAnalyzer{}

func NewDebugAnalyzer(threshold int) *DebugAnalyzer {
	return &DebugAnalyzer{
		thresholdEpisode: threshold,
	}
}

func (a *DebugAnalyzer) Analyze(ctx *core.EpisodeContext, trace *core.Trace) {
	if ctx.Episode < a.thresholdEpisode || !log.IsLevelEnabled(log.DebugLevel) {
		return
	}
	log.WithFields(log.Fields{
		"experiment": a.exp,
		"run":        ctx.Run,
		"episode":    ctx.Episode,
	}).Debug("Trace\n" + traceToString(trace))
}

func (a *DebugAnalyzer) DataSet() core.DataSet {
	return nil
}

func (a *DebugAnalyzer) Reset() {}

func traceToString(trace *core.Trace) string {
	buf := new(bytes.Buffer)
	if initial := trace.Initial(); initial != nil {
		buf.WriteString(fmt.Sprintf("Initial\n%s\n", observationToString(initial)))
	}
	for i := 0; i < trace.Len(); i++ {
		buf.WriteString(fmt.Sprintf("Step %d\n%s\n", i, stepToString(trace.Step(i))))
	}
	return buf.String()
}

func stepToString(step *core.Step) string {
	out := fmt.Sprintf("Action: %s\n", step.Action)
	if step.Result == nil {
		return out
	}
	info := step.Result.Info
	if info.Resolved != step.Action {
		out += fmt.Sprintf("Resolved: %s\n", info.Resolved)
	}
	out += fmt.Sprintf(
		"Reward: %.4f\nDone: %v\nCause: %s\nAssignments: %v\n%s",
		step.Result.Reward,
		step.Result.Done,
		info.TerminationCause,
		info.Assignments,
		observationToString(step.Result.Observation),
	)
	return out
}

func observationToString(obs *core.Observation) string {
	return fmt.Sprintf("Tasks: %.3f\nNodes: %.3f\nCritical: %v\n", obs.Tasks, obs.Nodes, obs.CriticalMask)
}

type DebugAnalyzerConstructor struct {
	threshold int
}

var _ core.AnalyzerConstructor = &DebugAnalyzerConstructor{}

func NewDebugAnalyzerConstructor(threshold int) *DebugAnalyzerConstructor {
	return &DebugAnalyzerConstructor{
		threshold: threshold,
	}
}

func (d *DebugAnalyzerConstructor) NewAnalyzer(exp string, _ int) core.Analyzer {
	return &DebugAnalyzer{
		exp:              exp,
		thresholdEpisode: d.threshold,
	}
}
