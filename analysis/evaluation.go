package analysis

import (
	"math"

	log "github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/zeu5/cades/core"
	"github.com/zeu5/cades/util"
)

// EvaluationDataset aggregates the episodes seen by an EvaluationAnalyzer.
type EvaluationDataset struct {
	Episodes          int
	Successes         int
	EpisodeRewards    []float64
	EpisodeLengths    []float64
	TerminationCauses map[string]int
	// OccupancyRatios holds, for successful episodes, the percentage of the
	// bin capacity consumed by the placed items averaged over bins.
	OccupancyRatios []float64
}

func (d *EvaluationDataset) Copy() *EvaluationDataset {
	return &EvaluationDataset{
		Episodes:          d.Episodes,
		Successes:         d.Successes,
		EpisodeRewards:    append([]float64(nil), d.EpisodeRewards...),
		EpisodeLengths:    append([]float64(nil), d.EpisodeLengths...),
		TerminationCauses: util.CopyStringIntMap(d.TerminationCauses),
		OccupancyRatios:   append([]float64(nil), d.OccupancyRatios...),
	}
}

func (d *EvaluationDataset) MeanReward() float64 {
	if len(d.EpisodeRewards) == 0 {
		return 0
	}
	return stat.Mean(d.EpisodeRewards, nil)
}

func (d *EvaluationDataset) MeanEpisodeLength() float64 {
	if len(d.EpisodeLengths) == 0 {
		return 0
	}
	return stat.Mean(d.EpisodeLengths, nil)
}

func (d *EvaluationDataset) MeanOccupancy() float64 {
	if len(d.OccupancyRatios) == 0 {
		return 0
	}
	return stat.Mean(d.OccupancyRatios, nil)
}

func (d *EvaluationDataset) SuccessRate() float64 {
	if d.Episodes == 0 {
		return 0
	}
	return float64(d.Successes) / float64(d.Episodes)
}

// EvaluationAnalyzer computes the per episode reward, length, termination
// cause and occupancy statistics of an experiment.
type EvaluationAnalyzer struct {
	dataset *EvaluationDataset
}

var _ core.Analyzer = &EvaluationAnalyzer{}

func NewEvaluationAnalyzer() *EvaluationAnalyzer {
	e := &EvaluationAnalyzer{}
	e.Reset()
	return e
}

func (e *EvaluationAnalyzer) Reset() {
	e.dataset = &EvaluationDataset{
		EpisodeRewards:    make([]float64, 0),
		EpisodeLengths:    make([]float64, 0),
		TerminationCauses: make(map[string]int),
		OccupancyRatios:   make([]float64, 0),
	}
}

func (e *EvaluationAnalyzer) Analyze(_ *core.EpisodeContext, trace *core.Trace) {
	if trace.Error() != nil || trace.Len() == 0 {
		return
	}
	rewards := make([]float64, trace.Len())
	for i := 0; i < trace.Len(); i++ {
		rewards[i] = trace.Step(i).Result.Reward
	}
	last := trace.Last().Result

	e.dataset.Episodes++
	e.dataset.EpisodeRewards = append(e.dataset.EpisodeRewards, floats.Sum(rewards))
	e.dataset.EpisodeLengths = append(e.dataset.EpisodeLengths, float64(last.Info.EpisodeLen))
	e.dataset.TerminationCauses[last.Info.TerminationCause.String()]++
	if last.Info.IsSuccess {
		e.dataset.Successes++
		e.dataset.OccupancyRatios = append(e.dataset.OccupancyRatios, occupancyRatio(trace.Initial().Nodes, last.Observation.Nodes))
	}
}

// occupancyRatio is 100 minus the mean remaining capacity fraction, rounded
// to two decimals. Both vectors share the same normalization.
func occupancyRatio(total, remaining []float64) float64 {
	fractions := make([]float64, len(total))
	floats.DivTo(fractions, remaining, total)
	ratio := 100 - stat.Mean(fractions, nil)*100
	return math.Round(ratio*100) / 100
}

func (e *EvaluationAnalyzer) DataSet() core.DataSet {
	return e.dataset.Copy()
}

type EvaluationAnalyzerConstructor struct{}

var _ core.AnalyzerConstructor = &EvaluationAnalyzerConstructor{}

func (c *EvaluationAnalyzerConstructor) NewAnalyzer(_ string, _ int) core.Analyzer {
	return NewEvaluationAnalyzer()
}

// EvaluationComparator logs the summary of every experiment of a run.
type EvaluationComparator struct {
	run int
}

var _ core.Comparator = &EvaluationComparator{}

func (c *EvaluationComparator) Compare(experiments []string, datasets []core.DataSet) {
	for i, name := range experiments {
		ds, ok := datasets[i].(*EvaluationDataset)
		if !ok || ds == nil {
			log.WithFields(log.Fields{
				"run":        c.run,
				"experiment": name,
			}).Warn("No evaluation data")
			continue
		}
		log.WithFields(log.Fields{
			"run":                 c.run,
			"experiment":          name,
			"episodes":            ds.Episodes,
			"success_rate":        ds.SuccessRate(),
			"mean_reward":         ds.MeanReward(),
			"mean_episode_length": ds.MeanEpisodeLength(),
			"mean_occupancy":      ds.MeanOccupancy(),
			"termination_causes":  ds.TerminationCauses,
		}).Info("Evaluation summary")
	}
}

type EvaluationComparatorConstructor struct{}

var _ core.ComparatorConstructor = &EvaluationComparatorConstructor{}

func (c *EvaluationComparatorConstructor) NewComparator(run int) core.Comparator {
	return &EvaluationComparator{run: run}
}
