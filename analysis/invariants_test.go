package analysis

import (
	"context"

	"golang.org/x/exp/rand"

	"github.com/zeu5/cades/core"
	"github.com/zeu5/cades/policies"
)

// randomInstances builds instances with two critical pairs and roughly half
// of all possible communication edges set. Costs are fractional so that
// exact fits exercise the capacity tolerance.
func randomInstances(count, maxItems, bins int, seed uint64) []*core.ProblemInstance {
	gen := rand.New(rand.NewSource(seed))
	out := make([]*core.ProblemInstance, count)
	for k := range out {
		n := maxItems/2 + gen.Intn(maxItems/2+1)
		inst := &core.ProblemInstance{
			Costs:          make([]float64, n),
			Capacities:     make([]float64, bins),
			CriticalGroups: make([]int, n),
		}
		for i := range inst.Costs {
			inst.Costs[i] = 0.5 + float64(gen.Intn(16))/10
		}
		for b := range inst.Capacities {
			inst.Capacities[b] = 4 + float64(gen.Intn(31))/10
		}
		inst.CriticalGroups[0], inst.CriticalGroups[1] = 1, 1
		inst.CriticalGroups[2], inst.CriticalGroups[3] = 2, 2

		edges := make([]core.Edge, 0)
		for s := 0; s < n; s++ {
			for r := 0; r < n; r++ {
				if s != r && gen.Intn(2) == 0 {
					edges = append(edges, core.Edge{Sender: s, Receiver: r})
				}
			}
		}
		inst.Communications = core.CommunicationsFromEdges(n, edges)
		out[k] = inst
	}
	return out
}

func (suite *AnalysisTestSuite) TestInvariantsHoldOverRandomEpisodes() {
	suite.cfg.Problem.MaxNumItems = 8
	suite.cfg.Problem.TotalBins = 3
	instances := randomInstances(10, 8, 3, 17)

	for name, policy := range map[string]core.Policy{
		"random":        policies.NewRandomPolicy(5),
		"masked_random": policies.NewMaskedRandomPolicy(5),
	} {
		a := NewInvariantAnalyzer()
		eval := NewEvaluationAnalyzer()
		sim := core.NewSimulator(suite.cfg, 11)

		for episode := 0; episode < 200; episode++ {
			eCtx := core.NewEpisodeContext(context.Background())
			eCtx.Episode = episode
			obs, err := sim.Reset(instances[episode%len(instances)])
			suite.Require().NoError(err, name)
			eCtx.Trace.SetInitial(obs)
			policy.ResetEpisode(eCtx)

			credited := make([]core.Edge, 0)
			for step := 0; step < suite.cfg.Problem.MaxNumItems; step++ {
				sCtx := &core.StepContext{Step: step, EpisodeContext: eCtx}
				action := policy.PickAction(sCtx, obs)
				res, err := sim.Step(action)
				suite.Require().NoError(err, name)
				policy.UpdateStep(sCtx, obs, action, res)
				eCtx.Trace.AddStep(&core.Step{Observation: obs, Action: action, Result: res})

				snap := sim.Snapshot()
				suite.LessOrEqual(len(snap.CreditedPairs), snap.NumEdges, name)
				for _, e := range credited {
					suite.Contains(snap.CreditedPairs, e, name)
				}
				credited = snap.CreditedPairs

				obs = res.Observation
				if res.Done {
					break
				}
			}
			suite.True(eCtx.Trace.Last().Result.Done, name)
			a.Analyze(eCtx, eCtx.Trace)
			eval.Analyze(eCtx, eCtx.Trace)
		}

		suite.Empty(a.Violations(), name)
		ds := eval.DataSet().(*EvaluationDataset)
		suite.Equal(200, ds.Episodes, name)
		if name == "masked_random" {
			suite.Greater(ds.Successes, 0, name)
		}
	}
}
