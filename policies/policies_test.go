package policies

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/zeu5/cades/config"
	"github.com/zeu5/cades/core"
)

type PoliciesTestSuite struct {
	suite.Suite
	cfg  *config.Config
	inst *core.ProblemInstance
}

func TestPoliciesTestSuite(t *testing.T) {
	suite.Run(t, new(PoliciesTestSuite))
}

func (suite *PoliciesTestSuite) SetupTest() {
	suite.cfg = config.Default()
	suite.cfg.Problem.MaxNumItems = 6
	suite.cfg.Problem.TotalBins = 3
	suite.inst = &core.ProblemInstance{
		Costs:          []float64{2, 2, 3, 3, 1, 0},
		Capacities:     []float64{6, 6, 6},
		CriticalGroups: []int{1, 1, 2, 2, 0, 0},
	}
}

func (suite *PoliciesTestSuite) runEpisode(p core.Policy) []*core.StepResult {
	sim := core.NewSimulator(suite.cfg, 7)
	obs, err := sim.Reset(suite.inst)
	suite.Require().NoError(err)

	eCtx := core.NewEpisodeContext(context.Background())
	p.ResetEpisode(eCtx)
	results := make([]*core.StepResult, 0)
	for step := 0; step < suite.cfg.Problem.MaxNumItems; step++ {
		sCtx := &core.StepContext{Step: step, EpisodeContext: eCtx}
		action := p.PickAction(sCtx, obs)
		res, err := sim.Step(action)
		suite.Require().NoError(err)
		p.UpdateStep(sCtx, obs, action, res)
		results = append(results, res)
		obs = res.Observation
		if res.Done {
			break
		}
	}
	p.UpdateEpisode(eCtx)
	return results
}

func (suite *PoliciesTestSuite) TestRandomPolicyStaysInActionSpace() {
	p := NewRandomPolicy(3)
	obs := &core.Observation{Tasks: make([]float64, 6), Nodes: make([]float64, 3)}
	for i := 0; i < 100; i++ {
		a := p.PickAction(nil, obs)
		suite.True(a.Item >= 0 && a.Item < 6)
		suite.True(a.Bin >= 0 && a.Bin < 3)
	}
}

func (suite *PoliciesTestSuite) TestRandomPolicyResetReplays() {
	p := NewRandomPolicy(3)
	obs := &core.Observation{Tasks: make([]float64, 6), Nodes: make([]float64, 3)}
	first := make([]core.Action, 10)
	for i := range first {
		first[i] = p.PickAction(nil, obs)
	}
	p.Reset()
	for i := range first {
		suite.Equal(first[i], p.PickAction(nil, obs))
	}
}

func (suite *PoliciesTestSuite) TestMaskedRandomPolicySucceeds() {
	for seed := uint64(0); seed < 20; seed++ {
		results := suite.runEpisode(NewMaskedRandomPolicy(seed))
		last := results[len(results)-1]
		suite.True(last.Info.IsSuccess, "seed %d", seed)
		suite.Equal(0, last.Info.DuplicatePicks, "seed %d", seed)
		suite.Len(results, 5)
	}
}

func (suite *PoliciesTestSuite) TestMaskedRandomPolicyFallsBack() {
	p := NewMaskedRandomPolicy(1)
	obs := &core.Observation{
		Tasks:        []float64{0.9},
		CriticalMask: []int{0},
		Nodes:        []float64{0.1, 0.2},
	}
	a := p.PickAction(nil, obs)
	suite.Equal(0, a.Item)
	suite.True(a.Bin == 0 || a.Bin == 1)
}

func (suite *PoliciesTestSuite) TestConstructorsOffsetSeeds() {
	obs := &core.Observation{Tasks: make([]float64, 50), Nodes: make([]float64, 50)}
	c := &RandomPolicyConstructor{Seed: 10}
	same := c.NewPolicy(0).PickAction(nil, obs) == NewRandomPolicy(10).PickAction(nil, obs)
	suite.True(same)

	m := &MaskedRandomPolicyConstructor{Seed: 10}
	suite.IsType(&MaskedRandomPolicy{}, m.NewPolicy(1))
}
