package policies

import (
	"golang.org/x/exp/rand"

	"github.com/zeu5/cades/core"
)

// RandomPolicy picks an item and a bin uniformly from the full action space,
// including items that are already placed.
type RandomPolicy struct {
	seed uint64
	rand *rand.Rand
}

var _ core.Policy = &RandomPolicy{}

func NewRandomPolicy(seed uint64) *RandomPolicy {
	return &RandomPolicy{
		seed: seed,
		rand: rand.New(rand.NewSource(seed)),
	}
}

func (r *RandomPolicy) Reset() {
	r.rand = rand.New(rand.NewSource(r.seed))
}

func (r *RandomPolicy) UpdateEpisode(_ *core.EpisodeContext) {}

func (r *RandomPolicy) PickAction(_ *core.StepContext, obs *core.Observation) core.Action {
	return core.Action{
		Item: r.rand.Intn(len(obs.Tasks)),
		Bin:  r.rand.Intn(len(obs.Nodes)),
	}
}

func (r *RandomPolicy) UpdateStep(_ *core.StepContext, _ *core.Observation, _ core.Action, _ *core.StepResult) {
}

func (r *RandomPolicy) ResetEpisode(_ *core.EpisodeContext) {}

type RandomPolicyConstructor struct {
	Seed uint64
}

var _ core.PolicyConstructor = &RandomPolicyConstructor{}

func (r *RandomPolicyConstructor) NewPolicy(instance int) core.Policy {
	return NewRandomPolicy(r.Seed + uint64(instance))
}
