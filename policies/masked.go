package policies

import (
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/sampleuv"

	"github.com/zeu5/cades/core"
)

// MaskedRandomPolicy samples only open items and, for the chosen item, only
// bins that have room for it and hold no replica of the same critical group.
// When no bin qualifies it falls back to a uniform bin.
type MaskedRandomPolicy struct {
	seed uint64
	rand *rand.Rand

	// groups present per bin, rebuilt from the step info
	binGroups []map[int]bool
}

var _ core.Policy = &MaskedRandomPolicy{}

func NewMaskedRandomPolicy(seed uint64) *MaskedRandomPolicy {
	return &MaskedRandomPolicy{
		seed: seed,
		rand: rand.New(rand.NewSource(seed)),
	}
}

func (m *MaskedRandomPolicy) Reset() {
	m.rand = rand.New(rand.NewSource(m.seed))
	m.binGroups = nil
}

func (m *MaskedRandomPolicy) ResetEpisode(_ *core.EpisodeContext) {
	m.binGroups = nil
}

func (m *MaskedRandomPolicy) UpdateEpisode(_ *core.EpisodeContext) {}

func (m *MaskedRandomPolicy) PickAction(_ *core.StepContext, obs *core.Observation) core.Action {
	itemWeights := make([]float64, len(obs.Tasks))
	for i, t := range obs.Tasks {
		if t > 0 {
			itemWeights[i] = 1
		}
	}
	item, ok := sampleuv.NewWeighted(itemWeights, m.rand).Take()
	if !ok {
		item = m.rand.Intn(len(obs.Tasks))
	}

	group := obs.CriticalMask[item]
	binWeights := make([]float64, len(obs.Nodes))
	for b, room := range obs.Nodes {
		if room+core.CapacityTolerance < obs.Tasks[item] {
			continue
		}
		if group != 0 && b < len(m.binGroups) && m.binGroups[b][group] {
			continue
		}
		binWeights[b] = 1
	}
	bin, ok := sampleuv.NewWeighted(binWeights, m.rand).Take()
	if !ok {
		bin = m.rand.Intn(len(obs.Nodes))
	}
	return core.Action{Item: item, Bin: bin}
}

func (m *MaskedRandomPolicy) UpdateStep(_ *core.StepContext, obs *core.Observation, _ core.Action, result *core.StepResult) {
	m.binGroups = make([]map[int]bool, len(result.Info.Assignments))
	for b, items := range result.Info.Assignments {
		m.binGroups[b] = make(map[int]bool)
		for _, i := range items {
			if g := obs.CriticalMask[i]; g != 0 {
				m.binGroups[b][g] = true
			}
		}
	}
}

type MaskedRandomPolicyConstructor struct {
	Seed uint64
}

var _ core.PolicyConstructor = &MaskedRandomPolicyConstructor{}

func (m *MaskedRandomPolicyConstructor) NewPolicy(instance int) core.Policy {
	return NewMaskedRandomPolicy(m.Seed + uint64(instance))
}
