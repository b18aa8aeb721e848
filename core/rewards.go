package core

import (
	"math"

	"github.com/zeu5/cades/config"
)

// rewardPolicy computes the shaped reward of every step outcome.
type rewardPolicy struct {
	config.RewardConfig
	maxItems int
}

// duplicatePick shrinks toward DuplicatePick as the episode gets longer.
func (p rewardPolicy) duplicatePick(stepCount int) float64 {
	gap := math.Abs(float64(p.maxItems - stepCount))
	return p.DuplicatePick - gap*p.DuplicatePickScale/float64(p.maxItems)
}

func (p rewardPolicy) overflow(stepCount int) float64 {
	return p.BinOverflow * float64(stepCount) * p.BinOverflowScale
}

func (p rewardPolicy) duplicateCritical(stepCount int) float64 {
	return p.DuplicateCriticalPick * float64(stepCount) * p.DuplicateCriticalPickScale
}

func (p rewardPolicy) placement(stepCount int, critical bool) float64 {
	reward := p.Step + p.Bonus*float64(stepCount)
	if critical {
		reward += p.Critical
	}
	return reward
}
