package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCriticalGroupsFromMask(t *testing.T) {
	assert.Equal(t, []int{0, 0, 2, 2, 3, 0}, CriticalGroupsFromMask([]int{0, 1, 2, 2, 3, 1}))
}

func TestCommunicationsFromEdges(t *testing.T) {
	m := CommunicationsFromEdges(3, []Edge{{Sender: 0, Receiver: 2}, {Sender: 2, Receiver: 1}, {Sender: 5, Receiver: 0}})
	assert.Equal(t, [][]bool{
		{false, false, true},
		{false, false, false},
		{false, true, false},
	}, m)
}

func TestNumItemsAndEdges(t *testing.T) {
	inst := &ProblemInstance{
		Costs:          []float64{3, 1, 0, 0},
		Capacities:     []float64{4},
		Communications: CommunicationsFromEdges(4, []Edge{{Sender: 1, Receiver: 0}, {Sender: 0, Receiver: 1}}),
	}
	assert.Equal(t, 2, inst.NumItems())
	assert.Equal(t, []Edge{{Sender: 0, Receiver: 1}, {Sender: 1, Receiver: 0}}, inst.Edges())
	assert.NoError(t, inst.Validate(4, 1))
	assert.Error(t, inst.Validate(3, 1))
}

func TestResolveActionKeepsOpenItem(t *testing.T) {
	inst := &ProblemInstance{Costs: []float64{1, 1}, Capacities: []float64{4, 4}}
	s := newEpisodeState(inst, 2)
	a, err := resolveAction(Action{Item: 1, Bin: 1}, s, nil)
	assert.NoError(t, err)
	assert.Equal(t, Action{Item: 1, Bin: 1}, a)
}

func TestResolveActionNoOpenItem(t *testing.T) {
	inst := &ProblemInstance{Costs: []float64{1}, Capacities: []float64{4}}
	s := newEpisodeState(inst, 1)
	s.place(0, 0)
	_, err := resolveAction(Action{Item: 0, Bin: 0}, s, nil)
	assert.ErrorIs(t, err, ErrNoOpenItem)
}
