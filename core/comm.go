package core

import (
	"golang.org/x/exp/rand"
)

// commTracker credits communication edges whose endpoints end up in the same
// bin. Each role (sender, receiver) of a placed item credits at most one
// uncredited pair per placement, even when several partners are co-located.
type commTracker struct {
	reward float64
	rand   *rand.Rand
}

// credit must be called before item is appended to bin.
func (c *commTracker) credit(s *EpisodeState, item, bin int) float64 {
	if s.numEdges == 0 {
		return 0
	}
	total := 0.0

	asSender := make([]Edge, 0)
	for _, r := range s.receiversOf[item] {
		e := Edge{Sender: item, Receiver: r}
		if s.location[r] == bin && !s.isCredited(e) {
			asSender = append(asSender, e)
		}
	}
	total += c.creditOne(s, asSender)

	asReceiver := make([]Edge, 0)
	for _, snd := range s.sendersOf[item] {
		e := Edge{Sender: snd, Receiver: item}
		if s.location[snd] == bin && !s.isCredited(e) {
			asReceiver = append(asReceiver, e)
		}
	}
	total += c.creditOne(s, asReceiver)
	return total
}

func (c *commTracker) creditOne(s *EpisodeState, candidates []Edge) float64 {
	if len(candidates) == 0 {
		return 0
	}
	e := candidates[c.rand.Intn(len(candidates))]
	s.credited[e] = struct{}{}
	return c.reward / float64(s.numEdges)
}
