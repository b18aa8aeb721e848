package core

import (
	"github.com/pkg/errors"
	"golang.org/x/exp/rand"
)

// resolveAction repairs an action that references an already placed item by
// substituting an open item chosen uniformly at random. The bin is kept.
func resolveAction(a Action, s *EpisodeState, r *rand.Rand) (Action, error) {
	if s.isOpen(a.Item) {
		return a, nil
	}
	open := s.openItems()
	if len(open) == 0 {
		return a, errors.Wrapf(ErrNoOpenItem, "item %d already placed", a.Item)
	}
	return Action{Item: open[r.Intn(len(open))], Bin: a.Bin}, nil
}
