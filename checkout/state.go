// Package checkout runs order submission for one checkout form: the contact
// and payment details, the delivery fee, and the submission lifecycle.
package checkout

import (
	"fmt"

	"github.com/InfinitechAdCorp/izakayaadmin/errs"
)

type State string

const (
	StateIdle       State = "idle"
	StateProcessing State = "processing"
	StateSucceeded  State = "succeeded"
	StateFailed     State = "failed"
)

// A failed submission returns to idle before it can be retried; succeeded is terminal.
var transitions = map[State][]State{
	StateIdle:       {StateProcessing},
	StateProcessing: {StateSucceeded, StateFailed},
	StateFailed:     {StateIdle},
}

func (s State) CanTransition(to State) bool {
	for _, next := range transitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

func (s State) Terminal() bool {
	return len(transitions[s]) == 0
}

func transition(from, to State) (State, error) {
	if !from.CanTransition(to) {
		return from, fmt.Errorf("%w: %s -> %s", errs.ErrInvalidTransition, from, to)
	}
	return to, nil
}
