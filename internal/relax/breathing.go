// Package relax holds the two calm-down games: paced breathing and a
// memory-match deck.
package relax

import (
	"context"
	"time"

	"github.com/facebookgo/clock"
)

type Phase string

const (
	PhaseInhale Phase = "inhale"
	PhaseHold   Phase = "hold"
	PhaseExhale Phase = "exhale"
)

const PhaseSeconds = 4

func (p Phase) Next() Phase {
	switch p {
	case PhaseInhale:
		return PhaseHold
	case PhaseHold:
		return PhaseExhale
	default:
		return PhaseInhale
	}
}

func (p Phase) Label() string {
	switch p {
	case PhaseHold:
		return "Hold"
	case PhaseExhale:
		return "Exhale"
	default:
		return "Inhale"
	}
}

type Step struct {
	Phase       Phase  `json:"phase"`
	Label       string `json:"label"`
	SecondsLeft int    `json:"seconds_left"`
	Cycle       int    `json:"cycle"`
}

// Breathing is the inhale/hold/exhale state machine. Each Tick is one second.
type Breathing struct {
	phase Phase
	left  int
	cycle int
}

func NewBreathing() *Breathing {
	return &Breathing{phase: PhaseInhale, left: PhaseSeconds}
}

func (b *Breathing) Current() Step {
	return Step{Phase: b.phase, Label: b.phase.Label(), SecondsLeft: b.left, Cycle: b.cycle}
}

func (b *Breathing) Tick() Step {
	if b.left <= 1 {
		b.phase = b.phase.Next()
		b.left = PhaseSeconds
		if b.phase == PhaseInhale {
			b.cycle++
		}
	} else {
		b.left--
	}
	return b.Current()
}

// RunBreathing emits the initial step and then one step per second until ctx
// ends. The ticker is always stopped on return.
func RunBreathing(ctx context.Context, clk clock.Clock, onStep func(Step) error) error {
	if clk == nil {
		clk = clock.New()
	}
	b := NewBreathing()
	t := clk.Ticker(time.Second)
	defer t.Stop()

	if err := onStep(b.Current()); err != nil {
		return err
	}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			if err := onStep(b.Tick()); err != nil {
				return err
			}
		}
	}
}
