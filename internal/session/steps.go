package session

import (
	"github.com/ShivamAgarwal-code/AI-Cortex/internal/chats/domain"
	"github.com/ShivamAgarwal-code/AI-Cortex/internal/log"
)

// StepEvent is one incremental unit of agent progress, optionally
// carrying a screenshot payload.
type StepEvent struct {
	Step        int
	Description string
	Base64      string
	URL         string
}

// Aggregator merges incremental step events into an ordered,
// de-duplicated screenshot list for the active turn.
//
// Step indices must be strictly increasing: duplicates and regressions
// from an unreliable channel are dropped. An index that skips ahead is
// accepted and flags a gap; the missing steps are rendered as absent
// rather than buffered for, since a permanently lost step would grow
// the buffer without bound.
type Aggregator struct {
	steps []domain.Screenshot
	gap   bool
}

// NewAggregator creates an empty aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{}
}

// Apply records a step event. Returns false when the event is stale
// (index at or below the highest already recorded) and was dropped.
func (a *Aggregator) Apply(e StepEvent) bool {
	max := a.MaxStep()
	if e.Step <= max {
		log.Debug(log.CatSteps, "dropping stale step", "step", e.Step, "max", max)
		return false
	}
	if e.Step > max+1 {
		log.Warn(log.CatSteps, "step skipped ahead", "step", e.Step, "expected", max+1)
		a.gap = true
	}
	a.steps = append(a.steps, domain.Screenshot{
		Step:        e.Step,
		Description: e.Description,
		Base64:      e.Base64,
		URL:         e.URL,
	})
	return true
}

// Steps returns a copy of the recorded screenshots in step order.
func (a *Aggregator) Steps() []domain.Screenshot {
	if len(a.steps) == 0 {
		return nil
	}
	out := make([]domain.Screenshot, len(a.steps))
	copy(out, a.steps)
	return out
}

// MaxStep returns the highest index recorded so far, or 0 when empty.
func (a *Aggregator) MaxStep() int {
	if len(a.steps) == 0 {
		return 0
	}
	return a.steps[len(a.steps)-1].Step
}

// HasGap reports whether any accepted step skipped an index.
func (a *Aggregator) HasGap() bool {
	return a.gap
}

// Len returns the number of recorded steps.
func (a *Aggregator) Len() int {
	return len(a.steps)
}

// Reset clears the step list. Called on turn commit or chat switch.
func (a *Aggregator) Reset() {
	a.steps = nil
	a.gap = false
}
