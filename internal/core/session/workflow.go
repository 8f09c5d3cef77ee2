package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/neilberkman/espressolog/internal/core/models"
	"github.com/neilberkman/espressolog/internal/core/suggest"
)

// ErrInvalidTransition is returned when a trigger does not apply to the
// current phase
var ErrInvalidTransition = errors.New("invalid session transition")

// Appender stores a finished brew. *brewlog.Store satisfies it.
type Appender interface {
	Append(ctx context.Context, entry models.BrewLogEntry) (int, models.BrewLogEntry, error)
}

// Workflow owns the in-progress BrewSession and its phase. The caller holds
// the value; nothing here is shared between workflows.
type Workflow struct {
	Session models.BrewSession
	phase   models.Phase
}

// Outcome is what a finished brew produced
type Outcome struct {
	Brewed models.BrewSession // session as it was evaluated and saved
	Result suggest.Result
	Entry  models.BrewLogEntry
	Index  int // position the entry was stored at
}

// NewWorkflow starts an idle workflow from the given defaults
func NewWorkflow(defaults models.BrewSession) *Workflow {
	return &Workflow{Session: defaults, phase: models.PhaseIdle}
}

// Phase returns the current phase
func (w *Workflow) Phase() models.Phase {
	return w.phase
}

// StartBrew is the "save & brew" trigger: it checks the dial-in values and
// moves the workflow into the rating phase.
func (w *Workflow) StartBrew() error {
	if w.phase != models.PhaseIdle {
		return fmt.Errorf("%w: start brew while %s", ErrInvalidTransition, w.phase)
	}
	if err := w.Session.ValidateDialIn(); err != nil {
		return err
	}
	w.phase = models.PhaseBrewing
	return nil
}

// Cancel returns to the idle phase without saving. Field values are kept.
func (w *Workflow) Cancel() {
	w.phase = models.PhaseIdle
}

// Finish is the "get suggestions" trigger. It evaluates the session, appends
// it with the suggestion text and returns to idle. Dial-in values stay for
// the next shot; ratings, notes and favorite are reset. On failure the
// workflow stays in the rating phase.
func (w *Workflow) Finish(ctx context.Context, store Appender) (Outcome, error) {
	if w.phase != models.PhaseBrewing {
		return Outcome{}, fmt.Errorf("%w: finish while %s", ErrInvalidTransition, w.phase)
	}

	brewed := w.Session
	result, err := suggest.Evaluate(brewed)
	if err != nil {
		return Outcome{}, err
	}

	index, entry, err := store.Append(ctx, models.BrewLogEntry{Session: brewed, Suggestion: result.Text})
	if err != nil {
		return Outcome{}, fmt.Errorf("save brew: %w", err)
	}

	w.Session.ResetRatings()
	w.phase = models.PhaseIdle
	return Outcome{Brewed: brewed, Result: result, Entry: entry, Index: index}, nil
}

// Load replaces the session with one reloaded from the log and returns to
// the idle phase.
func (w *Workflow) Load(s models.BrewSession) {
	w.Session = s
	w.phase = models.PhaseIdle
}
