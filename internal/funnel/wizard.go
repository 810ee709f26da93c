// Package funnel implements the contact wizard: a linear sequence of steps
// that collects a lead, validates each step before moving on and performs a
// single write of the finished lead.
package funnel

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"diezagency/internal/locale"
)

// DefaultTransition is how long a step change is flagged as in flight.
const DefaultTransition = 220 * time.Millisecond

// Direction is the way the last transition moved.
type Direction string

const (
	Forward  Direction = "forward"
	Backward Direction = "backward"
)

// State is the observable wizard state.
type State struct {
	CurrentStep     StepID    `json:"current_step"`
	Direction       Direction `json:"direction"`
	IsTransitioning bool      `json:"is_transitioning"`
	IsSubmitting    bool      `json:"is_submitting"`
	Submitted       bool      `json:"submitted"`
	LastError       string    `json:"last_error,omitempty"`
}

// Lead is the record handed to the lead store on submit.
type Lead struct {
	LeadForm
	Lang         locale.Locale `json:"lang"`
	SubmissionID string        `json:"submission_id"`
}

// LeadWriter persists a finished lead.
type LeadWriter interface {
	WriteLead(ctx context.Context, lead Lead) error
}

// LeadWriterFunc adapts a function to LeadWriter.
type LeadWriterFunc func(ctx context.Context, lead Lead) error

func (f LeadWriterFunc) WriteLead(ctx context.Context, lead Lead) error { return f(ctx, lead) }

// Scheduler runs fn once d has elapsed.
type Scheduler func(d time.Duration, fn func())

// Wizard owns one funnel session. It is safe for concurrent use, although a
// session is normally driven by a single client.
type Wizard struct {
	mu sync.Mutex

	form  LeadForm
	state State

	lang         locale.Locale
	submissionID string
	writer       LeadWriter

	transition time.Duration
	schedule   Scheduler
	failureMsg func(locale.Locale) string
	onError    func(error)
}

// Option configures a Wizard.
type Option func(*Wizard)

// WithTransition sets the cosmetic transition duration. Zero makes steps
// change synchronously.
func WithTransition(d time.Duration) Option {
	return func(w *Wizard) {
		if d >= 0 {
			w.transition = d
		}
	}
}

// WithScheduler replaces time.AfterFunc for completing transitions.
func WithScheduler(s Scheduler) Option {
	return func(w *Wizard) {
		if s != nil {
			w.schedule = s
		}
	}
}

// WithFailureMessage sets the localized message shown when the write fails.
func WithFailureMessage(fn func(locale.Locale) string) Option {
	return func(w *Wizard) {
		if fn != nil {
			w.failureMsg = fn
		}
	}
}

// WithErrorHook is called with the underlying write error.
func WithErrorHook(fn func(error)) Option {
	return func(w *Wizard) {
		w.onError = fn
	}
}

// WithSubmissionID overrides the generated idempotency key.
func WithSubmissionID(id string) Option {
	return func(w *Wizard) {
		if id != "" {
			w.submissionID = id
		}
	}
}

// New starts a wizard at the first step.
func New(writer LeadWriter, lang locale.Locale, opts ...Option) *Wizard {
	if !locale.IsSupported(lang) {
		lang = locale.Secondary
	}
	w := &Wizard{
		state:        State{CurrentStep: StepIdentity, Direction: Forward},
		lang:         lang,
		submissionID: uuid.NewString(),
		writer:       writer,
		transition:   DefaultTransition,
		schedule:     func(d time.Duration, fn func()) { time.AfterFunc(d, fn) },
		failureMsg:   defaultFailureMessage,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

func defaultFailureMessage(l locale.Locale) string {
	if l == locale.French {
		return "Une erreur est survenue. Réessayez."
	}
	return "Something went wrong. Please try again."
}

// Lang returns the locale the lead will be tagged with.
func (w *Wizard) Lang() locale.Locale { return w.lang }

// SubmissionID returns the idempotency key sent with every write attempt.
func (w *Wizard) SubmissionID() string { return w.submissionID }

// State returns a snapshot of the wizard state.
func (w *Wizard) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// Form returns a copy of the collected answers.
func (w *Wizard) Form() LeadForm {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.form
}

// CanAdvance reports whether the current step predicate holds.
func (w *Wizard) CanAdvance() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.currentValid()
}

// Update edits the form. It is refused once the lead is submitted or while a
// submit is in flight.
func (w *Wizard) Update(fn func(*LeadForm)) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state.Submitted || w.state.IsSubmitting {
		return false
	}
	fn(&w.form)
	return true
}

// Advance moves to the next step when the current step is valid. It is a
// no-op otherwise, including while another transition is in flight.
func (w *Wizard) Advance() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.idle() || !w.currentValid() || int(w.state.CurrentStep) >= TotalSteps {
		return false
	}
	w.begin(Forward, w.state.CurrentStep+1)
	return true
}

// Retreat moves back one step. Validation does not apply.
func (w *Wizard) Retreat() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.idle() || w.state.CurrentStep <= StepIdentity {
		return false
	}
	w.begin(Backward, w.state.CurrentStep-1)
	return true
}

// Submit writes the lead once from the last step. Every step predicate must
// still hold, since Update may have changed earlier answers. It reports whether
// a write was attempted; the outcome is reflected in State. The write ignores
// ctx cancellation and has no deadline of its own.
func (w *Wizard) Submit(ctx context.Context) bool {
	w.mu.Lock()
	if !w.idle() || int(w.state.CurrentStep) != TotalSteps || !w.complete() {
		w.mu.Unlock()
		return false
	}
	w.state.IsSubmitting = true
	w.state.LastError = ""
	lead := Lead{LeadForm: w.form, Lang: w.lang, SubmissionID: w.submissionID}
	w.mu.Unlock()

	err := w.writer.WriteLead(context.WithoutCancel(ctx), lead)

	w.mu.Lock()
	defer w.mu.Unlock()
	w.state.IsSubmitting = false
	if err != nil {
		w.state.LastError = w.failureMsg(w.lang)
		if w.onError != nil {
			w.onError(err)
		}
		return true
	}
	w.state.Submitted = true
	return true
}

// idle reports whether the wizard accepts a new operation. Caller holds mu.
func (w *Wizard) idle() bool {
	return !w.state.Submitted && !w.state.IsTransitioning && !w.state.IsSubmitting
}

func (w *Wizard) currentValid() bool {
	s, ok := StepAt(w.state.CurrentStep)
	return ok && s.Valid(w.form)
}

func (w *Wizard) complete() bool {
	_, ok := ValidateAll(w.form)
	return ok
}

// begin starts a transition to next. Caller holds mu.
func (w *Wizard) begin(dir Direction, next StepID) {
	w.state.Direction = dir
	if w.transition == 0 {
		w.state.CurrentStep = next
		return
	}
	w.state.IsTransitioning = true
	w.schedule(w.transition, func() {
		w.mu.Lock()
		defer w.mu.Unlock()
		w.state.CurrentStep = next
		w.state.IsTransitioning = false
	})
}
