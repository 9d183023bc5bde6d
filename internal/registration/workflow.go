package registration

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/iysravet/iyscli/internal/client/models"
	"github.com/iysravet/iyscli/internal/logging"
	"github.com/iysravet/iyscli/internal/session"
)

// ErrSubmissionInFlight guards the single-submission invariant: a draft has
// at most one request on the wire at any time.
var ErrSubmissionInFlight = errors.New("submission already in progress")

// State is the submission lifecycle position of the current draft.
type State int

const (
	StateIdle State = iota
	StateSubmitting
	StateSucceeded
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSubmitting:
		return "submitting"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Submitter is the transport dependency of the workflow.
type Submitter interface {
	SubmitRegistration(ctx context.Context, bearer string, sub models.RegistrationSubmission) (*models.RegistrationAck, error)
}

// TokenSource yields the current session snapshot; the workflow reads the
// bearer credential from it at submission time, never earlier.
type TokenSource interface {
	Current() session.Session
}

// Workflow carries one registration draft from Idle through Submitting to
// Succeeded or Failed. Failed drafts retry with a brand-new request;
// Succeeded is terminal until Begin binds a new event context. Transitions
// are guarded, so states like "submitting and succeeded at once" cannot be
// represented at all.
type Workflow struct {
	client Submitter
	tokens TokenSource
	log    logging.Logger

	mu      sync.Mutex
	state   State
	eventID string
	fees    *models.FeeSchedule
	upiID   string
	draft   Draft
	lastErr error
	message string
	conf    *models.Confirmation
}

func NewWorkflow(client Submitter, tokens TokenSource, log logging.Logger) *Workflow {
	return &Workflow{client: client, tokens: tokens, log: log}
}

// Begin binds the workflow to a fresh event context and resets the draft,
// including a terminal Succeeded state from a previous event. It refuses to
// reset while a submission is on the wire.
func (w *Workflow) Begin(details *models.EventDetails) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state == StateSubmitting {
		return ErrSubmissionInFlight
	}

	w.state = StateIdle
	w.eventID = details.ID
	w.fees = details.Fees
	w.upiID = details.UPIID
	w.draft = Draft{}
	w.lastErr = nil
	w.message = ""
	w.conf = nil
	return nil
}

func (w *Workflow) SetAmount(amount float64) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.draft.Amount = amount
}

func (w *Workflow) SetTransactionRef(ref string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.draft.TransactionRef = ref
}

func (w *Workflow) AttachScreenshot(name string, data []byte) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.draft.ScreenshotName = name
	w.draft.Screenshot = data
}

func (w *Workflow) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

func (w *Workflow) Draft() Draft {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.draft
}

// Confirmation returns the server's acknowledgement of a succeeded
// submission, or nil before that.
func (w *Workflow) Confirmation() *models.Confirmation {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.conf
}

// Message is the server's human-readable message from the last successful
// submission.
func (w *Workflow) Message() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.message
}

// LastErr is the failure that put the workflow into StateFailed, nil
// otherwise.
func (w *Workflow) LastErr() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastErr
}

// SelectableAmounts lists the amounts offered by the bound fee schedule.
func (w *Workflow) SelectableAmounts() []float64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return SelectableAmounts(w.fees)
}

// Verdict re-evaluates the gate against the current draft.
func (w *Workflow) Verdict() Verdict {
	w.mu.Lock()
	defer w.mu.Unlock()
	return Evaluate(w.fees, w.upiID, w.draft, w.state == StateSucceeded)
}

// Submit runs the gate and, if allowed, issues the one multipart request
// for the current draft. On success the draft's mutable fields are cleared
// and the confirmation is retained; on failure the draft survives for a
// retry. A gate refusal surfaces its reason without changing state.
// Cancellation restores the pre-submit state and records no failure.
func (w *Workflow) Submit(ctx context.Context) (*models.RegistrationAck, error) {
	w.mu.Lock()
	if w.state == StateSubmitting {
		w.mu.Unlock()
		return nil, ErrSubmissionInFlight
	}

	verdict := Evaluate(w.fees, w.upiID, w.draft, w.state == StateSucceeded)
	if !verdict.Allowed {
		w.mu.Unlock()
		return nil, verdict.Reason
	}

	prev := w.state
	w.state = StateSubmitting
	w.lastErr = nil
	sub := models.RegistrationSubmission{
		EventID:        w.eventID,
		Amount:         w.draft.Amount,
		PaymentID:      strings.TrimSpace(w.draft.TransactionRef),
		ScreenshotName: w.draft.ScreenshotName,
		Screenshot:     w.draft.Screenshot,
	}
	w.mu.Unlock()

	bearer := w.tokens.Current().Token
	ack, err := w.client.SubmitRegistration(ctx, bearer, sub)

	w.mu.Lock()
	defer w.mu.Unlock()

	if err != nil {
		if errors.Is(err, context.Canceled) {
			w.state = prev
			return nil, err
		}
		w.state = StateFailed
		w.lastErr = err
		w.log.Warn(ctx, "registration submission failed", "event_id", sub.EventID, "error", err)
		return nil, err
	}

	w.state = StateSucceeded
	w.conf = ack.Data
	w.message = ack.Message
	w.draft = Draft{}
	w.log.Info(ctx, "registration submitted", "event_id", sub.EventID, "amount", sub.Amount)
	return ack, nil
}
