package contact

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"k8s.io/utils/clock"

	"portfolio-contact/internal/relay"
)

var (
	ErrSubmissionInFlight = errors.New("a submission is already being sent")
	ErrClosed             = errors.New("contact controller closed")
)

// DefaultResetDelay is how long success and error banners stay up.
const DefaultResetDelay = 5 * time.Second

// Relay delivers a validated submission.
type Relay interface {
	Deliver(ctx context.Context, p relay.Payload) (relay.Result, error)
}

type FailureKind string

const (
	FailureNone          FailureKind = ""
	FailureRejected      FailureKind = "rejected"
	FailureTransport     FailureKind = "transport"
	FailureConfiguration FailureKind = "configuration"
)

// Attempt describes one settled relay call.
type Attempt struct {
	SessionID    string
	Locale       string
	Payload      relay.Payload
	Status       Status
	Failure      FailureKind
	RelayMessage string
	Duration     time.Duration
}

// Recorder keeps a trail of settled attempts.
type Recorder interface {
	Record(ctx context.Context, a Attempt) error
}

// Snapshot is the read model handed to the page.
type Snapshot struct {
	// Version grows with every state change of the session.
	Version       uint64  `json:"version"`
	SessionID     string  `json:"session_id,omitempty"`
	Locale        string  `json:"locale,omitempty"`
	Fields        Fields  `json:"fields"`
	Touched       Touched `json:"touched"`
	Errors        Errors  `json:"errors"`
	Status        Status  `json:"status"`
	StatusMessage string  `json:"status_message,omitempty"`
	ButtonLabel   string  `json:"button_label"`
	CanSubmit     bool    `json:"can_submit"`
}

type Options struct {
	SessionID string
	Locale    string
	Resolver  Resolver
	Relay     Relay
	// Recorder is optional.
	Recorder Recorder
	// Observer is called with every new snapshot, outside the lock.
	Observer   func(Snapshot)
	Clock      clock.WithDelayedExecution
	ResetDelay time.Duration
	Logger     *zerolog.Logger
}

// Controller owns the form and submission state of one visitor session.
// It is safe for concurrent use; at most one relay call runs at a time.
type Controller struct {
	sessionID  string
	locale     string
	resolver   Resolver
	relay      Relay
	recorder   Recorder
	observer   func(Snapshot)
	clock      clock.WithDelayedExecution
	resetDelay time.Duration
	logger     zerolog.Logger

	mu     sync.Mutex
	form   Form
	sub    Submission
	revert clock.Timer

	// gen invalidates revert callbacks that fire after being superseded.
	gen     uint64
	version uint64
	closed  bool

	// notifyMu orders observer calls; lastNotified drops snapshots that lost
	// the race to a newer one.
	notifyMu     sync.Mutex
	lastNotified uint64
}

func NewController(opts Options) *Controller {
	c := &Controller{
		sessionID:  opts.SessionID,
		locale:     opts.Locale,
		resolver:   opts.Resolver,
		relay:      opts.Relay,
		recorder:   opts.Recorder,
		observer:   opts.Observer,
		clock:      opts.Clock,
		resetDelay: opts.ResetDelay,
		sub:        Submission{Status: StatusIdle},
	}
	if c.resolver == nil {
		c.resolver = ResolverFunc(func(key string) string { return key })
	}
	if c.clock == nil {
		c.clock = clock.RealClock{}
	}
	if c.resetDelay <= 0 {
		c.resetDelay = DefaultResetDelay
	}
	if opts.Logger != nil {
		c.logger = opts.Logger.With().Str("component", "contact").Str("session_id", opts.SessionID).Logger()
	} else {
		c.logger = zerolog.Nop()
	}
	return c
}

func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Change stores a keystroke.
func (c *Controller) Change(field Field, value string) (Snapshot, error) {
	return c.applyForm(FormEvent{Kind: FormChange, Field: field, Value: value})
}

// Blur marks field as left by the visitor.
func (c *Controller) Blur(field Field) (Snapshot, error) {
	return c.applyForm(FormEvent{Kind: FormBlur, Field: field})
}

func (c *Controller) applyForm(ev FormEvent) (Snapshot, error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return Snapshot{}, ErrClosed
	}
	c.form = ReduceForm(c.form, ev, c.resolver)
	snap := c.changedLocked()
	c.mu.Unlock()

	c.notify(snap)
	return snap, nil
}

// Submit validates every field and, when they all pass, hands the form to
// the relay and waits for its answer. Relay failures never surface as an
// error: they land in the error status. The returned error is only
// ErrClosed or ErrSubmissionInFlight.
func (c *Controller) Submit(ctx context.Context) (Snapshot, error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return Snapshot{}, ErrClosed
	}
	if c.sub.Status == StatusSending {
		snap := c.snapshotLocked()
		c.mu.Unlock()
		return snap, ErrSubmissionInFlight
	}
	c.stopRevertLocked()

	form, ok := ValidateForm(c.form, c.resolver)
	c.form = form
	if !ok {
		c.sub = ReduceSubmission(c.sub, SubmissionEvent{Kind: SubmitInvalid})
		snap := c.changedLocked()
		c.mu.Unlock()
		c.logger.Debug().Msg("submission blocked by validation")
		c.notify(snap)
		return snap, nil
	}

	c.sub = ReduceSubmission(c.sub, SubmissionEvent{Kind: SubmitRequested})
	payload := relay.Payload{
		Name:    form.Fields.Name,
		Email:   form.Fields.Email,
		Message: form.Fields.Message,
	}
	snap := c.changedLocked()
	c.mu.Unlock()
	c.notify(snap)

	attempt := c.deliver(ctx, payload)
	c.record(ctx, attempt)

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return Snapshot{}, ErrClosed
	}
	if attempt.Status == StatusSuccess {
		c.sub = ReduceSubmission(c.sub, SubmissionEvent{Kind: RelayAccepted, Message: c.resolver.Resolve(KeySubmissionSuccess)})
		c.form = Form{}
	} else {
		c.sub = ReduceSubmission(c.sub, SubmissionEvent{Kind: RelayRejected, Message: c.failureMessage(attempt)})
	}
	c.scheduleRevertLocked()
	snap = c.changedLocked()
	c.mu.Unlock()

	c.notify(snap)
	return snap, nil
}

func (c *Controller) deliver(ctx context.Context, p relay.Payload) Attempt {
	attempt := Attempt{
		SessionID: c.sessionID,
		Locale:    c.locale,
		Payload:   p,
		Status:    StatusError,
	}

	start := c.clock.Now()
	var (
		res relay.Result
		err error
	)
	if c.relay == nil {
		err = relay.ErrNotConfigured
	} else {
		res, err = c.relay.Deliver(ctx, p)
	}
	attempt.Duration = c.clock.Since(start)

	switch {
	case errors.Is(err, relay.ErrNotConfigured):
		attempt.Failure = FailureConfiguration
		c.logger.Error().Err(err).Msg("contact relay is not configured")
	case err != nil:
		attempt.Failure = FailureTransport
		c.logger.Error().Err(err).Dur("duration", attempt.Duration).Msg("contact relay call failed")
	case !res.Success:
		attempt.Failure = FailureRejected
		attempt.RelayMessage = res.Message
		c.logger.Warn().Str("relay_message", res.Message).Msg("contact relay rejected submission")
	default:
		attempt.Status = StatusSuccess
		attempt.RelayMessage = res.Message
		c.logger.Info().Dur("duration", attempt.Duration).Msg("contact submission delivered")
	}
	return attempt
}

// failureMessage shows the relay's own explanation when it gave one and
// the generic text otherwise.
func (c *Controller) failureMessage(a Attempt) string {
	if a.Failure == FailureRejected && a.RelayMessage != "" {
		return a.RelayMessage
	}
	return c.resolver.Resolve(KeySubmissionError)
}

func (c *Controller) record(ctx context.Context, a Attempt) {
	if c.recorder == nil {
		return
	}
	if err := c.recorder.Record(ctx, a); err != nil {
		c.logger.Error().Err(err).Msg("failed to record contact submission")
	}
}

func (c *Controller) scheduleRevertLocked() {
	c.gen++
	gen := c.gen
	c.revert = c.clock.AfterFunc(c.resetDelay, func() { c.expire(gen) })
}

func (c *Controller) stopRevertLocked() {
	c.gen++
	if c.revert != nil {
		c.revert.Stop()
		c.revert = nil
	}
}

// expire runs on the timer. It must not call back into the clock.
func (c *Controller) expire(gen uint64) {
	c.mu.Lock()
	if c.closed || gen != c.gen {
		c.mu.Unlock()
		return
	}
	c.revert = nil
	c.sub = ReduceSubmission(c.sub, SubmissionEvent{Kind: ResetElapsed})
	snap := c.changedLocked()
	c.mu.Unlock()

	c.notify(snap)
}

// Close releases the controller. Pending timers are stopped and a relay
// call still in flight will not touch the state once it settles.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.stopRevertLocked()
	c.closed = true
}

func (c *Controller) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// changedLocked records a state change and returns the new snapshot.
func (c *Controller) changedLocked() Snapshot {
	c.version++
	return c.snapshotLocked()
}

func (c *Controller) snapshotLocked() Snapshot {
	return Snapshot{
		Version:       c.version,
		SessionID:     c.sessionID,
		Locale:        c.locale,
		Fields:        c.form.Fields,
		Touched:       c.form.Touched,
		Errors:        c.form.VisibleErrors(),
		Status:        c.sub.Status,
		StatusMessage: c.sub.Message,
		ButtonLabel:   c.resolver.Resolve(ButtonKey(c.sub.Status)),
		CanSubmit:     c.sub.Status != StatusSending,
	}
}

// notify hands snap to the observer unless a newer snapshot already went
// out, so the observer never sees the state move backwards.
func (c *Controller) notify(snap Snapshot) {
	if c.observer == nil {
		return
	}
	c.notifyMu.Lock()
	defer c.notifyMu.Unlock()
	if snap.Version <= c.lastNotified {
		return
	}
	c.lastNotified = snap.Version
	c.observer(snap)
}
