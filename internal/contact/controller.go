package contact

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/ppsprecycling/website/pkg/async"
	"github.com/ppsprecycling/website/pkg/logger"
	"github.com/ppsprecycling/website/pkg/ratelimiter"
	"github.com/ppsprecycling/website/pkg/relay"
	"github.com/ppsprecycling/website/pkg/statemachine"
)

const (
	OutcomeDelivered = "delivered"
	OutcomeInFlight  = "in_flight"

	defaultRevertDelay     = 5 * time.Second
	defaultDeliveryTimeout = 15 * time.Second
)

// Snapshot is a read-only copy of the controller state for rendering.
type Snapshot struct {
	State        statemachine.StringState
	Error        *SubmissionError
	Input        FormInput
	LastSubmitAt time.Time
}

func (s Snapshot) ErrorMessage() string {
	if s.Error == nil {
		return ""
	}
	return s.Error.Message
}

func (s Snapshot) IsSubmitting() bool { return s.State == StateSubmitting }
func (s Snapshot) IsSubmitted() bool  { return s.State == StateSubmitted }
func (s Snapshot) IsFailed() bool     { return s.State == StateFailed }

// Controller turns one visitor's form input into a delivered message or a
// visible error. At most one delivery is in flight at a time.
type Controller struct {
	visitorID string
	cooldown  *ratelimiter.Cooldown
	relay     relay.Relay
	secrets   Secrets

	now             func() time.Time
	revertDelay     time.Duration
	deliveryTimeout time.Duration
	log             *slog.Logger
	onOutcome       func(outcome string)

	mu           sync.Mutex
	machine      *statemachine.Machine
	input        FormInput
	err          *SubmissionError
	lastSubmitAt time.Time
	timer        *time.Timer
	generation   uint64
	reverted     chan struct{}
	closed       bool
}

// New creates the controller of visitorID. The cooldown is keyed by
// visitorID, so controllers may share one.
func New(visitorID string, cooldown *ratelimiter.Cooldown, r relay.Relay, secrets Secrets, opts ...Option) (*Controller, error) {
	if visitorID == "" {
		return nil, ErrEmptyVisitorID
	}
	if cooldown == nil || r == nil {
		return nil, ErrInvalidConfig
	}

	c := &Controller{
		visitorID:       visitorID,
		cooldown:        cooldown,
		relay:           r,
		secrets:         secrets,
		now:             time.Now,
		revertDelay:     defaultRevertDelay,
		deliveryTimeout: defaultDeliveryTimeout,
		log:             slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.log = c.log.With(logger.Component("contact"))
	c.machine = newPresentation(c.log, visitorID)

	return c, nil
}

// VisitorID returns the key the controller was created for.
func (c *Controller) VisitorID() string {
	return c.visitorID
}

// Snapshot returns the current state, error and buffered input.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot()
}

func (c *Controller) snapshot() Snapshot {
	return Snapshot{
		State:        statemachine.StringState(c.machine.Current().Name()),
		Error:        c.err,
		Input:        c.input,
		LastSubmitAt: c.lastSubmitAt,
	}
}

// Update replaces the buffered input without submitting. It is ignored while
// a delivery is in flight.
func (c *Controller) Update(in FormInput) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.machine.Is(StateSubmitting) {
		return
	}
	c.input = in
}

// Submit runs the pipeline for in: cooldown, sanitization, validation,
// credentials and a single relay call. It returns nil on delivery, a
// *SubmissionError the visitor should see, or ErrSubmissionInFlight.
//
// The relay call is detached from ctx. When ctx ends first Submit returns
// ctx.Err() and the delivery still completes in the background.
func (c *Controller) Submit(ctx context.Context, in FormInput) error {
	c.mu.Lock()

	if c.closed {
		c.mu.Unlock()
		return ErrControllerClosed
	}
	if c.machine.Is(StateSubmitting) {
		c.mu.Unlock()
		c.outcome(OutcomeInFlight)
		return ErrSubmissionInFlight
	}

	c.input = in
	c.err = nil

	if serr := c.checkCooldown(ctx); serr != nil {
		c.leavePanel(ctx)
		return c.rejectLocked(serr)
	}

	c.dismissSuccess(ctx)
	if err := c.machine.Fire(ctx, eventSubmit, nil); err != nil {
		c.mu.Unlock()
		return err
	}

	attempt := NewAttempt(in, c.now())
	if err := attempt.Validate(); err != nil {
		c.fire(ctx, eventReject)
		return c.rejectLocked(invalidInput(err))
	}

	if missing := c.secrets.Missing(); len(missing) > 0 {
		c.fire(ctx, eventFail)
		serr := configMissing(missing)
		c.log.ErrorContext(ctx, "contact relay is not configured",
			logger.VisitorID(c.visitorID),
			logger.Error(serr.Cause),
		)
		return c.rejectLocked(serr)
	}
	c.mu.Unlock()

	msg := relay.Message{
		ServiceID:  c.secrets.ServiceID,
		TemplateID: c.secrets.TemplateID,
		PublicKey:  c.secrets.PublicKey,
		Params:     attempt.Params(),
	}

	deliverCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.deliveryTimeout)
	future := async.Async(deliverCtx, msg, c.send)

	// Completion outlives both the delivery timeout and the caller, so the
	// cooldown store gets a context that is never cancelled.
	completeCtx := context.WithoutCancel(ctx)

	select {
	case <-future.Done():
		cancel()
		_, err := future.Await()
		return c.complete(completeCtx, attempt, err)
	case <-ctx.Done():
		go func() {
			defer cancel()
			_, err := future.Await()
			_ = c.complete(completeCtx, attempt, err)
		}()
		return ctx.Err()
	}
}

func (c *Controller) send(ctx context.Context, msg relay.Message) (struct{}, error) {
	return struct{}{}, c.relay.Send(ctx, msg)
}

// checkCooldown must be called with the lock held. Store errors let the
// attempt through.
func (c *Controller) checkCooldown(ctx context.Context) *SubmissionError {
	res, err := c.cooldown.Check(ctx, c.visitorID)
	if err != nil {
		c.log.WarnContext(ctx, "contact cooldown unavailable",
			logger.VisitorID(c.visitorID),
			logger.Error(err),
		)
		return nil
	}
	if res.Allowed() {
		return nil
	}
	return rateLimited(res.RetryAfter())
}

// leavePanel returns a success or failure panel to the form.
// Must be called with the lock held.
func (c *Controller) leavePanel(ctx context.Context) {
	if c.machine.Is(StateFailed) {
		c.fire(ctx, eventReject)
		return
	}
	c.dismissSuccess(ctx)
}

// dismissSuccess drops a success panel before its timer fires.
// Must be called with the lock held.
func (c *Controller) dismissSuccess(ctx context.Context) {
	if !c.machine.Is(StateSubmitted) {
		return
	}
	c.stopTimer()
	c.fire(ctx, eventExpire)
	c.signalReverted()
}

// rejectLocked records serr and releases the lock.
func (c *Controller) rejectLocked(serr *SubmissionError) error {
	c.err = serr
	c.mu.Unlock()
	c.outcome(serr.Kind.String())
	return serr
}

func (c *Controller) complete(ctx context.Context, attempt Attempt, sendErr error) error {
	c.mu.Lock()

	if sendErr != nil {
		c.fire(ctx, eventFail)
		serr := deliveryFailed(sendErr)
		c.log.ErrorContext(ctx, "contact message delivery failed",
			logger.VisitorID(c.visitorID),
			logger.Error(sendErr),
		)
		return c.rejectLocked(serr)
	}

	// The window starts at the click, not when the relay answered.
	if err := c.cooldown.RecordAt(ctx, c.visitorID, attempt.Timestamp); err != nil {
		c.log.WarnContext(ctx, "contact cooldown not recorded",
			logger.VisitorID(c.visitorID),
			logger.Error(err),
		)
	}
	c.lastSubmitAt = attempt.Timestamp
	c.input = FormInput{}
	c.err = nil
	c.fire(ctx, eventDeliver)
	c.scheduleRevert()
	c.mu.Unlock()

	c.log.InfoContext(ctx, "contact message delivered", logger.VisitorID(c.visitorID))
	c.outcome(OutcomeDelivered)
	return nil
}

// scheduleRevert must be called with the lock held.
func (c *Controller) scheduleRevert() {
	c.generation++
	c.reverted = make(chan struct{})
	if c.closed {
		return
	}

	gen := c.generation
	c.timer = time.AfterFunc(c.revertDelay, func() { c.expire(gen) })
}

func (c *Controller) expire(gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || gen != c.generation || !c.machine.Is(StateSubmitted) {
		return
	}
	c.timer = nil
	c.fire(context.Background(), eventExpire)
	c.signalReverted()
}

// WaitRevert blocks until a success panel has reverted to the form or ctx
// ends. It returns at once when no success panel is shown.
func (c *Controller) WaitRevert(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrControllerClosed
	}
	if !c.machine.Is(StateSubmitted) || c.reverted == nil {
		c.mu.Unlock()
		return nil
	}
	ch := c.reverted
	c.mu.Unlock()

	select {
	case <-ch:
	case <-ctx.Done():
		return ctx.Err()
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrControllerClosed
	}
	return nil
}

// Close cancels a pending revert and releases waiters. Later submits fail
// with ErrControllerClosed. Safe to call multiple times.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true
	c.stopTimer()
	c.signalReverted()
}

func (c *Controller) stopTimer() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

func (c *Controller) signalReverted() {
	if c.reverted != nil {
		close(c.reverted)
		c.reverted = nil
	}
}

// fire applies a transition that the pipeline guarantees to be valid.
func (c *Controller) fire(ctx context.Context, event statemachine.Event) {
	if err := c.machine.Fire(ctx, event, nil); err != nil {
		c.log.ErrorContext(ctx, "contact panel transition failed",
			logger.VisitorID(c.visitorID),
			logger.Event(event.Name()),
			logger.Error(err),
		)
	}
}

func (c *Controller) outcome(outcome string) {
	if c.onOutcome != nil {
		c.onOutcome(outcome)
	}
}
