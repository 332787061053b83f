package contact

import (
	"context"
	"log/slog"

	"github.com/ppsprecycling/website/pkg/logger"
	"github.com/ppsprecycling/website/pkg/statemachine"
)

// Presentation states of the contact panel.
const (
	StateIdle       = statemachine.StringState("idle")
	StateSubmitting = statemachine.StringState("submitting")
	StateSubmitted  = statemachine.StringState("submitted")
	StateFailed     = statemachine.StringState("failed")
)

const (
	eventSubmit  = statemachine.StringEvent("submit")
	eventReject  = statemachine.StringEvent("reject")
	eventDeliver = statemachine.StringEvent("deliver")
	eventFail    = statemachine.StringEvent("fail")
	eventExpire  = statemachine.StringEvent("expire")
)

func newPresentation(log *slog.Logger, visitorID string) *statemachine.Machine {
	return statemachine.MustNew(StateIdle,
		statemachine.WithTransition(StateIdle, StateSubmitting, eventSubmit),
		statemachine.WithTransition(StateFailed, StateSubmitting, eventSubmit),
		statemachine.WithTransition(StateSubmitting, StateSubmitted, eventDeliver),
		statemachine.WithTransition(StateSubmitting, StateFailed, eventFail),
		statemachine.WithTransition(StateSubmitting, StateIdle, eventReject),
		statemachine.WithTransition(StateFailed, StateIdle, eventReject),
		statemachine.WithTransition(StateSubmitted, StateIdle, eventExpire),
		statemachine.WithObserver(func(ctx context.Context, from, to statemachine.State, event statemachine.Event) {
			log.DebugContext(ctx, "contact panel transition",
				logger.VisitorID(visitorID),
				logger.Event(event.Name()),
				logger.Transition(from.Name(), to.Name()),
			)
		}),
	)
}
