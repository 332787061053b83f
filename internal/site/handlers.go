package site

import (
	"errors"
	"math"
	"net/http"
	"strconv"

	"github.com/a-h/templ"

	"github.com/ppsprecycling/website/handler"
	"github.com/ppsprecycling/website/internal/contact"
	"github.com/ppsprecycling/website/internal/views"
	"github.com/ppsprecycling/website/pkg/logger"
)

// toastSelector matches error toasts left over from earlier attempts.
const toastSelector = "#toast-container .toast"

var clearedSignals = map[string]any{"name": "", "email": "", "message": ""}

func (s *Service) home(ctx handler.Context, _ struct{}) handler.Response {
	c, err := s.controller(ctx)
	if err != nil {
		return handler.Error(err)
	}
	return handler.Templ(s.pageView(c.Snapshot()))
}

func (s *Service) panel(ctx handler.Context, _ struct{}) handler.Response {
	c, err := s.controller(ctx)
	if err != nil {
		return handler.Error(err)
	}
	snap := c.Snapshot()
	return handler.TemplPartial(s.panelView(snap), s.pageView(snap), handler.WithTarget(views.ContactPanelTarget))
}

// submit runs one attempt. DataStar requests get the panel as an event
// stream that stays open through the success display; plain form posts get
// the whole page back.
func (s *Service) submit(ctx handler.Context, in contact.FormInput) handler.Response {
	c, err := s.controller(ctx)
	if err != nil {
		return handler.Error(err)
	}

	if handler.IsDataStar(ctx.Request()) {
		return handler.SSE(func(stream handler.StreamContext) error {
			return s.stream(stream, c, in)
		})
	}

	err = c.Submit(ctx, in)
	if errors.Is(err, contact.ErrControllerClosed) {
		return handler.Error(errors.Join(handler.ErrServiceUnavailable, err))
	}
	if serr, ok := contact.AsSubmissionError(err); ok && serr.RetryAfter > 0 {
		ctx.ResponseWriter().Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(serr.RetryAfter.Seconds()))))
	}
	return handler.TemplStatus(submitStatus(err), s.pageView(c.Snapshot()))
}

func (s *Service) stream(stream handler.StreamContext, c *contact.Controller, in contact.FormInput) error {
	if err := stream.RemoveElement(toastSelector); err != nil {
		return err
	}

	submitErr := c.Submit(stream, in)
	if errors.Is(submitErr, contact.ErrControllerClosed) {
		return errors.Join(handler.ErrServiceUnavailable, submitErr)
	}
	if stream.Err() != nil {
		return nil
	}

	snap := c.Snapshot()
	if err := stream.SendComponent(s.panelView(snap), handler.WithTarget(views.ContactPanelTarget)); err != nil {
		return err
	}
	if !snap.IsSubmitted() {
		return nil
	}

	if err := stream.SendSignals(clearedSignals); err != nil {
		return err
	}
	if err := c.WaitRevert(stream); err != nil {
		// Client left or the controller was evicted; the next page load
		// shows the current state.
		return nil
	}
	return stream.SendComponent(s.panelView(c.Snapshot()), handler.WithTarget(views.ContactPanelTarget))
}

func (s *Service) controller(ctx handler.Context) (*contact.Controller, error) {
	id := VisitorFromContext(ctx)
	c, err := s.registry.Get(id)
	if err != nil {
		s.log.ErrorContext(ctx, "contact controller unavailable",
			logger.VisitorID(id),
			logger.Error(err),
		)
		return nil, errors.Join(handler.ErrServiceUnavailable, err)
	}
	return c, nil
}

func (s *Service) contactParams(snap contact.Snapshot) views.ContactParams {
	return views.ContactParams{
		Copy:     s.content.Contact,
		Snapshot: snap,
		QRPath:   directionsPath,
	}
}

func (s *Service) panelView(snap contact.Snapshot) templ.Component {
	return views.ContactPanel(s.contactParams(snap))
}

func (s *Service) pageView(snap contact.Snapshot) templ.Component {
	return views.HomePage(views.PageParams{
		Site:    s.content,
		Contact: s.contactParams(snap),
		Year:    s.now().Year(),
	})
}

// submitStatus is the status of a full-page response to a form post.
func submitStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}
	if errors.Is(err, contact.ErrSubmissionInFlight) {
		return http.StatusConflict
	}
	serr, ok := contact.AsSubmissionError(err)
	if !ok {
		return http.StatusOK
	}
	switch serr.Kind {
	case contact.KindRateLimited:
		return http.StatusTooManyRequests
	case contact.KindInvalidInput:
		return http.StatusUnprocessableEntity
	case contact.KindConfigMissing:
		return http.StatusServiceUnavailable
	case contact.KindDeliveryFailed:
		return http.StatusBadGateway
	default:
		return http.StatusOK
	}
}
