package handler

import "net/http"

// SSEHandler runs for the lifetime of a DataStar event stream. The stream
// ends when it returns or the client goes away.
type SSEHandler func(ctx StreamContext) error

type sseResponse struct {
	handler SSEHandler
}

func (s sseResponse) Render(w http.ResponseWriter, r *http.Request) error {
	if !IsDataStar(r) {
		return NewHTTPError(http.StatusBadRequest, "SSE endpoint requires DataStar connection")
	}

	base := NewContext(w, r)
	sse := base.SSE()
	if sse == nil {
		return ErrSSENotInitialized
	}
	return s.handler(&streamContext{Context: base, sse: sse})
}

// SSE responds with an event stream driven by h.
//
//	return handler.SSE(func(stream handler.StreamContext) error {
//		if err := stream.SendComponent(views.ContactPanel(snap), handler.WithTarget("#contact-panel")); err != nil {
//			return err
//		}
//		if err := ctrl.WaitRevert(stream); err != nil {
//			return nil
//		}
//		return stream.SendComponent(views.ContactPanel(ctrl.Snapshot()), handler.WithTarget("#contact-panel"))
//	})
func SSE(h SSEHandler) Response {
	return sseResponse{handler: h}
}
