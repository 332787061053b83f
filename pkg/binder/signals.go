package binder

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/starfederation/datastar-go/datastar"
)

// DataStarHeader is sent by the DataStar client on every backend action.
const DataStarHeader = "Datastar-Request"

// Signals binds DataStar signals into fields tagged for encoding/json.
// GET requests carry them in the "datastar" query parameter, other methods
// in a JSON body. Requests not made by DataStar are not applicable.
//
//	type ContactSignals struct {
//		Name    string `json:"name"`
//		Email   string `json:"email"`
//		Message string `json:"message"`
//	}
func Signals() func(r *http.Request, v any) error {
	return func(r *http.Request, v any) error {
		if !isDataStarRequest(r) {
			return ErrBinderNotApplicable
		}
		if err := datastar.ReadSignals(r, v); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidSignals, err)
		}
		return nil
	}
}

func isDataStarRequest(r *http.Request) bool {
	if r.Header.Get(DataStarHeader) == "true" {
		return true
	}
	if r.Method == http.MethodGet {
		return r.URL.Query().Has("datastar")
	}
	return strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") &&
		strings.Contains(r.Header.Get("Accept"), "text/event-stream")
}
