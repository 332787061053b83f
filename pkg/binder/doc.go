// Package binder fills request structs from HTTP form bodies and DataStar
// signals. Binders are plain functions matching handler.Bind; a binder that
// does not apply to a request returns ErrBinderNotApplicable so the next one
// can run.
//
//	http.HandleFunc("/contact", handler.Wrap(submit,
//		handler.WithBinders(binder.Signals(), binder.Form()),
//	))
//
// Form reads `form` tags and Signals reads `json` tags, so one struct can
// serve both kinds of request. Field lookups are cached per struct type.
package binder
