// Package async runs a function on its own goroutine and exposes the outcome
// as a typed Future.
//
//	f := async.Async(ctx, msg, client.Send)
//	if _, err := f.Await(); err != nil {
//		// ...
//	}
package async
