// Package clientip resolves the originating client address of an HTTP
// request from trusted proxy headers or the connection itself, and stores it
// in the request context.
package clientip
