// Package cookie writes tamper-evident cookies signed with HMAC-SHA256 and
// issues the per-browser visitor id. Several secrets may be configured so
// keys can be rotated without logging visitors out.
package cookie
