// Package web serves the browse and detail views as HTML pages plus a small
// JSON API over the same models.
//
// Pages render server-side from embedded templates. Rating changes use plain
// form posts followed by a redirect, and deleting asks for confirmation on a
// separate page.
//
// Every request carries a request id (X-Request-ID, generated when absent)
// that is stamped into the context and the access log line.
package web
