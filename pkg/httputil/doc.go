// Package httputil holds the JSON plumbing of the railinfra HTTP API.
//
// Handlers answer with [WriteJSON] on success and [WriteError] on failure.
// WriteError maps the code of a pkg/errors error to an HTTP status and
// writes a body of the form
//
//	{"code": "REGION_NOT_FOUND", "message": "region \"Yard\" not found"}
//
// Errors without a code are reported as 500 with a generic message so
// internal details do not leak to clients.
package httputil
