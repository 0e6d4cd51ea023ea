// Package http implements the HTTP handlers of the feature builder. Handlers
// stay thin: they parse the request, call a service and turn its result or
// error into a response.
//
// # Endpoints
//
//	POST /api/v1/features   multipart "observations" and "stores" files,
//	                        answers with the feature table (csv or xlsx)
//	GET  /api/health        liveness and runtime information
//	GET  /api/version       build and schema versions
//
// # Errors
//
// Every failure is rendered as RFC 7807 problem details by
// errors.ErrorHandler. Errors caused by the uploaded data (missing columns,
// bad dates, bad cells, missing uploads) are 400; an upload over the size
// limit is 413; everything else is 500.
//
// # Run metadata
//
// A successful build sets X-Run-ID, X-Feature-Rows, X-Rejected-Rows and
// X-Unmapped-Categories before streaming the table.
package http
