// Package middleware contains HTTP middleware for the Fiber application.
//
// # Components
//
//   - auth: API key validation (X-API-Key or Bearer) with public path prefixes.
//   - rayid: assigns a Request ID (RayID) to every request and echoes it in the
//     X-Ray-ID response header for tracing.
//
// RayID must be registered first so every later log line carries the id.
package middleware
