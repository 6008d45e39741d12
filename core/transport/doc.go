// Package transport executes single logical calls against the remote policy API.
//
// # Retry Contract
//
// A call is retried only when it never produced an HTTP response (connection
// error, timeout, truncated body). After failed attempt k the transport sleeps
// BackoffBase^k seconds; once MaxAttempts attempts failed a *Failure is
// returned. With the defaults (3 attempts, base 2) a dead endpoint costs two
// sleeps of 2s and 4s.
//
// HTTP error statuses are returned to the caller untouched. Validation errors
// from the server are not self-healing, so they are never retried;
// Response.Err turns them into an *ApplicationError.
//
// # Usage
//
//	tr := transport.New(cfg.Remote, transport.WithLogger(log))
//	resp, err := tr.Do(ctx, http.MethodGet, "/security", nil)
//	if err != nil {
//	    // *transport.Failure
//	}
//	if err := resp.Err(http.MethodGet, "/security"); err != nil {
//	    // *transport.ApplicationError
//	}
package transport
