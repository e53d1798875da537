// Package relay holds the client-side relay machinery: endpoint
// normalisation, the SessionManager that picks which relay to try next, the
// Dispatcher that correlates requests with responses, and a websocket
// Transport that performs one connect-and-hello attempt.
//
// SessionManager and Dispatcher are not safe for concurrent mutation. One
// coordinating goroutine owns both; workers only run Transport.Attempt and
// hand the Result back over a channel.
package relay
