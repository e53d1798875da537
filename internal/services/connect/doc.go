// Package connect drives one round of relay probing.
//
// A Coordinator owns the SessionManager and the Dispatcher. It selects
// endpoints, starts one worker goroutine per transport attempt and applies
// every result on its own goroutine, so neither is ever touched concurrently.
package connect
