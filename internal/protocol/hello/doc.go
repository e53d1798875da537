// Package hello defines the hello envelope, the first and only message a
// client sends after the websocket upgrade, and the relay's acknowledgement.
//
// Serialisation is plain JSON with a fixed field order and no extra framing.
package hello
