// Package ws exposes the command surface over a WebSocket at /stream.
//
// Frames are JSON command envelopes. A frame without a requestId is given a
// fresh UUID, which the response echoes back.
package ws
