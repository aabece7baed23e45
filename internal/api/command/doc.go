// Package command implements the command surface shared by every transport.
//
// A Request names a command type and its arguments; Dispatch always answers
// with a Response that is either {ok: true, ...} or {ok: false, error}.
// Error text is the only failure detail that crosses the boundary.
package command
