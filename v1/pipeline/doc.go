// Package pipeline is the request pipeline instrumentation plugs into.
//
// A Pipeline holds three ordered hook lists:
//
//   - before-request hooks run before the application handler and may answer
//     the request themselves
//   - error hooks run when the handler returns an error or panics and may
//     replace the default 500 response
//   - after-request hooks run when the request is done, on every path
//
// Components usually register all three at once through the Observer interface.
//
// Every request gets its own Context with an Items bag. Slot gives a typed
// view of a single bag key and refuses to overwrite an occupied slot.
//
// Adapters exist for net/http (Pipeline.Wrap, Pipeline.WrapFunc) and gin
// (GinMiddleware).
package pipeline
