// Package logging configures zerolog for ecosort and carries loggers and
// trace IDs through context.Context.
//
// Every component obtains its logger with FromContext and tags events with
// "component" and "operation" fields. When an event is created with
// .Ctx(ctx), the trace hook copies the request trace ID onto it.
package logging
