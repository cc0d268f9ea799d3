/*
Package tracker implements the interception and bookkeeping engine of
refscope.

A Tracker wraps the lifecycle entry points of a reference-counted
object system: each intercepted operation resolves the real
implementation lazily (exactly once per library), delegates to it,
records the effect in a process-wide registry and optionally emits a
human-readable event line plus a stack trace. The registry keeps the
live-object set and an added/removed delta since the last checkpoint,
reportable on demand via operator signals and at shutdown.

All registry state is guarded by one global lock; a second lock
serializes only the formatted output, so multi-line event reports from
different goroutines do not interleave.
*/
package tracker
