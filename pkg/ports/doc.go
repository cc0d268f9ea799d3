/*
Package ports defines the driven ports (interfaces) between the refscope
core and the reference-counted object system it observes.

The original interposition technique for this kind of tool is dynamic
symbol substitution: the tracker exports the same entry points as the
real library and resolves the genuine implementations at first use.
These interfaces make that seam explicit, so any collaborator that can
offer {construct, acquire, release, initialize} by name can be wrapped,
and tests can supply an instrumented fake.

# Key Interfaces

  - Object: a live instance of the observed system, inspectable only
    while alive.
  - Library / LibraryOpener: by-name symbol resolution against an
    already-loaded library (the dlopen/dlsym shape).
  - Backtracer: a lazy sequence of symbolic stack frames for the
    calling goroutine; absence disables the backtrace category.
*/
package ports
