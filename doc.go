/*
Package refscope is a runtime object-lifetime tracker for
reference-counted object systems.

It substitutes itself for a target system's lifecycle entry points
(construct, acquire reference, release reference, and the analogous
operations of a lighter-weight media buffer kind), delegates every call
to the real implementation, and keeps a registry of live objects plus
an added/removed delta since the last checkpoint. The registry is
reportable on demand via operator signals (SIGUSR1 for a live dump,
SIGUSR2 for a delta dump that also resets the checkpoint), over an
optional debug HTTP surface, and at shutdown.

# Concept

The interception seam is explicit: anything that can resolve the real
{construct, ref, unref, init} implementations by name through the
ports.LibraryOpener interface can be observed. In the original
environment this seam is dynamic symbol interposition; in tests and
demos it is an instrumented in-memory fake
(pkg/adapters/fakeobj).

# Usage

	sys := fakeobj.NewSystem()
	tr, err := refscope.New(sys,
		refscope.WithOutput(os.Stderr),
	)
	if err != nil {
		log.Fatal(err)
	}
	defer tr.Close() // exit-time still-alive report

	obj := tr.Construct("GstBuffer")
	tr.Ref(obj)
	tr.Unref(obj)
	tr.Unref(obj) // finalized here, registry updated via weak notify

Reporting is configured through the environment: REFSCOPE_DISPLAY
selects event categories (create, refs, backtrace, all, none) and
REFSCOPE_FILTER restricts reporting to type names with a given prefix.
*/
package refscope
