/*
Package domain contains the core value types shared across refscope:
object identities, display-category flags and the sentinel errors
returned by the resolution seam.

Types here are deliberately free of behavior beyond parsing and
formatting, so that both the tracker core and the adapters can depend
on them without cycles.
*/
package domain
