// refscope is a demo and inspection CLI for the refscope object
// lifetime tracker: it plays YAML workload scenarios against an
// instrumented fake object system with the tracker attached.
package main

func main() {
	Execute()
}
