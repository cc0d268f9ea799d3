//go:build unix

package tracker

import (
	"os"
	"os/signal"
	"syscall"
)

// Operator control surface. The original interposition tool runs its
// reports directly inside signal handlers; in Go that would execute
// locking and formatted printing in a context where it is not safe, so
// a dedicated monitor goroutine drains a signal channel instead. The
// observable reporting behavior is the same.
//
//   - SIGUSR1: dump the live set.
//   - SIGUSR2: dump the added/removed delta and reset the checkpoint.
//   - SIGINT, SIGTERM, SIGABRT, SIGSEGV (externally delivered): print
//     the still-alive report, restore the default disposition and
//     re-raise so the process terminates as it would have.
func (t *Tracker) startSignalMonitor() {
	ch := make(chan os.Signal, 4)
	signal.Notify(ch,
		syscall.SIGUSR1, syscall.SIGUSR2,
		syscall.SIGINT, syscall.SIGTERM, syscall.SIGABRT, syscall.SIGSEGV)

	t.sigCh = ch
	t.sigDone = make(chan struct{})
	go t.monitorSignals()
}

func (t *Tracker) monitorSignals() {
	for {
		select {
		case sig := <-t.sigCh:
			switch sig {
			case syscall.SIGUSR1:
				t.LiveDump()
			case syscall.SIGUSR2:
				t.CheckpointDump()
			default:
				t.printStillAlive()
				signal.Reset(sig)
				if s, ok := sig.(syscall.Signal); ok {
					_ = syscall.Kill(os.Getpid(), s)
				}
			}
		case <-t.sigDone:
			return
		}
	}
}

func (t *Tracker) stopSignalMonitor() {
	if t.sigCh == nil {
		return
	}
	signal.Stop(t.sigCh)
	close(t.sigDone)
}
