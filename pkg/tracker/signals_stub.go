//go:build !unix

package tracker

// The operator signal surface relies on SIGUSR1/SIGUSR2, which do not
// exist on non-unix platforms; dumps remain reachable through the
// debug HTTP adapter and Close.
func (t *Tracker) startSignalMonitor() {}

func (t *Tracker) stopSignalMonitor() {}
