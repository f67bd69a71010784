package eval

import (
	"os"
	"os/signal"

	"github.com/tevino/abool/v2"
	"golang.org/x/sys/unix"
)

// Interrupt is the process-wide cooperative cancellation flag. It is set by
// the signal relay (or programmatically, e.g. by tests) and polled at every
// stream step and every mailbox wait. Observing the flag ends iteration
// silently; it is never reported as an error by the streams themselves.
type Interrupt struct {
	flag *abool.AtomicBool
}

// NewInterrupt creates an unset Interrupt.
func NewInterrupt() *Interrupt {
	return &Interrupt{abool.New()}
}

// Set sets the flag.
func (in *Interrupt) Set() { in.flag.Set() }

// Reset clears the flag, typically between top-level statements.
func (in *Interrupt) Reset() { in.flag.UnSet() }

// IsSet reports whether the flag is set. A nil Interrupt is never set.
func (in *Interrupt) IsSet() bool {
	return in != nil && in.flag.IsSet()
}

// ListenSignals starts relaying SIGINT and SIGQUIT to the interrupt flag.
// The returned function stops the relay.
func (in *Interrupt) ListenSignals() func() {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, unix.SIGINT, unix.SIGQUIT)

	stop := make(chan struct{})
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		for {
			select {
			case <-sigCh:
				in.Set()
			case <-stop:
				signal.Stop(sigCh)
				return
			}
		}
	}()

	return func() {
		close(stop)
		<-stopped
	}
}
