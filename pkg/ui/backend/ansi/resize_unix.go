//go:build unix

package ansi

import (
	"os"
	"os/signal"
	"syscall"
)

// watchResize re-reads the size on SIGWINCH until Fini.
func (b *Backend) watchResize() {
	if b.outFd < 0 {
		return
	}
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGWINCH)
	go func() {
		defer signal.Stop(sigs)
		for {
			select {
			case <-b.quit:
				return
			case <-sigs:
				b.resize()
			}
		}
	}()
}
