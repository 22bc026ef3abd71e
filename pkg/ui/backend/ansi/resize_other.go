//go:build !unix

package ansi

// watchResize is a no-op where SIGWINCH does not exist; the size is read
// once at startup.
func (b *Backend) watchResize() {}
