//go:build unix

package term

import (
	"fmt"
	"os"
	"syscall"
)

func setNonblock(fd int, nonblocking bool) error {
	return syscall.SetNonblock(fd, nonblocking)
}

// openInput returns a non blocking file reading from fd. The file owns a
// duplicate of fd, closing it or collecting it leaves fd open. A non
// blocking descriptor gives a pollable file that supports deadlines.
func openInput(fd int) (*os.File, error) {
	dup, err := syscall.Dup(fd)
	if err != nil {
		return nil, fmt.Errorf("duplicating descriptor: %w", err)
	}
	if err := setNonblock(dup, true); err != nil {
		_ = syscall.Close(dup)
		return nil, fmt.Errorf("setting non blocking mode: %w", err)
	}
	return os.NewFile(uintptr(dup), "/dev/stdin"), nil
}
