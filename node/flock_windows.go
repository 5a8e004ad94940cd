//go:build windows

package node

import (
	"fmt"
	"os"
)

// Windows has no syscall.Flock. bbolt still locks the database file itself,
// so a second node fails when opening the ledger instead.

func tryLock(path string) (*os.File, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0600)
	if err != nil {
		return nil, fmt.Errorf("open lock file: %w", err)
	}
	return f, nil
}

func releaseLock(f *os.File) {
	if f == nil {
		return
	}
	_ = f.Close()
}
