// Package wakelock keeps the display awake while words are playing.
package wakelock

import (
	"fmt"
	"os/exec"
	"sync"
)

// Lock is a best-effort screen wake lock.
type Lock interface {
	Acquire() error
	Release() error
}

// Nop never holds anything.
type Nop struct{}

// Acquire implements Lock.
func (Nop) Acquire() error { return nil }

// Release implements Lock.
func (Nop) Release() error { return nil }

// Inhibitor holds an idle inhibitor via systemd-inhibit for as long as the
// child process lives.
type Inhibitor struct {
	mu   sync.Mutex
	cmd  *exec.Cmd
	look func(string) (string, error)
}

// NewInhibitor returns an Inhibitor using systemd-inhibit from PATH.
func NewInhibitor() *Inhibitor {
	return &Inhibitor{look: exec.LookPath}
}

// Acquire starts the inhibitor process if it is not already running.
func (i *Inhibitor) Acquire() error {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.cmd != nil {
		return nil
	}
	path, err := i.look("systemd-inhibit")
	if err != nil {
		return fmt.Errorf("systemd-inhibit not available: %w", err)
	}
	cmd := exec.Command(path,
		"--what=idle",
		"--who=speedreader",
		"--why=reading",
		"--mode=block",
		"sleep", "infinity",
	)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start systemd-inhibit: %w", err)
	}
	i.cmd = cmd
	return nil
}

// Release stops the inhibitor process. Releasing an idle lock is a no-op.
func (i *Inhibitor) Release() error {
	i.mu.Lock()
	cmd := i.cmd
	i.cmd = nil
	i.mu.Unlock()
	if cmd == nil || cmd.Process == nil {
		return nil
	}
	if err := cmd.Process.Kill(); err != nil {
		return fmt.Errorf("failed to stop systemd-inhibit: %w", err)
	}
	go func() {
		// Reap the child; its exit status is irrelevant.
		_ = cmd.Wait()
	}()
	return nil
}
