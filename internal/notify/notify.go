// Package notify surfaces unread-alert transitions outside the normal
// command output, so a user running the live dashboard hears about new
// alerts without reading the screen.
package notify

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"runtime"
	"sync"
)

// Notifier delivers a short out-of-band message.
type Notifier interface {
	Notify(ctx context.Context, title, message string) error
}

// TerminalNotifier rings the terminal bell and, where the platform
// supports it, posts a desktop notification. Failures of the desktop
// hook are ignored; the bell always works.
type TerminalNotifier struct {
	out  io.Writer
	mu   sync.Mutex
	last string
}

// NewTerminalNotifier creates a notifier writing the bell to out.
func NewTerminalNotifier(out io.Writer) *TerminalNotifier {
	return &TerminalNotifier{out: out}
}

// Notify emits the notification. Consecutive duplicates are dropped so
// a repeated poll result does not ring every cycle.
func (n *TerminalNotifier) Notify(ctx context.Context, title, message string) error {
	n.mu.Lock()
	key := title + "\x00" + message
	if key == n.last {
		n.mu.Unlock()
		return nil
	}
	n.last = key
	n.mu.Unlock()

	fmt.Fprint(n.out, "\a")
	n.desktop(ctx, title, message)
	return nil
}

// desktop posts a platform desktop notification, best effort.
func (n *TerminalNotifier) desktop(ctx context.Context, title, message string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		script := fmt.Sprintf(`display notification %q with title %q`, message, title)
		cmd = exec.CommandContext(ctx, "osascript", "-e", script)
	case "linux":
		cmd = exec.CommandContext(ctx, "notify-send", title, message)
	default:
		return
	}
	_ = cmd.Run()
}
