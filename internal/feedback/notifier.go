package feedback

import (
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/Veraticus/mapping-lia/internal/cli"
	"github.com/Veraticus/mapping-lia/internal/service"
)

// Level is the kind of notification.
type Level int

// Notification levels.
const (
	LevelInfo Level = iota
	LevelSuccess
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelSuccess:
		return "success"
	case LevelError:
		return "error"
	default:
		return "info"
	}
}

// Toast is one queued notification.
type Toast struct {
	Text  string
	Level Level
}

// Terminal prints notifications as styled lines.
type Terminal struct {
	w io.Writer
}

var _ service.Notifier = (*Terminal)(nil)

// NewTerminal creates a notifier writing to w.
func NewTerminal(w io.Writer) *Terminal {
	return &Terminal{w: w}
}

// Success prints a success line.
func (t *Terminal) Success(msg string) { t.write(cli.FormatSuccess(msg)) }

// Error prints an error line and logs it.
func (t *Terminal) Error(msg string) {
	slog.Debug("notified error", "message", msg)
	t.write(cli.FormatError(msg))
}

// Info prints an informational line.
func (t *Terminal) Info(msg string) { t.write(cli.FormatInfo(msg)) }

func (t *Terminal) write(line string) {
	if _, err := fmt.Fprintln(t.w, line); err != nil {
		slog.Warn("Failed to write notification", "error", err)
	}
}

// Queue collects notifications for a UI to drain and render as toasts.
// It is safe for concurrent use.
type Queue struct {
	toasts []Toast
	mu     sync.Mutex
}

var _ service.Notifier = (*Queue)(nil)

// Success queues a success toast.
func (q *Queue) Success(msg string) { q.push(msg, LevelSuccess) }

// Error queues an error toast.
func (q *Queue) Error(msg string) { q.push(msg, LevelError) }

// Info queues an info toast.
func (q *Queue) Info(msg string) { q.push(msg, LevelInfo) }

func (q *Queue) push(msg string, level Level) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.toasts = append(q.toasts, Toast{Text: msg, Level: level})
}

// Drain returns and removes every queued toast.
func (q *Queue) Drain() []Toast {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := q.toasts
	q.toasts = nil
	return out
}

// Len returns the number of queued toasts.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.toasts)
}

// Fail sends the message for err through n.
func Fail(n service.Notifier, err error) {
	n.Error(Message(err))
}
