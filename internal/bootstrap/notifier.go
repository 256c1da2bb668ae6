package bootstrap

import (
	"fmt"
	"io"
	"strings"
	"sync"
)

// AdvisoryPrefix starts every advisory line
const AdvisoryPrefix = "[SessionStart]"

// Notifier writes advisory lines. Write errors are dropped since there is
// nowhere left to report them.
type Notifier struct {
	w     io.Writer
	mu    sync.Mutex
	lines []string
}

// NewNotifier creates a Notifier writing to w. A nil w only records.
func NewNotifier(w io.Writer) *Notifier {
	return &Notifier{w: w}
}

// Notice writes one prefixed advisory line
func (n *Notifier) Notice(format string, args ...any) {
	n.emit(AdvisoryPrefix + " " + fmt.Sprintf(format, args...))
}

// Block writes preformatted text as is
func (n *Notifier) Block(text string) {
	n.emit(strings.TrimRight(text, "\n"))
}

func (n *Notifier) emit(s string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.lines = append(n.lines, s)
	if n.w != nil {
		_, _ = io.WriteString(n.w, s+"\n")
	}
}

// Lines returns everything written so far
func (n *Notifier) Lines() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.lines...)
}
