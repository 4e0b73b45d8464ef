package notifier

import (
	"context"
	"fmt"
	"io"
	"sync"
)

// Preview writes messages to w instead of sending them.
type Preview struct {
	mu sync.Mutex
	w  io.Writer
}

var _ Sender = (*Preview)(nil)

func NewPreview(w io.Writer) *Preview {
	return &Preview{w: w}
}

func (p *Preview) Send(_ context.Context, msg Message) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, err := fmt.Fprintf(p.w, "To: %s\nSubject: %s\n\n%s\n", msg.To, msg.Subject, msg.HTML)
	return err
}
