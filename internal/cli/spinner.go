package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
	"unicode/utf8"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// spinner animates a one-line status with the elapsed time until it is
// stopped or its context ends. The line is erased when it stops.
type spinner struct {
	w     io.Writer
	start time.Time
	stop  context.CancelFunc
	done  chan struct{}

	mu     sync.Mutex
	status string
	width  int
}

func startSpinner(ctx context.Context, w io.Writer, status string) *spinner {
	ctx, stop := context.WithCancel(ctx)
	s := &spinner{
		w:      w,
		start:  time.Now(),
		stop:   stop,
		done:   make(chan struct{}),
		status: status,
	}
	go s.run(ctx)
	return s
}

func (s *spinner) run(ctx context.Context) {
	defer close(s.done)
	tick := time.NewTicker(80 * time.Millisecond)
	defer tick.Stop()
	for frame := 0; ; frame++ {
		select {
		case <-ctx.Done():
			s.clear()
			return
		case <-tick.C:
			s.draw(spinnerFrames[frame%len(spinnerFrames)])
		}
	}
}

func (s *spinner) draw(frame string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	text := fmt.Sprintf("%s %s", s.status, time.Since(s.start).Round(100*time.Millisecond))
	fmt.Fprintf(s.w, "\r%s %s", styleSpinner.Render(frame), styleDim.Render(text))
	s.width = max(s.width, utf8.RuneCountInString(text)+2)
}

func (s *spinner) clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.width > 0 {
		fmt.Fprintf(s.w, "\r%s\r", strings.Repeat(" ", s.width))
		s.width = 0
	}
}

// setStatus replaces the text drawn from the next frame on.
func (s *spinner) setStatus(status string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = status
}

// Stop halts the animation and waits until the line is erased. It may be
// called more than once.
func (s *spinner) Stop() {
	s.stop()
	<-s.done
}
