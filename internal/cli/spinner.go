package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
)

var (
	spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
	spinnerStyle  = lipgloss.NewStyle().Foreground(colorCyan)
)

const spinnerInterval = 80 * time.Millisecond

// spinner animates a message on one terminal line until stopped or until
// its context ends.
type spinner struct {
	w       io.Writer
	message string

	mu     sync.Mutex
	width  int
	cancel context.CancelFunc
	exited chan struct{}
	once   sync.Once
}

// startSpinner starts animating message on stderr.
func startSpinner(ctx context.Context, message string) *spinner {
	return startSpinnerTo(ctx, os.Stderr, message)
}

func startSpinnerTo(ctx context.Context, w io.Writer, message string) *spinner {
	ctx, cancel := context.WithCancel(ctx)
	s := &spinner{w: w, message: message, cancel: cancel, exited: make(chan struct{})}
	go s.loop(ctx)
	return s
}

func (s *spinner) loop(ctx context.Context) {
	defer close(s.exited)
	ticker := time.NewTicker(spinnerInterval)
	defer ticker.Stop()

	for i := 0; ; i++ {
		select {
		case <-ctx.Done():
			s.clear()
			return
		case <-ticker.C:
			s.draw(spinnerFrames[i%len(spinnerFrames)])
		}
	}
}

func (s *spinner) draw(frame string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	line := spinnerStyle.Render(frame) + " " + StyleDim.Render(s.message)
	fmt.Fprint(s.w, "\r"+line)
	s.width = max(s.width, len(s.message)+2)
}

func (s *spinner) clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.width > 0 {
		fmt.Fprint(s.w, "\r"+strings.Repeat(" ", s.width)+"\r")
		s.width = 0
	}
}

// Update replaces the message shown on the next frame.
func (s *spinner) Update(message string) {
	s.mu.Lock()
	s.message = message
	s.mu.Unlock()
}

// Stop ends the animation and clears the line. It is safe to call more
// than once.
func (s *spinner) Stop() {
	s.once.Do(func() {
		s.cancel()
		<-s.exited
	})
}
