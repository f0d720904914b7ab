package ui

import (
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/mattn/go-isatty"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

const (
	spinnerDelay    = 150 * time.Millisecond
	spinnerInterval = 80 * time.Millisecond
)

// Spinner shows progress on stderr while op is running. Nothing is drawn
// unless stderr is a terminal and the wait outlasts a short delay, so cached
// or fast listings stay silent.
type Spinner struct {
	message string
	out     io.Writer
	animate bool

	startOnce sync.Once
	stopOnce  sync.Once
	started   atomic.Bool
	stop      chan struct{}
	done      chan struct{}
}

// NewSpinner creates a spinner for message.
func NewSpinner(message string) *Spinner {
	fd := os.Stderr.Fd()
	return &Spinner{
		message: message,
		out:     os.Stderr,
		animate: isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd),
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
}

// Start begins drawing in the background.
func (s *Spinner) Start() {
	s.startOnce.Do(func() {
		s.started.Store(true)
		if !s.animate {
			close(s.done)
			return
		}
		go s.run()
	})
}

func (s *Spinner) run() {
	defer close(s.done)

	select {
	case <-s.stop:
		return
	case <-time.After(spinnerDelay):
	}

	ticker := time.NewTicker(spinnerInterval)
	defer ticker.Stop()
	for i := 0; ; i++ {
		fmt.Fprintf(s.out, "\r%s %s", Bold.Render(spinnerFrames[i%len(spinnerFrames)]), Muted.Render(s.message))
		select {
		case <-s.stop:
			fmt.Fprint(s.out, "\r\033[K")
			return
		case <-ticker.C:
		}
	}
}

// Stop clears the spinner line and waits for the drawing goroutine. It is
// safe to call more than once, and before Start.
func (s *Spinner) Stop() {
	s.stopOnce.Do(func() {
		close(s.stop)
	})
	if s.started.Load() {
		<-s.done
	}
}
