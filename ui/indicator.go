package ui

import (
	"context"
	"os"
	"sync"

	"github.com/charmbracelet/huh/spinner"
	"github.com/mattn/go-isatty"

	"github.com/hsbacot/jmsctl/action"
)

// SpinnerIndicator shows a huh spinner while open. Nothing is drawn when
// stdout is not a terminal.
type SpinnerIndicator struct {
	title string

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// SpinnerFactory returns an indicator factory whose spinners carry title
func SpinnerFactory(title string) action.IndicatorFactory {
	return func() action.Indicator {
		return &SpinnerIndicator{title: title}
	}
}

// Open starts the spinner
func (s *SpinnerIndicator) Open() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil || !isatty.IsTerminal(os.Stdout.Fd()) {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	s.cancel, s.done = cancel, done

	go func() {
		defer close(done)
		_ = spinner.New().Title(s.title).Context(ctx).Run()
	}()
}

// Close stops the spinner and waits until it has cleared the line
func (s *SpinnerIndicator) Close() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel, s.done = nil, nil
	s.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}
