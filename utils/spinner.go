package utils

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// Spinner shows a process indicator followed by a status message.
type Spinner struct {
	w        io.Writer
	mu       sync.Mutex
	message  string
	stopChan chan struct{}
	done     chan struct{}
}

// NewSpinner instantiates a new Spinner writing to w.
func NewSpinner(w io.Writer) *Spinner {
	return &Spinner{w: w}
}

// Start starts the process indicator.
func (s *Spinner) Start(message string) {
	s.SetMessage(message)
	s.stopChan = make(chan struct{}, 1)
	s.done = make(chan struct{})

	go func() {
		defer close(s.done)
		for {
			for _, r := range `-\|/` {
				select {
				case <-s.stopChan:
					return
				default:
					s.mu.Lock()
					fmt.Fprintf(s.w, "\r\x1b[K%s%s %c%s", s.message, SuccessColor, r, DefaultColor)
					s.mu.Unlock()
					time.Sleep(time.Millisecond * 100)
				}
			}
		}
	}()
}

// SetMessage replaces the message displayed in front of the indicator.
func (s *Spinner) SetMessage(message string) {
	s.mu.Lock()
	s.message = message
	s.mu.Unlock()
}

// Stop stops the process indicator and waits for the last redraw.
func (s *Spinner) Stop() {
	if s.stopChan == nil {
		return
	}
	s.stopChan <- struct{}{}
	<-s.done
	s.stopChan = nil
	fmt.Fprintln(s.w)
}
