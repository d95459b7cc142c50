// Package terminal runs the add-camera workflow on a line-oriented terminal.
// A Session plays the part of the page: it holds the address input and the
// hidden device-info carrier, prints messages and notices, and turns typed
// lines into workflow events.
package terminal

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/Flarenzy/labcam/internal/workflow"
)

const helpText = `Type a camera IP address to look it up in the NVR.
  :add         add the validated camera to the current lab
  :lab NAME    switch to lab NAME
  :info        show the device info of the validated camera
  :quit        leave`

type Session struct {
	in  io.Reader
	out io.Writer

	mu            sync.Mutex
	address       string
	submitEnabled bool
	deviceInfo    string

	input      listeners[func()]
	validate   listeners[func()]
	submit     listeners[func()]
	dialogOpen listeners[func(string)]
}

var (
	_ workflow.Host   = (*Session)(nil)
	_ workflow.Events = (*Session)(nil)
)

func NewSession(in io.Reader, out io.Writer) *Session {
	return &Session{in: in, out: out}
}

func (s *Session) Address() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.address
}

func (s *Session) ShowMessage(msg workflow.Message) {
	if msg.IsZero() {
		return
	}
	switch msg.Style {
	case workflow.StyleSuccess:
		s.printf("[ok] %s\n", msg.Text)
	case workflow.StyleFailure:
		s.printf("[!!] %s\n", msg.Text)
	default:
		s.printf("%s\n", msg.Text)
	}
}

func (s *Session) SetSubmitEnabled(enabled bool) {
	s.mu.Lock()
	became := enabled && !s.submitEnabled
	s.submitEnabled = enabled
	s.mu.Unlock()

	if became {
		s.printf("Type :add to add this camera.\n")
	}
}

func (s *Session) SetBusy(busy bool) {
	if busy {
		s.printf("Searching NVR...\n")
	}
}

func (s *Session) SetDeviceInfo(serialized string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deviceInfo = serialized
}

func (s *Session) Notify(text string) {
	s.printf(">> %s\n", text)
}

// Refresh resets the page the way a reload would: the address input is
// emptied.
func (s *Session) Refresh() {
	s.mu.Lock()
	s.address = ""
	s.mu.Unlock()
	s.printf("Ready for the next camera.\n")
}

func (s *Session) OnInput(fn func()) func() {
	return s.input.add(fn)
}

func (s *Session) OnValidate(fn func()) func() {
	return s.validate.add(fn)
}

func (s *Session) OnSubmit(fn func()) func() {
	return s.submit.add(fn)
}

func (s *Session) OnDialogOpen(fn func(lab string)) func() {
	return s.dialogOpen.add(fn)
}

// Run reads commands until the input ends, :quit is typed or ctx is done.
func (s *Session) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines := make(chan string)
	readErr := make(chan error, 1)
	go func() {
		scanner := bufio.NewScanner(s.in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		readErr <- scanner.Err()
	}()

	s.printf("%s\n", helpText)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-readErr:
			return err
		case line := <-lines:
			if quit := s.handle(line); quit {
				return nil
			}
		}
	}
}

func (s *Session) handle(line string) (quit bool) {
	cmd := strings.TrimSpace(line)
	switch {
	case cmd == ":quit" || cmd == ":q":
		return true
	case cmd == ":help":
		s.printf("%s\n", helpText)
	case cmd == ":add":
		fire(s.submit.snapshot())
	case cmd == ":info":
		s.mu.Lock()
		info := s.deviceInfo
		s.mu.Unlock()
		if info == "" {
			info = "(none)"
		}
		s.printf("%s\n", info)
	case strings.HasPrefix(cmd, ":lab"):
		lab := strings.TrimSpace(strings.TrimPrefix(cmd, ":lab"))
		if lab == "" {
			s.printf("usage: :lab NAME\n")
			return false
		}
		for _, fn := range s.dialogOpen.snapshot() {
			fn(lab)
		}
		s.printf("Adding cameras to lab %s.\n", lab)
	case strings.HasPrefix(cmd, ":"):
		s.printf("unknown command %s (try :help)\n", cmd)
	default:
		s.mu.Lock()
		s.address = line
		s.mu.Unlock()
		fire(s.input.snapshot())
		fire(s.validate.snapshot())
	}
	return false
}

func (s *Session) printf(format string, args ...any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, _ = fmt.Fprintf(s.out, format, args...)
}

func fire(fns []func()) {
	for _, fn := range fns {
		fn()
	}
}
