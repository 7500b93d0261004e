// Package spinning provides a friendly spinning clock (or some other spinning symbols), followed
// by a status line, to use while a long simulation runs without printing.
package spinning

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"k8s.io/klog/v2"
)

type Spinning struct {
	wg     sync.WaitGroup
	cancel func()
	status atomic.Pointer[string]
}

var (
	ThemeAscii = []rune("|/-\\")
	ThemeMoon  = []rune("🌑🌒🌓🌔🌕🌖🌗🌘")
	ThemeClock = []rune("🕐🕑🕒🕓🕔🕕🕖🕗🕘🕙🕚🕛")

	// Theme defaults to ThemeClock, but it can be set to anything else.
	Theme = ThemeClock

	// Period between updates of the spinning symbol.
	Period = 500 * time.Millisecond
)

// SafeInterrupt will capture SigInt (Ctrl+C) and SigTerm and call the provided onInterrupt.
// If the program haven't exited after gracePeriod, it will call Reset to reset the terminal
// and exit.
func SafeInterrupt(onInterrupt func(), gracePeriod time.Duration) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		s := <-sigChan
		fmt.Println()
		klog.Errorf("Got interrupted (signal %q), shutting down... (%s)", s, gracePeriod)
		if onInterrupt != nil {
			go onInterrupt()
		}

		// Wait for gracePeriod before exiting.
		time.Sleep(gracePeriod)
		Reset()
		klog.Fatalf("Graceful shutting down %s period expired, exiting.", gracePeriod)
	}()
}

// Reset terminal: make cursor visible, restore default terminal colors.
func Reset() {
	fmt.Print("\033[?25h\033[39;49;0m\n") // Restore cursor and colors.
}

// New starts a spinning display that runs on a separate goroutine, followed by the status
// set with SetStatus. It stops when Spinning.Done is called or ctx is cancelled.
func New(ctx context.Context) *Spinning {
	s := &Spinning{}
	ctx, s.cancel = context.WithCancel(ctx)
	theme := Theme
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(Period)
		defer ticker.Stop()
		fmt.Print("\033[?25l")       // Hide cursor.
		defer fmt.Print("\033[?25h") // Restore cursor.

		for idx := 0; ; idx = (idx + 1) % len(theme) {
			fmt.Printf("\r%c %s\033[0K", theme[idx], s.Status())
			select {
			case <-ctx.Done():
				fmt.Print("\r\033[0K") // Clear the line.
				return
			case <-ticker.C:
				// continue
			}
		}
	}()
	return s
}

// SetStatus sets the text displayed after the spinning symbol. It is safe to call concurrently.
func (s *Spinning) SetStatus(status string) {
	s.status.Store(&status)
}

// Status returns the current status text.
func (s *Spinning) Status() string {
	if status := s.status.Load(); status != nil {
		return *status
	}
	return ""
}

// Done stops the spinning display and waits for it to clear its line.
func (s *Spinning) Done() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.wg.Wait()
}
