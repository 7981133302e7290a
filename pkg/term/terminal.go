// Package term implements a text mode front end for the VM that runs in a
// raw mode terminal. The display is drawn with half block characters, keys
// are read from stdin and the tone rings the terminal bell.
package term

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/mnafees/chopper/v2/internal"
	"github.com/retroenv/retrogolib/log"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"
)

const (
	// terminals only report key presses, a key counts as held for this long
	// after its last press or auto repeat
	holdDuration = 100 * time.Millisecond

	keyInterrupt = 0x03 // Ctrl+C

	hideCursor  = "\x1b[?25l"
	showCursor  = "\x1b[?25h"
	clearScreen = "\x1b[2J"
	cursorHome  = "\x1b[H"
	bell        = "\a"
)

// deadlineReader is an input stream whose blocking reads can be cancelled
type deadlineReader interface {
	io.Reader
	SetReadDeadline(t time.Time) error
}

// Terminal is the input/output abstraction layer for the text mode frontend
type Terminal struct {
	logger *log.Logger
	out    io.Writer
	now    func() time.Time

	fd    int
	state *term.State
	stdin *os.File

	input chan byte
	held  [internal.KeyCount]time.Time
}

// New returns a terminal front end drawing to out
func New(logger *log.Logger, out io.Writer) *Terminal {
	return &Terminal{
		logger: logger,
		out:    out,
		now:    time.Now,
		input:  make(chan byte, 64),
	}
}

// Open switches stdin to raw non blocking mode and clears the screen
func (t *Terminal) Open() error {
	t.fd = int(os.Stdin.Fd())
	if !term.IsTerminal(t.fd) {
		return errors.New("stdin is not a terminal")
	}
	if width, height, err := term.GetSize(t.fd); err == nil {
		if width < internal.ScreenWidth || height < internal.ScreenHeight/2+1 {
			t.logger.Warn("Terminal is smaller than the display",
				log.Int("width", width), log.Int("height", height))
		}
	}

	state, err := term.MakeRaw(t.fd)
	if err != nil {
		return fmt.Errorf("setting raw mode: %w", err)
	}
	t.state = state

	stdin, err := openInput(t.fd)
	if err != nil {
		_ = term.Restore(t.fd, t.state)
		t.state = nil
		return fmt.Errorf("opening stdin: %w", err)
	}
	t.stdin = stdin

	_, err = io.WriteString(t.out, hideCursor+clearScreen)
	return err
}

// Close restores the terminal state
func (t *Terminal) Close() {
	_, _ = io.WriteString(t.out, showCursor+"\r\n")
	if t.stdin != nil {
		_ = t.stdin.Close()
		t.stdin = nil
		// the duplicate shares the file status flags with stdin
		_ = setNonblock(t.fd, false)
	}
	if t.state != nil {
		_ = term.Restore(t.fd, t.state)
		t.state = nil
	}
}

// Run runs vm until the user presses Ctrl+C, ctx is cancelled or the VM
// faults. Reading stdin and the VM loop run as one group.
func (t *Terminal) Run(ctx context.Context, vm *internal.C8VM) error {
	g, ctx := errgroup.WithContext(ctx)
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g.Go(func() error {
		return t.readInput(ctx, t.stdin)
	})
	g.Go(func() error {
		defer cancel()
		return vm.Run(ctx, t, t, t)
	})
	return g.Wait()
}

// readInput forwards bytes from r to the input channel until ctx is done
// or r is exhausted.
func (t *Terminal) readInput(ctx context.Context, r deadlineReader) error {
	stop := context.AfterFunc(ctx, func() {
		_ = r.SetReadDeadline(time.Now())
	})
	defer stop()

	buf := make([]byte, 16)
	for {
		n, err := r.Read(buf)
		for _, b := range buf[:n] {
			select {
			case t.input <- b:
			case <-ctx.Done():
				return nil
			}
		}
		switch {
		case err == nil:
		case errors.Is(err, io.EOF), errors.Is(err, os.ErrDeadlineExceeded):
			return nil
		default:
			return fmt.Errorf("reading stdin: %w", err)
		}
	}
}

// Poll converts the bytes typed since the last frame to key events. Keys
// are released once they were not repeated for holdDuration.
func (t *Terminal) Poll() ([]internal.KeyEvent, bool) {
	var events []internal.KeyEvent
	now := t.now()

	for {
		var b byte
		select {
		case b = <-t.input:
		default:
			return append(events, t.releaseKeys(now)...), false
		}

		if b == keyInterrupt {
			return events, true
		}
		key, ok := keymap(b)
		if !ok {
			continue
		}
		if t.held[key].IsZero() {
			events = append(events, internal.KeyEvent{Key: key, Down: true})
		}
		t.held[key] = now
	}
}

func (t *Terminal) releaseKeys(now time.Time) []internal.KeyEvent {
	var events []internal.KeyEvent
	for key, pressed := range t.held {
		if pressed.IsZero() || now.Sub(pressed) < holdDuration {
			continue
		}
		t.held[key] = time.Time{}
		events = append(events, internal.KeyEvent{Key: uint8(key), Down: false})
	}
	return events
}

// Present redraws the whole display
func (t *Terminal) Present(frame internal.Frame) error {
	if _, err := io.WriteString(t.out, cursorHome+render(frame)); err != nil {
		return fmt.Errorf("writing frame: %w", err)
	}
	return nil
}

// ToneOn rings the terminal bell
func (t *Terminal) ToneOn() {
	_, _ = io.WriteString(t.out, bell)
}

// ToneOff does nothing, a bell can not be silenced
func (t *Terminal) ToneOff() {}

// render draws two display rows per text line using half block characters
func render(frame internal.Frame) string {
	var sb strings.Builder
	for y := 0; y < internal.ScreenHeight; y += 2 {
		for x := 0; x < internal.ScreenWidth; x++ {
			top, bottom := frame[y][x], frame[y+1][x]
			switch {
			case top && bottom:
				sb.WriteRune('█')
			case top:
				sb.WriteRune('▀')
			case bottom:
				sb.WriteRune('▄')
			default:
				sb.WriteByte(' ')
			}
		}
		sb.WriteString("\r\n")
	}
	return sb.String()
}
