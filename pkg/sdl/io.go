// Package sdl implements an SDL2 front end for the VM: a window renderer,
// keyboard input and a square wave speaker.
package sdl

import (
	"fmt"
	"runtime"

	"github.com/mnafees/chopper/v2/internal"
	"github.com/retroenv/retrogolib/log"
	"github.com/veandco/go-sdl2/sdl"
)

const (
	screenColor = 0x1A237E
	spriteColor = 0x9FA8DA
)

func init() {
	// SDL expects all video calls to come from the thread that initialised it
	runtime.LockOSThread()
}

// IO is the input/output abstraction layer for the VM
type IO struct {
	logger *log.Logger
	scale  int32

	window  *sdl.Window
	surface *sdl.Surface
	audio   *speaker

	// called when the window contents were lost and must be presented again
	onExpose func()
}

// NewIO returns a new I/O instance for the SDL frontend. Every CHIP-8 pixel
// is drawn as a scale x scale square.
func NewIO(logger *log.Logger, scale int) *IO {
	return &IO{
		logger: logger,
		scale:  int32(scale),
	}
}

// OnExpose registers fn to be called whenever the window has to be redrawn,
// e.g. after it was uncovered or restored.
func (io *IO) OnExpose(fn func()) {
	io.onExpose = fn
}

// Open initialises SDL and sets up the main window. A missing audio device
// is not fatal, the VM then runs silently.
func (io *IO) Open(title string) error {
	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_AUDIO | sdl.INIT_EVENTS); err != nil {
		return fmt.Errorf("initialising SDL: %w", err)
	}

	window, err := sdl.CreateWindow(title, sdl.WINDOWPOS_UNDEFINED, sdl.WINDOWPOS_UNDEFINED,
		internal.ScreenWidth*io.scale, internal.ScreenHeight*io.scale, sdl.WINDOW_SHOWN)
	if err != nil {
		sdl.Quit()
		return fmt.Errorf("creating window: %w", err)
	}
	io.window = window

	io.surface, err = window.GetSurface()
	if err != nil {
		io.Close()
		return fmt.Errorf("getting window surface: %w", err)
	}
	if err := io.surface.FillRect(nil, screenColor); err != nil {
		io.Close()
		return fmt.Errorf("clearing window surface: %w", err)
	}

	io.audio, err = openSpeaker()
	if err != nil {
		io.logger.Warn("Sound disabled", log.Err(err))
	}
	return nil
}

// Close releases the window and the audio device. It should be called
// before quitting the application.
func (io *IO) Close() {
	if io.audio != nil {
		io.audio.close()
		io.audio = nil
	}
	if io.window != nil {
		_ = io.window.Destroy()
		io.window = nil
	}
	sdl.Quit()
}

// Present draws the frame onto the window surface
func (io *IO) Present(frame internal.Frame) error {
	if err := io.surface.FillRect(nil, screenColor); err != nil {
		return fmt.Errorf("clearing window surface: %w", err)
	}
	for _, rect := range pixelRects(frame, io.scale) {
		if err := io.surface.FillRect(&rect, spriteColor); err != nil {
			return fmt.Errorf("drawing pixel: %w", err)
		}
	}
	if err := io.window.UpdateSurface(); err != nil {
		return fmt.Errorf("updating window surface: %w", err)
	}
	return nil
}

// Poll drains the SDL event queue. It reports quit once the window was
// closed or Escape was pressed.
func (io *IO) Poll() ([]internal.KeyEvent, bool) {
	var events []internal.KeyEvent
	quit := false

	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch t := event.(type) {
		case *sdl.KeyboardEvent:
			if t.Keysym.Scancode == sdl.SCANCODE_ESCAPE {
				quit = true
				continue
			}
			if t.Repeat != 0 {
				continue
			}
			key, ok := keymap(t.Keysym.Scancode)
			if !ok {
				continue
			}
			events = append(events, internal.KeyEvent{
				Key:  key,
				Down: t.GetType() == sdl.KEYDOWN,
			})
		case *sdl.WindowEvent:
			io.windowEvent(t)
		case *sdl.QuitEvent:
			quit = true
		}
	}
	return events, quit
}

func (io *IO) windowEvent(ev *sdl.WindowEvent) {
	switch ev.Event {
	case sdl.WINDOWEVENT_EXPOSED, sdl.WINDOWEVENT_RESTORED, sdl.WINDOWEVENT_SIZE_CHANGED:
		if io.onExpose != nil {
			io.onExpose()
		}
	}
}

// ToneOn starts the buzzer
func (io *IO) ToneOn() {
	if io.audio == nil {
		return
	}
	if err := io.audio.start(); err != nil {
		io.logger.Warn("Starting tone failed", log.Err(err))
	}
}

// ToneOff stops the buzzer
func (io *IO) ToneOff() {
	if io.audio != nil {
		io.audio.stop()
	}
}

// pixelRects returns the window rectangles covering every lit pixel
func pixelRects(frame internal.Frame, scale int32) []sdl.Rect {
	var rects []sdl.Rect
	for y := range frame {
		for x, on := range frame[y] {
			if on {
				rects = append(rects, sdl.Rect{
					X: int32(x) * scale,
					Y: int32(y) * scale,
					W: scale,
					H: scale,
				})
			}
		}
	}
	return rects
}
