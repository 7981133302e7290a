// Package gui implements an Ebitengine front end for the VM. Ebitengine
// drives the frame cadence: every Update runs one VM frame.
package gui

import (
	"context"
	"errors"
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/mnafees/chopper/v2/internal"
	"github.com/retroenv/retrogolib/log"
	"golang.org/x/image/font/basicfont"
)

var (
	screenColor = color.RGBA{0x1A, 0x23, 0x7E, 0xFF}
	spriteColor = color.RGBA{0x9F, 0xA8, 0xDA, 0xFF}
	haltColor   = color.RGBA{0xFF, 0x52, 0x52, 0xFF}
)

// Game adapts a C8VM to the ebiten.Game interface.
type Game struct {
	ctx     context.Context
	vm      *internal.C8VM
	logger  *log.Logger
	scale   int
	speaker internal.Speaker

	canvas *ebiten.Image
	pixels []byte // RGBA bytes of the last presented frame
	halted error  // fault that stopped the VM, shown as an overlay
	result error
}

// NewGame returns a game that runs vm with every CHIP-8 pixel drawn as a
// scale x scale square. speaker may be nil.
func NewGame(ctx context.Context, vm *internal.C8VM, logger *log.Logger, scale int, speaker internal.Speaker) *Game {
	return &Game{
		ctx:     ctx,
		vm:      vm,
		logger:  logger,
		scale:   scale,
		speaker: speaker,
		pixels:  framePixels(internal.Frame{}),
	}
}

// Run opens the window and blocks until it is closed, ctx is cancelled or
// Escape is pressed. A VM fault halts emulation but keeps the window open
// until the user closes it; the fault is then returned.
func (g *Game) Run(title string) error {
	ebiten.SetWindowSize(internal.ScreenWidth*g.scale, internal.ScreenHeight*g.scale)
	ebiten.SetWindowTitle(title)
	ebiten.SetWindowClosingHandled(true)
	ebiten.SetTPS(internal.TimerFrequency)
	ebiten.SetRunnableOnUnfocused(true)

	if err := ebiten.RunGame(g); err != nil {
		return fmt.Errorf("running game: %w", err)
	}
	if g.speaker != nil {
		g.speaker.ToneOff()
	}
	if g.result != nil {
		return g.result
	}
	return g.halted
}

// Update runs one VM frame
func (g *Game) Update() error {
	if ebiten.IsWindowBeingClosed() || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		g.logger.Info("Quit requested")
		return ebiten.Termination
	}
	if err := g.ctx.Err(); err != nil {
		g.result = err
		return ebiten.Termination
	}
	if g.halted != nil {
		return nil
	}

	if err := g.vm.Frame(keyEvents(), g, g.speaker); err != nil {
		g.halted = err
		if g.speaker != nil {
			g.speaker.ToneOff()
		}
		g.logger.Error("VM halted", log.Err(err), log.Stringer("state", g.vm))
	}
	return nil
}

// Present stores the frame for the next Draw
func (g *Game) Present(frame internal.Frame) error {
	g.pixels = framePixels(frame)
	return nil
}

// Draw scales the framebuffer onto the window
func (g *Game) Draw(screen *ebiten.Image) {
	if g.canvas == nil {
		g.setCanvas(ebiten.NewImage(internal.ScreenWidth, internal.ScreenHeight))
	}
	if g.pixels != nil {
		g.canvas.WritePixels(g.pixels)
	}

	opts := &ebiten.DrawImageOptions{}
	opts.GeoM.Scale(float64(g.scale), float64(g.scale))
	screen.DrawImage(g.canvas, opts)

	if g.halted != nil {
		face := basicfont.Face7x13
		msg := haltMessage(g.halted)
		y := internal.ScreenHeight*g.scale - face.Descent - 4
		text.Draw(screen, msg, face, 4, y, haltColor)
	}
}

// setCanvas replaces the image the framebuffer is written to. A new image
// is blank, so the VM presents its display again on the next frame.
func (g *Game) setCanvas(img *ebiten.Image) {
	g.canvas = img
	g.pixels = nil
	g.vm.Invalidate()
}

// Layout keeps the logical screen at the window size
func (g *Game) Layout(_, _ int) (int, int) {
	return internal.ScreenWidth * g.scale, internal.ScreenHeight * g.scale
}

// framePixels converts a frame to the RGBA layout expected by WritePixels
func framePixels(frame internal.Frame) []byte {
	buf := make([]byte, 0, internal.ScreenWidth*internal.ScreenHeight*4)
	for y := range frame {
		for _, on := range frame[y] {
			c := screenColor
			if on {
				c = spriteColor
			}
			buf = append(buf, c.R, c.G, c.B, c.A)
		}
	}
	return buf
}

func haltMessage(err error) string {
	var fault *internal.Fault
	if errors.As(err, &fault) && fault.PC != 0 {
		return fmt.Sprintf("HALTED: %s at $%03X", fault.Kind, fault.PC)
	}
	return "HALTED: " + err.Error()
}
