package internal

// Display constants
const (
	ScreenWidth  = 64
	ScreenHeight = 32
)

// Frame is a copy of the 64 px x 32 px display, indexed [y][x]
type Frame [ScreenHeight][ScreenWidth]bool

// Sprite is a sequence of 1 to 15 rows of 8 monochrome pixels each,
// most significant bit leftmost.
type Sprite []uint8

// Display is the logical framebuffer of the VM. It knows nothing about
// the surface it is eventually shown on.
type Display struct {
	pixels Frame
	dirty  bool
}

// Clear turns every pixel off. Clearing a blank framebuffer is not a
// change and leaves the dirty flag alone.
func (d *Display) Clear() {
	if d.pixels == (Frame{}) {
		return
	}
	d.pixels = Frame{}
	d.dirty = true
}

// Invalidate forces the next Present to reach the renderer, e.g. after the
// output surface was recreated.
func (d *Display) Invalidate() {
	d.dirty = true
}

// Draw XORs sprite onto the framebuffer with its top left corner at x, y.
// Pixels past the right or bottom edge wrap around to the opposite side.
// It reports whether any set sprite pixel hit a pixel that was already on.
func (d *Display) Draw(x, y uint8, sprite Sprite) bool {
	collision := false
	for row, line := range sprite {
		py := (int(y) + row) % ScreenHeight
		for col := 0; col < 8; col++ {
			if line&(0x80>>col) == 0 {
				continue
			}
			px := (int(x) + col) % ScreenWidth
			if d.pixels[py][px] {
				collision = true
			}
			d.pixels[py][px] = !d.pixels[py][px]
			d.dirty = true
		}
	}
	return collision
}

// Pixel reports whether the pixel at x, y is on
func (d *Display) Pixel(x, y int) bool {
	return d.pixels[y%ScreenHeight][x%ScreenWidth]
}

// Dirty reports whether there are unpresented changes
func (d *Display) Dirty() bool {
	return d.dirty
}

// Pixels returns a copy of the framebuffer
func (d *Display) Pixels() Frame {
	return d.pixels
}

// Present hands a copy of the framebuffer to r if anything changed since
// the last present.
func (d *Display) Present(r Renderer) error {
	if !d.dirty {
		return nil
	}
	d.dirty = false
	return r.Present(d.pixels)
}
