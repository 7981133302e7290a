package gui

import (
	"encoding/binary"
	"errors"
	"math"
	"testing"

	"github.com/mnafees/chopper/v2/internal"
	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
)

func TestFramePixels(t *testing.T) {
	var frame internal.Frame
	frame[0][1] = true
	frame[31][63] = true

	buf := framePixels(frame)
	assert.Equal(t, internal.ScreenWidth*internal.ScreenHeight*4, len(buf))
	assert.Equal(t, []byte{screenColor.R, screenColor.G, screenColor.B, 0xFF}, buf[0:4])
	assert.Equal(t, []byte{spriteColor.R, spriteColor.G, spriteColor.B, 0xFF}, buf[4:8])
	assert.Equal(t, []byte{spriteColor.R, spriteColor.G, spriteColor.B, 0xFF}, buf[len(buf)-4:])
}

func TestPresentStoresFrame(t *testing.T) {
	g := &Game{}
	var frame internal.Frame
	frame[2][3] = true
	assert.NoError(t, g.Present(frame))

	offset := (2*internal.ScreenWidth + 3) * 4
	assert.Equal(t, spriteColor.R, g.pixels[offset])
}

func TestNewCanvasRepresentsFrame(t *testing.T) {
	vm, err := internal.NewC8VM(internal.DefaultConfig(), log.NewTestLogger(t))
	assert.NoError(t, err)
	assert.NoError(t, vm.Load([]byte{0x00, 0xE0, 0x12, 0x02}))
	g := &Game{vm: vm}

	assert.NoError(t, vm.Frame(nil, g, nil))
	assert.True(t, g.pixels != nil)

	g.setCanvas(nil)
	assert.True(t, g.pixels == nil)
	assert.NoError(t, vm.Frame(nil, g, nil))
	assert.Equal(t, internal.ScreenWidth*internal.ScreenHeight*4, len(g.pixels))
}

func TestHaltMessage(t *testing.T) {
	fault := &internal.Fault{Kind: internal.BadInstruction, PC: 0x2A4, Opcode: 0xFFFF}
	assert.Equal(t, "HALTED: bad instruction at $2A4", haltMessage(fault))
	assert.Equal(t, "HALTED: boom", haltMessage(errors.New("boom")))
}

func TestKeysCoverKeypad(t *testing.T) {
	seen := map[uint8]bool{}
	for _, key := range keys {
		seen[key] = true
	}
	assert.Equal(t, internal.KeyCount, len(seen))
}

func TestSquareWave(t *testing.T) {
	w := newSquareWave(8, 1, 0.5)
	buf := make([]byte, 4*10+3)
	n, err := w.Read(buf)
	assert.NoError(t, err)
	assert.Equal(t, 40, n)

	sample := func(i int) float32 {
		return math.Float32frombits(binary.LittleEndian.Uint32(buf[i*4:]))
	}
	for i := 0; i < 4; i++ {
		assert.Equal(t, float32(0.5), sample(i))
	}
	for i := 4; i < 8; i++ {
		assert.Equal(t, float32(-0.5), sample(i))
	}
	assert.Equal(t, float32(0.5), sample(8))
}
