package gui

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/mnafees/chopper/v2/internal"
)

// keypad layout on a QWERTY keyboard
//
//	1 2 3 4      1 2 3 C
//	Q W E R  ->  4 5 6 D
//	A S D F      7 8 9 E
//	Z X C V      A 0 B F
var keys = map[ebiten.Key]uint8{
	ebiten.KeyDigit1: 0x1,
	ebiten.KeyDigit2: 0x2,
	ebiten.KeyDigit3: 0x3,
	ebiten.KeyDigit4: 0xC,
	ebiten.KeyQ:      0x4,
	ebiten.KeyW:      0x5,
	ebiten.KeyE:      0x6,
	ebiten.KeyR:      0xD,
	ebiten.KeyA:      0x7,
	ebiten.KeyS:      0x8,
	ebiten.KeyD:      0x9,
	ebiten.KeyF:      0xE,
	ebiten.KeyZ:      0xA,
	ebiten.KeyX:      0x0,
	ebiten.KeyC:      0xB,
	ebiten.KeyV:      0xF,
}

// keyEvents returns the keypad transitions since the last tick
func keyEvents() []internal.KeyEvent {
	var events []internal.KeyEvent
	for _, k := range inpututil.AppendJustPressedKeys(nil) {
		if key, ok := keys[k]; ok {
			events = append(events, internal.KeyEvent{Key: key, Down: true})
		}
	}
	for _, k := range inpututil.AppendJustReleasedKeys(nil) {
		if key, ok := keys[k]; ok {
			events = append(events, internal.KeyEvent{Key: key, Down: false})
		}
	}
	return events
}
