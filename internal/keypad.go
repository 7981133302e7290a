package internal

// KeyCount is the number of keys on the hex keypad
const KeyCount = 16

// KeyEvent is a key transition reported by an input source
type KeyEvent struct {
	Key  uint8 // hex key 0x0-0xF
	Down bool
}

// Keypad holds the state of the 16-key hex keypad
type Keypad struct {
	keys [KeyCount]bool
}

// IsDown reports whether key is currently pressed
func (k *Keypad) IsDown(key uint8) (bool, error) {
	if key >= KeyCount {
		return false, argumentFault(key)
	}
	return k.keys[key], nil
}

// Press marks key as pressed
func (k *Keypad) Press(key uint8) error {
	if key >= KeyCount {
		return argumentFault(key)
	}
	k.keys[key] = true
	return nil
}

// Release marks key as released
func (k *Keypad) Release(key uint8) error {
	if key >= KeyCount {
		return argumentFault(key)
	}
	k.keys[key] = false
	return nil
}

// Apply updates the keypad from ev and reports whether it was a transition
// from up to down.
func (k *Keypad) Apply(ev KeyEvent) (bool, error) {
	was, err := k.IsDown(ev.Key)
	if err != nil {
		return false, err
	}
	k.keys[ev.Key] = ev.Down
	return ev.Down && !was, nil
}
