package internal

// Renderer shows frames produced by the VM on some surface
type Renderer interface {
	// Present is called with a copy of the framebuffer whenever it changed
	// since the previous call.
	Present(frame Frame) error
}

// Speaker plays the tone driven by the sound timer. Calls are edge
// triggered: ToneOn is never called twice without a ToneOff in between.
type Speaker interface {
	ToneOn()
	ToneOff()
}

// Input is polled once per frame for key transitions and the quit signal
type Input interface {
	Poll() (events []KeyEvent, quit bool)
}
