package internal

import (
	"context"
	"time"
)

// Run is the main emulation loop. It runs one Frame per 1/60 s until the
// input reports quit, ctx is cancelled or the VM faults. A fault is
// returned as is; quitting through the input returns nil.
func (vm *C8VM) Run(ctx context.Context, in Input, r Renderer, s Speaker) error {
	ticker := time.NewTicker(FrameDuration)
	defer ticker.Stop()
	defer vm.silence(s)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}

		events, quit := in.Poll()
		if quit {
			vm.logger.Info("Quit requested")
			return nil
		}
		if err := vm.Frame(events, r, s); err != nil {
			return err
		}
	}
}
