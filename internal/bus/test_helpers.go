package bus

// Test helper methods for bus testing

// SetFrameBufferForTesting sets a frame buffer for testing purposes
func (b *Bus) SetFrameBufferForTesting(frameBuffer [256 * 240]uint32) {
	if b.PPU != nil {
		b.PPU.SetFrameBufferForTesting(frameBuffer)
	}
}

// StepWithError executes one emulation step; exposed for tests that
// want an explicit error return without changing Step's signature.
func (b *Bus) StepWithError() error {
	b.Step()
	return nil
}
