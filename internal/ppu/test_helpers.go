package ppu

// SetFrameBufferForTesting injects a frame buffer directly, bypassing
// Step/renderCycle, so compositing and sprite-priority tests can assert
// against a known-good buffer without running a full frame.
func (p *PPU) SetFrameBufferForTesting(frameBuffer [256 * 240]uint32) {
	p.frameBuffer = frameBuffer
}