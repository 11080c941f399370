// Package bus implements the NES system bus: address decode, the
// cycle-asymmetric CPU/PPU tick coupling, OAM DMA, and the NMI edge
// that drives the frame callback.
package bus

import (
	"nescore/internal/cartridge"
	"nescore/internal/cpu"
	"nescore/internal/input"
	"nescore/internal/memory"
	"nescore/internal/ppu"
)

// FrameCallback is invoked once per vblank-NMI edge, with a read-only
// view of the PPU and an exclusive reference to the controller so the
// host can pull a frame and pump input.
type FrameCallback func(ppu *ppu.PPU, input *input.InputState)

// Bus connects the CPU, PPU, and cartridge, and owns RAM and the
// controller. The CPU holds the bus exclusively; it is the only
// scheduler in the system.
type Bus struct {
	CPU    *cpu.CPU
	PPU    *ppu.PPU
	Memory *memory.Memory
	Input  *input.InputState

	cpuCycles  uint64
	frameCount uint64

	onFrame FrameCallback
}

// New creates a system bus with all components wired together but no
// cartridge loaded yet.
func New() *Bus {
	bus := &Bus{
		PPU:   ppu.New(),
		Input: input.NewInputState(),
	}

	bus.Memory = memory.New(bus.PPU, nil)
	bus.Memory.SetInputSystem(bus.Input)
	bus.Memory.SetDMACallback(bus.triggerOAMDMA)
	bus.CPU = cpu.New(bus.Memory)

	bus.Reset()
	return bus
}

// Reset resets all components to their initial state
func (b *Bus) Reset() {
	b.CPU.Reset()
	b.PPU.Reset()
	b.Input.Reset()

	b.cpuCycles = 0
	b.frameCount = 0
	b.PPU.SetFrameCount(0)
}

// SetFrameCallback installs the callback fired on the NMI edge.
func (b *Bus) SetFrameCallback(cb FrameCallback) {
	b.onFrame = cb
}

// LoadCartridge attaches a cartridge: wires its PRG window onto the CPU
// bus and builds the PPU's CHR/nametable memory with the cartridge's
// mirroring mode, then resets the CPU so PC comes from the reset vector.
func (b *Bus) LoadCartridge(cart memory.CartridgeInterface) {
	b.Memory.SetCartridge(cart)

	mirrorMode := memory.MirrorHorizontal
	if c, ok := cart.(*cartridge.Cartridge); ok {
		switch c.GetMirrorMode() {
		case cartridge.MirrorVertical:
			mirrorMode = memory.MirrorVertical
		case cartridge.MirrorSingleScreen0:
			mirrorMode = memory.MirrorSingleScreen0
		case cartridge.MirrorSingleScreen1:
			mirrorMode = memory.MirrorSingleScreen1
		case cartridge.MirrorFourScreen:
			mirrorMode = memory.MirrorFourScreen
		default:
			mirrorMode = memory.MirrorHorizontal
		}
	}

	b.PPU.SetMemory(memory.NewPPUMemory(cart, mirrorMode))
	b.CPU.Reset()
}

// Step executes one fetch-decode-execute iteration of the CPU loop: if
// an NMI is latched it is serviced first, otherwise one instruction
// runs; either way the cycles charged are ticked through to the PPU.
func (b *Bus) Step() {
	var cpuCycles uint64

	if b.PPU.NMIPending() {
		b.PPU.ConsumeNMI()
		cpuCycles = b.CPU.ServiceNMI()
	} else {
		cpuCycles = b.CPU.Step()
	}

	b.tick(cpuCycles)
}

// tick advances the bus's cumulative cycle counter and the PPU by
// cycles*3 dots -- the single coupling point between the CPU's cycle
// count and the PPU's dot clock. If the PPU's NMI-pending flag
// transitions from unset to set during this advance, the frame
// callback fires exactly once, regardless of how many dots were run.
func (b *Bus) tick(cpuCycles uint64) {
	nmiWasPending := b.PPU.NMIPending()

	dots := cpuCycles * 3
	for i := uint64(0); i < dots; i++ {
		b.PPU.Step()
	}

	b.cpuCycles += cpuCycles
	b.frameCount = b.PPU.GetFrameCount()

	if !nmiWasPending && b.PPU.NMIPending() && b.onFrame != nil {
		b.onFrame(b.PPU, b.Input)
	}
}

// triggerOAMDMA performs the OAM DMA transfer triggered by a write to
// $4014: an atomic 256-byte copy, not precise cycle-stealing.
func (b *Bus) triggerOAMDMA(sourcePage uint8) {
	b.Memory.PerformOAMDMA(sourcePage)
}

// Run runs the emulator for a specified number of frames
func (b *Bus) Run(frames int) {
	targetFrames := b.frameCount + uint64(frames)
	for b.frameCount < targetFrames {
		b.Step()
	}
}

// RunCycles runs the emulator for a specified number of CPU cycles
func (b *Bus) RunCycles(cycles uint64) {
	targetCycles := b.cpuCycles + cycles
	for b.cpuCycles < targetCycles {
		b.Step()
	}
}

// Frame executes one complete NTSC frame's worth of CPU cycles
// (29,781 CPU cycles, about 89,342 PPU dots / 3).
func (b *Bus) Frame() {
	targetCycles := b.cpuCycles + 29781
	for b.cpuCycles < targetCycles {
		b.Step()
	}
}

// GetFrameBuffer returns the current PPU frame buffer
func (b *Bus) GetFrameBuffer() []uint32 {
	frameBuffer := b.PPU.GetFrameBuffer()
	return frameBuffer[:]
}

// GetCycleCount returns the current CPU cycle count
func (b *Bus) GetCycleCount() uint64 {
	return b.cpuCycles
}

// GetFrameCount returns the current frame count
func (b *Bus) GetFrameCount() uint64 {
	return b.frameCount
}

// SetControllerButton sets the state of a controller-1 button.
func (b *Bus) SetControllerButton(button input.Button, pressed bool) {
	b.Input.Controller1.SetButtonPressed(button, pressed)
}

// controllerButtonOrder is the NES button order used by the array form of
// SetControllerButtons: A, B, Select, Start, Up, Down, Left, Right.
var controllerButtonOrder = [8]input.Button{
	input.ButtonA, input.ButtonB, input.ButtonSelect, input.ButtonStart,
	input.ButtonUp, input.ButtonDown, input.ButtonLeft, input.ButtonRight,
}

// SetControllerButtons sets all eight button states for a controller port
// at once. The core exposes a single controller port ($4017 reads fixed
// zero per the bus decode table), so only port 0 has any effect; other
// ports are accepted and ignored rather than rejected, since the host
// layer may be built to address more ports than the core emulates.
func (b *Bus) SetControllerButtons(controller int, buttons [8]bool) {
	if controller != 0 {
		return
	}
	for i, button := range controllerButtonOrder {
		b.Input.Controller1.SetButtonPressed(button, buttons[i])
	}
}

// GetInputState returns the input state for direct access
func (b *Bus) GetInputState() *input.InputState {
	return b.Input
}

// CPUState is a snapshot of CPU registers and flags, for save states and
// the step debugger.
type CPUState struct {
	PC      uint16
	A, X, Y uint8
	SP      uint8
	Cycles  uint64
	Flags   CPUFlags
}

// CPUFlags is a snapshot of the CPU status flags.
type CPUFlags struct {
	N, V, B, D, I, Z, C bool
}

// GetCPUState returns a snapshot of the current CPU registers and flags.
func (b *Bus) GetCPUState() CPUState {
	return CPUState{
		PC:     b.CPU.PC,
		A:      b.CPU.A,
		X:      b.CPU.X,
		Y:      b.CPU.Y,
		SP:     b.CPU.SP,
		Cycles: b.CPU.Cycles(),
		Flags: CPUFlags{
			N: b.CPU.N,
			V: b.CPU.V,
			B: b.CPU.B,
			D: b.CPU.D,
			I: b.CPU.I,
			Z: b.CPU.Z,
			C: b.CPU.C,
		},
	}
}

// SetCPUState restores CPU registers, flags, and cycle count from a
// previously captured snapshot.
func (b *Bus) SetCPUState(state CPUState) {
	b.CPU.PC = state.PC
	b.CPU.A = state.A
	b.CPU.X = state.X
	b.CPU.Y = state.Y
	b.CPU.SP = state.SP
	b.CPU.SetCycles(state.Cycles)
	b.CPU.N = state.Flags.N
	b.CPU.V = state.Flags.V
	b.CPU.B = state.Flags.B
	b.CPU.D = state.Flags.D
	b.CPU.I = state.Flags.I
	b.CPU.Z = state.Flags.Z
	b.CPU.C = state.Flags.C
}

// PPUState is a snapshot of PPU timing and rendering flags, for save
// states and the step debugger.
type PPUState struct {
	Scanline    int
	Cycle       int
	FrameCount  uint64
	VBlankFlag  bool
	RenderingOn bool
	NMIEnabled  bool
}

// GetPPUState returns a snapshot of the current PPU timing and rendering
// state.
func (b *Bus) GetPPUState() PPUState {
	return PPUState{
		Scanline:    b.PPU.GetScanline(),
		Cycle:       b.PPU.GetCycle(),
		FrameCount:  b.PPU.GetFrameCount(),
		VBlankFlag:  b.PPU.IsVBlank(),
		RenderingOn: b.PPU.IsRenderingEnabled(),
		NMIEnabled:  b.PPU.NMIEnabled(),
	}
}
