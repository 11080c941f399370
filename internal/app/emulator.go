// Package app provides emulator integration for the main application.
package app

import (
	"fmt"
	"time"

	"nescore/internal/bus"
)

// Emulator drives the bus at a fixed NTSC frame rate: 29,781 CPU cycles
// per frame, called once per host-loop tick by the graphics backend.
type Emulator struct {
	bus    *bus.Bus
	config *Config

	cyclesPerFrame uint64

	frameBuffer []uint32

	emulationTime    time.Duration
	actualFrameTime  time.Duration
	averageFrameTime time.Duration
	cycleCount       uint64
	frameCount       uint64

	isRunning     bool
	lastResetTime time.Time
}

// NewEmulator creates a new emulator instance with fixed timing for accuracy.
func NewEmulator(bus *bus.Bus, config *Config) *Emulator {
	emulator := &Emulator{
		bus:            bus,
		config:         config,
		cyclesPerFrame: 29781,
		frameBuffer:    make([]uint32, 256*240),
		lastResetTime:  time.Now(),
	}
	emulator.Reset()
	return emulator
}

// Reset clears timing state and the frame buffer.
func (e *Emulator) Reset() {
	e.frameCount = 0
	e.cycleCount = 0
	e.emulationTime = 0
	e.averageFrameTime = 0
	e.lastResetTime = time.Now()

	for i := range e.frameBuffer {
		e.frameBuffer[i] = 0
	}
}

// Start starts the emulator.
func (e *Emulator) Start() {
	e.isRunning = true
}

// Stop stops the emulator.
func (e *Emulator) Stop() {
	e.isRunning = false
}

// Update runs exactly one frame of emulation, called once per host tick.
func (e *Emulator) Update() error {
	if !e.isRunning {
		return nil
	}

	frameStart := time.Now()
	if err := e.StepFrame(); err != nil {
		return fmt.Errorf("frame execution error: %v", err)
	}
	e.actualFrameTime = time.Since(frameStart)

	if e.averageFrameTime == 0 {
		e.averageFrameTime = e.actualFrameTime
	} else {
		e.averageFrameTime = time.Duration(
			float64(e.averageFrameTime)*0.95 + float64(e.actualFrameTime)*0.05,
		)
	}

	return nil
}

// StepFrame executes exactly one frame (cyclesPerFrame CPU cycles) of emulation.
func (e *Emulator) StepFrame() error {
	if e.bus == nil {
		return fmt.Errorf("bus not initialized")
	}

	start := time.Now()

	startCycles := e.bus.GetCycleCount()
	targetCycles := startCycles + e.cyclesPerFrame
	for e.bus.GetCycleCount() < targetCycles {
		e.bus.Step()
	}
	e.frameCount++

	nesFrameBuffer := e.bus.GetFrameBuffer()
	if len(nesFrameBuffer) == len(e.frameBuffer) {
		copy(e.frameBuffer, nesFrameBuffer)
	}

	e.emulationTime = time.Since(start)
	e.cycleCount = e.bus.GetCycleCount()

	return nil
}

// StepInstruction executes one CPU instruction (or NMI service).
func (e *Emulator) StepInstruction() error {
	if e.bus == nil {
		return fmt.Errorf("bus not initialized")
	}
	e.bus.Step()
	e.cycleCount = e.bus.GetCycleCount()
	return nil
}

// GetFrameBuffer returns the current frame buffer.
func (e *Emulator) GetFrameBuffer() []uint32 {
	return e.frameBuffer
}

// IsRunning returns whether the emulator is running.
func (e *Emulator) IsRunning() bool {
	return e.isRunning
}

// GetFrameCount returns the current frame count.
func (e *Emulator) GetFrameCount() uint64 {
	return e.frameCount
}

// GetCycleCount returns the current CPU cycle count.
func (e *Emulator) GetCycleCount() uint64 {
	return e.cycleCount
}

// GetEmulationTime returns the time spent in emulation for the last frame.
func (e *Emulator) GetEmulationTime() time.Duration {
	return e.emulationTime
}

// GetActualFrameTime returns the actual frame time including rendering.
func (e *Emulator) GetActualFrameTime() time.Duration {
	return e.actualFrameTime
}

// GetAverageFrameTime returns the average frame time.
func (e *Emulator) GetAverageFrameTime() time.Duration {
	return e.averageFrameTime
}

// GetUptime returns the emulator uptime since last reset.
func (e *Emulator) GetUptime() time.Duration {
	return time.Since(e.lastResetTime)
}

// Cleanup releases emulator resources.
func (e *Emulator) Cleanup() error {
	e.Stop()
	e.frameBuffer = nil
	return nil
}
