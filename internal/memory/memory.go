// Package memory implements the NES address-decode bus and PPU memory space.
package memory

import "log"

// Memory implements the 16-bit CPU address space: work RAM, PPU register
// mirroring, controller ports, and the cartridge PRG window. It is a total
// function over uint16 -- every address decodes to exactly one behavior.
type Memory struct {
	ram [0x800]uint8 // 2KB work RAM, mirrored across 0x0000-0x1FFF

	ppuRegisters PPUInterface
	inputSystem  InputInterface
	cartridge    CartridgeInterface

	dmaCallback func(uint8)
}

// PPUMemory represents the PPU's own memory space (pattern tables via the
// cartridge, nametables, and palette RAM), as distinct from the CPU's view.
type PPUMemory struct {
	vram       [0x1000]uint8 // 4KB VRAM (nametables)
	paletteRAM [32]uint8
	cartridge  CartridgeInterface
	mirroring  MirrorMode
}

// MirrorMode represents nametable mirroring mode
type MirrorMode uint8

const (
	MirrorHorizontal MirrorMode = iota
	MirrorVertical
	MirrorSingleScreen0
	MirrorSingleScreen1
	MirrorFourScreen
)

// PPUInterface defines the interface for PPU register access
type PPUInterface interface {
	ReadRegister(address uint16) uint8
	WriteRegister(address uint16, value uint8)
}

// InputInterface defines the interface for controller access
type InputInterface interface {
	Read(address uint16) uint8
	Write(address uint16, value uint8)
}

// CartridgeInterface defines the interface for cartridge access
type CartridgeInterface interface {
	ReadPRG(address uint16) uint8
	WritePRG(address uint16, value uint8)
	ReadCHR(address uint16) uint8
	WriteCHR(address uint16, value uint8)
}

// New creates a new Memory instance bound to a PPU and (optionally) a
// cartridge, which may be attached later via SetCartridge.
func New(ppu PPUInterface, cart CartridgeInterface) *Memory {
	return &Memory{
		ppuRegisters: ppu,
		cartridge:    cart,
	}
}

// SetCartridge attaches the cartridge's PRG window to the bus.
func (m *Memory) SetCartridge(cart CartridgeInterface) {
	m.cartridge = cart
}

// SetInputSystem sets the input system for controller access
func (m *Memory) SetInputSystem(input InputInterface) {
	m.inputSystem = input
}

// SetDMACallback sets the callback invoked on a write to $4014 (OAM DMA).
func (m *Memory) SetDMACallback(callback func(uint8)) {
	m.dmaCallback = callback
}

// Read reads a byte from the given address, per the bus decode table.
func (m *Memory) Read(address uint16) uint8 {
	switch {
	case address < 0x2000:
		return m.ram[address&0x07FF]

	case address < 0x4000:
		return m.ppuRegisters.ReadRegister(0x2000 + (address & 0x0007))

	case address == 0x4016:
		if m.inputSystem != nil {
			return m.inputSystem.Read(address)
		}
		return 0

	case address == 0x4017:
		// Controller 2 is out of scope; the port reads back zero.
		return 0

	case address < 0x4020:
		// Remaining APU/IO registers are out of scope; reads return 0.
		return 0

	case address < 0x8000:
		// Open bus: no mapper backs $4020-$7FFF for mapper 0.
		log.Printf("memory: stray read at $%04X (open bus)", address)
		return 0

	default:
		// PRG-ROM ($8000-$FFFF)
		return m.cartridge.ReadPRG(address)
	}
}

// Write writes a byte to the given address, per the bus decode table.
func (m *Memory) Write(address uint16, value uint8) {
	switch {
	case address < 0x2000:
		m.ram[address&0x07FF] = value

	case address < 0x4000:
		m.ppuRegisters.WriteRegister(0x2000+(address&0x0007), value)

	case address == 0x4014:
		if m.dmaCallback != nil {
			m.dmaCallback(value)
		}

	case address == 0x4016:
		if m.inputSystem != nil {
			m.inputSystem.Write(address, value)
		}

	case address < 0x4020:
		// Remaining APU/IO registers are out of scope; writes are ignored.

	case address < 0x8000:
		log.Printf("memory: stray write at $%04X = $%02X (open bus)", address, value)

	default:
		// PRG-ROM is read-only for mapper 0; a write here is a logic
		// error in the emulated program or the emulator itself.
		panic("memory: illegal write to PRG-ROM space")
	}
}

// DumpRAM returns a copy of the 2KB work-RAM region, for save-state
// serialization.
func (m *Memory) DumpRAM() []uint8 {
	out := make([]uint8, len(m.ram))
	copy(out, m.ram[:])
	return out
}

// LoadRAM restores the work-RAM region from a previously dumped copy.
// Shorter inputs leave the remainder untouched; longer inputs are truncated.
func (m *Memory) LoadRAM(data []uint8) {
	copy(m.ram[:], data)
}

// PerformOAMDMA copies 256 bytes starting at page<<8 into OAM via normal
// bus reads, so DMA can source from RAM or ROM alike. Modeled as an
// atomic copy rather than precise cycle-stealing.
func (m *Memory) PerformOAMDMA(page uint8) {
	base := uint16(page) << 8
	for i := uint16(0); i < 256; i++ {
		m.ppuRegisters.WriteRegister(0x2004, m.Read(base+i))
	}
}

// NewPPUMemory creates a new PPU memory instance
func NewPPUMemory(cart CartridgeInterface, mirroring MirrorMode) *PPUMemory {
	mem := &PPUMemory{
		cartridge: cart,
		mirroring: mirroring,
	}

	// Background color positions default to black (0x0F).
	for i := 0; i < 32; i += 4 {
		mem.paletteRAM[i] = 0x0F
	}

	return mem
}

// Read reads from PPU memory space ($0000-$3FFF)
func (pm *PPUMemory) Read(address uint16) uint8 {
	address &= 0x3FFF

	switch {
	case address < 0x2000:
		return pm.cartridge.ReadCHR(address)
	case address < 0x3000:
		return pm.readNametable(address)
	case address < 0x3F00:
		return pm.readNametable(address - 0x1000)
	default:
		return pm.readPalette(address)
	}
}

// Write writes to PPU memory space ($0000-$3FFF)
func (pm *PPUMemory) Write(address uint16, value uint8) {
	address &= 0x3FFF

	switch {
	case address < 0x2000:
		pm.cartridge.WriteCHR(address, value)
	case address < 0x3000:
		pm.writeNametable(address, value)
	case address < 0x3F00:
		pm.writeNametable(address-0x1000, value)
	default:
		pm.writePalette(address, value)
	}
}

func (pm *PPUMemory) readNametable(address uint16) uint8 {
	return pm.vram[pm.getNametableIndex(address)]
}

func (pm *PPUMemory) writeNametable(address uint16, value uint8) {
	pm.vram[pm.getNametableIndex(address)] = value
}

// getNametableIndex calculates the actual VRAM index based on mirroring mode
func (pm *PPUMemory) getNametableIndex(address uint16) uint16 {
	address &= 0x0FFF
	nametable := (address >> 10) & 3
	offset := address & 0x3FF

	switch pm.mirroring {
	case MirrorHorizontal:
		if nametable >= 2 {
			return 0x400 + offset
		}
		return offset

	case MirrorVertical:
		if nametable == 1 || nametable == 3 {
			return 0x400 + offset
		}
		return offset

	case MirrorSingleScreen0:
		return offset

	case MirrorSingleScreen1:
		return 0x400 + offset

	case MirrorFourScreen:
		return uint16(nametable)*0x400 + offset

	default:
		return offset
	}
}

func (pm *PPUMemory) readPalette(address uint16) uint8 {
	index := (address - 0x3F00) & 0x1F
	if index == 0x10 || index == 0x14 || index == 0x18 || index == 0x1C {
		index &= 0x0F
	}
	return pm.paletteRAM[index]
}

func (pm *PPUMemory) writePalette(address uint16, value uint8) {
	index := (address - 0x3F00) & 0x1F
	if index == 0x10 || index == 0x14 || index == 0x18 || index == 0x1C {
		index &= 0x0F
	}
	pm.paletteRAM[index] = value
}

// DumpVRAM returns a copy of the 4KB nametable VRAM, for save-state
// serialization.
func (pm *PPUMemory) DumpVRAM() []uint8 {
	out := make([]uint8, len(pm.vram))
	copy(out, pm.vram[:])
	return out
}

// LoadVRAM restores nametable VRAM from a previously dumped copy.
func (pm *PPUMemory) LoadVRAM(data []uint8) {
	copy(pm.vram[:], data)
}

// DumpPalette returns a copy of the 32-byte palette RAM.
func (pm *PPUMemory) DumpPalette() []uint8 {
	out := make([]uint8, len(pm.paletteRAM))
	copy(out, pm.paletteRAM[:])
	return out
}

// LoadPalette restores palette RAM from a previously dumped copy.
func (pm *PPUMemory) LoadPalette(data []uint8) {
	copy(pm.paletteRAM[:], data)
}
