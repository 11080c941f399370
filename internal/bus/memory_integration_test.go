package bus

import (
	"testing"

	"nescore/internal/cartridge"
)

func buildTestCartridge(t *testing.T, code []uint8) *cartridge.Cartridge {
	t.Helper()
	cart, err := cartridge.NewTestROMBuilder().
		WithPRGSize(1).
		WithCHRSize(1).
		WithResetVector(0x8000).
		WithData(0x0000, code).
		BuildCartridge()
	if err != nil {
		t.Fatalf("failed to build test cartridge: %v", err)
	}
	return cart
}

func TestBusCartridgeROMAccess(t *testing.T) {
	cart := buildTestCartridge(t, []uint8{
		0xA9, 0x42, // LDA #$42
		0x85, 0x10, // STA $10
	})

	b := New()
	b.LoadCartridge(cart)

	if got := b.Memory.Read(0x8000); got != 0xA9 {
		t.Errorf("first instruction = $%02X, want $A9", got)
	}
	if b.CPU.PC != 0x8000 {
		t.Errorf("PC after LoadCartridge = $%04X, want $8000 (reset vector)", b.CPU.PC)
	}
}

func TestBusRAMMirroringThroughBus(t *testing.T) {
	b := New()
	b.LoadCartridge(buildTestCartridge(t, []uint8{0xEA}))

	b.Memory.Write(0x0000, 0x99)
	for _, mirror := range []uint16{0x0800, 0x1000, 0x1800} {
		if got := b.Memory.Read(mirror); got != 0x99 {
			t.Errorf("RAM mirror $%04X = $%02X, want $99", mirror, got)
		}
	}
}

func TestBusOAMDMA(t *testing.T) {
	b := New()
	b.LoadCartridge(buildTestCartridge(t, []uint8{0xEA}))

	for i := 0; i < 256; i++ {
		b.Memory.Write(0x0200+uint16(i), uint8(i))
	}

	b.Memory.Write(0x4014, 0x02)

	b.PPU.WriteRegister(0x2003, 0x00)
	for i := 0; i < 256; i++ {
		if got := b.PPU.ReadRegister(0x2004); got != uint8(i) {
			t.Errorf("OAM[%d] = $%02X, want $%02X", i, got, uint8(i))
		}
	}
}

func TestBusCartridgeSwapping(t *testing.T) {
	b := New()
	b.LoadCartridge(buildTestCartridge(t, []uint8{0xA9, 0x01}))
	firstPC := b.CPU.PC

	b.LoadCartridge(buildTestCartridge(t, []uint8{0xA9, 0x02}))
	if b.CPU.PC != firstPC {
		t.Errorf("PC after swapping cartridge = $%04X, want $%04X (reset vector unchanged)", b.CPU.PC, firstPC)
	}
	if got := b.Memory.Read(0x8001); got != 0x02 {
		t.Errorf("second cartridge not wired: read $%02X, want $02", got)
	}
}
