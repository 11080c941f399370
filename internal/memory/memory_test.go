package memory

import "testing"

// fakePPU is a minimal PPUInterface stand-in for bus decode tests.
type fakePPU struct {
	reads  map[uint16]uint8
	writes map[uint16]uint8
}

func newFakePPU() *fakePPU {
	return &fakePPU{reads: make(map[uint16]uint8), writes: make(map[uint16]uint8)}
}

func (p *fakePPU) ReadRegister(address uint16) uint8 {
	return p.reads[address]
}

func (p *fakePPU) WriteRegister(address uint16, value uint8) {
	p.writes[address] = value
}

type fakeCartridge struct {
	prg [0x8000]uint8
}

func (c *fakeCartridge) ReadPRG(address uint16) uint8    { return c.prg[address-0x8000] }
func (c *fakeCartridge) WritePRG(address uint16, value uint8) {}
func (c *fakeCartridge) ReadCHR(address uint16) uint8    { return 0 }
func (c *fakeCartridge) WriteCHR(address uint16, value uint8) {}

type fakeInput struct {
	lastRead  uint16
	lastWrite uint16
	lastValue uint8
	value     uint8
}

func (i *fakeInput) Read(address uint16) uint8 {
	i.lastRead = address
	return i.value
}

func (i *fakeInput) Write(address uint16, value uint8) {
	i.lastWrite = address
	i.lastValue = value
}

func TestRAMMirroring(t *testing.T) {
	m := New(newFakePPU(), &fakeCartridge{})
	m.Write(0x0010, 0x42)
	for _, mirror := range []uint16{0x0010, 0x0810, 0x1010, 0x1810} {
		if got := m.Read(mirror); got != 0x42 {
			t.Errorf("mirror $%04X = $%02X, want $42", mirror, got)
		}
	}
}

func TestRAMRoundTrip(t *testing.T) {
	m := New(newFakePPU(), &fakeCartridge{})
	for addr := uint16(0); addr < 0x0800; addr += 0x37 {
		m.Write(addr, uint8(addr))
		if got := m.Read(addr); got != uint8(addr) {
			t.Errorf("round trip at $%04X: got $%02X, want $%02X", addr, got, uint8(addr))
		}
	}
}

func TestPPURegisterMirroring(t *testing.T) {
	ppu := newFakePPU()
	m := New(ppu, &fakeCartridge{})
	m.Write(0x2000, 0x80)
	if ppu.writes[0x2000] != 0x80 {
		t.Fatalf("expected write to reach PPUCTRL")
	}
	ppu.reads[0x2002] = 0x80
	if got := m.Read(0x3FFA); got != 0x80 { // mirrors 0x2002
		t.Errorf("mirrored PPU read = $%02X, want $80", got)
	}
}

func TestControllerPorts(t *testing.T) {
	in := &fakeInput{value: 0x01}
	m := New(newFakePPU(), &fakeCartridge{})
	m.SetInputSystem(in)

	if got := m.Read(0x4016); got != 0x01 {
		t.Errorf("$4016 read = $%02X, want $01", got)
	}
	if got := m.Read(0x4017); got != 0 {
		t.Errorf("$4017 read = $%02X, want $00 (out of scope)", got)
	}

	m.Write(0x4016, 1)
	if in.lastWrite != 0x4016 || in.lastValue != 1 {
		t.Errorf("strobe write did not reach controller: addr=$%04X value=$%02X", in.lastWrite, in.lastValue)
	}
}

func TestOpenBusRegion(t *testing.T) {
	m := New(newFakePPU(), &fakeCartridge{})
	if got := m.Read(0x4020); got != 0 {
		t.Errorf("open bus read at $4020 = $%02X, want $00", got)
	}
	if got := m.Read(0x7FFF); got != 0 {
		t.Errorf("open bus read at $7FFF = $%02X, want $00", got)
	}
	// Writes to the open region must not panic.
	m.Write(0x5000, 0xFF)
}

func TestPRGROMWindow(t *testing.T) {
	cart := &fakeCartridge{}
	cart.prg[0] = 0xEA
	cart.prg[len(cart.prg)-1] = 0x60
	m := New(newFakePPU(), cart)

	if got := m.Read(0x8000); got != 0xEA {
		t.Errorf("PRG-ROM read at $8000 = $%02X, want $EA", got)
	}
	if got := m.Read(0xFFFF); got != 0x60 {
		t.Errorf("PRG-ROM read at $FFFF = $%02X, want $60", got)
	}
}

func TestPRGROMWritePanics(t *testing.T) {
	m := New(newFakePPU(), &fakeCartridge{})
	defer func() {
		if recover() == nil {
			t.Fatal("expected write to PRG-ROM space to panic")
		}
	}()
	m.Write(0x8000, 0x00)
}

func TestOAMDMA(t *testing.T) {
	ppu := newFakePPU()
	m := New(ppu, &fakeCartridge{})
	m.Write(0x0200, 0xAB)
	m.Write(0x02FF, 0xCD)

	var dmaFired uint8
	m.SetDMACallback(func(page uint8) {
		dmaFired = page
		m.PerformOAMDMA(page)
	})
	m.Write(0x4014, 0x02)

	if dmaFired != 0x02 {
		t.Fatalf("DMA callback not invoked with page 0x02")
	}
	if ppu.writes[0x2004] != 0xCD {
		t.Errorf("last OAM DMA byte written = $%02X, want $CD (last call wins)", ppu.writes[0x2004])
	}
}
