package cartridge

import (
	"bytes"
	"testing"
)

// TestFormatDetection exercises the Format()/MapperID()/HasBattery()
// accessors that rom_format_validation_test.go's own comments flagged as
// missing ("Current implementation doesn't expose NES 2.0 detection").
func TestFormatDetection(t *testing.T) {
	tests := []struct {
		name       string
		flags7     uint8
		wantFormat Format
	}{
		{"plain iNES", 0x00, FormatINES},
		{"NES 2.0 identifier bits", 0x08, FormatNES20},
		{"legacy high bit, not NES 2.0", 0x04, FormatINES},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			header := createValidINESHeader(1, 1, 0, 0, tt.flags7)
			rom := append(append([]byte{}, header...), make([]byte, 16384+8192)...)

			cart, err := LoadFromReader(bytes.NewReader(rom))
			if err != nil {
				t.Fatalf("LoadFromReader: %v", err)
			}
			if got := cart.Format(); got != tt.wantFormat {
				t.Errorf("Format() = %v, want %v", got, tt.wantFormat)
			}
		})
	}
}

func TestMapperIDAndBatteryAccessors(t *testing.T) {
	header := createValidINESHeader(1, 1, 0, 0x02, 0x00)
	rom := append(append([]byte{}, header...), make([]byte, 16384+8192)...)

	cart, err := LoadFromReader(bytes.NewReader(rom))
	if err != nil {
		t.Fatalf("LoadFromReader: %v", err)
	}
	if cart.MapperID() != 0 {
		t.Errorf("MapperID() = %d, want 0", cart.MapperID())
	}
	if !cart.HasBattery() {
		t.Error("HasBattery() = false, want true")
	}

	mapper, ok := cart.mapper.(*Mapper000)
	if !ok {
		t.Fatalf("expected *Mapper000, got %T", cart.mapper)
	}
	if mapper.PRGBanks() != 1 {
		t.Errorf("PRGBanks() = %d, want 1", mapper.PRGBanks())
	}
}
