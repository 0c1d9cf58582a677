package cartridge

import "testing"

// newBankedROM builds a ROM of banks 0x4000-byte banks, each bank's
// first byte set to its own bank number so reads identify the selected
// bank.
func newBankedROM(banks int) []byte {
	rom := make([]byte, banks*0x4000)
	for b := 0; b < banks; b++ {
		rom[b*0x4000] = byte(b)
	}
	return rom
}

func TestMBC1_ZeroBankTreatedAsOne(t *testing.T) {
	m := newMBC1(newBankedROM(128), nil)

	m.Write(0x2000, 0x00)
	if got := m.Read(0x4000); got != 1 {
		t.Errorf("after write(0x2000,0x00): Read(0x4000) = %#x, want 1", got)
	}
}

func TestMBC1_ROMSwitching(t *testing.T) {
	m := newMBC1(newBankedROM(128), nil)

	m.Write(0x2000, 0x25)
	if got := m.Read(0x4000); got != 0x25 {
		t.Errorf("Read(0x4000) = %#x, want 0x25", got)
	}

	m.Write(0x6000, 1) // RAM-banking mode
	m.Write(0x4000, 0x02)
	got := m.Read(0x4000)
	if got < 0x20 || got > 0x3F {
		t.Errorf("Read(0x4000) = %#x, want bank in [0x20,0x3F]", got)
	}

	m.Write(0x2000, 0x00)
	if got := m.Read(0x4000); got != 1 {
		t.Errorf("after write(0x2000,0x00): Read(0x4000) = %#x, want 1", got)
	}
}

func TestMBC1_RAMBankingModeDropsUpperBitsFromROMWindow(t *testing.T) {
	m := newMBC1(newBankedROM(128), nil)

	m.Write(0x2000, 0x05)
	m.Write(0x4000, 0x03) // upper2, only matters in RAM mode
	// still ROM-banking mode: upper2 contributes to the 4000-7FFF bank.
	if got := m.Read(0x4000); got != (3<<5 | 5) {
		t.Fatalf("Read(0x4000) = %#x, want %#x", got, (3<<5 | 5))
	}

	m.Write(0x6000, 1) // switch to RAM-banking mode
	if got := m.Read(0x4000); got != 0x05 {
		t.Errorf("after mode switch: Read(0x4000) = %#x, want 0x05 (upper bits no longer apply)", got)
	}
}

func TestMBC1_RAMDisabledByDefault(t *testing.T) {
	ram := make([]byte, ramBankSize)
	m := newMBC1(newBankedROM(4), ram)

	m.Write(0xA000, 0x42)
	if got := m.Read(0xA000); got != 0 {
		t.Errorf("RAM read before enable = %#x, want 0 (disabled)", got)
	}

	m.Write(0x0000, 0x0A) // enable RAM
	m.Write(0xA000, 0x42)
	if got := m.Read(0xA000); got != 0x42 {
		t.Errorf("RAM read after enable = %#x, want 0x42", got)
	}
}
