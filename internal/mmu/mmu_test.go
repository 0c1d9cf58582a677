package mmu

import (
	"testing"

	"github.com/thelolagemann/gbcore/internal/cartridge"
	"github.com/thelolagemann/gbcore/internal/dma"
	"github.com/thelolagemann/gbcore/internal/interrupts"
	"github.com/thelolagemann/gbcore/internal/joypad"
	"github.com/thelolagemann/gbcore/internal/ppu"
	"github.com/thelolagemann/gbcore/internal/timer"
)

func newTestBus(t *testing.T) *Bus {
	t.Helper()
	rom := make([]byte, 0x8000)
	rom[0x147] = 0x00 // ROM ONLY
	rom[0x148] = 0x00 // 32KiB
	rom[0x149] = 0x00 // no RAM
	copy(rom[0x104:0x134], nintendoLogo(t))

	cart, err := cartridge.New(rom)
	if err != nil {
		t.Fatalf("cartridge.New: %v", err)
	}

	irq := interrupts.NewService()
	return New(cart, ppu.New(irq), irq, timer.NewController(irq), joypad.New(irq), dma.NewController())
}

// nintendoLogo returns the fixed 48-byte boot logo the header's logo
// comparison expects to see at 0x104..0x133.
func nintendoLogo(t *testing.T) []byte {
	t.Helper()
	return []byte{
		0xCE, 0xED, 0x66, 0x66, 0xCC, 0x0D, 0x00, 0x0B, 0x03, 0x73, 0x00, 0x83, 0x00, 0x0C, 0x00, 0x0D,
		0x00, 0x08, 0x11, 0x1F, 0x88, 0x89, 0x00, 0x0E, 0xDC, 0xCC, 0x6E, 0xE6, 0xDD, 0xDD, 0xD9, 0x99,
		0xBB, 0xBB, 0x67, 0x63, 0x6E, 0x0E, 0xEC, 0xCC, 0xDD, 0xDC, 0x99, 0x9F, 0xBB, 0xB9, 0x33, 0x3E,
	}
}

func TestWRAMReadWrite(t *testing.T) {
	b := newTestBus(t)
	b.Write(0xC000, 0x42)
	if got := b.Read(0xC000); got != 0x42 {
		t.Errorf("Read(0xC000) = %#x, want 0x42", got)
	}
}

func TestEchoRAMMirrorsWRAM(t *testing.T) {
	b := newTestBus(t)
	b.Write(0xC005, 0x7A)
	if got := b.Read(0xE005); got != 0x7A {
		t.Errorf("echo RAM read = %#x, want 0x7A", got)
	}
}

func TestHRAMReadWrite(t *testing.T) {
	b := newTestBus(t)
	b.Write(0xFF80, 0x11)
	b.Write(0xFFFE, 0x22)
	if got := b.Read(0xFF80); got != 0x11 {
		t.Errorf("Read(0xFF80) = %#x, want 0x11", got)
	}
	if got := b.Read(0xFFFE); got != 0x22 {
		t.Errorf("Read(0xFFFE) = %#x, want 0x22", got)
	}
}

func TestInterruptEnableRegister(t *testing.T) {
	b := newTestBus(t)
	b.Write(0xFFFF, 0x1F)
	if got := b.Read(0xFFFF); got != 0x1F {
		t.Errorf("Read(0xFFFF) = %#x, want 0x1F", got)
	}
	if b.IRQ.Enable != 0x1F {
		t.Errorf("IRQ.Enable = %#x, want 0x1F", b.IRQ.Enable)
	}
}

func TestDIVWriteResetsThroughBus(t *testing.T) {
	b := newTestBus(t)
	for i := 0; i < 64; i++ {
		b.Timer.Tick()
	}
	if b.Read(0xFF04) == 0 {
		t.Fatalf("DIV should have incremented")
	}
	b.Write(0xFF04, 0xFF) // any value zeroes DIV
	if got := b.Read(0xFF04); got != 0 {
		t.Errorf("DIV after write = %#x, want 0", got)
	}
}

func TestDMATriggerViaBus(t *testing.T) {
	b := newTestBus(t)
	for i := 0; i < 0xA0; i++ {
		b.Write(0xC000+uint16(i), byte(i))
	}
	b.Write(0xFF46, 0xC0)
	for i := 0; i < 160; i++ {
		b.DMA.Tick()
	}
	for i := 0; i < 0xA0; i++ {
		if got := b.Read(0xFE00 + uint16(i)); got != byte(i) {
			t.Fatalf("OAM[%d] = %#x, want %#x", i, got, i)
		}
	}
}

func TestUnusableRegionReadsZero(t *testing.T) {
	b := newTestBus(t)
	if got := b.Read(0xFEA0); got != 0x00 {
		t.Errorf("Read(0xFEA0) = %#x, want 0x00", got)
	}
}

// TestStrictModeKeepsPermissiveBehaviour checks strict mode only adds
// reporting: echo RAM still mirrors and the unusable region still reads
// zero.
func TestStrictModeKeepsPermissiveBehaviour(t *testing.T) {
	b := newTestBus(t)
	b.Strict = true

	b.Write(0xE010, 0x5A)
	if got := b.Read(0xC010); got != 0x5A {
		t.Errorf("echo RAM write in strict mode: WRAM = %#x, want 0x5A", got)
	}
	if got := b.Read(0xFEA5); got != 0x00 {
		t.Errorf("unusable read in strict mode = %#x, want 0x00", got)
	}
}

func TestUnmappedIORegisterReadsBackLastWrite(t *testing.T) {
	b := newTestBus(t)
	if got := b.Read(0xFF4D); got != 0x00 {
		t.Errorf("Read(0xFF4D) before any write = %#x, want 0x00", got)
	}
	b.Write(0xFF4D, 0x7E)
	if got := b.Read(0xFF4D); got != 0x7E {
		t.Errorf("Read(0xFF4D) = %#x, want 0x7E", got)
	}
}

func TestSerialTransmitLogsSB(t *testing.T) {
	b := newTestBus(t)
	b.Write(0xFF01, 0x41) // 'A'
	b.Write(0xFF02, 0x81) // start transmit, internal clock
	if got := b.Read(0xFF01); got != 0x41 {
		t.Errorf("Read(SB) = %#x, want 0x41", got)
	}
	if got := b.SerialOutput(); got != "A" {
		t.Errorf("SerialOutput() = %q, want %q", got, "A")
	}
}
