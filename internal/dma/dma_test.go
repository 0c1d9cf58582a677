package dma

import "testing"

// TestOAMDMA checks a pattern 0..159 at 0xC000..0xC09F copies verbatim
// into OAM after 160 ticks.
func TestOAMDMA(t *testing.T) {
	src := make([]byte, 0x100)
	for i := range src {
		src[i] = byte(i)
	}
	var oam [160]byte

	c := NewController()
	c.ReadBus = func(addr uint16) uint8 { return src[addr-0xC000] }
	c.WriteOAM = func(index uint8, value uint8) { oam[index] = value }

	c.Start(0xC0)
	for i := 0; i < 160; i++ {
		c.Tick()
	}

	for i := 0; i < 160; i++ {
		if oam[i] != byte(i) {
			t.Fatalf("OAM[%d] = %d, want %d", i, oam[i], i)
		}
	}
	if c.Active() {
		t.Errorf("DMA should be inactive after 160 ticks")
	}
}

func TestDMA_InactiveUntilStarted(t *testing.T) {
	c := NewController()
	if c.Active() {
		t.Fatalf("new controller should be inactive")
	}
}

func TestDMA_RegisterReadback(t *testing.T) {
	c := NewController()
	c.ReadBus = func(uint16) uint8 { return 0 }
	c.WriteOAM = func(uint8, uint8) {}
	c.Start(0x42)
	if got := c.Register(); got != 0x42 {
		t.Errorf("Register() = %#x, want 0x42", got)
	}
}
