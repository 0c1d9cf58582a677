package cpu

import "testing"

// TestAddWithCarry3 checks the carry/half-carry boundaries of the
// three-operand add.
func TestAddWithCarry3(t *testing.T) {
	cases := []struct {
		a, b, c    uint8
		val        uint8
		half, carry bool
	}{
		{0xFF, 0x01, 0, 0x00, true, true},
		{0xFF, 0x00, 1, 0x00, true, true},
	}
	for _, tc := range cases {
		got := addWithCarry3(tc.a, tc.b, tc.c)
		if got.val != tc.val || got.half != tc.half || got.carry != tc.carry {
			t.Errorf("addWithCarry3(%#x,%#x,%#x) = %+v, want val=%#x half=%v carry=%v",
				tc.a, tc.b, tc.c, got, tc.val, tc.half, tc.carry)
		}
	}
}

// TestSubWithCarry3 checks the borrow boundaries of the three-operand
// subtract.
func TestSubWithCarry3(t *testing.T) {
	got := subWithCarry3(0x00, 0x01, 0)
	if got.val != 0xFF || !got.half || !got.carry {
		t.Errorf("subWithCarry3(0,1,0) = %+v, want val=0xFF half=true carry=true", got)
	}
}

// TestAddSPSigned8 checks H and C come from the low-byte add only.
func TestAddSPSigned8(t *testing.T) {
	cases := []struct {
		sp   uint16
		e    int8
		sum  uint16
		half, carry bool
	}{
		{0x0FFF, 1, 0x1000, true, true},
		{0xFFFF, 1, 0x0000, true, true},
	}
	for _, tc := range cases {
		sum, half, carry := addSPSigned8(tc.sp, tc.e)
		if sum != tc.sum || half != tc.half || carry != tc.carry {
			t.Errorf("addSPSigned8(%#x,%d) = (%#x,%v,%v), want (%#x,%v,%v)",
				tc.sp, tc.e, sum, half, carry, tc.sum, tc.half, tc.carry)
		}
	}
}

func TestAddHL16_FlagsFromBit11AndBit15(t *testing.T) {
	sum, half, carry := addHL16(0x0FFF, 0x0001)
	if sum != 0x1000 || !half || carry {
		t.Errorf("addHL16(0x0FFF,1) = (%#x,%v,%v), want (0x1000,true,false)", sum, half, carry)
	}
	sum, half, carry = addHL16(0xFFFF, 0x0001)
	if sum != 0x0000 || !half || !carry {
		t.Errorf("addHL16(0xFFFF,1) = (%#x,%v,%v), want (0x0000,true,true)", sum, half, carry)
	}
}
