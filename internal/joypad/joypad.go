// Package joypad implements the P1 joypad register: two host-writable
// SELECT lines gating the button and d-pad nibbles, active-low.
package joypad

import "github.com/thelolagemann/gbcore/internal/interrupts"

// Button identifies one physical button as a bit in the pressed-state
// mask: buttons in the low nibble, d-pad lines in the high nibble.
type Button = uint8

const (
	ButtonA      Button = 0x01
	ButtonB      Button = 0x02
	ButtonSelect Button = 0x04
	ButtonStart  Button = 0x08
	ButtonRight  Button = 0x10
	ButtonLeft   Button = 0x20
	ButtonUp     Button = 0x40
	ButtonDown   Button = 0x80
)

// State is the joypad: the host-writable SELECT bits plus the current
// pressed/released state of all eight buttons.
type State struct {
	irq *interrupts.Service

	selectBits uint8 // P1 bits 5,4 as last written by the CPU
	buttons    uint8 // pressed mask, Button bits
}

// New returns a joypad with no buttons pressed and both select lines
// inactive (bits 5,4 = 1).
func New(irq *interrupts.Service) *State {
	return &State{irq: irq, selectBits: 0x30}
}

// Read returns the P1 register as the CPU observes it: bits 7,6 always
// set, bits 5,4 the last-written select state, bits 3..0 the
// active-low state of whichever button group(s) are selected. When both
// groups are selected the two inverted nibbles are AND-ed together,
// implementing the hardware wired-OR.
func (s *State) Read() uint8 {
	selectButtons := s.selectBits&0x20 == 0
	selectDpad := s.selectBits&0x10 == 0

	nibble := uint8(0x0F)
	if selectButtons {
		nibble &= ^(s.buttons & 0x0F)
	}
	if selectDpad {
		nibble &= ^(s.buttons >> 4)
	}

	return 0xC0 | s.selectBits | (nibble & 0x0F)
}

// Write updates the SELECT bits (P1 bits 5,4); the low nibble is
// read-only from the CPU's perspective.
func (s *State) Write(value uint8) {
	s.selectBits = value & 0x30
}

// Press marks button as held down, requesting the Joypad interrupt on
// the falling edge of its line if the relevant group is selected.
func (s *State) Press(button Button) {
	wasPressed := s.buttons&button != 0
	s.buttons |= button

	if wasPressed {
		return
	}
	if s.lineSelected(button) {
		s.irq.Request(interrupts.JoypadFlag)
	}
}

// Release marks button as no longer held.
func (s *State) Release(button Button) {
	s.buttons &^= button
}

func (s *State) lineSelected(button Button) bool {
	if button <= ButtonStart {
		return s.selectBits&0x20 == 0
	}
	return s.selectBits&0x10 == 0
}
