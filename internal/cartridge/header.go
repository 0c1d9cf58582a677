package cartridge

import (
	"fmt"
	"strings"
)

// Type is the cartridge-type byte at 0x0147.
type Type uint8

const (
	TypeROM              Type = 0x00
	TypeMBC1             Type = 0x01
	TypeMBC1RAM          Type = 0x02
	TypeMBC1RAMBatt      Type = 0x03
	TypeMBC3TimerBatt    Type = 0x0F
	TypeMBC3TimerRAMBatt Type = 0x10
	TypeMBC3             Type = 0x11
	TypeMBC3RAM          Type = 0x12
	TypeMBC3RAMBatt      Type = 0x13
)

// String returns the cartridge type's canonical name, for diagnostics
// only; it never influences banking behaviour.
func (t Type) String() string {
	switch t {
	case TypeROM:
		return "ROM"
	case TypeMBC1:
		return "MBC1"
	case TypeMBC1RAM:
		return "MBC1+RAM"
	case TypeMBC1RAMBatt:
		return "MBC1+RAM+BATTERY"
	case TypeMBC3TimerBatt:
		return "MBC3+TIMER+BATTERY"
	case TypeMBC3TimerRAMBatt:
		return "MBC3+TIMER+RAM+BATTERY"
	case TypeMBC3:
		return "MBC3"
	case TypeMBC3RAM:
		return "MBC3+RAM"
	case TypeMBC3RAMBatt:
		return "MBC3+RAM+BATTERY"
	default:
		return fmt.Sprintf("UNKNOWN(0x%02X)", uint8(t))
	}
}

// ramBankCounts maps the RAM-size code at 0x0149 to a bank count:
// code 0x00/0x02/0x03/0x04/0x05 -> 0/1/4/16/8 banks.
var ramBankCounts = map[uint8]int{
	0x00: 0,
	0x02: 1,
	0x03: 4,
	0x04: 16,
	0x05: 8,
}

const ramBankSize = 0x2000

// nintendoLogo is the reference copy of the boot logo at 0x0104..0x0133,
// used only to report LogoMatch; it never gates a successful load.
var nintendoLogo = [48]byte{
	0xCE, 0xED, 0x66, 0x66, 0xCC, 0x0D, 0x00, 0x0B,
	0x03, 0x73, 0x00, 0x83, 0x00, 0x0C, 0x00, 0x0D,
	0x00, 0x08, 0x11, 0x1F, 0x88, 0x89, 0x00, 0x0E,
	0xDC, 0xCC, 0x6E, 0xE6, 0xDD, 0xDD, 0xD9, 0x99,
	0xBB, 0xBB, 0x67, 0x63, 0x6E, 0x0E, 0xEC, 0xCC,
	0xDD, 0xDC, 0x99, 0x9F, 0xBB, 0xB9, 0x33, 0x3E,
}

// Header is the parsed 0x0000-0x014F cartridge header.
type Header struct {
	Title          string
	CGBFlag        uint8
	Type           Type
	ROMBankCount   int
	RAMBankCount   int
	HeaderChecksum uint8
	ChecksumOK     bool
	LogoMatch      bool
}

// LoadError is returned by ParseHeader and New when a ROM image cannot
// be turned into a working Cartridge.
type LoadError struct {
	Kind string
	Msg  string
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("cartridge: %s: %s", e.Kind, e.Msg)
}

func newLoadError(kind, format string, args ...interface{}) *LoadError {
	return &LoadError{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// romBankCount maps the ROM-size code at 0x0148 (0x00..0x08) to a bank
// count: 2, 4, 8, 16, 32, 64, 128, 256, 512.
func romBankCount(code uint8) (int, bool) {
	if code > 0x08 {
		return 0, false
	}
	return 2 << code, true
}

// ParseHeader parses the header embedded in rom, which must be at least
// 0x150 bytes long.
func ParseHeader(rom []byte) (Header, error) {
	if len(rom) < 0x150 {
		return Header{}, newLoadError("invalid-header", "ROM too short (%d bytes)", len(rom))
	}

	h := Header{}
	h.Title = parseTitle(rom[0x134:0x143])
	h.CGBFlag = rom[0x143]
	h.Type = Type(rom[0x147])

	romCode := rom[0x148]
	romBanks, ok := romBankCount(romCode)
	if !ok {
		return Header{}, newLoadError("invalid-rom-size", "ROM size code 0x%02X out of range", romCode)
	}
	h.ROMBankCount = romBanks

	ramCode := rom[0x149]
	ramBanks, ok := ramBankCounts[ramCode]
	if !ok {
		return Header{}, newLoadError("invalid-ram-size", "RAM size code 0x%02X not recognised", ramCode)
	}
	h.RAMBankCount = ramBanks

	h.HeaderChecksum = rom[0x14D]
	h.ChecksumOK = computeHeaderChecksum(rom) == h.HeaderChecksum
	h.LogoMatch = logoMatches(rom)

	if !supportedType(h.Type) {
		return Header{}, newLoadError("unsupported-type", "cartridge type %s is not supported", h.Type)
	}

	return h, nil
}

func parseTitle(raw []byte) string {
	if i := indexByte(raw, 0); i >= 0 {
		raw = raw[:i]
	}
	return strings.TrimRight(string(raw), " \x00")
}

func indexByte(b []byte, c byte) int {
	for i, v := range b {
		if v == c {
			return i
		}
	}
	return -1
}

func logoMatches(rom []byte) bool {
	for i, b := range nintendoLogo {
		if rom[0x104+i] != b {
			return false
		}
	}
	return true
}

// computeHeaderChecksum implements the official header checksum:
// c <- 0; for addr in 0x134..=0x14C: c <- c - rom[addr] - 1 (mod 256).
func computeHeaderChecksum(rom []byte) uint8 {
	var c uint8
	for addr := 0x134; addr <= 0x14C; addr++ {
		c = c - rom[addr] - 1
	}
	return c
}

func supportedType(t Type) bool {
	switch t {
	case TypeROM, TypeMBC1, TypeMBC1RAM, TypeMBC1RAMBatt,
		TypeMBC3, TypeMBC3RAM, TypeMBC3RAMBatt, TypeMBC3TimerBatt, TypeMBC3TimerRAMBatt:
		return true
	default:
		return false
	}
}

// RAMSizeBytes is the cartridge's external RAM size implied by the
// header, used by the host to size a save file.
func (h Header) RAMSizeBytes() int {
	return h.RAMBankCount * ramBankSize
}
