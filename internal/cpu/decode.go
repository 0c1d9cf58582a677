package cpu

// Kind tags the family an Instruction belongs to, one per distinct
// semantic the executor implements. The decoder never touches the bus;
// it only classifies an opcode byte and exposes the raw bit-fields the
// executor needs (the well-known Z/Y/P/Q partitioning: bits 7..6 select
// the block, 5..3 and 2..0 the sub-fields).
type Kind uint8

const (
	KindNop Kind = iota
	KindLDImm16IndSP  // LD (a16),SP            0x08
	KindStop          // STOP                   0x10
	KindJR            // JR e8                  0x18
	KindJRCond        // JR cc,e8
	KindLDR16Imm16    // LD r16,d16
	KindAddHLR16      // ADD HL,r16
	KindLDR16MemA     // LD (r16mem),A
	KindLDAR16Mem     // LD A,(r16mem)
	KindIncR16
	KindDecR16
	KindIncR8
	KindDecR8
	KindLDR8Imm8
	KindRLCA
	KindRRCA
	KindRLA
	KindRRA
	KindDAA
	KindCPL
	KindSCF
	KindCCF
	KindLDR8R8
	KindHalt
	KindAluR8   // ADD/ADC/SUB/SBC/AND/XOR/OR/CP A,r8 — op picked by Y
	KindRetCond // RET cc
	KindLDHIndA8A // LDH (a8),A              0xE0
	KindAddSPImm8 // ADD SP,e8               0xE8
	KindLDHAIndA8 // LDH A,(a8)              0xF0
	KindLDHLSPImm8 // LD HL,SP+e8            0xF8
	KindPopR16Stk
	KindRet  // RET                          0xC9
	KindReti // RETI                         0xD9
	KindJPHL // JP HL                        0xE9
	KindLDSPHL // LD SP,HL                   0xF9
	KindJPCondImm16
	KindLDIndCA    // LD (C),A                0xE2
	KindLDImm16IndA // LD (a16),A             0xEA
	KindLDAIndC    // LD A,(C)                0xF2
	KindLDAImm16Ind // LD A,(a16)             0xFA
	KindJPImm16    // JP a16                  0xC3
	KindDI
	KindEI
	KindCallCondImm16
	KindPushR16Stk
	KindCallImm16
	KindAluImm8
	KindRst
	KindHardLock
)

// aluOp identifies which of the 8 ALU operations KindAluR8/KindAluImm8
// perform, selected by the opcode's Y field.
type aluOp uint8

const (
	aluAdd aluOp = iota
	aluAdc
	aluSub
	aluSbc
	aluAnd
	aluXor
	aluOr
	aluCp
)

// Instruction is the decoder's output: the instruction's Kind plus the
// raw bit-fields the executor reads operands from. Z/Y/P/Q follow the
// standard SM83 opcode partitioning: Z = bits 2..0, Y = bits 5..3,
// P = Y>>1, Q = Y&1.
type Instruction struct {
	Opcode uint8
	Kind   Kind
	Z, Y, P, Q uint8
}

// Decode classifies a base-table opcode byte. It performs no bus
// access; the executor fetches any immediate bytes the Kind implies.
// The eleven illegal opcodes fall out of this partitioning naturally as
// KindHardLock, with no special-casing needed.
func Decode(opcode uint8) Instruction {
	z := opcode & 0x07
	y := (opcode >> 3) & 0x07
	p := y >> 1
	q := y & 1
	in := Instruction{Opcode: opcode, Z: z, Y: y, P: p, Q: q}

	switch opcode >> 6 {
	case 0:
		in.Kind = decodeBlock0(opcode, z, y)
	case 1:
		if opcode == 0x76 {
			in.Kind = KindHalt
		} else {
			in.Kind = KindLDR8R8
		}
	case 2:
		in.Kind = KindAluR8
	default:
		in.Kind = decodeBlock3(z, y, p, q)
	}
	return in
}

func decodeBlock0(opcode uint8, z, y uint8) Kind {
	switch z {
	case 0:
		switch {
		case opcode == 0x00:
			return KindNop
		case opcode == 0x08:
			return KindLDImm16IndSP
		case opcode == 0x10:
			return KindStop
		case opcode == 0x18:
			return KindJR
		default: // 0x20,0x28,0x30,0x38
			return KindJRCond
		}
	case 1:
		if y&1 == 0 {
			return KindLDR16Imm16
		}
		return KindAddHLR16
	case 2:
		if y&1 == 0 {
			return KindLDR16MemA
		}
		return KindLDAR16Mem
	case 3:
		if y&1 == 0 {
			return KindIncR16
		}
		return KindDecR16
	case 4:
		return KindIncR8
	case 5:
		return KindDecR8
	case 6:
		return KindLDR8Imm8
	default: // z == 7
		switch y {
		case 0:
			return KindRLCA
		case 1:
			return KindRRCA
		case 2:
			return KindRLA
		case 3:
			return KindRRA
		case 4:
			return KindDAA
		case 5:
			return KindCPL
		case 6:
			return KindSCF
		default:
			return KindCCF
		}
	}
}

func decodeBlock3(z, y, p, q uint8) Kind {
	switch z {
	case 0:
		switch {
		case y < 4:
			return KindRetCond
		case y == 4:
			return KindLDHIndA8A
		case y == 5:
			return KindAddSPImm8
		case y == 6:
			return KindLDHAIndA8
		default:
			return KindLDHLSPImm8
		}
	case 1:
		if q == 0 {
			return KindPopR16Stk
		}
		switch p {
		case 0:
			return KindRet
		case 1:
			return KindReti
		case 2:
			return KindJPHL
		default:
			return KindLDSPHL
		}
	case 2:
		switch {
		case y < 4:
			return KindJPCondImm16
		case y == 4:
			return KindLDIndCA
		case y == 5:
			return KindLDImm16IndA
		case y == 6:
			return KindLDAIndC
		default:
			return KindLDAImm16Ind
		}
	case 3:
		switch y {
		case 0:
			return KindJPImm16
		case 6:
			return KindDI
		case 7:
			return KindEI
		default: // 1 (CB, handled before exec reaches here), 2,3,4,5
			return KindHardLock
		}
	case 4:
		if y < 4 {
			return KindCallCondImm16
		}
		return KindHardLock
	case 5:
		if q == 0 {
			return KindPushR16Stk
		}
		if p == 0 {
			return KindCallImm16
		}
		return KindHardLock
	case 6:
		return KindAluImm8
	default: // z == 7
		return KindRst
	}
}

// CBKind tags a CB-prefixed instruction's family.
type CBKind uint8

const (
	CBRot CBKind = iota
	CBBit
	CBRes
	CBSet
)

// rotOp identifies which of the 8 rotate/shift operations a CBRot
// instruction performs, selected by Y.
type rotOp uint8

const (
	rotRLC rotOp = iota
	rotRRC
	rotRL
	rotRR
	rotSLA
	rotSRA
	rotSwap
	rotSRL
)

// CBInstruction is the CB-prefix table's decoded form: bits 7..6 select
// the family (rotate/shift, BIT, RES, SET), Y selects the rotate op or
// bit index, Z selects the R8 operand.
type CBInstruction struct {
	Opcode uint8
	Kind   CBKind
	Z, Y   uint8
}

// DecodeCB classifies a CB-prefixed opcode byte.
func DecodeCB(opcode uint8) CBInstruction {
	z := opcode & 0x07
	y := (opcode >> 3) & 0x07
	in := CBInstruction{Opcode: opcode, Z: z, Y: y}
	switch opcode >> 6 {
	case 0:
		in.Kind = CBRot
	case 1:
		in.Kind = CBBit
	case 2:
		in.Kind = CBRes
	default:
		in.Kind = CBSet
	}
	return in
}
