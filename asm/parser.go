// Package asm implements the assembler front end for the simulated ISA:
// a line-oriented lexer plus a two-pass parser that resolves labels to
// word addresses.
package asm

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/sarchlab/tomasim/insts"
)

// Program is a fully-assembled, label-resolved instruction stream ready
// for the timing engine.
type Program struct {
	Instructions []*insts.Instruction
}

var mnemonics = map[string]insts.Op{
	"LOAD":  insts.OpLOAD,
	"STORE": insts.OpSTORE,
	"BEQ":   insts.OpBEQ,
	"CALL":  insts.OpCALL,
	"RET":   insts.OpRET,
	"ADD":   insts.OpADD,
	"ADDI":  insts.OpADDI,
	"NAND":  insts.OpNAND,
	"MUL":   insts.OpMUL,
}

var regPattern = regexp.MustCompile(`^[Rr]([0-7])$`)

// memOperandPattern matches the "offset(rB)" syntax used by LOAD/STORE.
var memOperandPattern = regexp.MustCompile(`^(-?(?:0[xX][0-9A-Fa-f]+|\d+))\(([Rr][0-7])\)$`)

// Assemble parses source and returns the resolved program, or the first
// SyntaxError encountered. Parse errors fail fast; no simulation runs on a
// program that didn't fully assemble.
func Assemble(source string) (*Program, error) {
	lines := lex(source)

	labels, err := resolveLabels(lines)
	if err != nil {
		return nil, err
	}

	prog := &Program{}
	pc := uint32(0)
	for _, ln := range lines {
		if ln.Mnemonic == "" {
			continue // label-only line
		}
		inst, err := parseInstruction(ln, pc, labels)
		if err != nil {
			return nil, err
		}
		prog.Instructions = append(prog.Instructions, inst)
		pc++
	}

	return prog, nil
}

// AssembleAll behaves like Assemble but collects every SyntaxError
// instead of stopping at the first, for tooling that wants a full
// diagnostic pass over a source file.
func AssembleAll(source string) (*Program, error) {
	lines := lex(source)

	labels, labelErrs := resolveLabelsCollectingErrors(lines)

	prog := &Program{}
	pc := uint32(0)
	var errs ErrorList
	errs = append(errs, labelErrs...)
	for _, ln := range lines {
		if ln.Mnemonic == "" {
			continue
		}
		inst, err := parseInstruction(ln, pc, labels)
		if err != nil {
			if se, ok := err.(*SyntaxError); ok {
				errs = append(errs, se)
			}
			pc++
			continue
		}
		prog.Instructions = append(prog.Instructions, inst)
		pc++
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return prog, nil
}

// resolveLabels performs pass 1: every non-blank instruction line occupies
// exactly one word, so a label's address is simply the count of
// instruction lines seen before it.
func resolveLabels(lines []rawLine) (map[string]uint32, error) {
	labels := make(map[string]uint32)
	pc := uint32(0)
	for _, ln := range lines {
		if ln.Label != "" {
			if _, dup := labels[ln.Label]; dup {
				return nil, &SyntaxError{Line: ln.Number, Msg: fmt.Sprintf("duplicate label %q", ln.Label)}
			}
			labels[ln.Label] = pc
		}
		if ln.Mnemonic != "" {
			pc++
		}
	}
	return labels, nil
}

func resolveLabelsCollectingErrors(lines []rawLine) (map[string]uint32, ErrorList) {
	labels := make(map[string]uint32)
	var errs ErrorList
	pc := uint32(0)
	for _, ln := range lines {
		if ln.Label != "" {
			if _, dup := labels[ln.Label]; dup {
				errs = append(errs, &SyntaxError{Line: ln.Number, Msg: fmt.Sprintf("duplicate label %q", ln.Label)})
			} else {
				labels[ln.Label] = pc
			}
		}
		if ln.Mnemonic != "" {
			pc++
		}
	}
	return labels, errs
}

// parseInstruction decodes one instruction line at word address pc.
func parseInstruction(ln rawLine, pc uint32, labels map[string]uint32) (*insts.Instruction, error) {
	op, ok := mnemonics[strings.ToUpper(ln.Mnemonic)]
	if !ok {
		return nil, &SyntaxError{Line: ln.Number, Msg: fmt.Sprintf("unknown mnemonic %q", ln.Mnemonic)}
	}

	operands := splitOperands(ln.Operands)
	inst := &insts.Instruction{Op: op, PC: pc, Line: ln.Number}

	switch op {
	case insts.OpADD, insts.OpNAND, insts.OpMUL:
		if len(operands) != 3 {
			return nil, operandCountError(ln, op, 3, len(operands))
		}
		rd, err := parseReg(ln, operands[0])
		if err != nil {
			return nil, err
		}
		rs, err := parseReg(ln, operands[1])
		if err != nil {
			return nil, err
		}
		rt, err := parseReg(ln, operands[2])
		if err != nil {
			return nil, err
		}
		inst.Rd, inst.Rs, inst.Rt = rd, rs, rt

	case insts.OpADDI:
		if len(operands) != 3 {
			return nil, operandCountError(ln, op, 3, len(operands))
		}
		rd, err := parseReg(ln, operands[0])
		if err != nil {
			return nil, err
		}
		rs, err := parseReg(ln, operands[1])
		if err != nil {
			return nil, err
		}
		imm, err := parseImmediate(ln, operands[2])
		if err != nil {
			return nil, err
		}
		inst.Rd, inst.Rs, inst.Imm = rd, rs, imm

	case insts.OpLOAD:
		if len(operands) != 2 {
			return nil, operandCountError(ln, op, 2, len(operands))
		}
		rd, err := parseReg(ln, operands[0])
		if err != nil {
			return nil, err
		}
		offset, base, err := parseMemOperand(ln, operands[1])
		if err != nil {
			return nil, err
		}
		inst.Rd, inst.Rt, inst.Imm = rd, base, offset

	case insts.OpSTORE:
		if len(operands) != 2 {
			return nil, operandCountError(ln, op, 2, len(operands))
		}
		rs, err := parseReg(ln, operands[0])
		if err != nil {
			return nil, err
		}
		offset, base, err := parseMemOperand(ln, operands[1])
		if err != nil {
			return nil, err
		}
		inst.Rs, inst.Rt, inst.Imm = rs, base, offset

	case insts.OpBEQ:
		if len(operands) != 3 {
			return nil, operandCountError(ln, op, 3, len(operands))
		}
		rs, err := parseReg(ln, operands[0])
		if err != nil {
			return nil, err
		}
		rt, err := parseReg(ln, operands[1])
		if err != nil {
			return nil, err
		}
		offset, err := parseBranchOffset(ln, operands[2], pc, labels)
		if err != nil {
			return nil, err
		}
		inst.Rs, inst.Rt, inst.Imm = rs, rt, offset

	case insts.OpCALL:
		if len(operands) != 1 {
			return nil, operandCountError(ln, op, 1, len(operands))
		}
		target, err := parseTarget(ln, operands[0], labels)
		if err != nil {
			return nil, err
		}
		inst.Target = target

	case insts.OpRET:
		if len(operands) != 0 {
			return nil, operandCountError(ln, op, 0, len(operands))
		}
	}

	return inst, nil
}

func operandCountError(ln rawLine, op insts.Op, want, got int) error {
	return &SyntaxError{
		Line: ln.Number,
		Msg:  fmt.Sprintf("%s expects %d operand(s), got %d", op, want, got),
	}
}

func parseReg(ln rawLine, field string) (uint8, error) {
	m := regPattern.FindStringSubmatch(field)
	if m == nil {
		return 0, &SyntaxError{Line: ln.Number, Msg: fmt.Sprintf("expected a register (R0-R7), got %q", field)}
	}
	n, _ := strconv.Atoi(m[1])
	return uint8(n), nil
}

// parseImmediate parses a signed 16-bit immediate, decimal or
// 0x-prefixed hexadecimal.
func parseImmediate(ln rawLine, field string) (int16, error) {
	v, err := parseSignedInt(field)
	if err != nil {
		return 0, &SyntaxError{Line: ln.Number, Msg: fmt.Sprintf("bad immediate %q: %v", field, err)}
	}
	if v < -32768 || v > 32767 {
		return 0, &SyntaxError{Line: ln.Number, Msg: fmt.Sprintf("immediate %d out of 16-bit signed range", v)}
	}
	return int16(v), nil
}

// parseSignedInt parses a decimal or 0x-prefixed hexadecimal integer with
// an optional leading sign, without base-0 octal surprises for
// zero-padded decimals.
func parseSignedInt(field string) (int64, error) {
	neg := false
	f := field
	switch {
	case strings.HasPrefix(f, "-"):
		neg = true
		f = f[1:]
	case strings.HasPrefix(f, "+"):
		f = f[1:]
	}

	var v uint64
	var err error
	if strings.HasPrefix(f, "0x") || strings.HasPrefix(f, "0X") {
		v, err = strconv.ParseUint(f[2:], 16, 32)
	} else {
		v, err = strconv.ParseUint(f, 10, 32)
	}
	if err != nil {
		return 0, err
	}

	if neg {
		return -int64(v), nil
	}
	return int64(v), nil
}

// parseMemOperand parses the "offset(rB)" syntax.
func parseMemOperand(ln rawLine, field string) (offset int16, base uint8, err error) {
	m := memOperandPattern.FindStringSubmatch(field)
	if m == nil {
		return 0, 0, &SyntaxError{Line: ln.Number, Msg: fmt.Sprintf("expected offset(rB), got %q", field)}
	}
	offset, err = parseImmediate(ln, m[1])
	if err != nil {
		return 0, 0, err
	}
	base, err = parseReg(ln, m[2])
	if err != nil {
		return 0, 0, err
	}
	return offset, base, nil
}

// parseBranchOffset accepts either a signed immediate PC-relative offset
// (e.g. "+2", "-3") or a label, which is resolved to a relative offset
// from PC+1 (the sequential successor), matching the ISA's PC+1+offset
// convention.
func parseBranchOffset(ln rawLine, field string, pc uint32, labels map[string]uint32) (int16, error) {
	if isSignedNumber(field) {
		return parseImmediate(ln, field)
	}
	target, ok := labels[field]
	if !ok {
		return 0, &SyntaxError{Line: ln.Number, Msg: fmt.Sprintf("undefined label %q", field)}
	}
	rel := int64(target) - int64(pc) - 1
	if rel < -32768 || rel > 32767 {
		return 0, &SyntaxError{Line: ln.Number, Msg: fmt.Sprintf("branch offset to %q out of 16-bit signed range", field)}
	}
	return int16(rel), nil
}

// parseTarget accepts either a label or a numeric absolute word address,
// used by CALL.
func parseTarget(ln rawLine, field string, labels map[string]uint32) (uint32, error) {
	if isSignedNumber(field) {
		v, err := parseSignedInt(field)
		if err != nil || v < 0 {
			return 0, &SyntaxError{Line: ln.Number, Msg: fmt.Sprintf("bad target %q", field)}
		}
		return uint32(v), nil
	}
	target, ok := labels[field]
	if !ok {
		return 0, &SyntaxError{Line: ln.Number, Msg: fmt.Sprintf("undefined label %q", field)}
	}
	return target, nil
}

func isSignedNumber(field string) bool {
	if field == "" {
		return false
	}
	f := field
	if f[0] == '+' || f[0] == '-' {
		f = f[1:]
	}
	return f != "" && strings.IndexFunc(f, func(r rune) bool {
		return !(r >= '0' && r <= '9') && !(r >= 'a' && r <= 'f') && !(r >= 'A' && r <= 'F') && r != 'x' && r != 'X'
	}) == -1 && (f[0] >= '0' && f[0] <= '9')
}
