package asm

import "strings"

// rawLine is one source line after comment-stripping, with an optional
// leading label and the mnemonic/operand text that follows it.
type rawLine struct {
	Number   int
	Label    string // empty if this line has no label
	Mnemonic string // empty if this line is label-only
	Operands string // raw text after the mnemonic, not yet split on commas
}

// lex splits assembly source into rawLines, stripping ';'-to-end-of-line
// comments and blank lines. It does not validate mnemonics or operands —
// that is the parser's job — but it does recognize the "label:" syntax
// since label placement determines word addresses for every later pass.
func lex(source string) []rawLine {
	var lines []rawLine

	for i, text := range strings.Split(source, "\n") {
		lineNo := i + 1
		text = stripComment(text)
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}

		label := ""
		if idx := strings.IndexByte(text, ':'); idx >= 0 {
			label = strings.TrimSpace(text[:idx])
			text = strings.TrimSpace(text[idx+1:])
		}

		if text == "" {
			lines = append(lines, rawLine{Number: lineNo, Label: label})
			continue
		}

		mnemonic, operands, _ := strings.Cut(text, " ")
		mnemonic = strings.TrimSpace(mnemonic)
		operands = strings.TrimSpace(operands)

		lines = append(lines, rawLine{
			Number:   lineNo,
			Label:    label,
			Mnemonic: mnemonic,
			Operands: operands,
		})
	}

	return lines
}

func stripComment(line string) string {
	if i := strings.IndexByte(line, ';'); i >= 0 {
		return line[:i]
	}
	return line
}

// splitOperands splits a comma-separated operand list, trimming
// whitespace around each field. An empty operand string yields no
// fields (for zero-operand mnemonics like RET).
func splitOperands(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	fields := strings.Split(s, ",")
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}
	return fields
}
