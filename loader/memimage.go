// Package loader parses the memory preload file: a sequence of
// (address, value) pairs, one per line, establishing the initial
// contents of simulated memory before the pipeline starts.
package loader

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/sarchlab/tomasim/emu"
)

// ParseError reports a malformed preload line, with the 1-based line
// number, so Load fails fast on the first bad line.
type ParseError struct {
	Line int
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
}

// Image is a fully-parsed memory preload: word address to 16-bit value.
type Image struct {
	Words map[uint32]uint16
}

// Load reads a memory preload file. Each non-blank, non-comment line
// holds a whitespace- or comma-separated (address, value) pair; both
// fields accept decimal or 0x-prefixed hexadecimal. Comments begin with
// ';' and run to end of line, mirroring the assembly source's comment
// syntax.
func Load(path string) (*Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open memory preload file: %w", err)
	}
	defer func() { _ = f.Close() }()

	img := &Image{Words: make(map[uint32]uint16)}

	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := stripComment(scanner.Text())
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		fields := strings.FieldsFunc(line, func(r rune) bool {
			return r == ',' || r == ' ' || r == '\t'
		})
		if len(fields) != 2 {
			return nil, &ParseError{Line: lineNo, Msg: fmt.Sprintf("expected \"address value\", got %q", line)}
		}

		addr, err := parseUint(fields[0])
		if err != nil {
			return nil, &ParseError{Line: lineNo, Msg: fmt.Sprintf("bad address %q: %v", fields[0], err)}
		}
		if addr >= emu.MemoryWords {
			return nil, &ParseError{Line: lineNo, Msg: fmt.Sprintf("address %d out of range [0, %d)", addr, emu.MemoryWords)}
		}

		value, err := parseUint(fields[1])
		if err != nil {
			return nil, &ParseError{Line: lineNo, Msg: fmt.Sprintf("bad value %q: %v", fields[1], err)}
		}
		if value > 0xFFFF {
			return nil, &ParseError{Line: lineNo, Msg: fmt.Sprintf("value %d does not fit in 16 bits", value)}
		}

		img.Words[uint32(addr)] = uint16(value)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read memory preload file: %w", err)
	}

	return img, nil
}

// Apply writes every preloaded word into mem.
func (img *Image) Apply(mem *emu.Memory) error {
	for addr, value := range img.Words {
		if err := mem.Preload(addr, value); err != nil {
			return fmt.Errorf("applying memory preload: %w", err)
		}
	}
	return nil
}

func stripComment(line string) string {
	if i := strings.IndexByte(line, ';'); i >= 0 {
		return line[:i]
	}
	return line
}

func parseUint(field string) (uint64, error) {
	if strings.HasPrefix(field, "0x") || strings.HasPrefix(field, "0X") {
		return strconv.ParseUint(field[2:], 16, 32)
	}
	return strconv.ParseUint(field, 10, 32)
}
