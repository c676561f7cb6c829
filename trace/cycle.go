package trace

import (
	"strconv"
	"strings"
)

// headerPrefix starts the column header line of a cycle trace.
const headerPrefix = "Time"

// CycleRecord is a retirement cycle and program counter pair.
type CycleRecord struct {
	Cycle int64
	PC    uint64
}

// LineKind says how a cycle trace line was handled.
type LineKind uint8

// Cycle trace line kinds.
const (
	// LineRecord is a line that parsed into a CycleRecord.
	LineRecord LineKind = iota
	// LineSkippedShape is a blank line, header line or a line too short to
	// hold a cycle and a PC.
	LineSkippedShape
	// LineSkippedParse is a line whose cycle or PC field did not parse.
	LineSkippedParse
)

// ParseCycleLine parses one cycle trace line. Field 1 is a decimal cycle and
// field 2 a hexadecimal PC; all other fields are ignored.
func ParseCycleLine(line string) (CycleRecord, LineKind) {
	if strings.TrimSpace(line) == "" || strings.HasPrefix(line, headerPrefix) {
		return CycleRecord{}, LineSkippedShape
	}

	fields := strings.Fields(line)
	if len(fields) < 3 {
		return CycleRecord{}, LineSkippedShape
	}

	cycle, err := strconv.ParseInt(fields[1], 10, 64)
	if err != nil {
		return CycleRecord{}, LineSkippedParse
	}

	pc, err := ParseHex(fields[2])
	if err != nil {
		return CycleRecord{}, LineSkippedParse
	}

	return CycleRecord{Cycle: cycle, PC: pc}, LineRecord
}
