package trace

import (
	"strconv"
	"strings"
)

// Field layout of a retirement record.
const (
	retireMetaFields = 4
	retireMinFields  = 6
)

// memAddrPrefix marks the physical address of a memory access in the
// register and memory contents column.
const memAddrPrefix = "PA:"

// RetireRecord is one retired instruction from the instruction trace.
type RetireRecord struct {
	// Decoded is fields 4..end joined by single spaces.
	Decoded string

	// MemAddr is the address of the access when the record has a valid
	// PA: token.
	MemAddr    uint64
	HasMemAddr bool
}

// ParseRetireLine parses one retirement trace line. It returns false for
// blank lines and lines with fewer than 6 fields. Metadata fields 0-3 are
// not interpreted.
func ParseRetireLine(line string) (RetireRecord, bool) {
	fields := strings.Fields(line)
	if len(fields) < retireMinFields {
		return RetireRecord{}, false
	}

	rec := RetireRecord{
		Decoded: strings.Join(fields[retireMetaFields:], " "),
	}

	for _, f := range fields[retireMetaFields:] {
		if !strings.HasPrefix(f, memAddrPrefix) {
			continue
		}

		addr, err := ParseHex(strings.TrimPrefix(f, memAddrPrefix))
		if err == nil {
			rec.MemAddr = addr
			rec.HasMemAddr = true
		}
		break
	}

	return rec, true
}

// ParseHex parses a hexadecimal value with an optional 0x/0X prefix.
func ParseHex(s string) (uint64, error) {
	if len(s) > 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		s = s[2:]
	}
	return strconv.ParseUint(s, 16, 64)
}
