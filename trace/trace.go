// Package trace reads the text traces written by the Ibex core tracer.
//
// Two record shapes are understood. Retirement records carry the decoded
// instruction text starting at field 4 and feed the instruction-mix pass.
// Cycle records only need the cycle number (field 1) and the hexadecimal
// program counter (field 2) and feed the stall attribution pass. Both are
// plain whitespace-delimited text.
package trace

import (
	"bufio"
	"fmt"
	"io"
)

// MaxLineSize is the longest trace line the reader accepts.
const MaxLineSize = 1 << 20

// LineFunc is called once per trace line, with the line number starting at 1.
type LineFunc func(lineNo int, line string)

// ForEachLine streams r line by line into fn. It never holds more than one
// line in memory.
func ForEachLine(r io.Reader, fn LineFunc) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), MaxLineSize)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		fn(lineNo, scanner.Text())
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read trace at line %d: %w", lineNo+1, err)
	}

	return nil
}
