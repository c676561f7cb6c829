package insts

import "strings"

// Operands holds the register fields of a decoded instruction. Each field is
// empty when the text has no token at that position.
type Operands struct {
	Rd  string
	Rs1 string
	Rs2 string
}

// HasRd reports whether a destination token was found.
func (o Operands) HasRd() bool {
	return o.Rd != ""
}

// Reads returns true if reg is one of the source operands. An empty reg
// never matches.
func (o Operands) Reads(reg string) bool {
	if reg == "" {
		return false
	}
	return o.Rs1 == reg || o.Rs2 == reg
}

// OperandExtractor pulls register operands out of decoded instruction text.
type OperandExtractor interface {
	Extract(decoded string) Operands
}

// PositionalExtractor takes operands by absolute token position: after
// replacing ',', '(' and ')' with spaces, token 1 is rd, token 2 is rs1 and
// token 3 is rs2. Token 0 is the mnemonic. Tokens are not validated as
// register names.
type PositionalExtractor struct{}

// NewPositionalExtractor creates a new positional operand extractor.
func NewPositionalExtractor() *PositionalExtractor {
	return &PositionalExtractor{}
}

var separatorReplacer = strings.NewReplacer(",", " ", "(", " ", ")", " ")

// Extract implements OperandExtractor.
func (e *PositionalExtractor) Extract(decoded string) Operands {
	toks := Tokenize(decoded)

	var ops Operands
	if len(toks) >= 2 {
		ops.Rd = toks[1]
	}
	if len(toks) >= 3 {
		ops.Rs1 = toks[2]
	}
	if len(toks) >= 4 {
		ops.Rs2 = toks[3]
	}

	return ops
}

// Tokenize normalizes operand separators to whitespace and splits the text
// into tokens.
func Tokenize(decoded string) []string {
	return strings.Fields(separatorReplacer.Replace(decoded))
}
