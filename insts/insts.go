// Package insts provides classification and operand extraction for decoded
// RISC-V instruction text as printed by the Ibex core tracer.
//
// Classification is pattern based and intentionally partial: it matches
// mnemonic substrings rather than decoding the full instruction set.
// Operand extraction is positional and sits behind the OperandExtractor
// interface so that a structured decoder can replace it.
//
// Usage:
//
//	cat := insts.Classify("lw x5,0(x6)")     // insts.CategoryLoad
//	ops := insts.NewPositionalExtractor().Extract("add x7,x5,x8")
//	fmt.Printf("%v rd=%s rs1=%s\n", cat, ops.Rd, ops.Rs1)
package insts
