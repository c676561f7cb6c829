package insts

import "strings"

// Category is the coarse class of a retired instruction.
type Category uint8

// Instruction categories, in classification priority order.
const (
	CategoryLoad Category = iota
	CategoryStore
	CategoryBranch
	CategoryALU

	// NumCategories is the number of instruction categories.
	NumCategories
)

// Categories returns all categories in report order.
func Categories() []Category {
	return []Category{CategoryLoad, CategoryStore, CategoryBranch, CategoryALU}
}

// String returns the lower-case category name used in reports.
func (c Category) String() string {
	switch c {
	case CategoryLoad:
		return "load"
	case CategoryStore:
		return "store"
	case CategoryBranch:
		return "branch"
	case CategoryALU:
		return "alu"
	default:
		return "unknown"
	}
}

var (
	loadMnemonics   = []string{"lw", "lh", "lb", "lhu", "lbu"}
	storeMnemonics  = []string{"sw", "sh", "sb"}
	branchMnemonics = []string{"beq", "bne", "blt", "bge", "jal", "jalr", "c.j", "c.beq"}
)

// storeGuard suppresses load classification when present anywhere in the
// text, so a store line is not taken for a load.
const storeGuard = "sw"

// Classify returns the category of a decoded instruction.
//
// Matching is case-insensitive and substring based over the whole text, not
// per token, so a longer token containing "lb" still classifies as a load.
// The first matching class wins in the order load, store, branch, alu.
// Unmatched or empty text is alu.
func Classify(decoded string) Category {
	d := strings.ToLower(decoded)

	if containsAny(d, loadMnemonics) && !strings.Contains(d, storeGuard) {
		return CategoryLoad
	}

	if containsAny(d, storeMnemonics) {
		return CategoryStore
	}

	if containsAny(d, branchMnemonics) {
		return CategoryBranch
	}

	return CategoryALU
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
