// Package mix implements the instruction-mix and load-use hazard pass over
// an Ibex retirement trace.
package mix

import "github.com/sarchlab/ibexprof/insts"

// Counters holds per-category retired instruction counts.
type Counters struct {
	// Total is the number of accepted trace lines.
	Total uint64
	// ByCategory is indexed by insts.Category.
	ByCategory [insts.NumCategories]uint64
}

// Add counts one instruction of the given category.
func (c *Counters) Add(cat insts.Category) {
	c.Total++
	c.ByCategory[cat]++
}

// Count returns the count for a category.
func (c Counters) Count(cat insts.Category) uint64 {
	if cat >= insts.NumCategories {
		return 0
	}
	return c.ByCategory[cat]
}

// Loads returns the load count.
func (c Counters) Loads() uint64 {
	return c.ByCategory[insts.CategoryLoad]
}

// Stores returns the store count.
func (c Counters) Stores() uint64 {
	return c.ByCategory[insts.CategoryStore]
}

// Branches returns the branch and jump count.
func (c Counters) Branches() uint64 {
	return c.ByCategory[insts.CategoryBranch]
}

// ALU returns the count of everything else.
func (c Counters) ALU() uint64 {
	return c.ByCategory[insts.CategoryALU]
}

// MemOps returns loads plus stores.
func (c Counters) MemOps() uint64 {
	return c.Loads() + c.Stores()
}

// Sum adds up the category counts. It always equals Total.
func (c Counters) Sum() uint64 {
	var sum uint64
	for _, n := range c.ByCategory {
		sum += n
	}
	return sum
}
