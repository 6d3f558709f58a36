// internal/grid/cache.go
package grid

// BodyCache memoizes a rendered row body while a column resize is in
// progress. Widths are applied over the cached body, so the only key is the
// data generation.
type BodyCache[T any] struct {
	valid   bool
	dataGen uint64
	value   T
	builds  int
}

// Get returns the cached body when resizing and the data is unchanged,
// otherwise it calls build
func (c *BodyCache[T]) Get(dataGen uint64, resizing bool, build func() T) T {
	if resizing && c.valid && c.dataGen == dataGen {
		return c.value
	}
	c.value = build()
	c.dataGen = dataGen
	c.valid = true
	c.builds++
	return c.value
}

// Builds counts how many times the body was rebuilt
func (c *BodyCache[T]) Builds() int {
	return c.builds
}
