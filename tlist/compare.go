package tlist

// Compare is a three-way total order over element values: negative when
// a < b, zero when equal, positive when a > b. spec.md §4.5: "a pluggable
// total order... the default is derived from <". When a list is
// unsorted, Compare is used only for equality detection (zero /
// non-zero), per spec.md §4.5.
type Compare[T any] func(a, b T) int

// Ordered is satisfied by any type usable with the default comparator,
// mirroring the teacher's reliance on Go's built-in ordering for int keys
// in mvcc-go, generalized with Go 1.21's cmp.Ordered shape.
type Ordered interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr |
		~float32 | ~float64 | ~string
}

// DefaultCompare builds the comparator the source's DefaultCompare<T>
// template provides: derived purely from <.
func DefaultCompare[T Ordered]() Compare[T] {
	return func(a, b T) int {
		if a < b {
			return -1
		}
		if b < a {
			return 1
		}
		return 0
	}
}
