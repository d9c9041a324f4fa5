package tlist

// options holds the construction-time policy spec.md §6 names: "all
// compile-time / construction-time: Duplicates, Sorted, Opacity,
// Compare". Go has no non-type template parameters, so where the source
// specializes a class template this module captures the same choices in
// a plain struct set once at construction, following cqkv-cqkv's
// options.go (a defaults struct plus a chain of With... functions).
type options[T any] struct {
	duplicates bool
	sorted     bool
	opacity    bool
	compare    Compare[T]
}

// Option configures a List at construction time.
type Option[T any] func(*options[T])

// WithDuplicates allows (true) or forbids (false, the default) two
// visible nodes comparing equal, spec.md §3 invariant 3.
func WithDuplicates[T any](allow bool) Option[T] {
	return func(o *options[T]) { o.duplicates = allow }
}

// WithSorted controls whether the list maintains Compare order (true, the
// default) or keeps no order (false), spec.md §3 invariant 2. An unsorted
// list inserts at head when duplicates are allowed, and at the tail
// (after scanning for an equal value) when they are forbidden.
func WithSorted[T any](sorted bool) Option[T] {
	return func(o *options[T]) { o.sorted = sorted }
}

// WithOpacity controls whether committed size-version bumps stamp the
// commit timestamp (true) or a monotonic counter (false, the default),
// spec.md §6.
func WithOpacity[T any](opaque bool) Option[T] {
	return func(o *options[T]) { o.opacity = opaque }
}

// WithCompare supplies a custom three-way comparator, overriding
// DefaultCompare.
func WithCompare[T any](cmp Compare[T]) Option[T] {
	return func(o *options[T]) { o.compare = cmp }
}

func newOptions[T any](defaultCompare Compare[T], opts ...Option[T]) *options[T] {
	o := &options[T]{
		duplicates: false,
		sorted:     true,
		opacity:    false,
		compare:    defaultCompare,
	}
	for _, apply := range opts {
		apply(o)
	}
	return o
}
