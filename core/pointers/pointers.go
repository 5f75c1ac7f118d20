// Package pointers has helpers for the optional fields of the jobly models, which are pointers
package pointers

// To returns a pointer to v
func To[T any](v T) *T {
	return &v
}

// Value returns the value from ptr or the zero value if the pointer is nil
func Value[T any](ptr *T) T {
	if ptr != nil {
		return *ptr
	}
	var zero T
	return zero
}

// Equal returns true if both pointers are nil or point to equal values
func Equal[T comparable](a, b *T) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
