// Package utils holds small generic helpers shared across packages.
package utils

// FindIndex returns the index of the first occurrence of item in slice,
// or -1 when the slice does not contain it.
func FindIndex[T comparable](slice []T, item T) int {
	for i, v := range slice {
		if v == item {
			return i
		}
	}
	return -1
}
