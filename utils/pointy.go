package utils

// Pointy creates a new T variable and returns its pointer.
func Pointy[T any](x T) *T {
	return &x
}
