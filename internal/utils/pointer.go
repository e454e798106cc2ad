package utils

// Ptr returns a pointer to v, so the address of a literal or computed value
// can be passed where an optional field expects a pointer.
//
// Example:
//
//	config := ratelimit.Config{InitialTokens: utils.Ptr(5.0)}
func Ptr[T any](v T) *T {
	return &v
}
