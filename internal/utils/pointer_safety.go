package utils

func Ptr[T any](v T) *T {
	return &v
}

// Changed returns a pointer to next when it is set and differs from current,
// nil otherwise. Partial updates only send the fields a form changed.
func Changed(next, current string) *string {
	if next == "" || next == current {
		return nil
	}
	return Ptr(next)
}
