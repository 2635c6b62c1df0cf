package pointers

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T { return &v }

func Int64(v int64) *int64    { return &v }
func Int(v int) *int          { return &v }
func String(v string) *string { return &v }

// Deref returns *p, or the zero value when p is nil.
func Deref[T any](p *T) T {
	if p == nil {
		var zero T
		return zero
	}
	return *p
}

// NonEmpty returns nil for "" so optional names round-trip as NULL.
func NonEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
