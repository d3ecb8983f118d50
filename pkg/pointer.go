package pkg

func ToPtr[T any](v T) *T {
	return &v
}

// SetIfPresent copies *value into dst unless value is nil.
func SetIfPresent[T any](dst *T, value *T) {
	if value != nil {
		*dst = *value
	}
}
