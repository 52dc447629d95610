package common

// Coalesce returns the first non-zero value from the provided values, or the zero value if all are zero.
//
// Parameters:
//   - values: a variadic list of values to check for non-zero status
//
// Returns:
//   - T: the first non-zero value from the input, or the zero value if all are zero
func Coalesce[T comparable](values ...T) T {
	var zero T
	for _, v := range values {
		if v != zero {
			return v
		}
	}
	return zero
}

// Clamp constrains a value to the inclusive range [low, high].
//
// Parameters:
//   - v: the value to constrain
//   - low: the lower bound of the range
//   - high: the upper bound of the range
//
// Returns:
//   - T: v limited to the range [low, high]
func Clamp[T int | int32 | int64 | uint32 | uint64 | float32 | float64](v, low, high T) T {
	if v < low {
		return low
	}
	if v > high {
		return high
	}
	return v
}
