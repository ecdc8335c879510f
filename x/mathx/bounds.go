// Package mathx has the small generic helpers the drivers share: range
// checks for register fields and integer rescaling for voltage codes.
package mathx

import "golang.org/x/exp/constraints"

// Clamp limits v to [lo, hi], accepting the bounds in either order.
func Clamp[T constraints.Ordered](v, lo, hi T) T {
	if hi < lo {
		lo, hi = hi, lo
	}
	return Min(Max(v, lo), hi)
}

// Between reports lo <= v <= hi, bounds in either order.
func Between[T constraints.Ordered](v, lo, hi T) bool {
	if hi < lo {
		lo, hi = hi, lo
	}
	return v >= lo && v <= hi
}

func Min[T constraints.Ordered](a, b T) T {
	if a < b {
		return a
	}
	return b
}

func Max[T constraints.Ordered](a, b T) T {
	if a > b {
		return a
	}
	return b
}

// Quantize rounds f to the nearest code in [0, full], saturating at both
// ends. It turns a physical reading already divided by the LSB into an
// ADC result.
func Quantize[T constraints.Unsigned](f float32, full T) T {
	switch {
	case f <= 0:
		return 0
	case f >= float32(full):
		return full
	}
	return T(f + 0.5)
}
