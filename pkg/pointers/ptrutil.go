// Copyright (c) Microsoft Corporation. All rights reserved.

package pointers

// Checks if the values pointed to by two pointers are equal. If either pointer is nil, returns true if both are nil.
func EqualValue[T comparable, PT *T](p1 PT, p2 PT) bool {
	if p1 == nil || p2 == nil {
		return p1 == p2
	}
	return *p1 == *p2
}

func GetValueOrDefault[T any, PT *T](p PT, defaultValue T) T {
	if p == nil {
		return defaultValue
	}
	return *p
}

// Returns true if the boolean pointer has value and the value is true.
func TrueValue[T ~bool, PT *T](p PT) bool {
	return bool(GetValueOrDefault(p, false))
}

// Returns true if the boolean pointer has no value OR the value is false.
func NotTrue[T ~bool, PT *T](p PT) bool {
	if p == nil {
		return true
	}
	return !bool(*p)
}

// Creates a new pointer pointing at a copy of the given value.
func To[T any](val T) *T {
	p := new(T)
	*p = val
	return p
}
