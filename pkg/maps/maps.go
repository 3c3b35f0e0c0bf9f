package maps

import (
	stdlib_maps "maps"
)

// Maps a map to a slice. Note that iteration order over a map is not defined,
// so make no assumptions about the order of the items in the resulting slice.
func MapToSlice[T any, K comparable, V any, MM ~map[K]V](m MM, mapping func(K, V) T) []T {
	if len(m) == 0 {
		return nil
	}

	res := make([]T, len(m))
	i := 0
	for k, v := range m {
		res[i] = mapping(k, v)
		i++
	}

	return res
}

func Keys[K comparable, V any, M ~map[K]V](m M) []K {
	if len(m) == 0 {
		return nil
	}

	res := make([]K, len(m))
	i := 0
	for k := range m {
		res[i] = k
		i++
	}
	return res
}

// Returns a copy of m1 with all entries from m2 applied on top.
// Entries from m2 override entries from m1 when keys collide.
func Apply[K comparable, V any, M ~map[K]V](m1 M, m2 M) M {
	if len(m1) == 0 {
		return m2
	}

	retval := stdlib_maps.Clone(m1)
	for k, v := range m2 {
		retval[k] = v
	}
	return retval
}

func Select[K comparable, V any, MM ~map[K]V](m MM, selector func(K, V) bool) MM {
	res := make(MM)
	for k, v := range m {
		if selector(k, v) {
			res[k] = v
		}
	}
	return res
}
