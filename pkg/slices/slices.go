package slices

func Contains[T comparable, S ~[]T](ss S, s T) bool {
	return Index(ss, s) != -1
}

func Index[T comparable, S ~[]T](ss S, s T) int {
	for i, b := range ss {
		if b == s {
			return i
		}
	}
	return -1
}

// Transforms a slice of T into a slice of R using given mapping function.
func Map[T any, R any, S ~[]T](ss S, mapping func(T) R) []R {
	if len(ss) == 0 {
		return nil
	}

	res := make([]R, len(ss))
	for i, s := range ss {
		res[i] = mapping(s)
	}
	return res
}

func Select[T any, S ~[]T](ss S, selector func(T) bool) S {
	if len(ss) == 0 {
		return nil
	}

	var res S
	for _, s := range ss {
		if selector(s) {
			res = append(res, s)
		}
	}
	return res
}

func Any[T any, S ~[]T](ss S, predicate func(T) bool) bool {
	for _, s := range ss {
		if predicate(s) {
			return true
		}
	}
	return false
}
