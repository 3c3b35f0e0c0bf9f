package slices

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestContainsAndIndex(t *testing.T) {
	ss := []string{"alpha", "beta", "gamma"}

	require.True(t, Contains(ss, "beta"))
	require.False(t, Contains(ss, "delta"))
	require.Equal(t, 2, Index(ss, "gamma"))
	require.Equal(t, -1, Index(ss, "delta"))
}

func TestMap(t *testing.T) {
	require.Nil(t, Map([]int(nil), strconv.Itoa))
	require.Equal(t, []string{"1", "2", "3"}, Map([]int{1, 2, 3}, strconv.Itoa))
}

func TestSelect(t *testing.T) {
	even := Select([]int{1, 2, 3, 4, 5}, func(n int) bool { return n%2 == 0 })
	require.Equal(t, []int{2, 4}, even)
	require.Nil(t, Select([]int{}, func(n int) bool { return true }))
}

func TestAny(t *testing.T) {
	require.True(t, Any([]int{1, 2, 3}, func(n int) bool { return n > 2 }))
	require.False(t, Any([]int{1, 2, 3}, func(n int) bool { return n > 3 }))
	require.False(t, Any([]int(nil), func(n int) bool { return true }))
}
