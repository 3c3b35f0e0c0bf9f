// Copyright (c) Microsoft Corporation. All rights reserved.

package pointers

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEqualValue(t *testing.T) {
	require.True(t, EqualValue[int](nil, nil))
	require.False(t, EqualValue(To(1), nil))
	require.False(t, EqualValue(nil, To(1)))
	require.True(t, EqualValue(To(1), To(1)))
	require.False(t, EqualValue(To(1), To(2)))
}

func TestGetValueOrDefault(t *testing.T) {
	require.Equal(t, "fallback", GetValueOrDefault(nil, "fallback"))
	require.Equal(t, "set", GetValueOrDefault(To("set"), "fallback"))
}

func TestTrueValueAndNotTrue(t *testing.T) {
	require.False(t, TrueValue[bool](nil))
	require.False(t, TrueValue(To(false)))
	require.True(t, TrueValue(To(true)))

	require.True(t, NotTrue[bool](nil))
	require.True(t, NotTrue(To(false)))
	require.False(t, NotTrue(To(true)))
}
