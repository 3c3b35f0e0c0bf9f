package osutil

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLineSep(t *testing.T) {
	require.Equal(t, "\n", string(LF()))
	require.Equal(t, "\r\n", string(CRLF()))

	if runtime.GOOS == "windows" {
		require.True(t, IsWindows())
		require.Equal(t, CRLF(), LineSep())
	} else {
		require.False(t, IsWindows())
		require.Equal(t, LF(), LineSep())
	}
}
