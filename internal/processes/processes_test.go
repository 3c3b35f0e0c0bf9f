package processes

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/microsoft/devhost/pkg/testutil"
)

func TestListIncludesThisProcess(t *testing.T) {
	ctx, cancel := testutil.GetTestContext(t, 30*time.Second)
	defer cancel()

	items, err := List(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, items)

	myPid := int32(os.Getpid())
	found := false
	for _, item := range items {
		require.NotEmpty(t, item.Name)
		if item.Pid == myPid {
			found = true
			require.False(t, item.StartedAt.IsZero(), "expected a start time for the test process")
		}
	}
	require.True(t, found, "expected the test process itself to be enumerated")
}

func TestIsTranslated(t *testing.T) {
	require.False(t, AttachItem{Flags: 0}.IsTranslated())
	require.False(t, AttachItem{Flags: 0x4004}.IsTranslated())
	require.True(t, AttachItem{Flags: TranslatedProcessFlag}.IsTranslated())
	require.True(t, AttachItem{Flags: 0x4004 | TranslatedProcessFlag}.IsTranslated())
}

func TestLabel(t *testing.T) {
	item := AttachItem{Pid: 1234, Name: "dotnet"}
	require.Equal(t, "dotnet (1234)", item.Label())
}

func TestDetail(t *testing.T) {
	item := AttachItem{Pid: 1234, Name: "dotnet", CommandLine: "dotnet run"}
	require.Equal(t, "dotnet run", item.Detail())

	item.StartedAt = time.Date(2026, 8, 30, 9, 15, 0, 0, time.Local)
	require.Equal(t, "dotnet run, started 2026-08-30 09:15:00", item.Detail())
}
