package dap

import (
	"bufio"
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-dap"
	"github.com/stretchr/testify/require"

	"github.com/microsoft/devhost/internal/debug"
	"github.com/microsoft/devhost/pkg/testutil"
)

func newBufferSession(t *testing.T) (*Session, *bytes.Buffer) {
	var buf bytes.Buffer
	transport := NewStreamTransport(strings.NewReader(""), &buf, nil)
	return NewSession(transport, testutil.NewLogForTesting(t.Name())), &buf
}

func readWrittenMessage(t *testing.T, buf *bytes.Buffer) dap.Message {
	msg, err := dap.ReadProtocolMessage(bufio.NewReader(buf))
	require.NoError(t, err)
	return msg
}

func TestSendLaunchConfiguration(t *testing.T) {
	session, buf := newBufferSession(t)

	cfg := &debug.Configuration{
		Name:    "Launch web app",
		Type:    "coreclr",
		Request: debug.RequestLaunch,
		Program: "/src/app/bin/Debug/app.dll",
		Cwd:     "/src/app",
	}

	require.NoError(t, session.SendConfiguration(cfg))

	msg := readWrittenMessage(t, buf)
	launchReq, ok := msg.(*dap.LaunchRequest)
	require.True(t, ok, "expected a launch request, got %T", msg)
	require.Equal(t, "launch", launchReq.Command)
	require.Equal(t, 1, launchReq.Seq)

	var args map[string]any
	require.NoError(t, json.Unmarshal(launchReq.Arguments, &args))
	require.Equal(t, session.ID, args["__sessionId"])
	require.Equal(t, "/src/app/bin/Debug/app.dll", args["program"])
	require.Equal(t, "coreclr", args["type"])
}

func TestSendAttachConfiguration(t *testing.T) {
	session, buf := newBufferSession(t)

	cfg := &debug.Configuration{
		Name:      "Attach to service",
		Type:      "coreclr",
		Request:   debug.RequestAttach,
		ProcessID: 4242,
	}

	require.NoError(t, session.SendConfiguration(cfg))

	msg := readWrittenMessage(t, buf)
	attachReq, ok := msg.(*dap.AttachRequest)
	require.True(t, ok, "expected an attach request, got %T", msg)
	require.Equal(t, "attach", attachReq.Command)

	var args map[string]any
	require.NoError(t, json.Unmarshal(attachReq.Arguments, &args))
	require.Equal(t, session.ID, args["__sessionId"])
	require.Equal(t, float64(4242), args["processId"])
}

func TestSendConfigurationRejectsUnknownRequestKind(t *testing.T) {
	session, _ := newBufferSession(t)

	err := session.SendConfiguration(&debug.Configuration{Name: "broken", Request: "step"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "unsupported request kind")
}

func TestSendConfigurationSequenceNumbers(t *testing.T) {
	session, buf := newBufferSession(t)

	for i := 0; i < 3; i++ {
		require.NoError(t, session.SendConfiguration(&debug.Configuration{
			Request: debug.RequestLaunch,
			Program: "app.dll",
		}))
	}

	reader := bufio.NewReader(buf)
	for i := 1; i <= 3; i++ {
		msg, err := dap.ReadProtocolMessage(reader)
		require.NoError(t, err)
		require.Equal(t, i, msg.(*dap.LaunchRequest).Seq)
	}
}

func TestTransportClosedAfterClose(t *testing.T) {
	session, _ := newBufferSession(t)
	require.NoError(t, session.Close())

	err := session.SendConfiguration(&debug.Configuration{Request: debug.RequestLaunch})
	require.Error(t, err)
	require.Contains(t, err.Error(), "closed")
}
