package processes

import (
	"bytes"
	"context"
	"os/exec"
	"strconv"
	"strings"
)

// processFlags reads the kernel process flags for every running process.
// The flags word carries the translation bit used for target architecture
// inference on Apple Silicon.
func processFlags(ctx context.Context) (map[int32]uint32, error) {
	cmd := exec.CommandContext(ctx, "ps", "-axww", "-o", "pid=,flags=")
	var out bytes.Buffer
	cmd.Stdout = &out

	if err := cmd.Run(); err != nil {
		return nil, err
	}

	flags := map[int32]uint32{}
	for _, line := range strings.Split(out.String(), "\n") {
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}

		pid, pidErr := strconv.ParseInt(fields[0], 10, 32)
		if pidErr != nil {
			continue
		}

		// ps prints flags in hexadecimal without a 0x prefix.
		flagVal, flagErr := strconv.ParseUint(fields[1], 16, 32)
		if flagErr != nil {
			continue
		}

		flags[int32(pid)] = uint32(flagVal)
	}

	return flags, nil
}
