//go:build !darwin

package processes

import "context"

// Process flags only matter on macOS, where the translation bit drives
// target architecture inference. Everywhere else there is nothing to read.
func processFlags(ctx context.Context) (map[int32]uint32, error) {
	return map[int32]uint32{}, nil
}
