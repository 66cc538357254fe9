//go:build !windows

package installer

import (
	"context"

	"github.com/ehuff700/cmdlink/pkg/errors"
)

func newPlatformParts(rcFile string) (Table, Elevator) {
	if rcFile == "" {
		rcFile = DetectRCFile()
	}
	return NewRCFileTable(rcFile), unixElevator{}
}

// unixElevator exists to satisfy the two-step protocol. The user-scope rc
// file never requires elevated rights; if writing it was denied, the file
// itself is misowned and running something as root would not fix the
// user's shell startup.
type unixElevator struct{}

func (unixElevator) AddElevated(_ context.Context, entry PathEntry) error {
	return errors.Newf(errors.ErrApply,
		"shell profile is not writable; add %s to PATH manually", entry.Dir)
}
