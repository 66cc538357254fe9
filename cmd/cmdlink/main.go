package main

import (
	"fmt"
	"os"

	"github.com/ehuff700/cmdlink/pkg/errors"
)

// Exit codes for scripting against specific failure modes. Partial
// application gets the highest code because it is the one state that needs
// manual attention.
const (
	exitGeneric          = 1
	exitNotFound         = 2
	exitAlreadyExists    = 3
	exitConflict         = 4
	exitGeneration       = 5
	exitElevationDenied  = 6
	exitApply            = 7
	exitPartiallyApplied = 8
)

func main() {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitCode(err))
	}
}

func exitCode(err error) int {
	switch errors.GetErrorCode(err) {
	case errors.ErrNotFound:
		return exitNotFound
	case errors.ErrAlreadyExists:
		return exitAlreadyExists
	case errors.ErrConflict:
		return exitConflict
	case errors.ErrGeneration:
		return exitGeneration
	case errors.ErrElevationDenied:
		return exitElevationDenied
	case errors.ErrApply:
		return exitApply
	case errors.ErrPartiallyApplied:
		return exitPartiallyApplied
	default:
		return exitGeneric
	}
}
