// Package detector selects the progress output mode from the
// environment.
package detector

import (
	"os"

	"golang.org/x/term"
)

// OutputMode represents how run progress is presented.
type OutputMode int

const (
	// ModeAuto defers to environment detection.
	ModeAuto OutputMode = iota
	// ModeInteractive renders full-color progress with start lines.
	ModeInteractive
	// ModePlain renders completion lines only, for CI logs.
	ModePlain
)

// DetectEnvironment returns the recommended output mode. CI
// environments and non-terminal stdout get plain output.
func DetectEnvironment() OutputMode {
	isTTY := term.IsTerminal(int(os.Stdout.Fd()))

	ci := os.Getenv("CI")
	isCI := ci == "true" || ci == "1"

	if !isTTY || isCI {
		return ModePlain
	}
	return ModeInteractive
}

// ResolveMode applies the user's output flag to auto-detection.
// flag should be one of: "auto", "interactive", "plain", "ci", or empty.
func ResolveMode(autoDetected OutputMode, flag string) OutputMode {
	switch flag {
	case "interactive":
		return ModeInteractive
	case "plain", "ci":
		return ModePlain
	case "auto", "":
		return autoDetected
	default:
		return autoDetected
	}
}
