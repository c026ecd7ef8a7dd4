package main

import (
	"fmt"
	"os"
	"strings"
)

type uiMode string

const (
	uiModeAuto uiMode = "auto"
	uiModeOn   uiMode = "on"
	uiModeOff  uiMode = "off"
)

func readUIMode(value string) (uiMode, error) {
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "", "auto":
		return uiModeAuto, nil
	case "on":
		return uiModeOn, nil
	case "off":
		return uiModeOff, nil
	default:
		return "", fmt.Errorf("invalid --ui value %q (expected auto|on|off)", value)
	}
}

// shouldUseTUI decides whether to draw the progress UI. In auto mode the UI
// is only drawn for enumerated test runs on a terminal whose report goes to
// a file, so the streamed text report never interleaves with the UI.
func shouldUseTUI(mode uiMode, multiTarget bool, reportPath string) bool {
	switch mode {
	case uiModeOn:
		return true
	case uiModeOff:
		return false
	}
	if !multiTarget || reportPath == "" || reportPath == "-" {
		return false
	}
	return isTerminal(os.Stdout)
}
