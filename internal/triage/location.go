package triage

import (
	"regexp"
	"strconv"

	"miriguard/internal/diag"
)

var primaryLocation = regexp.MustCompile(`(?m)^[ \t]*-->[ \t]+(\S.*?):(\d+):(\d+)[ \t]*$`)

// ParseLocation returns the first "--> path:line:col" reference in text.
func ParseLocation(text string) (diag.Location, bool) {
	m := primaryLocation.FindStringSubmatch(text)
	if m == nil {
		return diag.Location{}, false
	}
	line, err := strconv.ParseUint(m[2], 10, 32)
	if err != nil {
		return diag.Location{}, false
	}
	col, err := strconv.ParseUint(m[3], 10, 32)
	if err != nil {
		return diag.Location{}, false
	}
	return diag.Location{Path: m[1], Line: uint32(line), Column: uint32(col)}, true
}
