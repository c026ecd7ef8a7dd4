package testkit

import (
	"fmt"
	"strings"

	"fortio.org/safecast"

	"miriguard/internal/triage"
)

// CheckSegmentInvariants runs the structural invariants of segmentation:
// 1) every unit is a verbatim slice of raw at its recorded offset
// 2) every unit starts with the "error: " marker at column 0
// 3) units are in stream order and never overlap
// 4) no "error: " line at column 0 is left outside a unit
func CheckSegmentInvariants(raw string, units []triage.Unit) error {
	rawLen, err := safecast.Conv[uint32](len(raw))
	if err != nil {
		return fmt.Errorf("stream length overflow: %w", err)
	}

	prevEnd := 0
	for i, u := range units {
		start, err := safecast.Conv[uint32](u.Offset)
		if err != nil {
			return fmt.Errorf("unit %d offset overflow: %w", i, err)
		}
		end := start + uint32(len(u.Text))
		if end > rawLen {
			return fmt.Errorf("unit %d ends beyond stream: %d > %d", i, end, rawLen)
		}
		if raw[start:end] != u.Text {
			return fmt.Errorf("unit %d is not a verbatim slice of the stream at offset %d", i, start)
		}
		if !strings.HasPrefix(u.Text, "error: ") {
			return fmt.Errorf("unit %d does not start with the error marker: %q", i, firstLine(u.Text))
		}
		if start != 0 && raw[start-1] != '\n' {
			return fmt.Errorf("unit %d does not start at column 0", i)
		}
		if u.Offset < prevEnd {
			return fmt.Errorf("unit %d overlaps or precedes unit %d", i, i-1)
		}
		prevEnd = u.Offset + len(u.Text)
	}

	// 4) every marker line is covered
	pos := 0
	for _, line := range strings.SplitAfter(raw, "\n") {
		if strings.HasPrefix(line, "error: ") && !covered(units, pos) {
			return fmt.Errorf("marker line at offset %d dropped: %q", pos, firstLine(line))
		}
		pos += len(line)
	}
	return nil
}

func covered(units []triage.Unit, pos int) bool {
	for _, u := range units {
		if pos >= u.Offset && pos < u.Offset+len(u.Text) {
			return true
		}
	}
	return false
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
