package triage

import (
	"iter"
	"regexp"
	"slices"
	"strings"
)

// blockBoundary separates partitions of a diagnostic stream.
const blockBoundary = "\n\n"

var unitStart = regexp.MustCompile(`(?m)^(error: (?s:.)*)`)

// Unit is one diagnostic block extracted from a stream.
type Unit struct {
	// Text is verbatim, from the "error: " line to the end of its partition.
	Text string
	// Offset is the byte offset of Text within the original stream.
	Offset int
}

// SegmentSeq lazily yields the units of raw in stream order.
func SegmentSeq(raw string) iter.Seq[Unit] {
	return func(yield func(Unit) bool) {
		offset := 0
		rest := raw
		for {
			part, tail, more := strings.Cut(rest, blockBoundary)
			if loc := unitStart.FindStringIndex(part); loc != nil {
				u := Unit{Text: part[loc[0]:loc[1]], Offset: offset + loc[0]}
				if !yield(u) {
					return
				}
			}
			if !more {
				return
			}
			offset += len(part) + len(blockBoundary)
			rest = tail
		}
	}
}

// Segment returns every unit of raw.
func Segment(raw string) []Unit {
	return slices.Collect(SegmentSeq(raw))
}
