package triage

import (
	"strings"
	"testing"
)

func TestSegmentInterpreterStream(t *testing.T) {
	units := Segment(joinedThreadStream)
	if len(units) != 2 {
		t.Fatalf("Segment returned %d units, want 2", len(units))
	}
	if units[0].Text != joinedThreadUnit {
		t.Fatalf("unexpected first unit:\n%s", units[0].Text)
	}
	if units[1].Text != "error: aborting due to previous error\n" {
		t.Fatalf("second unit = %q, want trailer with newline", units[1].Text)
	}
	if got := joinedThreadStream[units[0].Offset : units[0].Offset+len(units[0].Text)]; got != units[0].Text {
		t.Fatalf("offset of first unit does not point at its text")
	}
}

func TestSegmentDiscardsFramingPartitions(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want []string
	}{
		{"empty", "", nil},
		{"only progress", "   Compiling demo v0.1.0\n    Finished dev\n", nil},
		{"marker not at column 0", "  error: indented\n", nil},
		{"marker without space", "error:nospace\n", nil},
		{"single trailer", "error: aborting due to previous error\n", []string{"error: aborting due to previous error\n"}},
		{
			"multiline unit ends at boundary",
			"warning: unused\nerror: first\n  detail\n\nerror: second\n",
			[]string{"error: first\n  detail", "error: second\n"},
		},
		{
			"two markers in one partition stay together",
			"error: a\nerror: b\n",
			[]string{"error: a\nerror: b\n"},
		},
		{
			"extra blank lines",
			"error: a\n\n\n\nerror: b",
			[]string{"error: a", "error: b"},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			units := Segment(tc.raw)
			if len(units) != len(tc.want) {
				t.Fatalf("Segment(%q) returned %d units, want %d", tc.raw, len(units), len(tc.want))
			}
			for i, u := range units {
				if u.Text != tc.want[i] {
					t.Fatalf("unit %d = %q, want %q", i, u.Text, tc.want[i])
				}
			}
		})
	}
}

func TestSegmentSeqStopsEarly(t *testing.T) {
	raw := "error: a\n\nerror: b\n\nerror: c\n"
	var got []string
	for u := range SegmentSeq(raw) {
		got = append(got, u.Text)
		if len(got) == 2 {
			break
		}
	}
	if strings.Join(got, "|") != "error: a|error: b" {
		t.Fatalf("early stop yielded %q", got)
	}
	// restartable: a second pass sees everything again
	if n := len(Segment(raw)); n != 3 {
		t.Fatalf("second pass returned %d units, want 3", n)
	}
}
