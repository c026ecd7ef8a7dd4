package diag

import (
	"fmt"
	"strings"
)

// Category is the violation class assigned to a diagnostic unit.
type Category uint8

const (
	// Unclassified means no known signature matched.
	Unclassified Category = iota
	// RawPointerUsage covers invalid raw pointer dereferences.
	RawPointerUsage
	// MemoryFree covers leaks and double frees.
	MemoryFree
)

// Categories lists every category in banner order.
func Categories() []Category {
	return []Category{RawPointerUsage, MemoryFree, Unclassified}
}

func (c Category) String() string {
	switch c {
	case RawPointerUsage:
		return "raw-pointer-usage"
	case MemoryFree:
		return "memory-free"
	case Unclassified:
		return "unclassified"
	}
	return "unknown"
}

// Title returns the short human-readable category name.
func (c Category) Title() string {
	switch c {
	case RawPointerUsage:
		return "Raw Pointer Usage Error"
	case MemoryFree:
		return "Memory Free Error"
	case Unclassified:
		return "Unknown Rule Error"
	}
	return "Unknown Rule Error"
}

// Banner returns the fixed report header for the category.
func (c Category) Banner() string {
	switch c {
	case RawPointerUsage:
		return "[Raw Pointer Usage Error][Invalid usage of raw pointer]"
	case MemoryFree:
		return "[Memory Free Error][Error with memory deallocation]"
	case Unclassified:
		return "[Unknown Rule Error]"
	}
	return "[Unknown Rule Error]"
}

// ParseCategory accepts the String form as well as a few spellings used in
// configuration files.
func ParseCategory(s string) (Category, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "raw-pointer-usage", "raw_pointer_usage", "rawpointerusage", "raw-pointer":
		return RawPointerUsage, nil
	case "memory-free", "memory_free", "memoryfree":
		return MemoryFree, nil
	case "unclassified", "unknown":
		return Unclassified, nil
	default:
		return Unclassified, fmt.Errorf("unknown category %q (expected raw-pointer-usage|memory-free|unclassified)", s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (c Category) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Category) UnmarshalText(b []byte) error {
	parsed, err := ParseCategory(string(b))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
