package body

import (
	"fmt"
	"strings"
)

// Size is a creature size class.
type Size int

const (
	Tiny Size = iota
	Small
	Medium
	Large
	Huge
)

var sizeNames = map[string]Size{
	"TINY":   Tiny,
	"SMALL":  Small,
	"MEDIUM": Medium,
	"LARGE":  Large,
	"HUGE":   Huge,
}

// ParseSize resolves a size name, case-insensitively.
func ParseSize(name string) (Size, error) {
	s, ok := sizeNames[strings.ToUpper(strings.TrimSpace(name))]
	if !ok {
		return Medium, fmt.Errorf("body: unknown size %q", name)
	}
	return s, nil
}

// String returns the upper-case size name.
func (s Size) String() string {
	for name, v := range sizeNames {
		if v == s {
			return name
		}
	}
	return fmt.Sprintf("size(%d)", int(s))
}

// UnmarshalText lets sizes be read from YAML scalars.
func (s *Size) UnmarshalText(text []byte) error {
	v, err := ParseSize(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}
