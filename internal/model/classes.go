package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"
)

// UnknownClass is returned by ClassIndex.Lookup for indices it does not know.
const UnknownClass = "Unknown"

// ClassIndex maps output indices of the model to class identifiers.
type ClassIndex struct {
	names map[int]string
}

// NewClassIndex builds an index where names[i] is the class for output i.
func NewClassIndex(names []string) *ClassIndex {
	m := make(map[int]string, len(names))
	for i, n := range names {
		m[i] = n
	}
	return &ClassIndex{names: m}
}

// LoadClassIndex reads a class index file. See ParseClassIndex for formats.
func LoadClassIndex(path string) (*ClassIndex, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read class index: %w", err)
	}
	return ParseClassIndex(data)
}

// ParseClassIndex accepts either a JSON array of class names or an object
// keyed by the decimal index ({"0": "Apple___Apple_scab", ...}).
func ParseClassIndex(data []byte) (*ClassIndex, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, fmt.Errorf("class index is empty")
	}

	if data[0] == '[' {
		var names []string
		if err := json.Unmarshal(data, &names); err != nil {
			return nil, fmt.Errorf("failed to parse class index: %w", err)
		}
		return NewClassIndex(names), nil
	}

	var raw map[string]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse class index: %w", err)
	}
	m := make(map[int]string, len(raw))
	for k, v := range raw {
		i, err := strconv.Atoi(k)
		if err != nil || i < 0 {
			return nil, fmt.Errorf("class index: invalid key %q", k)
		}
		m[i] = v
	}
	return &ClassIndex{names: m}, nil
}

// Lookup returns the class identifier for output index i, or UnknownClass.
func (c *ClassIndex) Lookup(i int) string {
	if c == nil {
		return UnknownClass
	}
	if n, ok := c.names[i]; ok {
		return n
	}
	return UnknownClass
}

// Indices returns the known output indices in ascending order.
func (c *ClassIndex) Indices() []int {
	if c == nil {
		return nil
	}
	out := make([]int, 0, len(c.names))
	for i := range c.names {
		out = append(out, i)
	}
	sort.Ints(out)
	return out
}

// Len is the number of known classes.
func (c *ClassIndex) Len() int {
	if c == nil {
		return 0
	}
	return len(c.names)
}
