package utils

import (
	"encoding/json"
	"fmt"
	"strings"
)

// MemReport is a hierarchical size report for a serialized or in-memory
// structure. The serializer emits one node per field so that the on-disk
// layout of an index can be inspected without deserializing it.
type MemReport struct {
	Name       string      `json:"name"`
	TotalBytes int         `json:"total_bytes"`
	Children   []MemReport `json:"children,omitempty"`
}

// Node builds a report node whose total is the sum of its children.
func Node(name string, children ...MemReport) MemReport {
	r := MemReport{Name: name, Children: children}
	for _, c := range children {
		r.TotalBytes += c.TotalBytes
	}
	return r
}

// Leaf builds a childless report node.
func Leaf(name string, bytes int) MemReport {
	return MemReport{Name: name, TotalBytes: bytes}
}

// String renders the report as an indented tree. Every line carries the
// node's byte count and its share of the whole report, so the dominant
// fields of an index file stand out at a glance:
//
//	tfm_index        1385 B 100.0%
//	  L               872 B  63.0%
//	  dout            201 B  14.5%
//	  ...
func (r MemReport) String() string {
	width := r.nameWidth(0)
	var sb strings.Builder
	r.render(&sb, 0, width, r.TotalBytes)
	return sb.String()
}

func (r MemReport) nameWidth(depth int) int {
	w := 2*depth + len(r.Name)
	for _, c := range r.Children {
		if cw := c.nameWidth(depth + 1); cw > w {
			w = cw
		}
	}
	return w
}

func (r MemReport) render(sb *strings.Builder, depth, width, rootBytes int) {
	share := 100.0
	if rootBytes > 0 {
		share = 100 * float64(r.TotalBytes) / float64(rootBytes)
	}
	indented := strings.Repeat("  ", depth) + r.Name
	fmt.Fprintf(sb, "%-*s %7d B %5.1f%%\n", width, indented, r.TotalBytes, share)
	for _, c := range r.Children {
		c.render(sb, depth+1, width, rootBytes)
	}
}

// JSON renders the report for machine consumption.
func (r MemReport) JSON() (string, error) {
	b, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", err
	}
	return string(b), nil
}
