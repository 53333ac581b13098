// Package dataset merges YOLO-format labeled image exports (such as those produced by Label Studio)
// into a single dataset with one unified class list.
//
// An export directory looks like this:
//
//	classes.txt       one class name per line; line N is class index N
//	images/x.jpg
//	labels/x.txt      one object per line: "class cx cy w h" (normalized coordinates)
package dataset

import (
	"sort"
	"strings"

	"github.com/cyclopcam/yolotools/pkg/iox"
)

// ClassMapping maps a class name to its index in the unified class list
type ClassMapping map[string]int

// Read a classes.txt file. Names are trimmed, and line positions are preserved,
// so a blank line becomes "" (no class at that index) and later classes keep their index.
func ReadClassList(filename string) ([]string, error) {
	lines, err := iox.ReadLines(filename)
	if err != nil {
		return nil, err
	}
	for i := range lines {
		lines[i] = strings.TrimSpace(lines[i])
	}
	return lines, nil
}

// UnifyClasses returns the union of all class lists, deduplicated by exact
// string match and sorted lexicographically. Empty names are skipped.
func UnifyClasses(lists [][]string) []string {
	seen := map[string]bool{}
	all := []string{}
	for _, list := range lists {
		for _, cls := range list {
			if cls != "" && !seen[cls] {
				seen[cls] = true
				all = append(all, cls)
			}
		}
	}
	sort.Strings(all)
	return all
}

// Assign dense indices 0..N-1 to the unified (sorted) class list
func NewClassMapping(unified []string) ClassMapping {
	m := ClassMapping{}
	for i, cls := range unified {
		m[cls] = i
	}
	return m
}

// BuildRemap maps the class indices of one export (its own classes.txt) to unified indices.
// Local classes missing from the mapping are left out, so their indices pass through unchanged.
func BuildRemap(local []string, mapping ClassMapping) map[int]int {
	remap := map[int]int{}
	for i, cls := range local {
		if cls == "" {
			continue
		}
		if global, ok := mapping[cls]; ok {
			remap[i] = global
		}
	}
	return remap
}
