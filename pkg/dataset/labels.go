package dataset

import (
	"strconv"
	"strings"
)

// A YOLO label line has a class index and 4 box coordinates. Segmentation polygons have more.
const MinLabelFields = 5

// RemapLine rewrites the class index at the start of a label line.
// Returns false if the line is malformed (fewer than MinLabelFields fields, or a non-integer
// class), in which case the line must be dropped.
// Class indices that are not in remap are kept as-is.
func RemapLine(line string, remap map[int]int) (string, bool) {
	fields := strings.Fields(line)
	if len(fields) < MinLabelFields {
		return "", false
	}
	classID, err := strconv.Atoi(fields[0])
	if err != nil {
		return "", false
	}
	if newID, ok := remap[classID]; ok {
		classID = newID
	}
	fields[0] = strconv.Itoa(classID)
	return strings.Join(fields, " "), true
}

// Remap all lines of a label file. Returns the surviving lines, and the number dropped.
func RemapLines(lines []string, remap map[int]int) ([]string, int) {
	out := make([]string, 0, len(lines))
	dropped := 0
	for _, line := range lines {
		if s, ok := RemapLine(line, remap); ok {
			out = append(out, s)
		} else {
			dropped++
		}
	}
	return out, dropped
}
