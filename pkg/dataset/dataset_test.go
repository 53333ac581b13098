package dataset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUnifyClasses(t *testing.T) {
	unified := UnifyClasses([][]string{{"milk", "dark"}, nil, {"milk", "white"}, {"Milk"}})
	require.Equal(t, []string{"Milk", "dark", "milk", "white"}, unified)
	require.Equal(t, []string{}, UnifyClasses(nil))
}

func TestReadClassList(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "classes.txt")
	require.NoError(t, os.WriteFile(fn, []byte(" dark \r\n\nmilk\n\n"), 0644))
	classes, err := ReadClassList(fn)
	require.NoError(t, err)
	require.Equal(t, []string{"dark", "", "milk", ""}, classes)

	unified := UnifyClasses([][]string{classes})
	require.Equal(t, []string{"dark", "milk"}, unified)
	require.Equal(t, map[int]int{0: 0, 2: 1}, BuildRemap(classes, NewClassMapping(unified)))
}

func TestRemapChocolate(t *testing.T) {
	unified := UnifyClasses([][]string{{"dark", "milk"}, {"milk", "white"}})
	require.Equal(t, []string{"dark", "milk", "white"}, unified)

	mapping := NewClassMapping(unified)
	require.Equal(t, ClassMapping{"dark": 0, "milk": 1, "white": 2}, mapping)

	require.Equal(t, map[int]int{0: 0, 1: 1}, BuildRemap([]string{"dark", "milk"}, mapping))
	second := BuildRemap([]string{"milk", "white"}, mapping)
	require.Equal(t, map[int]int{0: 1, 1: 2}, second)

	line, ok := RemapLine("0 0.5 0.5 0.25 0.25", second)
	require.True(t, ok)
	require.Equal(t, "1 0.5 0.5 0.25 0.25", line)
}

func TestRemapLine(t *testing.T) {
	remap := map[int]int{0: 3, 1: 0}

	line, ok := RemapLine("1 0.1 0.2 0.3 0.4", remap)
	require.True(t, ok)
	require.Equal(t, "0 0.1 0.2 0.3 0.4", line)

	// Whitespace is normalized
	line, ok = RemapLine("  0\t0.1  0.2 0.3 0.4\r", remap)
	require.True(t, ok)
	require.Equal(t, "3 0.1 0.2 0.3 0.4", line)

	// Unmapped classes pass through
	line, ok = RemapLine("7 0.1 0.2 0.3 0.4", remap)
	require.True(t, ok)
	require.Equal(t, "7 0.1 0.2 0.3 0.4", line)

	// Polygons have more than 5 fields
	line, ok = RemapLine("1 0.1 0.2 0.3 0.4 0.5 0.6", remap)
	require.True(t, ok)
	require.Equal(t, "0 0.1 0.2 0.3 0.4 0.5 0.6", line)

	for _, bad := range []string{"", "   ", "0 0.1 0.2 0.3", "x 0.1 0.2 0.3 0.4", "1.5 0.1 0.2 0.3 0.4"} {
		_, ok = RemapLine(bad, remap)
		require.False(t, ok, "%q", bad)
	}
}

func TestRemapLines(t *testing.T) {
	lines, dropped := RemapLines([]string{"0 1 1 1 1", "0 1 1 1", "", "1 2 2 2 2"}, map[int]int{0: 1, 1: 0})
	require.Equal(t, []string{"1 1 1 1 1", "0 2 2 2 2"}, lines)
	require.Equal(t, 2, dropped)
}
