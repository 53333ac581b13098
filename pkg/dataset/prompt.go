package dataset

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/cyclopcam/yolotools/pkg/iox"
)

// ErrNoOutputDir is returned when input ends before an output directory is given
var ErrNoOutputDir = errors.New("No output directory provided")

// Prompter asks the user for directories on a line-based terminal
type Prompter struct {
	in  *bufio.Reader
	out io.Writer
}

func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{
		in:  bufio.NewReader(in),
		out: out,
	}
}

// Remove surrounding quotes, which appear when paths are pasted or dragged into a terminal
func CleanPath(s string) string {
	return strings.Trim(s, `"'`)
}

// Read one line, without the line terminator. Returns io.EOF only if nothing was read.
func (p *Prompter) readLine() (string, error) {
	line, err := p.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// Ask for export directories until the user enters an empty line (or input ends).
// Paths that are not directories are reported and not included.
func (p *Prompter) ExportDirs() ([]string, error) {
	dirs := []string{}
	for {
		fmt.Fprint(p.out, "Enter a Label Studio YOLO export directory (or press Enter to finish): ")
		line, err := p.readLine()
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(p.out)
			return dirs, nil
		} else if err != nil {
			return nil, err
		}
		if line == "" {
			return dirs, nil
		}
		dir := CleanPath(line)
		if iox.IsDir(dir) {
			dirs = append(dirs, dir)
		} else {
			fmt.Fprintf(p.out, "Directory not found: %v\n", dir)
		}
	}
}

// Ask for the output directory
func (p *Prompter) OutputDir() (string, error) {
	fmt.Fprint(p.out, "Enter the output directory: ")
	line, err := p.readLine()
	if errors.Is(err, io.EOF) {
		return "", ErrNoOutputDir
	} else if err != nil {
		return "", err
	}
	dir := CleanPath(line)
	if dir == "" {
		return "", ErrNoOutputDir
	}
	return dir, nil
}
