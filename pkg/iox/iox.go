package iox

import (
	"errors"
	"io"
	"os"
	"strings"
)

func WriteStreamToFile(dstFilename string, src io.Reader) error {
	dstFile, err := os.Create(dstFilename)
	if err != nil {
		return err
	}
	defer dstFile.Close()
	_, err = io.Copy(dstFile, src)
	if err != nil {
		os.Remove(dstFilename)
		return err
	}
	return dstFile.Close()
}

// Copy a file, preserving its permission bits and modification time
func CopyFile(dstFilename, srcFilename string) error {
	src, err := os.Open(srcFilename)
	if err != nil {
		return err
	}
	defer src.Close()
	st, err := src.Stat()
	if err != nil {
		return err
	}
	if err := WriteStreamToFile(dstFilename, src); err != nil {
		return err
	}
	if err := os.Chmod(dstFilename, st.Mode().Perm()); err != nil {
		return err
	}
	return os.Chtimes(dstFilename, st.ModTime(), st.ModTime())
}

// Returns true if the path exists (file or directory)
func Exists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, err
}

func IsDir(path string) bool {
	st, err := os.Stat(path)
	return err == nil && st.IsDir()
}

// Write lines to a file, each terminated by '\n'.
// If appendToFile is true, the lines are added to the end of an existing file.
func WriteLines(filename string, lines []string, appendToFile bool) error {
	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if appendToFile {
		flags = os.O_WRONLY | os.O_CREATE | os.O_APPEND
	}
	f, err := os.OpenFile(filename, flags, 0644)
	if err != nil {
		return err
	}
	defer f.Close()
	var b strings.Builder
	for _, line := range lines {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	if _, err := io.WriteString(f, b.String()); err != nil {
		return err
	}
	return f.Close()
}

// Read a text file into lines, without line terminators
func ReadLines(filename string) ([]string, error) {
	raw, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	text := strings.ReplaceAll(string(raw), "\r\n", "\n")
	text = strings.TrimSuffix(text, "\n")
	if text == "" {
		return []string{}, nil
	}
	return strings.Split(text, "\n"), nil
}
