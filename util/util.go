// Package util holds small helpers used throughout tests.
package util

import (
	"errors"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode"

	jsoniter "github.com/json-iterator/go"
)

// ProjectDir returns the nearest ancestor of the working directory, itself
// included, that contains a go.mod file.
func ProjectDir() (string, error) {
	wd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return projectDirFrom(wd)
}

func projectDirFrom(dir string) (string, error) {
	for d := dir; ; {
		if _, err := os.Stat(filepath.Join(d, "go.mod")); err == nil {
			return d, nil
		}
		parent := filepath.Dir(d)
		if parent == d {
			return "", fmt.Errorf("no go.mod found above %q", dir)
		}
		d = parent
	}
}

// MakeRelative returns the path of file relative to root, using forward
// slashes. Both paths must be absolute.
func MakeRelative(file, root string) (string, error) {
	if !filepath.IsAbs(file) || !filepath.IsAbs(root) {
		return "", fmt.Errorf("paths must be absolute, got %q and %q", file, root)
	}
	rel, err := filepath.Rel(root, file)
	if err != nil {
		return "", err
	}
	return filepath.ToSlash(rel), nil
}

// RandomNum returns a string of length random decimal digits. It is empty
// when length is not positive.
func RandomNum(length int) string {
	if length <= 0 {
		return ""
	}
	const digits = "0123456789"
	b := make([]byte, length)
	for i := range b {
		b[i] = digits[rand.Intn(len(digits))]
	}
	return string(b)
}

// GetNumFromString parses the digits found in txt, in order, as a number.
// "Total: 1,024 items" yields 1024.
func GetNumFromString(txt string) (int, error) {
	digits := strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, txt)
	if digits == "" {
		return 0, errors.New("no digits in " + strconv.Quote(txt))
	}
	return strconv.Atoi(digits)
}

// JSONFileToMap decodes the JSON object stored at path.
func JSONFileToMap(path string) (map[string]interface{}, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	m := make(map[string]interface{})
	if err := jsoniter.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("error decoding %q: %w", path, err)
	}
	return m, nil
}
