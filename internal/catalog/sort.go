package catalog

import (
	"bytes"
	"fmt"
	"os"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
)

var sortOptions = &pretty.Options{
	Width:    80,
	Prefix:   "",
	Indent:   "  ",
	SortKeys: true,
}

// SortJSON reorders object keys at every depth, keeping nesting, arrays and
// values as they are.
func SortJSON(data []byte) ([]byte, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: invalid JSON", ErrMalformed)
	}
	out := pretty.PrettyOptions(data, sortOptions)
	return append(bytes.TrimRight(out, "\n"), '\n'), nil
}

// SortFile rewrites a JSON file with sorted keys. It reports whether the file
// changed; an already sorted file is left untouched.
func SortFile(path string) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return false, fmt.Errorf("read %s: %w", path, err)
	}
	sorted, err := SortJSON(data)
	if err != nil {
		return false, fmt.Errorf("sort %s: %w", path, err)
	}
	return writeIfChanged(path, sorted)
}
